package config

type WorkerKeyStruct struct {
	PersistQuestionsQueue string
	UsageCountsQueue      string
}

var WorkerKey = &WorkerKeyStruct{
	PersistQuestionsQueue: "persist_questions_queue",
	UsageCountsQueue:      "usage_counts_queue",
}
