package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// UserSeenQuestionsKey returns the Redis set key tracking every question id
// already served to a user.
func (r *CacheKeyStruct) UserSeenQuestionsKey(userID string) string {
	return fmt.Sprintf("user:%s:seen_questions", userID)
}

// QuestionStatsKey returns the cache key for the aggregate question bank stats.
func (r *CacheKeyStruct) QuestionStatsKey() string {
	return "question_bank:stats"
}

var CacheKey = NewCacheKeyStruct()
