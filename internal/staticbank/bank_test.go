package staticbank

import (
	"strings"
	"testing"

	"github.com/skillforge/skillforge-backend/internal/model"
	"github.com/skillforge/skillforge-backend/internal/quality"
)

func TestLoadEmbeddedBank(t *testing.T) {
	bank, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, skill := range []string{"html", "javascript", "css", "go", "python", "sql"} {
		if questions := bank.Lookup(skill, model.LevelBasic); len(questions) == 0 {
			t.Errorf("expected bundled basic questions for %s", skill)
		}
	}
}

func TestLoadStampsQuestionMetadata(t *testing.T) {
	bank, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	questions := bank.Lookup("HTML", model.LevelBasic)
	for i, q := range questions {
		if q.ID != StaticID("HTML", model.LevelBasic, i) {
			t.Errorf("question %d: expected deterministic id, got %q", i, q.ID)
		}
		if !strings.HasPrefix(q.ID, "static_html_basic_") {
			t.Errorf("question %d: unexpected id shape %q", i, q.ID)
		}
		if !q.Verified {
			t.Errorf("question %d: bundled content must be verified", i)
		}
		if q.Level != model.LevelBasic {
			t.Errorf("question %d: level not stamped, got %s", i, q.Level)
		}
		if q.DifficultyWeight < 1 || q.DifficultyWeight > 10 {
			t.Errorf("question %d: weight out of range: %d", i, q.DifficultyWeight)
		}
	}
}

func TestBundledContentPassesQualityGate(t *testing.T) {
	bank, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	v := quality.NewValidator()
	for _, q := range bank.All() {
		q := q
		if result := v.Validate(&q); !result.Valid {
			t.Errorf("bundled question %s fails validation: %v", q.ID, result.Issues)
		}
	}
}

func TestLookupIsCaseInsensitive(t *testing.T) {
	bank, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lower := bank.Lookup("javascript", model.LevelIntermediate)
	upper := bank.Lookup("JavaScript", model.LevelIntermediate)
	if len(lower) == 0 || len(lower) != len(upper) {
		t.Fatalf("case variants must resolve identically, got %d and %d", len(lower), len(upper))
	}
}

func TestLookupUnknownCombination(t *testing.T) {
	bank, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if questions := bank.Lookup("cobol", model.LevelBasic); questions != nil {
		t.Fatalf("expected nil for unknown skill, got %d questions", len(questions))
	}
}

func TestLookupReturnsACopy(t *testing.T) {
	bank, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first := bank.Lookup("go", model.LevelBasic)
	first[0].QuestionText = "mutated"

	second := bank.Lookup("go", model.LevelBasic)
	if second[0].QuestionText == "mutated" {
		t.Fatal("Lookup must not expose internal state to callers")
	}
}

func TestSlug(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Go", "go"},
		{"Node.js", "node_js"},
		{"C++", "c"},
		{"Machine Learning", "machine_learning"},
		{"  HTML5  ", "html5"},
	}
	for _, tc := range cases {
		if got := Slug(tc.in); got != tc.want {
			t.Errorf("Slug(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
