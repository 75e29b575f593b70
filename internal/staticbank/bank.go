// Package staticbank is the bundled last-resort question set. It ships
// inside the binary so the product can still serve known skills when both
// the AI providers and the database are unavailable.
package staticbank

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"

	"github.com/skillforge/skillforge-backend/internal/model"
)

//go:embed data/*.json
var bankFS embed.FS

// bankFile is the on-disk shape: one file per skill, questions grouped by
// canonical level.
type bankFile struct {
	Skill  string                          `json:"skill"`
	Levels map[model.Level][]model.Question `json:"levels"`
}

// Bank is the in-process static question bank, keyed by lowercased skill.
type Bank struct {
	bySkill map[string]map[model.Level][]model.Question
}

// Load parses every embedded bank file. Each question gets a deterministic
// id of the form static_<skill-slug>_<level>_<n>, its skill/level stamped,
// and verified=true (bundled content is implicitly trusted).
func Load() (*Bank, error) {
	bank := &Bank{bySkill: make(map[string]map[model.Level][]model.Question)}

	err := fs.WalkDir(bankFS, "data", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}

		raw, err := bankFS.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		var file bankFile
		if err := json.Unmarshal(raw, &file); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}

		key := strings.ToLower(strings.TrimSpace(file.Skill))
		if key == "" {
			return fmt.Errorf("%s: missing skill name", path)
		}

		levels := make(map[model.Level][]model.Question, len(file.Levels))
		for level, questions := range file.Levels {
			for i := range questions {
				questions[i].ID = StaticID(file.Skill, level, i)
				questions[i].Skill = file.Skill
				questions[i].Level = level
				questions[i].Verified = true
				if questions[i].DifficultyWeight == 0 {
					questions[i].DifficultyWeight = 5
				}
			}
			levels[level] = questions
		}
		bank.bySkill[key] = levels
		return nil
	})
	if err != nil {
		return nil, err
	}

	return bank, nil
}

// StaticID builds the deterministic id for a static bank question.
func StaticID(skill string, level model.Level, index int) string {
	return fmt.Sprintf("static_%s_%s_%d", Slug(skill), strings.ToLower(string(level)), index)
}

// Slug lowercases a skill name and collapses non-alphanumerics to single
// underscores, for use inside question ids.
func Slug(skill string) string {
	var sb strings.Builder
	lastUnderscore := true
	for _, r := range strings.ToLower(skill) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				sb.WriteByte('_')
				lastUnderscore = true
			}
		}
	}
	return strings.TrimSuffix(sb.String(), "_")
}

// Lookup returns the bundled questions for a skill and level. Skill matching
// is case-insensitive. A nil result means the combination has no static
// content, which is a valid terminal outcome for callers.
func (b *Bank) Lookup(skill string, level model.Level) []model.Question {
	levels, ok := b.bySkill[strings.ToLower(strings.TrimSpace(skill))]
	if !ok {
		return nil
	}
	questions := levels[level]
	if len(questions) == 0 {
		return nil
	}

	// Callers shuffle and truncate; hand them their own slice.
	out := make([]model.Question, len(questions))
	copy(out, questions)
	return out
}

// Skills lists every skill with bundled content, for diagnostics.
func (b *Bank) Skills() []string {
	skills := make([]string, 0, len(b.bySkill))
	for skill := range b.bySkill {
		skills = append(skills, skill)
	}
	return skills
}

// All returns every bundled question, used by the seed command.
func (b *Bank) All() []model.Question {
	var all []model.Question
	for _, levels := range b.bySkill {
		for _, questions := range levels {
			all = append(all, questions...)
		}
	}
	return all
}
