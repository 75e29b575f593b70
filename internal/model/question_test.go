package model

import (
	"encoding/json"
	"testing"
)

func TestNormalizeLevel(t *testing.T) {
	cases := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"BASIC", LevelBasic, false},
		{"basic", LevelBasic, false},
		{"easy", LevelBasic, false},
		{"Beginner", LevelBasic, false},
		{"INTERMEDIATE", LevelIntermediate, false},
		{"medium", LevelIntermediate, false},
		{"advanced", LevelAdvanced, false},
		{"HARD", LevelAdvanced, false},
		{"  hard  ", LevelAdvanced, false},
		{"expert", "", true},
		{"", "", true},
	}
	for _, tc := range cases {
		got, err := NormalizeLevel(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("NormalizeLevel(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("NormalizeLevel(%q): unexpected error %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("NormalizeLevel(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestAnswerSetUnmarshal(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want AnswerSet
	}{
		{"scalar", `"const"`, AnswerSet{"const"}},
		{"array", `["a", "b"]`, AnswerSet{"a", "b"}},
		{"empty array", `[]`, AnswerSet{}},
		{"null", `null`, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got AnswerSet
			if err := json.Unmarshal([]byte(tc.in), &got); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
			for i := range tc.want {
				if got[i] != tc.want[i] {
					t.Fatalf("got %v, want %v", got, tc.want)
				}
			}
		})
	}
}

func TestAnswerSetUnmarshalRejectsOtherShapes(t *testing.T) {
	for _, in := range []string{`42`, `{"a": 1}`, `[1, 2]`} {
		var got AnswerSet
		if err := json.Unmarshal([]byte(in), &got); err == nil {
			t.Errorf("expected error for %s, got %v", in, got)
		}
	}
}
