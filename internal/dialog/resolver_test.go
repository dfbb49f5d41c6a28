package dialog

import (
	"testing"

	"github.com/audiora/lectern/internal/content"
)

func TestResolveCategory(t *testing.T) {
	t.Parallel()
	tests := []struct {
		raw  string
		want content.Category
	}{
		// Every alias in the fixed table.
		{"courses", content.CategoryCourse},
		{"course", content.CategoryCourse},
		{"videos", content.CategoryVideo},
		{"video", content.CategoryVideo},
		{"learning paths", content.CategoryLearningPath},
		{"learning path", content.CategoryLearningPath},
		{"paths", content.CategoryLearningPath},
		{"path", content.CategoryLearningPath},

		// Case and punctuation are normalized away.
		{"Videos", content.CategoryVideo},
		{"LEARNING PATHS", content.CategoryLearningPath},
		{"learning. paths.", content.CategoryLearningPath},

		// Absent slot defaults to COURSE.
		{"", content.CategoryCourse},

		// Unmatched phrases fall back to COURSE rather than re-asking.
		{"podcasts", content.CategoryCourse},
		{"d. v. d.s", content.CategoryCourse},
		{"something else entirely", content.CategoryCourse},
	}
	for _, tt := range tests {
		if got := ResolveCategory(tt.raw); got != tt.want {
			t.Errorf("ResolveCategory(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestNormalizeSpoken(t *testing.T) {
	t.Parallel()
	tests := []struct {
		raw  string
		want string
	}{
		{"Learning Paths", "learningpaths"},
		{"d. v. d.s", "dvds"},
		{"three d", "3d"},
		{"Courses.", "courses"},
	}
	for _, tt := range tests {
		if got := normalizeSpoken(tt.raw); got != tt.want {
			t.Errorf("normalizeSpoken(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestDisplayLabel(t *testing.T) {
	t.Parallel()
	tests := []struct {
		raw  string
		want string
	}{
		{"", "courses"},
		{"videos", "videos"},
		{"learning paths", "learning paths"},
		{"d. v. d.s", "dvds"},
	}
	for _, tt := range tests {
		if got := displayLabel(tt.raw); got != tt.want {
			t.Errorf("displayLabel(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}
