// Package dialog implements the turn-based conversation core: intent
// routing, spoken-category normalization, cross-turn result pagination, and
// audio playback resume tracking.
package dialog

import (
	"strings"

	"github.com/audiora/lectern/internal/content"
)

// spokenNameToCategory maps normalized spoken phrases to categories. Keys
// are stored pre-normalized (lower case, no whitespace or periods) so lookup
// and table share one normal form.
var spokenNameToCategory = map[string]content.Category{
	"courses":       content.CategoryCourse,
	"course":        content.CategoryCourse,
	"videos":        content.CategoryVideo,
	"video":         content.CategoryVideo,
	"learningpaths": content.CategoryLearningPath,
	"learningpath":  content.CategoryLearningPath,
	"paths":         content.CategoryLearningPath,
	"path":          content.CategoryLearningPath,
}

// ResolveCategory normalizes a raw category slot value and resolves it to a
// [content.Category]. An empty slot and any unmatched phrase both resolve to
// COURSE rather than re-asking for a category. This function never fails.
func ResolveCategory(raw string) content.Category {
	if raw == "" {
		return content.CategoryCourse
	}
	if cat, ok := spokenNameToCategory[normalizeSpoken(raw)]; ok {
		return cat
	}
	return content.CategoryCourse
}

// normalizeSpoken lowers the phrase, strips whitespace and the periods
// speech recognition inserts into spelled-out words ("d. v. d.s" → "dvds"),
// and corrects the common "three" misrecognition of "3".
func normalizeSpoken(raw string) string {
	s := strings.ToLower(raw)
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '.':
			return -1
		}
		return r
	}, s)
	return strings.ReplaceAll(s, "three", "3")
}

// displayLabel returns the human-readable label spoken back to the user for
// a raw category slot value: periods are stripped but word spacing is kept.
// An empty slot falls back to "courses".
func displayLabel(raw string) string {
	if raw == "" {
		return "courses"
	}
	label := strings.ReplaceAll(raw, ". ", "")
	return strings.ReplaceAll(label, ".", "")
}
