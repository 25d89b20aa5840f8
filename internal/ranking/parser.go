package ranking

import (
	"regexp"
	"strings"
	"unicode"
)

// Entry is one numbered item parsed from a model response.
type Entry struct {
	Name        string
	Explanation string
}

type scanState int

const (
	awaitingEntry scanState = iota
	accumulatingExplanation
)

var (
	numberingPattern = regexp.MustCompile(`^\d+\.\s*`)
	bulletPattern    = regexp.MustCompile(`^\s*[-*]\s*`)
	labelPattern     = regexp.MustCompile(`(?i)^\**\s*explanation\s*:\s*\**\s*`)
)

// ParseResponse scans a free-text model response into numbered entries.
//
// A line whose first character is a digit starts a new entry; its numbering and any
// emphasis markers are removed to leave the name. Other non-blank lines, stripped of a
// leading bullet and an "Explanation:" label, are appended to the current entry's
// explanation separated by spaces. Lines before the first entry are ignored.
func ParseResponse(text string) []Entry {
	var (
		entries []Entry
		parts   []string
		state   = awaitingEntry
	)

	flush := func() {
		if state == accumulatingExplanation {
			entries[len(entries)-1].Explanation = strings.Join(parts, " ")
		}
		parts = parts[:0]
	}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if startsWithDigit(line) {
			flush()
			entries = append(entries, Entry{Name: cleanName(line)})
			state = accumulatingExplanation
			continue
		}

		if state == awaitingEntry {
			continue
		}
		if cleaned := cleanExplanation(line); cleaned != "" {
			parts = append(parts, cleaned)
		}
	}
	flush()

	return entries
}

func startsWithDigit(line string) bool {
	for _, r := range line {
		return unicode.IsDigit(r)
	}
	return false
}

// cleanName strips "N." numbering and every '*' from a numbered line.
func cleanName(line string) string {
	name := numberingPattern.ReplaceAllString(line, "")
	name = strings.ReplaceAll(name, "*", "")
	return strings.TrimSpace(name)
}

func cleanExplanation(line string) string {
	line = bulletPattern.ReplaceAllString(line, "")
	line = labelPattern.ReplaceAllString(line, "")
	return strings.TrimSpace(line)
}
