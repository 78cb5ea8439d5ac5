// Package goals extracts a goal list from structured result text.
package goals

import (
	"strings"
	"unicode"

	"github.com/xiaot623/callbuddy/internal/domain"
)

// Parse splits a structured result into individual goals. Numbering such as
// "1." or "2)" and checkbox prefixes are stripped, blank lines are dropped and
// duplicates removed while keeping first-seen order.
func Parse(result domain.StructuredResult) []string {
	var goals []string
	seen := make(map[string]struct{})

	for _, line := range strings.Split(string(result), "\n") {
		goal := clean(line)
		if goal == "" {
			continue
		}
		if _, ok := seen[goal]; ok {
			continue
		}
		seen[goal] = struct{}{}
		goals = append(goals, goal)
	}
	return goals
}

func clean(line string) string {
	s := strings.TrimSpace(line)
	if s == "" {
		return ""
	}

	if unicode.IsDigit(rune(s[0])) {
		if head, rest, ok := strings.Cut(s, " "); ok {
			num := strings.TrimRight(head, ").")
			if num != "" && num != head && isDigits(num) {
				return strings.TrimSpace(rest)
			}
		}
	}

	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "[ ]") || strings.HasPrefix(lower, "[x]") {
		return strings.TrimSpace(s[3:])
	}
	for _, bullet := range []string{"- ", "* "} {
		if strings.HasPrefix(s, bullet) {
			return strings.TrimSpace(s[len(bullet):])
		}
	}
	return s
}

func isDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
