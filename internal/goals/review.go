package goals

import (
	"encoding/json"
	"strings"

	"github.com/xiaot623/callbuddy/internal/domain"
)

// Review is what an evening call reported about the morning goals.
type Review struct {
	// Completed is parallel to the goals the review was parsed against.
	Completed   []bool
	Reflections string
}

// CompletedCount returns the number of goals marked done.
func (r Review) CompletedCount() int {
	n := 0
	for _, done := range r.Completed {
		if done {
			n++
		}
	}
	return n
}

// ParseReview reads completion flags and reflections for goals out of an
// evening call's structured outputs. Outputs are visited in platform order.
//
// A goal is marked done when an output mentions it on a line reporting
// completion ("complete" or "[x]"), or names it in a {"goal", "completed"}
// item. The first line mentioning a reflection becomes the reflections text.
// Goals are matched case-insensitively when either text contains the other.
func ParseReview(artifact *domain.Artifact, goals []string) Review {
	r := &reviewParser{
		goals:  goals,
		review: Review{Completed: make([]bool, len(goals))},
	}
	if artifact == nil {
		return r.review
	}
	for _, key := range artifact.Keys() {
		var v interface{}
		if err := json.Unmarshal(artifact.StructuredOutputs[key].Result, &v); err != nil {
			continue
		}
		r.value(v)
	}
	return r.review
}

type reviewParser struct {
	goals  []string
	review Review
}

func (r *reviewParser) value(v interface{}) {
	switch val := v.(type) {
	case string:
		for _, line := range strings.Split(val, "\n") {
			r.line(line)
		}
	case map[string]interface{}:
		r.item(val)
	case []interface{}:
		for _, elem := range val {
			switch e := elem.(type) {
			case string:
				r.line(e)
			case map[string]interface{}:
				r.item(e)
			}
		}
	}
}

func (r *reviewParser) item(m map[string]interface{}) {
	if goal, ok := m["goal"].(string); ok && truthy(m["completed"]) {
		r.mark(goal)
	}
	for _, key := range []string{"reflections", "reflection"} {
		if text, ok := m[key].(string); ok {
			r.reflect(text)
		}
	}
	if nested, ok := m["goals"].([]interface{}); ok {
		r.value(nested)
	}
}

func (r *reviewParser) line(line string) {
	lower := strings.ToLower(line)
	if strings.Contains(lower, "reflection") && r.review.Reflections == "" {
		if _, rest, ok := strings.Cut(line, ":"); ok {
			r.reflect(rest)
		} else {
			r.reflect(line)
		}
		return
	}
	if reportsDone(lower) {
		r.mark(line)
	}
}

func (r *reviewParser) reflect(text string) {
	if r.review.Reflections == "" {
		r.review.Reflections = strings.TrimSpace(text)
	}
}

func (r *reviewParser) mark(text string) {
	t := strings.ToLower(strings.TrimSpace(text))
	if t == "" {
		return
	}
	for i, goal := range r.goals {
		g := strings.ToLower(strings.TrimSpace(goal))
		if g == "" {
			continue
		}
		if strings.Contains(t, g) || strings.Contains(g, t) {
			r.review.Completed[i] = true
		}
	}
}

func reportsDone(lower string) bool {
	if strings.Contains(lower, "[x]") {
		return true
	}
	if strings.Contains(lower, "incomplete") || strings.Contains(lower, "not complete") {
		return false
	}
	return strings.Contains(lower, "complete")
}

func truthy(v interface{}) bool {
	switch val := v.(type) {
	case bool:
		return val
	case float64:
		return val != 0
	case string:
		s := strings.ToLower(strings.TrimSpace(val))
		return s == "true" || s == "yes" || s == "done"
	}
	return false
}
