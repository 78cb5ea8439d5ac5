package goals

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiaot623/callbuddy/internal/domain"
)

func artifactFrom(t *testing.T, outputs string) *domain.Artifact {
	t.Helper()
	var artifact domain.Artifact
	require.NoError(t, json.Unmarshal([]byte(`{"structuredOutputs":`+outputs+`}`), &artifact))
	return &artifact
}

func TestParseReview(t *testing.T) {
	goals := []string{"Walk the dog", "Write report", "Call mom"}

	tests := []struct {
		name        string
		outputs     string
		completed   []bool
		reflections string
	}{
		{
			name:      "no outputs",
			outputs:   `{}`,
			completed: []bool{false, false, false},
		},
		{
			name:        "result text lines",
			outputs:     `{"o1":{"name":"Evening Review","result":"Completed: walk the dog\n[x] Call mom\nReflection: tired but happy"}}`,
			completed:   []bool{true, false, true},
			reflections: "tired but happy",
		},
		{
			name:      "incomplete is not done",
			outputs:   `{"o1":{"result":"Write report - incomplete\nWalk the dog: not completed"}}`,
			completed: []bool{false, false, false},
		},
		{
			name:        "goal items",
			outputs:     `{"o1":{"result":[{"goal":"write report","completed":true},{"goal":"Call mom","completed":false},{"reflections":" Good focus today "}]}}`,
			completed:   []bool{false, true, false},
			reflections: "Good focus today",
		},
		{
			name:        "nested goals list",
			outputs:     `{"o1":{"result":{"goals":[{"goal":"Walk","completed":"yes"}],"reflection":"ok"}}}`,
			completed:   []bool{true, false, false},
			reflections: "ok",
		},
		{
			name:        "string items",
			outputs:     `{"o1":{"result":["Call mom: complete","Reflections - slept early"]}}`,
			completed:   []bool{false, false, true},
			reflections: "Reflections - slept early",
		},
		{
			name:        "first reflection wins in platform order",
			outputs:     `{"b":{"result":"Reflection: first"},"a":{"result":"Reflection: second"}}`,
			completed:   []bool{false, false, false},
			reflections: "first",
		},
		{
			name:      "empty goal text marks nothing",
			outputs:   `{"o1":{"result":[{"goal":"","completed":true}]}}`,
			completed: []bool{false, false, false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			review := ParseReview(artifactFrom(t, tt.outputs), goals)
			if diff := cmp.Diff(tt.completed, review.Completed); diff != "" {
				t.Fatalf("completed mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, tt.reflections, review.Reflections)
		})
	}
}

func TestParseReviewNilArtifact(t *testing.T) {
	review := ParseReview(nil, []string{"a", "b"})
	assert.Equal(t, []bool{false, false}, review.Completed)
	assert.Zero(t, review.CompletedCount())
}

func TestReviewCompletedCount(t *testing.T) {
	assert.Equal(t, 2, Review{Completed: []bool{true, false, true}}.CompletedCount())
}
