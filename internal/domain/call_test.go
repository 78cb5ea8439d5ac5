package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArtifactStructuredResult(t *testing.T) {
	tests := []struct {
		name string
		json string
		want StructuredResult
	}{
		{"no artifact", `{"id":"c1","status":"ended"}`, ""},
		{"empty outputs", `{"id":"c1","artifact":{"structuredOutputs":{}}}`, ""},
		{"single string", `{"artifact":{"structuredOutputs":{"a":{"name":"goals","result":"1. Walk\n2. Read"}}}}`, "1. Walk\n2. Read"},
		{"platform order", `{"artifact":{"structuredOutputs":{"b":{"result":"first"},"a":{"result":"second"}}}}`, "first\nsecond"},
		{"skips empty and null", `{"artifact":{"structuredOutputs":{"a":{"result":""},"b":{"result":null},"c":{"result":"  x  "}}}}`, "x"},
		{"non-string result", `{"artifact":{"structuredOutputs":{"a":{"result":{"goals": ["Walk", "Read"]}}}}}`, `{"goals":["Walk","Read"]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var call Call
			require.NoError(t, json.Unmarshal([]byte(tt.json), &call))
			assert.Equal(t, tt.want, call.StructuredResult())
		})
	}
}

func TestStructuredResultIsDeterministic(t *testing.T) {
	artifact := &Artifact{StructuredOutputs: map[string]StructuredOutput{}}
	for _, k := range []string{"k3", "k1", "k2", "k5", "k4"} {
		raw, _ := json.Marshal(k)
		artifact.StructuredOutputs[k] = StructuredOutput{Result: raw}
	}
	first := artifact.StructuredResult()
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, artifact.StructuredResult())
	}
	assert.Equal(t, StructuredResult("k1\nk2\nk3\nk4\nk5"), first)
}

func TestArtifactKeysFollowPlatformOrder(t *testing.T) {
	var call Call
	body := `{"artifact":{"structuredOutputs":{"zeta":{"result":"z"},"alpha":{"result":"a"},"mid":{"result":{"n":1}},"zeta":{"result":"z2"}}}}`
	require.NoError(t, json.Unmarshal([]byte(body), &call))

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, call.Artifact.Keys())
	assert.Equal(t, StructuredResult("z2\na\n{\"n\":1}"), call.StructuredResult())

	for i := 0; i < 20; i++ {
		assert.Equal(t, []string{"zeta", "alpha", "mid"}, call.Artifact.Keys())
	}
}

func TestArtifactKeysAppendsUnorderedKeysSorted(t *testing.T) {
	var artifact Artifact
	require.NoError(t, json.Unmarshal([]byte(`{"structuredOutputs":{"b":{"result":"x"}}}`), &artifact))
	artifact.StructuredOutputs["d"] = StructuredOutput{}
	artifact.StructuredOutputs["c"] = StructuredOutput{}

	assert.Equal(t, []string{"b", "c", "d"}, artifact.Keys())

	var empty *Artifact
	assert.Nil(t, empty.Keys())
}

func TestCallAccessors(t *testing.T) {
	var nilCall *Call
	assert.Equal(t, "", nilCall.CustomerNumber())
	assert.Nil(t, nilCall.Timestamp())

	started := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	ended := started.Add(3 * time.Minute)
	call := &Call{Status: CallStatusEnded, Customer: &Customer{Number: "+1"}, StartedAt: &started}
	assert.Equal(t, "+1", call.CustomerNumber())
	assert.Equal(t, &started, call.Timestamp())
	call.EndedAt = &ended
	assert.Equal(t, &ended, call.Timestamp())
}

func TestAssistantInstructions(t *testing.T) {
	var a *Assistant
	assert.Equal(t, "", a.Instructions())

	a = &Assistant{Model: &AssistantModel{Messages: []ModelMessage{{Role: "user", Content: "u"}, {Role: RoleSystem, Content: "s"}}}}
	assert.Equal(t, "s", a.Instructions())
}

func TestErrors(t *testing.T) {
	cfgErr := &ConfigurationError{Missing: []string{"A", "B"}}
	assert.Equal(t, "missing required configuration: A, B", cfgErr.Error())
	assert.True(t, IsConfigurationError(cfgErr))
	assert.False(t, IsPlatformError(cfgErr))

	platErr := &PlatformError{Op: "get-call", StatusCode: 404, Message: "not found"}
	assert.Equal(t, "platform get-call failed [404]: not found", platErr.Error())
	assert.True(t, IsPlatformError(platErr))

	var resolution *Resolution
	assert.False(t, resolution.Found())
}
