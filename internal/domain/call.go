package domain

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"
	"time"
)

// Customer is the called party of a call.
type Customer struct {
	Number string `json:"number"`
}

// Call is the platform record of one placed call.
// List responses omit the artifact; it is only present on a full fetch.
type Call struct {
	ID            string     `json:"id"`
	AssistantID   string     `json:"assistantId,omitempty"`
	PhoneNumberID string     `json:"phoneNumberId,omitempty"`
	Status        CallStatus `json:"status"`
	Customer      *Customer  `json:"customer,omitempty"`
	EndedReason   string     `json:"endedReason,omitempty"`
	CreatedAt     *time.Time `json:"createdAt,omitempty"`
	StartedAt     *time.Time `json:"startedAt,omitempty"`
	EndedAt       *time.Time `json:"endedAt,omitempty"`
	Artifact      *Artifact  `json:"artifact,omitempty"`
}

// CustomerNumber returns the destination number, or "" when the call has no customer.
func (c *Call) CustomerNumber() string {
	if c == nil || c.Customer == nil {
		return ""
	}
	return c.Customer.Number
}

// Timestamp returns the end time, falling back to the start time.
func (c *Call) Timestamp() *time.Time {
	if c == nil {
		return nil
	}
	if c.EndedAt != nil {
		return c.EndedAt
	}
	return c.StartedAt
}

// StructuredResult returns the extracted result of the call, or "" if none.
func (c *Call) StructuredResult() StructuredResult {
	if c == nil || c.Artifact == nil {
		return ""
	}
	return c.Artifact.StructuredResult()
}

// StructuredResult is the opaque text extracted from a call, in practice a goals list.
type StructuredResult string

// Empty reports whether the result carries no text.
func (r StructuredResult) Empty() bool {
	return strings.TrimSpace(string(r)) == ""
}

// Artifact is the data the platform produces once a call has ended.
type Artifact struct {
	StructuredOutputs map[string]StructuredOutput `json:"structuredOutputs,omitempty"`

	// order holds the structuredOutputs keys as they appeared on the wire.
	order []string
}

// UnmarshalJSON decodes an artifact, remembering the order of its structured outputs.
func (a *Artifact) UnmarshalJSON(data []byte) error {
	type plain Artifact
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	var raw struct {
		StructuredOutputs json.RawMessage `json:"structuredOutputs"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*a = Artifact(p)
	a.order = objectKeys(raw.StructuredOutputs)
	return nil
}

// objectKeys returns the keys of a JSON object in document order, or nil if
// data is not an object.
func objectKeys(data json.RawMessage) []string {
	if len(data) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil
	}

	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil
		}
		key, ok := tok.(string)
		if !ok {
			return nil
		}
		keys = append(keys, key)

		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil
		}
	}
	return keys
}

// Keys returns the structured output keys in platform order. Keys the
// platform order does not cover, as on artifacts built in code, follow in
// sorted order.
func (a *Artifact) Keys() []string {
	if a == nil || len(a.StructuredOutputs) == 0 {
		return nil
	}

	keys := make([]string, 0, len(a.StructuredOutputs))
	seen := make(map[string]struct{}, len(a.StructuredOutputs))
	for _, k := range a.order {
		if _, ok := a.StructuredOutputs[k]; !ok {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}

	var rest []string
	for k := range a.StructuredOutputs {
		if _, ok := seen[k]; !ok {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

// StructuredOutput is one named extraction inside an artifact.
type StructuredOutput struct {
	Name   string          `json:"name,omitempty"`
	Result json.RawMessage `json:"result,omitempty"`
}

// Text renders the output result as plain text. JSON strings are unquoted,
// anything else is returned in compact JSON form.
func (o StructuredOutput) Text() string {
	raw := bytes.TrimSpace(o.Result)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

// StructuredResult joins every non-empty output in Keys order.
func (a *Artifact) StructuredResult() StructuredResult {
	keys := a.Keys()
	if len(keys) == 0 {
		return ""
	}

	segments := make([]string, 0, len(keys))
	for _, k := range keys {
		if text := strings.TrimSpace(a.StructuredOutputs[k].Text()); text != "" {
			segments = append(segments, text)
		}
	}
	return StructuredResult(strings.TrimSpace(strings.Join(segments, "\n")))
}
