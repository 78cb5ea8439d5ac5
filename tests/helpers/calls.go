package helpers

import (
	"encoding/json"
	"time"

	"github.com/xiaot623/callbuddy/internal/config"
	"github.com/xiaot623/callbuddy/internal/domain"
)

// Fixture identities shared by tests.
const (
	Token            = "test-token"
	MorningAssistant = "asst-morning"
	EveningAssistant = "asst-evening"
	PhoneNumberID    = "pn-1"
	Target           = "+15551234567"
)

// NewTestConfig returns a complete configuration.
func NewTestConfig() *config.Config {
	return &config.Config{
		APIToken:           Token,
		MorningAssistantID: MorningAssistant,
		EveningAssistantID: EveningAssistant,
		PhoneNumberID:      PhoneNumberID,
		TargetPhoneNumber:  Target,
	}
}

// EndedCall builds an ended call. An empty result leaves the call without an artifact.
func EndedCall(id, assistantID, number, result string, endedAt time.Time) domain.Call {
	call := Call(id, assistantID, number, domain.CallStatusEnded)
	call.EndedAt = &endedAt
	if result != "" {
		raw, _ := json.Marshal(result)
		call.Artifact = &domain.Artifact{
			StructuredOutputs: map[string]domain.StructuredOutput{
				"goals": {Name: "Morning Goals", Result: raw},
			},
		}
	}
	return call
}

// Call builds a call summary.
func Call(id, assistantID, number string, status domain.CallStatus) domain.Call {
	return domain.Call{
		ID:          id,
		AssistantID: assistantID,
		Status:      status,
		Customer:    &domain.Customer{Number: number},
	}
}
