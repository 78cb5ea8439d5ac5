package domain

// Assistant is a profile stored on the voice platform.
type Assistant struct {
	ID    string          `json:"id"`
	Name  string          `json:"name,omitempty"`
	Model *AssistantModel `json:"model,omitempty"`
}

// AssistantModel is the conversational model configuration of an assistant.
type AssistantModel struct {
	Provider string         `json:"provider"`
	Model    string         `json:"model"`
	Messages []ModelMessage `json:"messages"`
}

// ModelMessage is one instruction message of an assistant model.
type ModelMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Instructions returns the system instruction text, or "" if none is set.
func (a *Assistant) Instructions() string {
	if a == nil || a.Model == nil {
		return ""
	}
	for _, m := range a.Model.Messages {
		if m.Role == RoleSystem {
			return m.Content
		}
	}
	return ""
}
