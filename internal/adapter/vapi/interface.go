// Package vapi provides clients for the Vapi voice platform.
package vapi

import (
	"context"

	"github.com/xiaot623/callbuddy/internal/domain"
)

// Platform defines the voice platform operations callbuddy relies on.
type Platform interface {
	// CreateCall places an outbound call. It triggers a real phone call.
	CreateCall(ctx context.Context, req *CreateCallRequest) (*domain.Call, error)

	// ListCalls returns recent calls, most recent first, without artifacts.
	ListCalls(ctx context.Context, opts ListCallsOptions) ([]domain.Call, error)

	// GetCall returns a single call including its artifact.
	GetCall(ctx context.Context, id string) (*domain.Call, error)

	// UpdateAssistant replaces the given fields of an assistant.
	UpdateAssistant(ctx context.Context, id string, req *UpdateAssistantRequest) (*domain.Assistant, error)
}

// CreateCallRequest is the body of a call creation request.
type CreateCallRequest struct {
	AssistantID   string          `json:"assistantId"`
	PhoneNumberID string          `json:"phoneNumberId"`
	Customer      domain.Customer `json:"customer"`
}

// ListCallsOptions narrows a call listing. A zero Limit uses the platform default page.
type ListCallsOptions struct {
	Limit int
}

// UpdateAssistantRequest is the body of an assistant update. The model is
// replaced as a whole, including its instruction messages.
type UpdateAssistantRequest struct {
	Model *domain.AssistantModel `json:"model"`
}

// Ensure Client implements Platform interface.
var _ Platform = (*Client)(nil)
