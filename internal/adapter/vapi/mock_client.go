package vapi

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/xiaot623/callbuddy/internal/domain"
)

// MockClient is an in-memory implementation of Platform. Calls are kept as an
// append-only log, most recent first, like the platform's list endpoint.
type MockClient struct {
	mu         sync.Mutex
	calls      []domain.Call
	assistants map[string]*domain.Assistant
	errs       map[string]error
	seq        int

	created  []CreateCallRequest
	updates  map[string][]UpdateAssistantRequest
	fetched  []string
	listings int
}

// NewMockClient creates a new mock platform.
func NewMockClient() *MockClient {
	return &MockClient{
		assistants: make(map[string]*domain.Assistant),
		errs:       make(map[string]error),
		updates:    make(map[string][]UpdateAssistantRequest),
	}
}

// Ensure MockClient implements Platform interface.
var _ Platform = (*MockClient)(nil)

// AddCall records a call as the most recent one.
func (m *MockClient) AddCall(call domain.Call) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append([]domain.Call{call}, m.calls...)
}

// FailOn makes the given operation return err until cleared with a nil error.
func (m *MockClient) FailOn(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.errs, op)
		return
	}
	m.errs[op] = err
}

// CreateCall records the request and appends a queued call.
func (m *MockClient) CreateCall(ctx context.Context, req *CreateCallRequest) (*domain.Call, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.errs[OpCreateCall]; err != nil {
		return nil, err
	}

	m.created = append(m.created, *req)
	m.seq++
	now := time.Now().UTC()
	call := domain.Call{
		ID:            fmt.Sprintf("mock-call-%d", m.seq),
		AssistantID:   req.AssistantID,
		PhoneNumberID: req.PhoneNumberID,
		Status:        domain.CallStatusQueued,
		Customer:      &domain.Customer{Number: req.Customer.Number},
		CreatedAt:     &now,
	}
	m.calls = append([]domain.Call{call}, m.calls...)
	return &call, nil
}

// ListCalls returns call summaries without artifacts.
func (m *MockClient) ListCalls(ctx context.Context, opts ListCallsOptions) ([]domain.Call, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listings++
	if err := m.errs[OpListCalls]; err != nil {
		return nil, err
	}

	n := len(m.calls)
	if opts.Limit > 0 && opts.Limit < n {
		n = opts.Limit
	}
	out := make([]domain.Call, 0, n)
	for _, call := range m.calls[:n] {
		call.Artifact = nil
		out = append(out, call)
	}
	return out, nil
}

// GetCall returns a stored call including its artifact.
func (m *MockClient) GetCall(ctx context.Context, id string) (*domain.Call, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetched = append(m.fetched, id)
	if err := m.errs[OpGetCall]; err != nil {
		return nil, err
	}

	for _, call := range m.calls {
		if call.ID == id {
			c := call
			return &c, nil
		}
	}
	return nil, &domain.PlatformError{Op: OpGetCall, StatusCode: 404, Message: "call not found"}
}

// UpdateAssistant replaces the assistant model.
func (m *MockClient) UpdateAssistant(ctx context.Context, id string, req *UpdateAssistantRequest) (*domain.Assistant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.errs[OpUpdateAssistant]; err != nil {
		return nil, err
	}

	m.updates[id] = append(m.updates[id], *req)
	assistant, ok := m.assistants[id]
	if !ok {
		assistant = &domain.Assistant{ID: id, Name: "mock-" + id}
		m.assistants[id] = assistant
	}
	assistant.Model = req.Model
	copied := *assistant
	return &copied, nil
}

// CreatedCalls returns every call creation request received.
func (m *MockClient) CreatedCalls() []CreateCallRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]CreateCallRequest(nil), m.created...)
}

// Updates returns every update request received for an assistant.
func (m *MockClient) Updates(id string) []UpdateAssistantRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]UpdateAssistantRequest(nil), m.updates[id]...)
}

// UpdateCount returns the number of assistant updates across all assistants.
func (m *MockClient) UpdateCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, u := range m.updates {
		n += len(u)
	}
	return n
}

// Fetched returns the ids passed to GetCall, in order.
func (m *MockClient) Fetched() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.fetched...)
}

// Listings returns the number of ListCalls requests.
func (m *MockClient) Listings() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listings
}

// Assistant returns the stored assistant, or nil.
func (m *MockClient) Assistant(id string) *domain.Assistant {
	m.mu.Lock()
	defer m.mu.Unlock()
	assistant, ok := m.assistants[id]
	if !ok {
		return nil
	}
	copied := *assistant
	return &copied
}
