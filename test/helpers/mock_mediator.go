package helpers

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/andrescamacho/oni-calculator/internal/application/common"
)

// MockMediator is a test double for the Mediator interface.
// It records registrations and sends; Send answers through SetSendFunc.
type MockMediator struct {
	mu          sync.Mutex
	sendFunc    func(ctx context.Context, request common.Request) (common.Response, error)
	callLog     []string // Request names in send order
	registered  []string // Request names in registration order
	middlewares int
}

// NewMockMediator creates a new MockMediator
func NewMockMediator() *MockMediator {
	return &MockMediator{}
}

// Send implements the Mediator interface
func (m *MockMediator) Send(ctx context.Context, request common.Request) (common.Response, error) {
	m.mu.Lock()
	m.callLog = append(m.callLog, common.RequestName(request))
	fn := m.sendFunc
	m.mu.Unlock()

	if fn == nil {
		return nil, fmt.Errorf("unsupported request type: %T", request)
	}
	return fn(ctx, request)
}

// Register implements the Mediator interface and records the request type
func (m *MockMediator) Register(requestType reflect.Type, handler common.RequestHandler) error {
	if handler == nil {
		return fmt.Errorf("handler for %s is nil", requestType)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	t := requestType
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	m.registered = append(m.registered, t.Name())
	return nil
}

// Use implements the Mediator interface
func (m *MockMediator) Use(middleware common.Middleware) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.middlewares++
}

// SetSendFunc sets a custom function for Send calls
func (m *MockMediator) SetSendFunc(fn func(ctx context.Context, request common.Request) (common.Response, error)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sendFunc = fn
}

// GetCallLog returns the names of the requests sent so far
func (m *MockMediator) GetCallLog() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.callLog...)
}

// RegisteredRequests returns the registered request type names in order
func (m *MockMediator) RegisteredRequests() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.registered...)
}

// Ensure MockMediator implements the common.Mediator interface
var _ common.Mediator = (*MockMediator)(nil)
