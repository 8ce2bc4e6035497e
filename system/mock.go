package system

import (
	"context"
	"strings"
	"sync"

	"github.com/YongboStudio/WinToolbox/common"
)

// MockExecutor records every command and answers from canned outputs keyed by
// the space-joined argv.
type MockExecutor struct {
	mu       sync.Mutex
	Outputs  map[string]*Output
	Errors   map[string]error
	Calls    [][]string
	Started  []string
	StartErr error
}

func NewMockExecutor() *MockExecutor {
	return &MockExecutor{
		Outputs: make(map[string]*Output),
		Errors:  make(map[string]error),
	}
}

func (m *MockExecutor) Run(ctx context.Context, argv []string, opts RunOptions) (*Output, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, append([]string(nil), argv...))
	key := strings.Join(argv, " ")
	if err, ok := m.Errors[key]; ok {
		return nil, err
	}
	if out, ok := m.Outputs[key]; ok {
		cp := *out
		return &cp, nil
	}
	return nil, &common.SpawnError{Name: key, Err: errNotMocked}
}

func (m *MockExecutor) Start(path string, args ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Started = append(m.Started, strings.TrimSpace(path+" "+strings.Join(args, " ")))
	return m.StartErr
}

// LastCall returns the most recent argv passed to Run.
func (m *MockExecutor) LastCall() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Calls) == 0 {
		return nil
	}
	return m.Calls[len(m.Calls)-1]
}

type mockError string

func (e mockError) Error() string { return string(e) }

const errNotMocked = mockError("command not mocked")
