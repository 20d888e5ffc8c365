package pdftool

import (
	"context"
	"fmt"
	"sync"
)

// MockRunner is a Runner for tests. Handler, when set, decides each call's
// result; otherwise every call succeeds with empty output. Available
// controls LookPath: names absent from the map are reported missing.
type MockRunner struct {
	mu        sync.Mutex
	calls     []string
	Handler   func(name string, args []string) (Result, error)
	Available map[string]bool
}

func (m *MockRunner) Run(_ context.Context, name string, args ...string) (Result, error) {
	m.mu.Lock()
	m.calls = append(m.calls, name)
	m.mu.Unlock()

	if m.Handler != nil {
		return m.Handler(name, args)
	}
	return Result{}, nil
}

func (m *MockRunner) LookPath(name string) (string, error) {
	if m.Available[name] {
		return "/usr/bin/" + name, nil
	}
	return "", fmt.Errorf("exec: %q: executable file not found in $PATH", name)
}

// CallCount returns how many times a command was invoked
func (m *MockRunner) CallCount(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c == name {
			n++
		}
	}
	return n
}
