package conform

import (
	"context"
	"sync"
)

// ScriptedInvoker replays canned responses in order and records every
// request it receives. Once the script runs out, the last response repeats.
// Safe for concurrent use.
type ScriptedInvoker struct {
	Responses []string
	Err       error // when set, every call fails with this error

	mu       sync.Mutex
	Requests []CompletionRequest
	calls    int
}

func (s *ScriptedInvoker) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Requests = append(s.Requests, req)
	if s.Err != nil {
		return "", s.Err
	}
	if len(s.Responses) == 0 {
		return "", ErrNoChoices
	}
	i := s.calls
	s.calls++
	if i >= len(s.Responses) {
		i = len(s.Responses) - 1
	}
	return s.Responses[i], nil
}

// Calls reports how many completions were requested.
func (s *ScriptedInvoker) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Requests)
}

// NewForTesting creates a Coercer backed by a ScriptedInvoker replaying the
// given responses, and returns both so tests can inspect the requests.
func NewForTesting(responses ...string) (*Coercer, *ScriptedInvoker) {
	inv := &ScriptedInvoker{Responses: responses}
	return New(inv), inv
}
