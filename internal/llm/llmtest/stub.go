// Package llmtest provides a scripted llm.Provider for tests.
package llmtest

import (
	"context"
	"sync"

	"repo-storyteller/internal/llm"
)

// Reply is one scripted answer.
type Reply struct {
	Text string
	Err  error
}

// Stub answers calls with Replies in order, repeating the last one when the script runs out.
// Respond, when set, takes precedence over the script.
type Stub struct {
	Replies []Reply
	Respond func(req llm.Request) (string, error)

	mu       sync.Mutex
	requests []llm.Request
}

func (s *Stub) Name() string { return "stub" }

func (s *Stub) Complete(ctx context.Context, req llm.Request) (string, error) {
	s.mu.Lock()
	n := len(s.requests)
	s.requests = append(s.requests, req)
	s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.Respond != nil {
		return s.Respond(req)
	}
	if len(s.Replies) == 0 {
		return "", nil
	}
	r := s.Replies[min(n, len(s.Replies)-1)]
	return r.Text, r.Err
}

// Requests returns a copy of every request received so far.
func (s *Stub) Requests() []llm.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]llm.Request(nil), s.requests...)
}

// Calls is the number of requests received so far.
func (s *Stub) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}
