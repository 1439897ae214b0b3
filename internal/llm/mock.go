package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// MockEngine is a scripted in-memory engine for tests and offline runs.
//
// Replies are consumed in order when scripted. When a Reply callback is set it
// takes precedence. With neither, the engine synthesizes a plausible answer
// from the prompt, including a grade line when the prompt asks for one, so the
// full refine loop works offline.
type MockEngine struct {
	// Reply, when set, computes the response text for a request.
	Reply func(req *Request) string

	mu      sync.Mutex
	replies []string
	calls   int
}

// NewMockEngine creates a mock engine with an optional scripted reply queue.
func NewMockEngine(replies ...string) *MockEngine {
	return &MockEngine{replies: replies}
}

// Invoke implements [Engine].
func (m *MockEngine) Invoke(ctx context.Context, req *Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++

	prompt := ""
	if len(req.Messages) > 0 {
		prompt = req.Messages[len(req.Messages)-1].Content
	}

	var text string
	switch {
	case m.Reply != nil:
		text = m.Reply(req)
	case len(m.replies) > 0:
		text = m.replies[0]
		m.replies = m.replies[1:]
	case strings.Contains(prompt, "on a scale from -100 to 100"):
		text = "I would give this response 85 out of 100."
	default:
		text = fmt.Sprintf("Mock response %d for: %s", m.calls, truncate(prompt, 60))
	}

	resp := &Response{
		Text: text,
		Usage: Usage{
			InputTokens:  int32(len(prompt)),
			OutputTokens: int32(len(text)),
			TotalTokens:  int32(len(prompt) + len(text)),
		},
		StopReason: "end_turn",
	}

	LogUsage(ctx, req.Model, resp)
	return resp, nil
}

// Calls returns how many invocations the engine has served.
func (m *MockEngine) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
