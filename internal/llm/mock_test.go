package llm

import (
	"context"
	"strings"
	"testing"
)

func invoke(t *testing.T, engine Engine, prompt string) *Response {
	t.Helper()
	resp, err := engine.Invoke(context.Background(), &Request{
		Model:    "test-model",
		Messages: []Message{{Role: RoleUser, Content: prompt}},
	})
	if err != nil {
		t.Fatalf("Invoke() error: %v", err)
	}
	return resp
}

func TestMockEngineScriptedReplies(t *testing.T) {
	engine := NewMockEngine("first", "second")

	if got := invoke(t, engine, "anything").Text; got != "first" {
		t.Errorf("reply 1 = %q, want %q", got, "first")
	}
	if got := invoke(t, engine, "anything").Text; got != "second" {
		t.Errorf("reply 2 = %q, want %q", got, "second")
	}
	// Queue exhausted: falls back to synthesized replies.
	if got := invoke(t, engine, "anything").Text; !strings.HasPrefix(got, "Mock response") {
		t.Errorf("reply 3 = %q, want synthesized fallback", got)
	}

	if engine.Calls() != 3 {
		t.Errorf("Calls() = %d, want 3", engine.Calls())
	}
}

func TestMockEngineSynthesizesGrades(t *testing.T) {
	engine := NewMockEngine()

	resp := invoke(t, engine, "Grade the following response on a scale from -100 to 100 based on the feedback:\n\nResponse: x\nFeedback: y")
	if !strings.Contains(resp.Text, "out of 100") {
		t.Errorf("grading reply %q carries no grade", resp.Text)
	}
}

func TestMockEngineTruncatesOnRuneBoundary(t *testing.T) {
	engine := NewMockEngine()

	// 70 multi-byte runes: truncation at 60 must not split a rune.
	prompt := strings.Repeat("é", 70)
	resp := invoke(t, engine, prompt)
	if !strings.HasSuffix(resp.Text, strings.Repeat("é", 60)+"...") {
		t.Errorf("synthesized reply %q not truncated on a rune boundary", resp.Text)
	}
	if strings.ContainsRune(resp.Text, '�') {
		t.Errorf("synthesized reply %q contains a replacement character", resp.Text)
	}
}

func TestMockEngineReportsUsage(t *testing.T) {
	engine := NewMockEngine("hi")

	resp := invoke(t, engine, "prompt")
	if resp.Usage.TotalTokens != resp.Usage.InputTokens+resp.Usage.OutputTokens {
		t.Errorf("usage does not add up: %+v", resp.Usage)
	}
	if resp.StopReason != "end_turn" {
		t.Errorf("StopReason = %q, want end_turn", resp.StopReason)
	}
}
