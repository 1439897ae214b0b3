package transcript

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func intPtr(n int) *int { return &n }

func sampleTranscript() *Transcript {
	return &Transcript{
		TotalTime: 5 * time.Second,
		Candidates: []Candidate{
			{
				Text:           "The best answer.",
				Feedback:       "Solid but terse.",
				Grade:          intPtr(88),
				GenerationTime: 1250 * time.Millisecond,
				FeedbackTime:   500 * time.Millisecond,
				GradingTime:    2 * time.Second,
			},
			{
				Text:           "A weaker answer.",
				Feedback:       "Needs work.",
				Grade:          intPtr(-5),
				GenerationTime: time.Second,
				FeedbackTime:   time.Second,
				GradingTime:    time.Second,
			},
		},
	}
}

func TestRenderFormat(t *testing.T) {
	var sb strings.Builder
	if err := sampleTranscript().Render(&sb); err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	got := sb.String()

	wantLines := []string{
		"The best answer.",
		Marker,
		strings.Repeat("=", 40),
		"Total time taken for the process: 5.00 seconds",
		"Response 1:",
		"Response: The best answer.",
		"Feedback: Solid but terse.",
		"Grade: 88",
		"Response generation time: 1.25 seconds",
		"Feedback generation time: 0.50 seconds",
		"Grading time: 2.00 seconds",
		"Response 2:",
		"Grade: -5",
		"Best response: The best answer. (Grade: 88)",
	}
	for _, line := range wantLines {
		if !strings.Contains(got, line+"\n") {
			t.Errorf("rendered transcript missing line %q\n%s", line, got)
		}
	}
}

func TestRenderUngraded(t *testing.T) {
	tr := &Transcript{
		Candidates: []Candidate{{Text: "x", Feedback: "y"}},
	}

	var sb strings.Builder
	if err := tr.Render(&sb); err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	if !strings.Contains(sb.String(), "Grade: ungraded\n") {
		t.Errorf("expected ungraded marker in:\n%s", sb.String())
	}
	if !strings.Contains(sb.String(), "Best response: x (Grade: ungraded)\n") {
		t.Errorf("expected ungraded best line in:\n%s", sb.String())
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "response.txt")

	if err := sampleTranscript().WriteFile(path); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading transcript: %v", err)
	}
	if !strings.Contains(string(data), Marker) {
		t.Errorf("transcript file missing marker")
	}

	// A second write truncates the previous run.
	small := &Transcript{Candidates: []Candidate{{Text: "v2", Grade: intPtr(1)}}}
	if err := small.WriteFile(path); err != nil {
		t.Fatalf("WriteFile() rewrite error: %v", err)
	}
	data, err = os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading transcript: %v", err)
	}
	if strings.Contains(string(data), "The best answer.") {
		t.Errorf("rewrite did not truncate previous content")
	}
}
