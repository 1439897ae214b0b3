// Package transcript defines the plain-text record of a refinement run and its
// reader. The format is line-oriented UTF-8: the best answer's prose, a marker
// line, then one block per candidate in final ranking order.
package transcript

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// Marker separates the prose response from the process summary.
const Marker = "SUMMARY OF PROCESS"

var separator = strings.Repeat("=", 40)

// Candidate is one answer's final state as recorded in the transcript.
type Candidate struct {
	Text     string
	Feedback string
	// Grade is nil when the last grading pass produced no parsable grade.
	Grade *int

	GenerationTime time.Duration
	FeedbackTime   time.Duration
	GradingTime    time.Duration
}

// GradeString renders the grade as it appears in the transcript.
func (c *Candidate) GradeString() string {
	if c.Grade == nil {
		return "ungraded"
	}
	return strconv.Itoa(*c.Grade)
}

// Transcript is the write-once record of a full run. Candidates appear in
// final ranking order, best first.
type Transcript struct {
	Candidates []Candidate
	TotalTime  time.Duration
}

// Best returns the top-ranked candidate, or nil for an empty transcript.
func (t *Transcript) Best() *Candidate {
	if len(t.Candidates) == 0 {
		return nil
	}
	return &t.Candidates[0]
}

// Render writes the transcript in its on-disk form.
func (t *Transcript) Render(w io.Writer) error {
	bw := bufio.NewWriter(w)

	if best := t.Best(); best != nil {
		fmt.Fprintf(bw, "%s\n", best.Text)
	}

	fmt.Fprintf(bw, "\n%s\n", Marker)
	fmt.Fprintf(bw, "%s\n", separator)
	fmt.Fprintf(bw, "Total time taken for the process: %.2f seconds\n", t.TotalTime.Seconds())

	for i := range t.Candidates {
		c := &t.Candidates[i]
		fmt.Fprintf(bw, "\nResponse %d:\n", i+1)
		fmt.Fprintf(bw, "Response: %s\n", c.Text)
		fmt.Fprintf(bw, "Feedback: %s\n", c.Feedback)
		fmt.Fprintf(bw, "Grade: %s\n", c.GradeString())
		fmt.Fprintf(bw, "Response generation time: %.2f seconds\n", c.GenerationTime.Seconds())
		fmt.Fprintf(bw, "Feedback generation time: %.2f seconds\n", c.FeedbackTime.Seconds())
		fmt.Fprintf(bw, "Grading time: %.2f seconds\n", c.GradingTime.Seconds())
	}

	fmt.Fprintf(bw, "%s\n", separator)
	if best := t.Best(); best != nil {
		fmt.Fprintf(bw, "Best response: %s (Grade: %s)\n", best.Text, best.GradeString())
	}

	return bw.Flush()
}

// WriteFile renders the transcript to path, truncating any previous run.
func (t *Transcript) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create transcript: %w", err)
	}
	if err := t.Render(f); err != nil {
		f.Close()
		return fmt.Errorf("write transcript: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close transcript: %w", err)
	}
	return nil
}
