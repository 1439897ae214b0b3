package transcript

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var responseHeader = regexp.MustCompile(`^Response \d+:$`)

// Field prefixes inside a candidate block.
const (
	textPrefix     = "Response: "
	feedbackPrefix = "Feedback: "
	gradePrefix    = "Grade: "
	genTimePrefix  = "Response generation time: "
	fbTimePrefix   = "Feedback generation time: "
	grTimePrefix   = "Grading time: "
	totalPrefix    = "Total time taken for the process: "
)

// Split divides raw transcript content at the first marker line. The response
// part is everything before the marker, trimmed; the summary part is
// everything after, trimmed, or "" when the marker is absent.
func Split(content string) (response, summary string) {
	before, after, found := strings.Cut(content, Marker)
	response = strings.TrimSpace(before)
	if found {
		summary = strings.TrimSpace(after)
	}
	return response, summary
}

// Parse reads a rendered transcript back into its structured form. Text,
// feedback, and grade values round-trip verbatim; multi-line response and
// feedback bodies are reassembled until the next field header.
func Parse(content string) (*Transcript, error) {
	_, summary := Split(content)
	if summary == "" {
		return nil, fmt.Errorf("transcript has no %q section", Marker)
	}

	t := &Transcript{}

	var cur *Candidate
	var field string // "text" or "feedback" while a multi-line body is open

	flush := func() {
		if cur != nil {
			t.Candidates = append(t.Candidates, *cur)
			cur = nil
		}
		field = ""
	}

	for _, line := range strings.Split(summary, "\n") {
		switch {
		case line == separator:
			flush()
		case responseHeader.MatchString(line):
			flush()
			cur = &Candidate{}
		case strings.HasPrefix(line, totalPrefix):
			d, err := parseSeconds(strings.TrimPrefix(line, totalPrefix))
			if err != nil {
				return nil, err
			}
			t.TotalTime = d
		case cur != nil && strings.HasPrefix(line, textPrefix):
			cur.Text = strings.TrimPrefix(line, textPrefix)
			field = "text"
		case cur != nil && strings.HasPrefix(line, feedbackPrefix):
			cur.Feedback = strings.TrimPrefix(line, feedbackPrefix)
			field = "feedback"
		case cur != nil && strings.HasPrefix(line, gradePrefix):
			g, err := parseGrade(strings.TrimPrefix(line, gradePrefix))
			if err != nil {
				return nil, err
			}
			cur.Grade = g
			field = ""
		case cur != nil && strings.HasPrefix(line, genTimePrefix):
			d, err := parseSeconds(strings.TrimPrefix(line, genTimePrefix))
			if err != nil {
				return nil, err
			}
			cur.GenerationTime = d
		case cur != nil && strings.HasPrefix(line, fbTimePrefix):
			d, err := parseSeconds(strings.TrimPrefix(line, fbTimePrefix))
			if err != nil {
				return nil, err
			}
			cur.FeedbackTime = d
		case cur != nil && strings.HasPrefix(line, grTimePrefix):
			d, err := parseSeconds(strings.TrimPrefix(line, grTimePrefix))
			if err != nil {
				return nil, err
			}
			cur.GradingTime = d
		case field == "text":
			cur.Text += "\n" + line
		case field == "feedback":
			cur.Feedback += "\n" + line
		}
	}
	flush()

	if len(t.Candidates) == 0 {
		return nil, errors.New("transcript contains no response blocks")
	}
	return t, nil
}

func parseSeconds(s string) (time.Duration, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), " seconds")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed timing value %q: %w", s, err)
	}
	return time.Duration(f * float64(time.Second)), nil
}

func parseGrade(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "ungraded" {
		return nil, nil
	}
	g, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("malformed grade %q: %w", s, err)
	}
	return &g, nil
}
