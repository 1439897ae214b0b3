package transcript

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		wantResponse string
		wantSummary  string
	}{
		{
			name:         "marker present",
			input:        "A\n\nSUMMARY OF PROCESS\nB",
			wantResponse: "A",
			wantSummary:  "B",
		},
		{
			name:         "no marker",
			input:        "just a response",
			wantResponse: "just a response",
			wantSummary:  "",
		},
		{
			name:         "marker only",
			input:        "SUMMARY OF PROCESS",
			wantResponse: "",
			wantSummary:  "",
		},
		{
			name:         "empty input",
			input:        "",
			wantResponse: "",
			wantSummary:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			response, summary := Split(tt.input)
			assert.Equal(t, tt.wantResponse, response)
			assert.Equal(t, tt.wantSummary, summary)
		})
	}
}

func TestParseRoundTrip(t *testing.T) {
	orig := &Transcript{
		TotalTime: 12250 * time.Millisecond,
		Candidates: []Candidate{
			{
				Text:           "First line of best answer.\nSecond line.",
				Feedback:       "Good structure.\n\nCould be shorter.",
				Grade:          intPtr(90),
				GenerationTime: 1250 * time.Millisecond,
				FeedbackTime:   500 * time.Millisecond,
				GradingTime:    2 * time.Second,
			},
			{
				Text:           "Middling answer.",
				Feedback:       "Meh.",
				Grade:          intPtr(50),
				GenerationTime: time.Second,
				FeedbackTime:   time.Second,
				GradingTime:    time.Second,
			},
			{
				Text:     "Ungradable answer.",
				Feedback: "The judge refused.",
			},
		},
	}

	var sb strings.Builder
	require.NoError(t, orig.Render(&sb))

	got, err := Parse(sb.String())
	require.NoError(t, err)

	require.Len(t, got.Candidates, len(orig.Candidates))
	assert.Equal(t, orig.TotalTime, got.TotalTime)

	for i := range orig.Candidates {
		want, have := orig.Candidates[i], got.Candidates[i]
		assert.Equal(t, want.Text, have.Text, "candidate %d text", i)
		assert.Equal(t, want.Feedback, have.Feedback, "candidate %d feedback", i)
		assert.Equal(t, want.Grade, have.Grade, "candidate %d grade", i)
		assert.Equal(t, want.GenerationTime, have.GenerationTime, "candidate %d generation time", i)
		assert.Equal(t, want.FeedbackTime, have.FeedbackTime, "candidate %d feedback time", i)
		assert.Equal(t, want.GradingTime, have.GradingTime, "candidate %d grading time", i)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"no marker", "just prose, no summary"},
		{"empty summary", "prose\n\nSUMMARY OF PROCESS\n"},
		{"malformed grade", "SUMMARY OF PROCESS\nResponse 1:\nResponse: x\nFeedback: y\nGrade: banana\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			assert.Error(t, err)
		})
	}
}
