// Package refine implements the iterative response refiner: seed a fixed set
// of candidate answers, then repeatedly gather feedback, grade, rank, and
// rewrite the best candidate.
package refine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/JudeHoog/RedFruitCOT/internal/llm"
	"github.com/JudeHoog/RedFruitCOT/internal/transcript"
)

// seedCount is the fixed candidate population for a run.
const seedCount = 3

// Config carries everything a run needs; there is no package-level state.
type Config struct {
	Model        string
	SystemPrompt string
	SeedPrompt   string

	Temperature float32
	TopP        float64

	// Max output lengths per call kind, in tokens.
	AnswerTokens   int32
	FeedbackTokens int32
	GradingTokens  int32
}

// Runner drives the generate/feedback/grade/refine loop against an engine.
type Runner struct {
	engine llm.Engine
	cfg    Config
}

// NewRunner builds a runner, filling unset config fields with defaults.
func NewRunner(engine llm.Engine, cfg Config) *Runner {
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = DefaultSystemPrompt
	}
	if cfg.SeedPrompt == "" {
		cfg.SeedPrompt = DefaultSeedPrompt
	}
	if cfg.AnswerTokens == 0 {
		cfg.AnswerTokens = 1024
	}
	if cfg.FeedbackTokens == 0 {
		cfg.FeedbackTokens = 512
	}
	if cfg.GradingTokens == 0 {
		cfg.GradingTokens = 100
	}
	return &Runner{engine: engine, cfg: cfg}
}

// Run executes the seed phase plus the given number of rounds and returns the
// final transcript. Engine failures abort the run with nothing written; a
// grading response without a parsable grade only drops that candidate from the
// round's ranking.
func (r *Runner) Run(ctx context.Context, iterations int) (*transcript.Transcript, error) {
	if iterations < 1 {
		return nil, fmt.Errorf("iterations must be at least 1, got %d", iterations)
	}

	start := time.Now()

	candidates := make([]*Candidate, 0, seedCount)
	for i := 0; i < seedCount; i++ {
		genStart := time.Now()
		resp, err := r.invoke(ctx, r.cfg.SeedPrompt, r.cfg.AnswerTokens)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, &Candidate{
			Text:           resp.Text,
			GenerationTime: time.Since(genStart),
		})
	}

	for round := 1; round <= iterations; round++ {
		slog.Info("starting round", "round", round)

		if err := r.reviewAll(ctx, candidates); err != nil {
			return nil, err
		}

		sortByGrade(candidates)

		best := candidates[0]
		if !best.Graded() {
			return nil, fmt.Errorf("round %d produced no graded candidates", round)
		}
		slog.Info("best candidate", "round", round, "grade", *best.Grade)

		refined, err := r.invoke(ctx, refinementPrompt(best.Text), r.cfg.AnswerTokens)
		if err != nil {
			return nil, err
		}
		// Only the text changes. Feedback, grade, and timings stay stale until
		// the next round overwrites them.
		best.Text = refined.Text
	}

	return buildTranscript(candidates, time.Since(start)), nil
}

// reviewAll runs the feedback and grading calls as one task per candidate,
// fan-out/fan-in, joined before the caller sorts. The first engine failure
// cancels the remaining tasks.
func (r *Runner) reviewAll(ctx context.Context, candidates []*Candidate) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, c := range candidates {
		g.Go(func() error {
			return r.review(ctx, c)
		})
	}
	return g.Wait()
}

// review fetches feedback for a candidate, then grades it. The pair stays
// sequential within the task because grading consumes the feedback.
func (r *Runner) review(ctx context.Context, c *Candidate) error {
	fbStart := time.Now()
	fb, err := r.invoke(ctx, feedbackPrompt(c.Text), r.cfg.FeedbackTokens)
	if err != nil {
		return err
	}
	c.Feedback = fb.Text
	c.FeedbackTime = time.Since(fbStart)

	grStart := time.Now()
	grade, err := r.gradeWithRetry(ctx, c)
	c.GradingTime = time.Since(grStart)
	if err != nil {
		var parseErr *GradeParseError
		if errors.As(err, &parseErr) {
			// Ungradable this round: excluded from ranking instead of
			// aborting the whole run.
			c.Grade = nil
			slog.Warn("candidate left ungraded", "err", err)
			return nil
		}
		return err
	}
	c.Grade = &grade
	return nil
}

// gradeWithRetry asks for a grade and retries once when the response carries
// no parsable grade. Engine failures are not retried.
func (r *Runner) gradeWithRetry(ctx context.Context, c *Candidate) (int, error) {
	grade, err := r.grade(ctx, c)
	var parseErr *GradeParseError
	if err != nil && errors.As(err, &parseErr) {
		return r.grade(ctx, c)
	}
	return grade, err
}

func (r *Runner) grade(ctx context.Context, c *Candidate) (int, error) {
	resp, err := r.invoke(ctx, gradingPrompt(c.Text, c.Feedback), r.cfg.GradingTokens)
	if err != nil {
		return 0, err
	}
	text := strings.TrimSpace(resp.Text)
	slog.Info("grading response", "text", text)
	return ExtractGrade(text)
}

func (r *Runner) invoke(ctx context.Context, prompt string, maxTokens int32) (*llm.Response, error) {
	return r.engine.Invoke(ctx, &llm.Request{
		Model:       r.cfg.Model,
		System:      r.cfg.SystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: prompt}},
		Temperature: r.cfg.Temperature,
		TopP:        r.cfg.TopP,
		MaxTokens:   maxTokens,
	})
}

func buildTranscript(candidates []*Candidate, total time.Duration) *transcript.Transcript {
	t := &transcript.Transcript{TotalTime: total}
	for _, c := range candidates {
		t.Candidates = append(t.Candidates, transcript.Candidate{
			Text:           c.Text,
			Feedback:       c.Feedback,
			Grade:          c.Grade,
			GenerationTime: c.GenerationTime,
			FeedbackTime:   c.FeedbackTime,
			GradingTime:    c.GradingTime,
		})
	}
	return t
}
