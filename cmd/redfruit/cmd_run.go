package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/JudeHoog/RedFruitCOT/internal/llm"
	"github.com/JudeHoog/RedFruitCOT/internal/projectconfig"
	"github.com/JudeHoog/RedFruitCOT/internal/refine"
)

var (
	runEngine     string
	runModel      string
	runIterations int
	runOutput     string
	runSeedPrompt string
)

func newRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the iterative response refiner",
		Long: `Run seeds three candidate answers from the configured prompt, then for each
round gathers feedback on every candidate, grades them, and rewrites the
best-graded one. The full process is written to the transcript file.`,
		Args: cobra.NoArgs,
		RunE: runCommandE,
	}

	cmd.Flags().StringVar(&runEngine, "engine", "", "Engine kind: bedrock, mock (default from config)")
	cmd.Flags().StringVar(&runModel, "model", "", "Model identifier (default from config)")
	cmd.Flags().IntVarP(&runIterations, "iterations", "n", 0, "Number of refinement rounds (default from config)")
	cmd.Flags().StringVarP(&runOutput, "output", "o", "", "Transcript output path (default from config)")
	cmd.Flags().StringVar(&runSeedPrompt, "prompt", "", "Seed prompt for the initial candidates")

	return cmd
}

func runCommandE(cmd *cobra.Command, args []string) error {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}

	cfg, err := projectconfig.Load(wd)
	if err != nil {
		return err
	}

	// CLI flags override config
	if runEngine != "" {
		cfg.Run.Engine = runEngine
	}
	if runModel != "" {
		cfg.Run.Model = runModel
	}
	if runIterations != 0 {
		cfg.Run.Iterations = runIterations
	}
	if runOutput != "" {
		cfg.Run.Output = runOutput
	}
	if runSeedPrompt != "" {
		cfg.Run.SeedPrompt = runSeedPrompt
	}

	if cfg.Run.Iterations < 1 {
		return fmt.Errorf("iterations must be at least 1, got %d", cfg.Run.Iterations)
	}

	ctx := cmd.Context()

	engine, err := llm.Create(ctx, llm.Kind(cfg.Run.Engine), cfg.Run.EngineOptions)
	if err != nil {
		return err
	}

	runner := refine.NewRunner(engine, refine.Config{
		Model:          cfg.Run.Model,
		SystemPrompt:   cfg.Run.SystemPrompt,
		SeedPrompt:     cfg.Run.SeedPrompt,
		Temperature:    float32(*cfg.Run.Inference.Temperature),
		TopP:           *cfg.Run.Inference.TopP,
		AnswerTokens:   int32(cfg.Run.Inference.AnswerTokens),
		FeedbackTokens: int32(cfg.Run.Inference.FeedbackTokens),
		GradingTokens:  int32(cfg.Run.Inference.GradingTokens),
	})

	// An engine failure surfaces here; no partial transcript is written.
	t, err := runner.Run(ctx, cfg.Run.Iterations)
	if err != nil {
		return err
	}

	if err := t.WriteFile(cfg.Run.Output); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Transcript written to %s (best grade: %s)\n",
		cfg.Run.Output, t.Best().GradeString())
	return nil
}
