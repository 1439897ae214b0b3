package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/JudeHoog/RedFruitCOT/internal/projectconfig"
	"github.com/JudeHoog/RedFruitCOT/internal/report"
)

var reportOutput string

func newReportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report [transcript]",
		Short: "Render a transcript file as a static HTML report",
		Long: `Report reads a transcript file produced by run, splits it at the process
summary marker, converts both sections to HTML, and writes a standalone page.

Without an argument the transcript path from the project config is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: reportCommandE,
	}

	cmd.Flags().StringVarP(&reportOutput, "output", "o", "", "HTML output path (default from config)")

	return cmd
}

func reportCommandE(cmd *cobra.Command, args []string) error {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}

	cfg, err := projectconfig.Load(wd)
	if err != nil {
		return err
	}

	inPath := cfg.Run.Output
	if len(args) == 1 {
		inPath = args[0]
	}
	outPath := cfg.Report.Output
	if reportOutput != "" {
		outPath = reportOutput
	}

	content, err := os.ReadFile(inPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("transcript file %s not found", inPath)
		}
		return fmt.Errorf("unable to read transcript file %s: %w", inPath, err)
	}

	page, err := report.Render(string(content), report.Options{
		Title:        cfg.Report.Title,
		Model:        cfg.Report.Model,
		InputTokens:  cfg.Report.InputTokens,
		OutputTokens: cfg.Report.OutputTokens,
		TotalTokens:  cfg.Report.TotalTokens,
		StopReason:   cfg.Report.StopReason,
	})
	if err != nil {
		return err
	}

	if err := os.WriteFile(outPath, page, 0o644); err != nil {
		return fmt.Errorf("unable to write report file %s: %w", outPath, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "HTML report %s has been generated successfully.\n", outPath)
	return nil
}
