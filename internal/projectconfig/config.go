// Package projectconfig provides the ProjectConfig struct and loader for
// .redfruit.yaml project-level configuration files.
package projectconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Default values for project configuration. These are the single source of
// truth — New() references them and no other code should duplicate them.
const (
	DefaultEngine = "bedrock"
	DefaultModel  = "meta.llama3-70b-instruct-v1:0"

	DefaultIterations = 3

	DefaultTemperature    = 0.5
	DefaultTopP           = 0.9
	DefaultAnswerTokens   = 1024
	DefaultFeedbackTokens = 512
	DefaultGradingTokens  = 100

	DefaultOutput       = "response.txt"
	DefaultReportOutput = "response.html"
	DefaultReportTitle  = "RedFruitCOT Response"
)

// InferenceConfig holds sampling parameters and per-call output limits.
type InferenceConfig struct {
	Temperature    *float64 `yaml:"temperature,omitempty"`
	TopP           *float64 `yaml:"top_p,omitempty"`
	AnswerTokens   int      `yaml:"answer_tokens,omitempty"`
	FeedbackTokens int      `yaml:"feedback_tokens,omitempty"`
	GradingTokens  int      `yaml:"grading_tokens,omitempty"`
}

// RunConfig holds settings for the refinement run.
type RunConfig struct {
	Engine        string          `yaml:"engine,omitempty"`
	EngineOptions map[string]any  `yaml:"engine_options,omitempty"`
	Model         string          `yaml:"model,omitempty"`
	SystemPrompt  string          `yaml:"system_prompt,omitempty"`
	SeedPrompt    string          `yaml:"seed_prompt,omitempty"`
	Iterations    int             `yaml:"iterations,omitempty"`
	Output        string          `yaml:"output,omitempty"`
	Inference     InferenceConfig `yaml:"inference,omitempty"`
}

// ReportConfig holds settings for the HTML report, including the static
// metadata block shown at the bottom of the page.
type ReportConfig struct {
	Output       string `yaml:"output,omitempty"`
	Title        string `yaml:"title,omitempty"`
	Model        string `yaml:"model,omitempty"`
	InputTokens  int    `yaml:"input_tokens,omitempty"`
	OutputTokens int    `yaml:"output_tokens,omitempty"`
	TotalTokens  int    `yaml:"total_tokens,omitempty"`
	StopReason   string `yaml:"stop_reason,omitempty"`
}

// ProjectConfig is the top-level configuration loaded from .redfruit.yaml.
type ProjectConfig struct {
	Run    RunConfig    `yaml:"run,omitempty"`
	Report ReportConfig `yaml:"report,omitempty"`
}

// New returns a ProjectConfig with all hard-coded defaults populated.
func New() *ProjectConfig {
	return &ProjectConfig{
		Run: RunConfig{
			Engine:     DefaultEngine,
			Model:      DefaultModel,
			Iterations: DefaultIterations,
			Output:     DefaultOutput,
			Inference: InferenceConfig{
				Temperature:    floatPtr(DefaultTemperature),
				TopP:           floatPtr(DefaultTopP),
				AnswerTokens:   DefaultAnswerTokens,
				FeedbackTokens: DefaultFeedbackTokens,
				GradingTokens:  DefaultGradingTokens,
			},
		},
		Report: ReportConfig{
			Output:       DefaultReportOutput,
			Title:        DefaultReportTitle,
			Model:        DefaultModel,
			InputTokens:  698,
			OutputTokens: 478,
			TotalTokens:  1176,
			StopReason:   "end_turn",
		},
	}
}

// Load finds .redfruit.yaml by walking up from startDir (max 10 levels),
// unmarshals it, and fills in missing fields with defaults.
// If no config file is found, returns defaults with a nil error.
// Real I/O errors (e.g. permission denied) are returned to the caller.
func Load(startDir string) (*ProjectConfig, error) {
	cfg := New()

	data, err := findConfigFile(startDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil // no file found → return defaults
		}
		return nil, fmt.Errorf("loading .redfruit.yaml: %w", err)
	}

	var fileCfg ProjectConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("parsing .redfruit.yaml: %w", err)
	}

	// Merge file values onto defaults.
	mergeConfig(cfg, &fileCfg)
	return cfg, nil
}

// findConfigFile walks up from dir looking for .redfruit.yaml (max 10 levels).
// Returns os.ErrNotExist if no config file is found. Propagates real I/O
// errors (e.g. permission denied) instead of silently swallowing them.
func findConfigFile(dir string) ([]byte, error) {
	// Convert to absolute path so filepath.Dir(".") walks correctly.
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path %q: %w", dir, err)
	}
	dir = absDir

	for i := 0; i < 10; i++ {
		p := filepath.Join(dir, ".redfruit.yaml")
		data, err := os.ReadFile(p)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading %q: %w", p, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break // reached filesystem root
		}
		dir = parent
	}
	return nil, os.ErrNotExist
}

// mergeConfig overlays non-zero values from src onto dst.
func mergeConfig(dst, src *ProjectConfig) {
	// Run
	if src.Run.Engine != "" {
		dst.Run.Engine = src.Run.Engine
	}
	if src.Run.EngineOptions != nil {
		dst.Run.EngineOptions = src.Run.EngineOptions
	}
	if src.Run.Model != "" {
		dst.Run.Model = src.Run.Model
	}
	if src.Run.SystemPrompt != "" {
		dst.Run.SystemPrompt = src.Run.SystemPrompt
	}
	if src.Run.SeedPrompt != "" {
		dst.Run.SeedPrompt = src.Run.SeedPrompt
	}
	if src.Run.Iterations != 0 {
		dst.Run.Iterations = src.Run.Iterations
	}
	if src.Run.Output != "" {
		dst.Run.Output = src.Run.Output
	}

	// Inference
	if src.Run.Inference.Temperature != nil {
		dst.Run.Inference.Temperature = src.Run.Inference.Temperature
	}
	if src.Run.Inference.TopP != nil {
		dst.Run.Inference.TopP = src.Run.Inference.TopP
	}
	if src.Run.Inference.AnswerTokens != 0 {
		dst.Run.Inference.AnswerTokens = src.Run.Inference.AnswerTokens
	}
	if src.Run.Inference.FeedbackTokens != 0 {
		dst.Run.Inference.FeedbackTokens = src.Run.Inference.FeedbackTokens
	}
	if src.Run.Inference.GradingTokens != 0 {
		dst.Run.Inference.GradingTokens = src.Run.Inference.GradingTokens
	}

	// Report
	if src.Report.Output != "" {
		dst.Report.Output = src.Report.Output
	}
	if src.Report.Title != "" {
		dst.Report.Title = src.Report.Title
	}
	if src.Report.Model != "" {
		dst.Report.Model = src.Report.Model
	}
	if src.Report.InputTokens != 0 {
		dst.Report.InputTokens = src.Report.InputTokens
	}
	if src.Report.OutputTokens != 0 {
		dst.Report.OutputTokens = src.Report.OutputTokens
	}
	if src.Report.TotalTokens != 0 {
		dst.Report.TotalTokens = src.Report.TotalTokens
	}
	if src.Report.StopReason != "" {
		dst.Report.StopReason = src.Report.StopReason
	}
}

func floatPtr(f float64) *float64 {
	return &f
}
