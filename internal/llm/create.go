package llm

import (
	"context"
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// Kind identifies an engine implementation.
type Kind string

const (
	KindBedrock Kind = "bedrock"
	KindMock    Kind = "mock"
)

// Create builds an engine of the given kind, decoding the engine-specific
// options map into the implementation's own option struct.
func Create(ctx context.Context, kind Kind, options map[string]any) (Engine, error) {
	switch kind {
	case KindBedrock:
		var opts BedrockOptions
		if err := mapstructure.Decode(options, &opts); err != nil {
			return nil, fmt.Errorf("decoding bedrock options: %w", err)
		}
		return NewBedrockEngine(ctx, opts)
	case KindMock:
		var opts struct {
			Replies []string `mapstructure:"replies"`
		}
		if err := mapstructure.Decode(options, &opts); err != nil {
			return nil, fmt.Errorf("decoding mock options: %w", err)
		}
		return NewMockEngine(opts.Replies...), nil
	default:
		return nil, fmt.Errorf("%q is not a valid engine kind", kind)
	}
}
