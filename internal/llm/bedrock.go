package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/document"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
)

// BedrockOptions configures the Bedrock runtime engine.
type BedrockOptions struct {
	Region  string `mapstructure:"region"`
	Profile string `mapstructure:"profile"`
}

// BedrockEngine invokes models through the Bedrock runtime Converse API.
type BedrockEngine struct {
	client *bedrockruntime.Client
}

// NewBedrockEngine builds an engine using the ambient AWS credential chain.
func NewBedrockEngine(ctx context.Context, opts BedrockOptions) (*BedrockEngine, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}
	if opts.Profile != "" {
		loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(opts.Profile))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	return &BedrockEngine{client: bedrockruntime.NewFromConfig(cfg)}, nil
}

// Invoke implements [Engine].
func (e *BedrockEngine) Invoke(ctx context.Context, req *Request) (*Response, error) {
	input := &bedrockruntime.ConverseInput{
		ModelId: aws.String(req.Model),
		InferenceConfig: &types.InferenceConfiguration{
			Temperature: aws.Float32(req.Temperature),
			MaxTokens:   aws.Int32(req.MaxTokens),
		},
		// top_p is not part of the common inference config for every provider,
		// so it rides along as a model-specific field.
		AdditionalModelRequestFields: document.NewLazyDocument(map[string]any{
			"top_p": req.TopP,
		}),
	}

	if req.System != "" {
		input.System = []types.SystemContentBlock{
			&types.SystemContentBlockMemberText{Value: req.System},
		}
	}

	for _, msg := range req.Messages {
		input.Messages = append(input.Messages, types.Message{
			Role: types.ConversationRole(msg.Role),
			Content: []types.ContentBlock{
				&types.ContentBlockMemberText{Value: msg.Content},
			},
		})
	}

	out, err := e.client.Converse(ctx, input)
	if err != nil {
		return nil, &ServiceError{Op: "converse", Err: err}
	}

	resp := &Response{StopReason: string(out.StopReason)}
	if out.Usage != nil {
		resp.Usage = Usage{
			InputTokens:  aws.ToInt32(out.Usage.InputTokens),
			OutputTokens: aws.ToInt32(out.Usage.OutputTokens),
			TotalTokens:  aws.ToInt32(out.Usage.TotalTokens),
		}
	}

	msg, ok := out.Output.(*types.ConverseOutputMemberMessage)
	if !ok {
		return nil, &ServiceError{Op: "converse", Err: errors.New("response contained no message output")}
	}
	for _, block := range msg.Value.Content {
		if text, ok := block.(*types.ContentBlockMemberText); ok {
			resp.Text = text.Value
			break
		}
	}

	LogUsage(ctx, req.Model, resp)
	return resp, nil
}
