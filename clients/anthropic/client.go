package anthropic

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"linequeue/clients"
)

const DefaultModel = "claude-sonnet-4-20250514"

const reviewSystemPrompt = `You are an experienced code reviewer. You are given a pull request diff ` +
	`and relevant source files from the repository. Review the change for correctness, design, ` +
	`security and style issues. Be specific: reference file paths and hunks from the diff. ` +
	`Respond in markdown with a short summary followed by the individual findings.`

// AnthropicClient implements the clients.ReviewModelClient interface using the
// Anthropic Messages API.
type AnthropicClient struct {
	client    anthropic.Client
	model     anthropic.Model
	maxTokens int64
}

// NewAnthropicClient creates a new review model client. An empty model falls
// back to DefaultModel.
func NewAnthropicClient(apiKey, model string) (clients.ReviewModelClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key cannot be empty")
	}
	if model == "" {
		model = DefaultModel
	}

	return &AnthropicClient{
		client:    anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:     anthropic.Model(model),
		maxTokens: 4096,
	}, nil
}

// GenerateReview produces review text for the diff, conditioned on retrieved
// repository context chunks.
func (c *AnthropicClient) GenerateReview(
	ctx context.Context,
	diff string,
	contextChunks []string,
) (string, error) {
	prompt := buildReviewPrompt(diff, contextChunks)

	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: reviewSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate review: %w", err)
	}

	var builder strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			builder.WriteString(block.Text)
		}
	}

	review := builder.String()
	if review == "" {
		return "", fmt.Errorf("no text content in model response")
	}

	return review, nil
}

func buildReviewPrompt(diff string, contextChunks []string) string {
	var builder strings.Builder

	if len(contextChunks) > 0 {
		builder.WriteString("Relevant repository context:\n\n")
		for _, chunk := range contextChunks {
			builder.WriteString(chunk)
			builder.WriteString("\n\n---\n\n")
		}
	}

	builder.WriteString("Pull request diff:\n\n```diff\n")
	builder.WriteString(diff)
	builder.WriteString("\n```")

	return builder.String()
}
