package anthropic

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAnthropicClient(t *testing.T) {
	t.Run("Requires an API key", func(t *testing.T) {
		_, err := NewAnthropicClient("", "")
		assert.Error(t, err)
	})

	t.Run("Empty model falls back to the default", func(t *testing.T) {
		client, err := NewAnthropicClient("sk-test", "")
		require.NoError(t, err)
		assert.Equal(t, DefaultModel, string(client.(*AnthropicClient).model))
	})

	t.Run("Explicit model is kept", func(t *testing.T) {
		client, err := NewAnthropicClient("sk-test", "claude-opus-4-20250514")
		require.NoError(t, err)
		assert.Equal(t, "claude-opus-4-20250514", string(client.(*AnthropicClient).model))
	})
}

func TestBuildReviewPrompt(t *testing.T) {
	t.Run("Wraps the diff in a fenced block", func(t *testing.T) {
		prompt := buildReviewPrompt("diff --git a/main.go b/main.go", nil)

		assert.True(t, strings.HasPrefix(prompt, "Pull request diff:\n\n```diff\n"))
		assert.Contains(t, prompt, "diff --git a/main.go b/main.go")
		assert.True(t, strings.HasSuffix(prompt, "\n```"))
		assert.NotContains(t, prompt, "Relevant repository context")
	})

	t.Run("Prepends context chunks with separators", func(t *testing.T) {
		prompt := buildReviewPrompt("diff --git", []string{
			"File main.go:\n\npackage main",
			"File widget.go:\n\ntype Widget struct{}",
		})

		assert.True(t, strings.HasPrefix(prompt, "Relevant repository context:\n\n"))
		assert.Contains(t, prompt, "File main.go:\n\npackage main\n\n---\n\n")
		assert.Contains(t, prompt, "File widget.go:\n\ntype Widget struct{}\n\n---\n\n")
		contextIdx := strings.Index(prompt, "File main.go")
		diffIdx := strings.Index(prompt, "Pull request diff:")
		assert.Less(t, contextIdx, diffIdx, "context should precede the diff")
	})
}
