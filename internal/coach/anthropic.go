package coach

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

var ErrEmptyResponse = errors.New("coach: model returned no text content")

// anthropicGenerator talks to the Anthropic Messages API.
type anthropicGenerator struct {
	client anthropic.Client
	model  string
}

// NewAnthropicGenerator builds a Generator backed by the Anthropic API.
func NewAnthropicGenerator(apiKey, model string) Generator {
	return &anthropicGenerator{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

// Generate sends the prompt and decodes the JSON narrative from the reply.
func (g *anthropicGenerator) Generate(ctx context.Context, prompt string) (*WeekNarrative, error) {
	resp, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(g.model),
		MaxTokens: 2048,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("coach: anthropic API call failed: %w", err)
	}

	var text string
	for _, block := range resp.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	if text == "" {
		return nil, ErrEmptyResponse
	}

	narrative, err := decodeNarrative(text)
	if err != nil {
		return nil, err
	}
	return narrative, nil
}

// decodeNarrative parses the model reply, tolerating markdown code fences
// around the JSON body.
func decodeNarrative(text string) (*WeekNarrative, error) {
	cleaned := strings.TrimSpace(text)
	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "```")
		if idx := strings.LastIndex(cleaned, "```"); idx >= 0 {
			cleaned = cleaned[:idx]
		}
		cleaned = strings.TrimSpace(cleaned)
	}

	var narrative WeekNarrative
	if err := json.Unmarshal([]byte(cleaned), &narrative); err != nil {
		return nil, fmt.Errorf("coach: unparseable narrative response: %w", err)
	}
	if narrative.WeekFocus == "" || len(narrative.Days) == 0 {
		return nil, errors.New("coach: narrative response missing required fields")
	}
	return &narrative, nil
}
