package caption

import (
	"context"
	"encoding/base64"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const DefaultAnthropicModel = "claude-sonnet-4-5"

// Anthropic generates captions with the Messages API.
type Anthropic struct {
	client anthropic.Client
	model  string
}

// NewAnthropic builds a Messages API client. Extra opts follow the API key
// (e.g. option.WithBaseURL).
func NewAnthropic(apiKey, model string, opts ...option.RequestOption) *Anthropic {
	if model = strings.TrimSpace(model); model == "" {
		model = DefaultAnthropicModel
	}
	opts = append([]option.RequestOption{option.WithAPIKey(strings.TrimSpace(apiKey))}, opts...)
	return &Anthropic{
		client: anthropic.NewClient(opts...),
		model:  model,
	}
}

func (a *Anthropic) Name() string { return "anthropic" }

func (a *Anthropic) Generate(ctx context.Context, image []byte, mimeType string) (string, error) {
	b64 := base64.StdEncoding.EncodeToString(image)

	message, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: maxOutputTokens,
		System: []anthropic.TextBlockParam{
			{Text: SystemInstruction},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewImageBlockBase64(mimeType, b64),
				anthropic.NewTextBlock(userPrompt),
			),
		},
	})
	if err != nil {
		return "", err
	}
	if len(message.Content) == 0 {
		return "", errEmptyResponse
	}

	var b strings.Builder
	for _, block := range message.Content {
		if block.Type != "text" || strings.TrimSpace(block.Text) == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(block.Text)
	}
	return strings.TrimSpace(b.String()), nil
}
