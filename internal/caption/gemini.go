package caption

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const DefaultGeminiModel = "gemini-2.0-flash-exp"

// Gemini generates captions through the Gemini API. The client is created
// once and shared by all requests.
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGemini connects to the Gemini API. Extra opts are appended after the
// API key (e.g. option.WithEndpoint).
func NewGemini(ctx context.Context, apiKey, model string, opts ...option.ClientOption) (*Gemini, error) {
	if model = strings.TrimSpace(model); model == "" {
		model = DefaultGeminiModel
	}
	opts = append([]option.ClientOption{option.WithAPIKey(strings.TrimSpace(apiKey))}, opts...)
	cl, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}

	m := cl.GenerativeModel(model)
	m.GenerationConfig = genai.GenerationConfig{
		Temperature:     ptrFloat32(temperature),
		TopP:            ptrFloat32(topP),
		MaxOutputTokens: ptrInt32(maxOutputTokens),
	}
	m.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(SystemInstruction)},
	}
	return &Gemini{client: cl, model: m}, nil
}

func (g *Gemini) Name() string { return "gemini" }

func (g *Gemini) Generate(ctx context.Context, image []byte, mimeType string) (string, error) {
	resp, err := g.model.GenerateContent(ctx,
		&genai.Blob{MIMEType: mimeType, Data: image},
		genai.Text(userPrompt),
	)
	if err != nil {
		return "", err
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", errEmptyResponse
	}
	return strings.TrimSpace(firstText(resp)), nil
}

func (g *Gemini) Close() error {
	return g.client.Close()
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				return string(t)
			}
		}
	}
	return ""
}

func ptrFloat32(v float32) *float32 { return &v }
func ptrInt32(v int32) *int32       { return &v }
