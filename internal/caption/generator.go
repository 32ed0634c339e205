package caption

import "context"

// Generator produces raw caption text for an image using a remote
// multimodal model.
type Generator interface {
	Name() string
	Generate(ctx context.Context, image []byte, mimeType string) (string, error)
}
