package caption

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"
)

// DefaultTimeout bounds a single caption request.
const DefaultTimeout = 30 * time.Second

// Options selects and configures the caption provider.
type Options struct {
	Provider string // "openai", "gemini" or "anthropic"
	Model    string
	APIKey   string
	Timeout  time.Duration
}

// Service runs caption generation as bounded, cancellable tasks.
type Service struct {
	gen     Generator
	timeout time.Duration
}

// New builds the provider named in opts. It returns ErrCaptionUnconfigured
// when no API key is set.
func New(ctx context.Context, opts Options) (*Service, error) {
	provider := strings.ToLower(strings.TrimSpace(opts.Provider))
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, fmt.Errorf("%w: no API key for provider %q", ErrCaptionUnconfigured, provider)
	}

	var gen Generator
	switch provider {
	case "", "openai", "gpt":
		gen = NewOpenAI(opts.APIKey, opts.Model)
	case "gemini":
		g, err := NewGemini(ctx, opts.APIKey, opts.Model)
		if err != nil {
			return nil, err
		}
		gen = g
	case "anthropic", "claude":
		gen = NewAnthropic(opts.APIKey, opts.Model)
	default:
		return nil, fmt.Errorf("unknown caption provider %q; use openai, gemini or anthropic", provider)
	}
	return NewService(gen, opts.Timeout), nil
}

// NewService wraps an existing Generator. A non-positive timeout selects
// DefaultTimeout.
func NewService(gen Generator, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Service{gen: gen, timeout: timeout}
}

// Provider names the backing caption provider.
func (s *Service) Provider() string { return s.gen.Name() }

// Close releases the provider's client, if it holds one.
func (s *Service) Close() error {
	if c, ok := s.gen.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Task is an in-flight caption request.
type Task struct {
	name   string
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	caption Caption
	err     error
}

// Start launches caption generation for image in the background. The task
// is cancelled when ctx ends, when the timeout elapses or on Cancel.
func (s *Service) Start(ctx context.Context, image []byte, mimeType string) *Task {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	t := &Task{name: s.gen.Name(), ctx: ctx, cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(t.done)
		raw, err := s.gen.Generate(ctx, image, mimeType)
		if err != nil {
			// Generators leave the provider name to this wrap.
			t.err = fmt.Errorf("%w: %s: %w", ErrCaptionFailed, t.name, err)
			return
		}
		t.caption = Extract(raw)
	}()
	return t
}

// Wait blocks until the caption is ready or the task's context ends.
func (t *Task) Wait() (Caption, error) {
	defer t.cancel()

	select {
	case <-t.done:
		return t.caption, t.err
	case <-t.ctx.Done():
	}

	// The generator may have finished at the same moment.
	select {
	case <-t.done:
		return t.caption, t.err
	default:
		return Caption{}, fmt.Errorf("%w: %s: %w", ErrCaptionFailed, t.name, t.ctx.Err())
	}
}

// Cancel aborts the task. It is safe to call after Wait.
func (t *Task) Cancel() {
	t.cancel()
}

// Generate captions image synchronously.
func (s *Service) Generate(ctx context.Context, image []byte, mimeType string) (Caption, error) {
	return s.Start(ctx, image, mimeType).Wait()
}
