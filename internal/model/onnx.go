package model

import (
	"context"
	"errors"
	"fmt"

	ort "github.com/yalue/onnxruntime_go"
)

// Session is an ONNX Runtime session over the harmful-image model. Tensors
// are allocated per call, so one Session serves concurrent requests.
type Session struct {
	session     *ort.DynamicAdvancedSession
	Metadata    Metadata
	inputShape  ort.Shape
	outputShape ort.Shape
}

// NewSession initializes the ONNX Runtime environment and loads the model.
// libPath overrides the shared library location when non-empty.
func NewSession(modelPath string, metadata Metadata, libPath string) (*Session, error) {
	if libPath != "" {
		ort.SetSharedLibraryPath(libPath)
	}
	if err := ort.InitializeEnvironment(); err != nil {
		return nil, fmt.Errorf("%w: failed to initialize ONNX environment: %v", ErrModelUnavailable, err)
	}

	session, err := ort.NewDynamicAdvancedSession(modelPath,
		[]string{metadata.InputName}, []string{metadata.OutputName}, nil)
	if err != nil {
		ort.DestroyEnvironment()
		return nil, fmt.Errorf("%w: failed to create ONNX session: %v", ErrModelUnavailable, err)
	}

	size := int64(metadata.ImageSize)
	return &Session{
		session:     session,
		Metadata:    metadata,
		inputShape:  ort.NewShape(1, size, size, Channels),
		outputShape: ort.NewShape(1, 1),
	}, nil
}

func (s *Session) Predict(ctx context.Context, input Tensor) (float32, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	inputTensor, err := ort.NewTensor(s.inputShape, []float32(input))
	if err != nil {
		return 0, fmt.Errorf("failed to create input tensor: %w", err)
	}
	defer inputTensor.Destroy()

	outputTensor, err := ort.NewEmptyTensor[float32](s.outputShape)
	if err != nil {
		return 0, fmt.Errorf("failed to create output tensor: %w", err)
	}
	defer outputTensor.Destroy()

	if err := s.session.Run([]ort.ArbitraryTensor{inputTensor}, []ort.ArbitraryTensor{outputTensor}); err != nil {
		return 0, err
	}

	out := outputTensor.GetData()
	if len(out) == 0 {
		return 0, errors.New("model returned an empty output tensor")
	}
	return out[0], nil
}

func (s *Session) Close() {
	if s.session != nil {
		s.session.Destroy()
	}
	ort.DestroyEnvironment()
}
