package model

import (
	"context"
	"fmt"
)

// Predictor runs a single forward pass and returns the scalar probability
// that the input is harmful.
type Predictor interface {
	Predict(ctx context.Context, input Tensor) (float32, error)
}

// Classifier wraps a loaded Predictor with the fixed decision threshold.
// It holds no mutable state and is safe for concurrent use when the
// Predictor is.
type Classifier struct {
	predictor Predictor
}

func NewClassifier(p Predictor) *Classifier {
	return &Classifier{predictor: p}
}

// Ready reports whether a model is loaded.
func (c *Classifier) Ready() bool {
	return c != nil && c.predictor != nil
}

// Classify runs input through the model and labels the probability against
// Threshold. The input must hold exactly TensorLen values.
func (c *Classifier) Classify(ctx context.Context, input Tensor) (Result, error) {
	if !c.Ready() {
		return Result{}, ErrModelUnavailable
	}
	if len(input) != TensorLen {
		return Result{}, fmt.Errorf("%w: expected %d values, got %d", ErrInvalidTensor, TensorLen, len(input))
	}

	prob, err := c.predictor.Predict(ctx, input)
	if err != nil {
		return Result{}, fmt.Errorf("inference failed: %w", err)
	}
	return NewResult(float64(prob)), nil
}

// NewResult applies Threshold to a raw probability.
func NewResult(confidence float64) Result {
	label := NonHarmful
	if confidence >= Threshold {
		label = Harmful
	}
	return Result{
		Label:      label,
		Confidence: confidence,
		Threshold:  Threshold,
	}
}
