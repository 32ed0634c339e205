package model

import "errors"

var (
	// ErrInvalidImage is returned when upload bytes cannot be decoded as an image.
	ErrInvalidImage = errors.New("invalid image file")

	// ErrInvalidTensor is returned when a tensor has the wrong number of values.
	ErrInvalidTensor = errors.New("invalid tensor")

	// ErrModelUnavailable covers download, load and "not initialized" failures.
	ErrModelUnavailable = errors.New("model not loaded")
)
