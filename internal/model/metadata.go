package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// DefaultMetadata matches a Keras model exported with tf2onnx using
// explicit "input"/"output" tensor names.
var DefaultMetadata = Metadata{
	InputName:  "input",
	OutputName: "output",
	ImageSize:  ImageSize,
}

// LoadMetadata reads the model metadata file. A missing file yields
// DefaultMetadata; missing fields are filled from it.
func LoadMetadata(path string) (Metadata, error) {
	metaFile, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultMetadata, nil
	}
	if err != nil {
		return Metadata{}, fmt.Errorf("failed to read metadata: %w", err)
	}

	var metadata Metadata
	if err := json.Unmarshal(metaFile, &metadata); err != nil {
		return Metadata{}, fmt.Errorf("failed to parse metadata: %w", err)
	}

	if metadata.InputName == "" {
		metadata.InputName = DefaultMetadata.InputName
	}
	if metadata.OutputName == "" {
		metadata.OutputName = DefaultMetadata.OutputName
	}
	if metadata.ImageSize == 0 {
		metadata.ImageSize = ImageSize
	}
	if metadata.ImageSize != ImageSize {
		return Metadata{}, fmt.Errorf("unsupported image size %d, model must take %dx%d input",
			metadata.ImageSize, ImageSize, ImageSize)
	}
	return metadata, nil
}
