package model

// Label is the binary verdict produced by the classifier.
type Label string

const (
	Harmful    Label = "HARMFUL"
	NonHarmful Label = "NON_HARMFUL"
)

// Threshold is the fixed decision boundary: confidence >= Threshold is HARMFUL.
const Threshold = 0.5

const (
	ImageSize = 128
	Channels  = 3
	TensorLen = ImageSize * ImageSize * Channels
)

// Tensor is a normalized 1x128x128x3 image in NHWC order with values in [0,1].
type Tensor []float32

// Metadata describes the exported model graph. It is read from an optional
// JSON file stored next to the model.
type Metadata struct {
	InputName  string `json:"input_name"`
	OutputName string `json:"output_name"`
	ImageSize  int    `json:"image_size"`
}

type Result struct {
	Label      Label   `json:"label"`
	Confidence float64 `json:"confidence"`
	Threshold  float64 `json:"threshold"`
}

// PredictionRequest carries an already normalized tensor.
type PredictionRequest struct {
	Image []float32 `json:"image"`
}
