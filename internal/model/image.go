package model

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"

	"github.com/nfnt/resize"
)

// Decode parses JPEG or PNG bytes and normalizes them into a model Tensor.
func Decode(data []byte) (Tensor, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	return Normalize(img, ImageSize), nil
}

// Normalize resizes img to size x size, drops alpha and scales each RGB
// channel to [0,1]. The result has a leading batch dimension of 1.
func Normalize(img image.Image, size int) Tensor {
	resized := resize.Resize(uint(size), uint(size), img, resize.Bicubic)
	bounds := resized.Bounds()

	out := make(Tensor, size*size*Channels)
	i := 0
	for y := bounds.Min.Y; y < bounds.Min.Y+size; y++ {
		for x := bounds.Min.X; x < bounds.Min.X+size; x++ {
			c := color.NRGBAModel.Convert(resized.At(x, y)).(color.NRGBA)
			out[i] = float32(c.R) / 255.0
			out[i+1] = float32(c.G) / 255.0
			out[i+2] = float32(c.B) / 255.0
			i += Channels
		}
	}
	return out
}
