package model

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"math"
	"testing"
)

func solidImage(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
	return img
}

func encodeJPEG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 100}); err != nil {
		t.Fatalf("jpeg encode: %v", err)
	}
	return buf.Bytes()
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	return buf.Bytes()
}

func TestDecodeBlackJPEG(t *testing.T) {
	t.Parallel()

	data := encodeJPEG(t, solidImage(ImageSize, ImageSize, color.Black))
	tensor, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(tensor) != TensorLen {
		t.Fatalf("len = %d, want %d", len(tensor), TensorLen)
	}
	for i, v := range tensor {
		if v != 0 {
			t.Fatalf("tensor[%d] = %v, want 0", i, v)
		}
	}
}

func TestDecodeChannelOrder(t *testing.T) {
	t.Parallel()

	data := encodePNG(t, solidImage(300, 200, color.RGBA{R: 255, G: 0, B: 51, A: 255}))
	tensor, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(tensor) != TensorLen {
		t.Fatalf("len = %d, want %d", len(tensor), TensorLen)
	}

	want := [Channels]float32{1, 0, 0.2}
	for px := 0; px < ImageSize*ImageSize; px += 997 {
		for ch := 0; ch < Channels; ch++ {
			got := tensor[px*Channels+ch]
			if math.Abs(float64(got-want[ch])) > 1e-6 {
				t.Fatalf("pixel %d channel %d = %v, want %v", px, ch, got, want[ch])
			}
		}
	}
}

func TestDecodeDropsAlpha(t *testing.T) {
	t.Parallel()

	img := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.NRGBA{R: 255, A: 128}}, image.Point{}, draw.Src)

	tensor, err := Decode(encodePNG(t, img))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if r := tensor[0]; r < 0.98 {
		t.Errorf("red channel = %v, want ~1 (alpha must not darken)", r)
	}
	if g := tensor[1]; g != 0 {
		t.Errorf("green channel = %v, want 0", g)
	}
}

func TestDecodeDeterministic(t *testing.T) {
	t.Parallel()

	img := image.NewRGBA(image.Rect(0, 0, 50, 70))
	for y := 0; y < 70; y++ {
		for x := 0; x < 50; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 5), G: uint8(y * 3), B: uint8(x + y), A: 255})
		}
	}
	data := encodePNG(t, img)

	first, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	second, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("tensor[%d] differs: %v vs %v", i, first[i], second[i])
		}
		if first[i] < 0 || first[i] > 1 {
			t.Fatalf("tensor[%d] = %v out of [0,1]", i, first[i])
		}
	}
}

func TestDecodeInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty", data: nil},
		{name: "text", data: []byte("definitely not an image")},
		{name: "truncated jpeg", data: []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := Decode(tc.data)
			if !errors.Is(err, ErrInvalidImage) {
				t.Errorf("Decode(%q) error = %v, want ErrInvalidImage", tc.data, err)
			}
		})
	}
}
