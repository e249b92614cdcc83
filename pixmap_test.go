package halftone

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"
)

func TestEncodePNGKeepsStraightAlpha(t *testing.T) {
	p := NewPixmap(2, 2)
	p.SetPixel(0, 0, RGBA{R: 1, G: 0, B: 0, A: 0.5})

	var buf bytes.Buffer
	if err := p.EncodePNG(&buf); err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decoding: %v", err)
	}

	// A premultiplied read of the straight-alpha buffer would skew the
	// red channel; the decoded pixel must match what SetPixel stored.
	got := color.NRGBAModel.Convert(img.At(0, 0)).(color.NRGBA)
	want := color.NRGBA{R: 255, A: 127}
	if got != want {
		t.Errorf("decoded pixel = %+v, want %+v", got, want)
	}
}

func TestToImageStraightAlpha(t *testing.T) {
	p := NewPixmap(1, 1)
	p.SetPixel(0, 0, RGBA{R: 0, G: 1, B: 0, A: 0.25})

	img := p.ToImage()
	got := img.NRGBAAt(0, 0)
	want := color.NRGBA{G: 255, A: 63}
	if got != want {
		t.Errorf("NRGBAAt(0, 0) = %+v, want %+v", got, want)
	}
}
