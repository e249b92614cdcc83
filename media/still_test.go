package media

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeImagePNG(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 6, 4))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	src, err := DecodeImage(&buf)
	require.NoError(t, err)
	defer func() {
		_ = src.Close()
	}()

	assert.Equal(t, KindImage, src.Kind())
	assert.False(t, src.Animated())
	assert.False(t, src.Advance(time.Now()))

	w, h := src.Size()
	assert.Equal(t, 6, w)
	assert.Equal(t, 4, h)

	r, g, b, a := src.Image().At(3, 2).RGBA()
	assert.Equal(t, []uint32{0xffff, 0xffff, 0xffff, 0xffff}, []uint32{r, g, b, a})
}

func TestDecodeImageGarbage(t *testing.T) {
	_, err := DecodeImage(bytes.NewReader([]byte("not an image")))
	assert.Error(t, err)
}

func TestToRGBANormalizesOrigin(t *testing.T) {
	// A sub-image with a non-zero origin must come out zero-based.
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	img.SetRGBA(5, 5, color.RGBA{255, 0, 0, 255})
	sub := img.SubImage(image.Rect(4, 4, 8, 8)).(*image.RGBA)

	out := toRGBA(sub)
	assert.Equal(t, image.Rect(0, 0, 4, 4), out.Bounds())
	r, _, _, _ := out.At(1, 1).RGBA()
	assert.Equal(t, uint32(0xffff), r, "pixel content preserved relative to the sub-image")
}

func TestToRGBAPassThrough(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 3))
	assert.Same(t, img, toRGBA(img), "zero-origin RGBA needs no copy")
}
