package placeicon

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func dummyPNG(t *testing.T, size int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := range size {
		for x := range size {
			img.Set(x, y, color.NRGBA{R: uint8(x * 255 / size), G: uint8(y * 255 / size), B: 64, A: 255})
		}
	}
	buf := new(bytes.Buffer)
	if err := png.Encode(buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}
