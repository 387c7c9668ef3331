// Package texture provides image decoding and OpenGL texture creation.
package texture

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
)

// LoadImage decodes a PNG, JPEG or BMP file into RGBA pixels. When
// flip is set, rows are reversed so the origin moves to the lower left,
// matching OpenGL's texture coordinate convention; cube-map faces are
// loaded unflipped.
func LoadImage(path string, flip bool) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", path, err)
	}

	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)

	if flip {
		flipVertical(rgba)
	}
	return rgba, nil
}

func flipVertical(img *image.RGBA) {
	height := img.Bounds().Dy()
	row := make([]byte, img.Stride)
	for y := 0; y < height/2; y++ {
		top := img.Pix[y*img.Stride : (y+1)*img.Stride]
		bottom := img.Pix[(height-1-y)*img.Stride : (height-y)*img.Stride]
		copy(row, top)
		copy(top, bottom)
		copy(bottom, row)
	}
}
