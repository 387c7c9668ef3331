package texture

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
)

func writeTestImage(t *testing.T, name string, encode func(*os.File, image.Image) error) string {
	t.Helper()

	// 2x2 image: red top row, blue bottom row.
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.SetRGBA(0, 0, color.RGBA{R: 255, A: 255})
	img.SetRGBA(1, 0, color.RGBA{R: 255, A: 255})
	img.SetRGBA(0, 1, color.RGBA{B: 255, A: 255})
	img.SetRGBA(1, 1, color.RGBA{B: 255, A: 255})

	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadImagePNG(t *testing.T) {
	path := writeTestImage(t, "img.png", func(f *os.File, img image.Image) error {
		return png.Encode(f, img)
	})

	img, err := LoadImage(path, false)
	if err != nil {
		t.Fatal(err)
	}
	if got := img.RGBAAt(0, 0); got.R != 255 || got.B != 0 {
		t.Fatalf("unflipped top-left = %+v, want red", got)
	}
}

func TestLoadImageFlipsVertically(t *testing.T) {
	path := writeTestImage(t, "img.png", func(f *os.File, img image.Image) error {
		return png.Encode(f, img)
	})

	img, err := LoadImage(path, true)
	if err != nil {
		t.Fatal(err)
	}
	if got := img.RGBAAt(0, 0); got.B != 255 || got.R != 0 {
		t.Fatalf("flipped top-left = %+v, want blue", got)
	}
	if got := img.RGBAAt(0, 1); got.R != 255 {
		t.Fatalf("flipped bottom-left = %+v, want red", got)
	}
}

func TestLoadImageBMP(t *testing.T) {
	path := writeTestImage(t, "img.bmp", func(f *os.File, img image.Image) error {
		return bmp.Encode(f, img)
	})

	img, err := LoadImage(path, false)
	if err != nil {
		t.Fatal(err)
	}
	if got := img.RGBAAt(1, 1); got.B != 255 {
		t.Fatalf("bmp bottom-right = %+v, want blue", got)
	}
}

func TestLoadImageMissingFile(t *testing.T) {
	if _, err := LoadImage(filepath.Join(t.TempDir(), "missing.png"), false); err == nil {
		t.Fatal("want error for missing file")
	}
}
