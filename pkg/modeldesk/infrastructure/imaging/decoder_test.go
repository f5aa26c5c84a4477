package imaging

import (
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func writeImage(t *testing.T, name string, encode func(*os.File, image.Image) error) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.Set(1, 1, color.NRGBA{R: 200, G: 10, B: 10, A: 255})
	path := filepath.Join(t.TempDir(), name)
	file, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, encode(file, img))
	require.NoError(t, file.Close())
	return path
}

func TestDecoder_Decode(t *testing.T) {
	encoders := map[string]func(*os.File, image.Image) error{
		"cat.png": func(f *os.File, img image.Image) error { return png.Encode(f, img) },
		"cat.jpg": func(f *os.File, img image.Image) error { return jpeg.Encode(f, img, nil) },
		"cat.bmp": func(f *os.File, img image.Image) error { return bmp.Encode(f, img) },
		// The extension lies; the content decides.
		"cat.gif": func(f *os.File, img image.Image) error { return png.Encode(f, img) },
	}
	for name, encode := range encoders {
		t.Run(name, func(t *testing.T) {
			path := writeImage(t, name, encode)

			img, err := NewDecoder().Decode(path)

			require.NoError(t, err)
			assert.IsType(t, &image.RGBA{}, img)
			assert.Equal(t, image.Rect(0, 0, 3, 2), img.Bounds())
		})
	}
}

func TestDecoder_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := NewDecoder().Decode(filepath.Join(t.TempDir(), "missing.png"))

		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("not an image", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "notes.png")
		require.NoError(t, os.WriteFile(path, []byte("definitely not a png"), 0644))

		_, err := NewDecoder().Decode(path)

		require.Error(t, err)
		assert.ErrorIs(t, err, image.ErrFormat)
	})
}

func TestToRGBA(t *testing.T) {
	gray := image.NewGray(image.Rect(5, 5, 7, 8))
	gray.SetGray(5, 5, color.Gray{Y: 128})

	rgba := toRGBA(gray)

	assert.Equal(t, image.Rect(0, 0, 2, 3), rgba.Bounds())
	r, g, b, _ := rgba.At(0, 0).RGBA()
	assert.Equal(t, r, g)
	assert.Equal(t, g, b)
}
