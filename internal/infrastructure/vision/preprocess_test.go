package vision

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"
)

func createTestImage(width, height int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestPreprocessor_Decode(t *testing.T) {
	p := NewPreprocessor(DefaultImageSize)

	img, err := p.Decode(encodePNG(t, createTestImage(40, 30, color.RGBA{R: 255, A: 255})))
	require.NoError(t, err)
	require.Equal(t, 40, img.Bounds().Dx())
	require.Equal(t, 30, img.Bounds().Dy())

	_, err = p.Decode(nil)
	require.ErrorIs(t, err, ErrEmptyImage)

	_, err = p.Decode([]byte("definitely not an image"))
	require.ErrorIs(t, err, ErrUnknownFormat)
}

func TestPreprocessor_TensorNormalizes(t *testing.T) {
	p := NewPreprocessor(8)
	img := createTestImage(20, 10, color.RGBA{R: 255, G: 0, B: 51, A: 255})

	tensor, err := p.Tensor(img)
	require.NoError(t, err)
	require.Equal(t, []int{1, 8, 8, 3}, tensor.Shape())
	require.Len(t, tensor.Data, 8*8*3)
	require.Equal(t, 8, tensor.Image.Bounds().Dx())

	for i := 0; i < len(tensor.Data); i += 3 {
		require.InDelta(t, 1.0, tensor.Data[i], 1e-6)
		require.InDelta(t, 0.0, tensor.Data[i+1], 1e-6)
		require.InDelta(t, 0.2, tensor.Data[i+2], 1e-6)
	}

	require.Equal(t, int64(1), p.Pool().Outstanding())
	tensor.Release()
	require.Equal(t, int64(0), p.Pool().Outstanding())
}

func TestPreprocessor_TensorRejectsEmpty(t *testing.T) {
	p := NewPreprocessor(8)

	_, err := p.Tensor(nil)
	require.ErrorIs(t, err, ErrEmptyImage)

	_, err = p.Tensor(image.NewRGBA(image.Rect(0, 0, 0, 0)))
	require.ErrorIs(t, err, ErrEmptyImage)
	require.Equal(t, int64(0), p.Pool().Outstanding())
}

func TestTensorPool_ReusesBuffers(t *testing.T) {
	p := NewPreprocessor(4)
	img := createTestImage(4, 4, color.White)

	for i := 0; i < 10; i++ {
		tensor, err := p.Tensor(img)
		require.NoError(t, err)
		tensor.Release()
	}
	require.Equal(t, int64(0), p.Pool().Outstanding())
}

func TestNewPreprocessor_DefaultSize(t *testing.T) {
	require.Equal(t, DefaultImageSize, NewPreprocessor(0).Size())
}
