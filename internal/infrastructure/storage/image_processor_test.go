package storage

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngImage(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, x%h, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestPrepare_ResizesAndReencodes(t *testing.T) {
	p := NewImageProcessor(4<<20, 100)

	out, err := p.Prepare(pngImage(t, 400, 200))
	require.NoError(t, err)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 100, cfg.Width)
	assert.Equal(t, 50, cfg.Height)
}

func TestPrepare_KeepsSmallImages(t *testing.T) {
	p := NewImageProcessor(4<<20, 800)

	out, err := p.Prepare(pngImage(t, 40, 30))
	require.NoError(t, err)

	img, err := jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 40, img.Bounds().Dx())
	assert.Equal(t, 30, img.Bounds().Dy())
}

func TestValidateImage(t *testing.T) {
	small := NewImageProcessor(64, 800)
	p := NewImageProcessor(4<<20, 800)

	assert.ErrorIs(t, small.ValidateImage(pngImage(t, 50, 50)), ErrImageTooLarge)
	assert.ErrorIs(t, p.ValidateImage([]byte("GIF89a not really")), ErrNotAnImage)
	assert.ErrorIs(t, p.ValidateImage([]byte("plain text")), ErrNotAnImage)
	assert.NoError(t, p.ValidateImage(pngImage(t, 10, 10)))
}

func TestMemoryStorage(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStorage()

	data := []byte("photo")
	require.NoError(t, m.Upload(ctx, "celebrities/a.jpg", data, "image/jpeg"))
	data[0] = 'X'
	assert.True(t, m.Has("celebrities/a.jpg"))
	assert.Equal(t, "/photos/celebrities/a.jpg", m.URL("celebrities/a.jpg"))

	require.NoError(t, m.Delete(ctx, "celebrities/a.jpg"))
	assert.False(t, m.Has("celebrities/a.jpg"))

	m.FailDelete = true
	assert.Error(t, m.Delete(ctx, "celebrities/b.jpg"))
}
