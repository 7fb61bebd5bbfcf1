package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"vista/internal/ai"
)

// stubNarrator is a test double for ai.ImageNarrator.
type stubNarrator struct {
	reply string
	err   error

	img    ai.Image
	prompt string
	opts   ai.TextOptions
	calls  int
}

func (s *stubNarrator) DescribeImage(_ context.Context, img ai.Image, prompt string, opts ai.TextOptions) (string, error) {
	s.calls++
	s.img = img
	s.prompt = prompt
	s.opts = opts
	return s.reply, s.err
}

var huntsman = LocationHint{
	Latitude:  39.953514,
	Longitude: -75.197903,
	Address:   "Jon M. Huntsman Hall, 3730 Walnut St, Philadelphia, PA 19104",
}

func writePNG(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: 200, G: 30, B: 30, A: 128})
		}
	}
	path := filepath.Join(t.TempDir(), "photo.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func TestDescribe(t *testing.T) {
	narrator := &stubNarrator{reply: "  Huntsman Hall is the home of Wharton.  "}
	describer := NewImageDescriber(narrator, zaptest.NewLogger(t))

	got, err := describer.Describe(context.Background(), writePNG(t, 2048, 1024), huntsman)
	require.NoError(t, err)
	assert.Equal(t, "Huntsman Hall is the home of Wharton.", got)

	require.Equal(t, 1, narrator.calls)
	assert.Equal(t, "image/jpeg", narrator.img.MIMEType)
	assert.Equal(t, 1000, narrator.opts.MaxTokens)
	assert.Contains(t, narrator.prompt, "You are VISTA")
	assert.Contains(t, narrator.prompt, "Location coordinates: 39.953514, -75.197903")
	assert.Contains(t, narrator.prompt, "Address: Jon M. Huntsman Hall")
	assert.NotContains(t, narrator.prompt, "Nearby landmark")

	decoded, err := jpeg.Decode(bytes.NewReader(narrator.img.Data))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 1024, 512), decoded.Bounds())
}

func TestDescribe_SmallImageNotUpscaled(t *testing.T) {
	narrator := &stubNarrator{reply: "ok"}
	describer := NewImageDescriber(narrator, zaptest.NewLogger(t))

	_, err := describer.Describe(context.Background(), writePNG(t, 300, 200), huntsman)
	require.NoError(t, err)

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(narrator.img.Data))
	require.NoError(t, err)
	assert.Equal(t, 300, cfg.Width)
	assert.Equal(t, 200, cfg.Height)
}

func TestDescribe_MissingFile(t *testing.T) {
	narrator := &stubNarrator{}
	describer := NewImageDescriber(narrator, zaptest.NewLogger(t))

	_, err := describer.Describe(context.Background(), filepath.Join(t.TempDir(), "missing.jpg"), huntsman)
	require.ErrorIs(t, err, ErrImageProcessing)
	assert.Zero(t, narrator.calls, "narrator must not be called")
}

func TestDescribe_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.jpg")
	require.NoError(t, os.WriteFile(path, []byte("definitely not an image"), 0o600))

	narrator := &stubNarrator{}
	describer := NewImageDescriber(narrator, zaptest.NewLogger(t))

	_, err := describer.Describe(context.Background(), path, huntsman)
	require.ErrorIs(t, err, ErrImageProcessing)
	assert.Zero(t, narrator.calls)
}

func TestDescribeReader_PropagatesNarratorError(t *testing.T) {
	narrator := &stubNarrator{err: ai.ErrEmptyResponse}
	describer := NewImageDescriber(narrator, zaptest.NewLogger(t))

	data, err := os.ReadFile(writePNG(t, 10, 10))
	require.NoError(t, err)

	_, err = describer.DescribeReader(context.Background(), bytes.NewReader(data), huntsman)
	require.ErrorIs(t, err, ai.ErrEmptyResponse)
}

func TestPrepareImage_DropsAlpha(t *testing.T) {
	data, err := os.ReadFile(writePNG(t, 4, 4))
	require.NoError(t, err)

	img, err := PrepareImage(bytes.NewReader(data))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(img.DataURI(), "data:image/jpeg;base64,/9j/"))

	decoded, err := jpeg.Decode(bytes.NewReader(img.Data))
	require.NoError(t, err)
	r, _, _, _ := decoded.At(1, 1).RGBA()
	// Straight color is kept rather than premultiplied by the 50% alpha.
	assert.Greater(t, r>>8, uint32(150))
}

func TestLocationContext(t *testing.T) {
	got := locationContext(LocationHint{Latitude: 39.95, Longitude: -75.19, Landmark: "Locust Walk"})
	assert.Equal(t, "Location coordinates: 39.95, -75.19\nNearby landmark: Locust Walk", got)
}
