package service

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"os"

	"github.com/disintegration/imaging"

	"vista/internal/ai"
)

const (
	maxImageDimension = 1024
	jpegQuality       = 85
)

// PrepareImageFile loads the image at path and prepares it for upload.
func PrepareImageFile(path string) (ai.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return ai.Image{}, fmt.Errorf("%w: %w", ErrImageProcessing, err)
	}
	defer f.Close()
	return PrepareImage(f)
}

// PrepareImage decodes r, drops any alpha channel, shrinks the image to fit
// within 1024x1024 keeping its aspect ratio, and re-encodes it as JPEG.
func PrepareImage(r io.Reader) (ai.Image, error) {
	src, err := imaging.Decode(r)
	if err != nil {
		return ai.Image{}, fmt.Errorf("%w: %w", ErrImageProcessing, err)
	}

	img := imaging.Fit(src, maxImageDimension, maxImageDimension, imaging.Lanczos)
	if img.Rect.Empty() {
		return ai.Image{}, fmt.Errorf("%w: image has no pixels", ErrImageProcessing)
	}
	dropAlpha(img)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return ai.Image{}, fmt.Errorf("%w: %w", ErrImageProcessing, err)
	}
	return ai.Image{MIMEType: "image/jpeg", Data: buf.Bytes()}, nil
}

// dropAlpha makes every pixel fully opaque, keeping the color values.
func dropAlpha(img *image.NRGBA) {
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0xff
	}
}
