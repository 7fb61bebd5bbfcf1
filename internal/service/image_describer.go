package service

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"vista/internal/ai"
)

// describeOptions are the generation parameters for photo narration.
var describeOptions = ai.TextOptions{
	MaxTokens:   1000,
	Temperature: 0.7,
}

// ImageDescriber narrates the building or landmark in a photo.
type ImageDescriber struct {
	narrator ai.ImageNarrator
	logger   *zap.Logger
}

// NewImageDescriber creates an ImageDescriber backed by the given narrator.
func NewImageDescriber(narrator ai.ImageNarrator, logger *zap.Logger) *ImageDescriber {
	return &ImageDescriber{narrator: narrator, logger: logger.Named("image-describer")}
}

// Describe narrates the image stored at imagePath, taken near loc.
func (d *ImageDescriber) Describe(ctx context.Context, imagePath string, loc LocationHint) (string, error) {
	d.logger.Debug("preprocessing image", zap.String("path", imagePath))
	img, err := PrepareImageFile(imagePath)
	if err != nil {
		d.logger.Error("image preprocessing failed", zap.String("path", imagePath), zap.Error(err))
		return "", err
	}
	return d.describe(ctx, img, loc)
}

// DescribeReader narrates the image read from r, taken near loc.
func (d *ImageDescriber) DescribeReader(ctx context.Context, r io.Reader, loc LocationHint) (string, error) {
	img, err := PrepareImage(r)
	if err != nil {
		d.logger.Error("image preprocessing failed", zap.Error(err))
		return "", err
	}
	return d.describe(ctx, img, loc)
}

func (d *ImageDescriber) describe(ctx context.Context, img ai.Image, loc LocationHint) (string, error) {
	prompt := buildImagePrompt(loc)
	d.logger.Debug("requesting description",
		zap.Int("image_bytes", len(img.Data)),
		zap.Float64("latitude", loc.Latitude),
		zap.Float64("longitude", loc.Longitude),
	)

	description, err := d.narrator.DescribeImage(ctx, img, prompt, describeOptions)
	if err != nil {
		d.logger.Error("description failed", zap.Error(err))
		return "", fmt.Errorf("describe image: %w", err)
	}
	return strings.TrimSpace(description), nil
}

// locationContext renders the location lines injected into the prompt.
func locationContext(loc LocationHint) string {
	var b strings.Builder
	b.WriteString("Location coordinates: ")
	b.WriteString(strconv.FormatFloat(loc.Latitude, 'f', -1, 64))
	b.WriteString(", ")
	b.WriteString(strconv.FormatFloat(loc.Longitude, 'f', -1, 64))
	if loc.Address != "" {
		b.WriteString("\nAddress: " + loc.Address)
	}
	if loc.Landmark != "" {
		b.WriteString("\nNearby landmark: " + loc.Landmark)
	}
	return b.String()
}

// buildImagePrompt constructs the tour-guide instructions for a photo near loc.
func buildImagePrompt(loc LocationHint) string {
	return fmt.Sprintf(`You are VISTA, an enthusiastic and knowledgeable tour guide. Analyze this image and provide a detailed, engaging description of the building or landmark shown.

%s

Please provide:
1. A vivid description of the building/landmark in the image
2. Any interesting facts or recommendations for visitors
3. Safety tips or practical advice if relevant (If no then don't mention it)

Write all of the above in a single paragraph, make it short and concise.

Do not include the location context provided by the user in your response. The location context will be close but might not be exactly accurate.

You should first identify what's in the image and then look for the building/landmark in the image. The building/landmark will be very close to the location provided.

Keep the tone friendly and informative, as if you're speaking to a curious tourist. Focus on what makes this place special and worth visiting.`, locationContext(loc))
}
