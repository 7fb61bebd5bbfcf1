package ai

import (
	"context"
)

// TextGenerator produces free-form text from a prompt.
type TextGenerator interface {
	// CompleteText sends a single text-only prompt and returns the generated content.
	CompleteText(ctx context.Context, prompt string, opts TextOptions) (string, error)
}

// ImageNarrator produces text about an image.
type ImageNarrator interface {
	// DescribeImage sends one image together with a text prompt and returns the generated content.
	DescribeImage(ctx context.Context, img Image, prompt string, opts TextOptions) (string, error)
}

// Provider is the contract every generation backend (Qwen, Gemini) fulfils.
type Provider interface {
	TextGenerator
	ImageNarrator
	Close()
}

var (
	_ Provider = (*QwenClient)(nil)
	_ Provider = (*GeminiProvider)(nil)
)
