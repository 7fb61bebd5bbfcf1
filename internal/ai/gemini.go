package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// DefaultGeminiModel is used when no model name is configured.
const DefaultGeminiModel = "gemini-2.0-flash"

// GeminiProvider implements Provider using Google's Gemini models.
type GeminiProvider struct {
	client    *genai.Client
	modelName string
	logger    *zap.Logger
}

// NewGeminiProvider initializes a new Gemini client.
// apiKey should be provided from environment variables.
func NewGeminiProvider(ctx context.Context, apiKey, modelName string, logger *zap.Logger) (*GeminiProvider, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("gemini: missing api key")
	}
	if modelName == "" {
		modelName = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiProvider{
		client:    client,
		modelName: modelName,
		logger:    logger.Named("gemini"),
	}, nil
}

// Close cleans up the Gemini client resources.
func (p *GeminiProvider) Close() {
	p.client.Close()
}

// CompleteText generates text for a single prompt.
// Parts are concatenated as is so a JSON document split across parts stays intact.
func (p *GeminiProvider) CompleteText(ctx context.Context, prompt string, opts TextOptions) (string, error) {
	return p.generate(ctx, opts, "", genai.Text(prompt))
}

// DescribeImage generates text for an inline image followed by a prompt.
// Narration parts are joined with single spaces.
func (p *GeminiProvider) DescribeImage(ctx context.Context, img Image, prompt string, opts TextOptions) (string, error) {
	format := strings.TrimPrefix(img.MIMEType, "image/")
	return p.generate(ctx, opts, " ", genai.ImageData(format, img.Data), genai.Text(prompt))
}

func (p *GeminiProvider) generate(ctx context.Context, opts TextOptions, sep string, parts ...genai.Part) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	model := p.client.GenerativeModel(p.modelName)
	if opts.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(opts.MaxTokens))
	}
	model.SetTemperature(opts.Temperature)

	// JSON mode for structured parsing.
	if opts.ResultFormat == ResultFormatJSON {
		model.ResponseMIMEType = "application/json"
	}

	p.logger.Debug("sending request", zap.String("model", p.modelName), zap.Int("parts", len(parts)))

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		p.logger.Error("generation failed", zap.Error(err))
		return "", fmt.Errorf("%w: gemini generation error: %w", ErrNetwork, err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("%w: no response candidates from Gemini", ErrEmptyResponse)
	}

	text := joinTextParts(resp.Candidates[0].Content.Parts, sep)
	if text == "" {
		return "", fmt.Errorf("%w: gemini returned empty text parts", ErrEmptyResponse)
	}
	p.logger.Debug("received response", zap.String("text", text))
	return text, nil
}

// joinTextParts joins the non-blank text parts with sep and trims the result.
func joinTextParts(parts []genai.Part, sep string) string {
	var textParts []string
	for _, part := range parts {
		txt, ok := part.(genai.Text)
		if !ok || strings.TrimSpace(string(txt)) == "" {
			continue
		}
		textParts = append(textParts, string(txt))
	}
	return strings.TrimSpace(strings.Join(textParts, sep))
}
