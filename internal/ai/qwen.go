package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"
)

const (
	DefaultQwenTextEndpoint       = "https://dashscope.aliyuncs.com/api/v1/services/aigc/text-generation/generation"
	DefaultQwenMultimodalEndpoint = "https://dashscope.aliyuncs.com/api/v1/services/aigc/multimodal-generation/generation"
	DefaultQwenTextModel          = "qwen-max"
	DefaultQwenVisionModel        = "qwen-vl-max"
)

// QwenConfig holds the credentials and endpoints of the DashScope generation API.
type QwenConfig struct {
	APIKey             string
	TextEndpoint       string
	MultimodalEndpoint string
	TextModel          string
	VisionModel        string
}

// QwenClient implements Provider over the DashScope HTTP API.
type QwenClient struct {
	cfg        QwenConfig
	httpClient *http.Client
	logger     *zap.Logger
}

type qwenRequest struct {
	Model      string         `json:"model"`
	Input      qwenInput      `json:"input"`
	Parameters qwenParameters `json:"parameters"`
}

type qwenInput struct {
	Prompt   string        `json:"prompt,omitempty"`
	Messages []qwenMessage `json:"messages,omitempty"`
}

type qwenMessage struct {
	Role    string            `json:"role"`
	Content []qwenContentPart `json:"content"`
}

type qwenContentPart struct {
	Image string `json:"image,omitempty"`
	Text  string `json:"text,omitempty"`
}

type qwenParameters struct {
	MaxTokens    int     `json:"max_tokens,omitempty"`
	Temperature  float32 `json:"temperature"`
	ResultFormat string  `json:"result_format,omitempty"`
}

// NewQwenClient validates cfg, fills in default endpoints and models, and returns a client.
func NewQwenClient(cfg QwenConfig, logger *zap.Logger) (*QwenClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("qwen: missing api key")
	}
	if cfg.TextEndpoint == "" {
		cfg.TextEndpoint = DefaultQwenTextEndpoint
	}
	if cfg.MultimodalEndpoint == "" {
		cfg.MultimodalEndpoint = DefaultQwenMultimodalEndpoint
	}
	if cfg.TextModel == "" {
		cfg.TextModel = DefaultQwenTextModel
	}
	if cfg.VisionModel == "" {
		cfg.VisionModel = DefaultQwenVisionModel
	}
	return &QwenClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: RequestTimeout},
		logger:     logger.Named("qwen"),
	}, nil
}

// Close is a no-op; the HTTP client holds no per-provider resources.
func (c *QwenClient) Close() {}

// CompleteText calls the text-generation endpoint and normalises the response layout.
func (c *QwenClient) CompleteText(ctx context.Context, prompt string, opts TextOptions) (string, error) {
	payload := qwenRequest{
		Model: c.cfg.TextModel,
		Input: qwenInput{Prompt: prompt},
		Parameters: qwenParameters{
			MaxTokens:    opts.MaxTokens,
			Temperature:  opts.Temperature,
			ResultFormat: opts.ResultFormat,
		},
	}

	resp, err := c.post(ctx, c.cfg.TextEndpoint, payload)
	if err != nil {
		return "", err
	}

	text, err := ExtractText(resp)
	if err != nil {
		c.logger.Error("no text content in response", zap.Error(err), zap.Any("response", resp))
		return "", fmt.Errorf("qwen: %w", err)
	}
	return text, nil
}

// DescribeImage calls the multimodal endpoint with the image inlined as a data URI.
func (c *QwenClient) DescribeImage(ctx context.Context, img Image, prompt string, opts TextOptions) (string, error) {
	payload := qwenRequest{
		Model: c.cfg.VisionModel,
		Input: qwenInput{
			Messages: []qwenMessage{{
				Role: "user",
				Content: []qwenContentPart{
					{Image: img.DataURI()},
					{Text: prompt},
				},
			}},
		},
		Parameters: qwenParameters{
			MaxTokens:   opts.MaxTokens,
			Temperature: opts.Temperature,
		},
	}

	resp, err := c.post(ctx, c.cfg.MultimodalEndpoint, payload)
	if err != nil {
		return "", err
	}

	content, err := ExtractMessageContent(resp)
	if err != nil {
		c.logger.Error("no message content in response", zap.Error(err), zap.Any("response", resp))
		return "", fmt.Errorf("qwen: %w", err)
	}
	return content, nil
}

// post sends payload as JSON with bearer auth and decodes the JSON body.
func (c *QwenClient) post(ctx context.Context, endpoint string, payload qwenRequest) (map[string]any, error) {
	reqBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("qwen: marshal request: %w", err)
	}
	c.logger.Debug("sending request",
		zap.String("endpoint", endpoint),
		zap.String("model", payload.Model),
		zap.String("prompt", payloadPrompt(payload)),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("qwen: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("request failed", zap.String("endpoint", endpoint), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", ErrNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("service returned error status",
			zap.Int("status_code", resp.StatusCode),
			zap.ByteString("response_body", body),
		)
		return nil, fmt.Errorf("%w: status %d: %s", ErrNetwork, resp.StatusCode, body)
	}

	c.logger.Debug("received response", zap.ByteString("response_body", body))

	var decoded map[string]any
	if err := json.Unmarshal(body, &decoded); err != nil {
		c.logger.Error("failed to decode response", zap.Error(err), zap.ByteString("response_body", body))
		return nil, fmt.Errorf("%w: decode response: %w", ErrMalformedResponse, err)
	}
	return decoded, nil
}

// payloadPrompt returns the prompt text of a request for logging; image data is left out.
func payloadPrompt(p qwenRequest) string {
	if p.Input.Prompt != "" {
		return p.Input.Prompt
	}
	for _, m := range p.Input.Messages {
		for _, part := range m.Content {
			if part.Text != "" {
				return part.Text
			}
		}
	}
	return ""
}
