package ai

import (
	"encoding/base64"
	"time"
)

// RequestTimeout bounds every call to a generation service.
const RequestTimeout = 60 * time.Second

// ResultFormatJSON asks the service to return JSON text.
const ResultFormatJSON = "json"

// TextOptions holds the generation parameters of a single request.
type TextOptions struct {
	MaxTokens   int
	Temperature float32

	// ResultFormat is an optional hint for the response content ("json").
	ResultFormat string
}

// Image is an encoded image ready to be sent to a multimodal model.
type Image struct {
	// MIMEType is the media type of Data, e.g. "image/jpeg".
	MIMEType string
	Data     []byte
}

// Base64 returns the standard base64 encoding of the image bytes.
func (i Image) Base64() string {
	return base64.StdEncoding.EncodeToString(i.Data)
}

// DataURI returns the image as an inline data URI.
func (i Image) DataURI() string {
	return "data:" + i.MIMEType + ";base64," + i.Base64()
}
