package ai

import "errors"

var (
	// ErrNetwork wraps transport, timeout and non-2xx failures from a generation service.
	ErrNetwork = errors.New("generation service request failed")
	// ErrResponseShape means the response JSON lacks the expected keys or structure.
	ErrResponseShape = errors.New("unexpected response shape")
	// ErrMalformedResponse means content was present but not valid or extractable JSON.
	ErrMalformedResponse = errors.New("malformed response content")
	// ErrEmptyResponse means the service returned no choices or no content.
	ErrEmptyResponse = errors.New("empty response")
)
