package ai

import (
	"fmt"
	"strings"
)

// textStrategy pulls generated text out of one known response layout.
type textStrategy struct {
	name    string
	extract func(resp map[string]any) (string, bool)
}

// textStrategies lists the text-generation layouts in priority order.
var textStrategies = []textStrategy{
	{name: "output.text", extract: outputText},
	{name: "response", extract: responseText},
	{name: "choices[0].text", extract: choicesText},
}

func outputText(resp map[string]any) (string, bool) {
	output, ok := resp["output"].(map[string]any)
	if !ok {
		return "", false
	}
	return nonEmptyString(output["text"])
}

func responseText(resp map[string]any) (string, bool) {
	return nonEmptyString(resp["response"])
}

func choicesText(resp map[string]any) (string, bool) {
	choices, ok := resp["choices"].([]any)
	if !ok || len(choices) == 0 {
		return "", false
	}
	first, ok := choices[0].(map[string]any)
	if !ok {
		return "", false
	}
	return nonEmptyString(first["text"])
}

func nonEmptyString(v any) (string, bool) {
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}

// ExtractText returns the generated text of a text-generation response.
// The first layout yielding a non-empty string wins.
func ExtractText(resp map[string]any) (string, error) {
	for _, s := range textStrategies {
		if text, ok := s.extract(resp); ok {
			return text, nil
		}
	}
	names := make([]string, 0, len(textStrategies))
	for _, s := range textStrategies {
		names = append(names, s.name)
	}
	return "", fmt.Errorf("%w: no content at %s", ErrResponseShape, strings.Join(names, ", "))
}

// ExtractMessageContent returns the text at output.choices[0].message.content.
// Content may be a string or a list of fragments, where each fragment is a
// string or an object carrying a "text" field. Fragments are joined with a
// single space.
func ExtractMessageContent(resp map[string]any) (string, error) {
	var choices []any
	if output, ok := resp["output"].(map[string]any); ok {
		choices, _ = output["choices"].([]any)
	} else if _, present := resp["output"]; present {
		return "", fmt.Errorf("%w: output is %T, not an object", ErrResponseShape, resp["output"])
	}
	if len(choices) == 0 {
		return "", fmt.Errorf("%w: no choices found", ErrEmptyResponse)
	}

	choice, ok := choices[0].(map[string]any)
	if !ok {
		return "", fmt.Errorf("%w: choice is %T, not an object", ErrResponseShape, choices[0])
	}
	rawMessage, present := choice["message"]
	if !present || rawMessage == nil {
		return "", fmt.Errorf("%w: no message in first choice", ErrEmptyResponse)
	}
	message, ok := rawMessage.(map[string]any)
	if !ok {
		return "", fmt.Errorf("%w: message is %T, not an object", ErrResponseShape, rawMessage)
	}

	var content string
	switch c := message["content"].(type) {
	case nil:
	case string:
		content = c
	case []any:
		parts := make([]string, 0, len(c))
		for _, item := range c {
			switch frag := item.(type) {
			case string:
				parts = append(parts, frag)
			case map[string]any:
				rawText, present := frag["text"]
				if !present {
					continue
				}
				text, ok := rawText.(string)
				if !ok {
					return "", fmt.Errorf("%w: fragment text is %T, not a string", ErrResponseShape, rawText)
				}
				parts = append(parts, text)
			}
		}
		content = strings.Join(parts, " ")
	default:
		return "", fmt.Errorf("%w: content is %T", ErrResponseShape, c)
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return "", fmt.Errorf("%w: no content found", ErrEmptyResponse)
	}
	return content, nil
}

// CleanJSONString removes markdown code blocks if present (e.g. ```json ... ```)
func CleanJSONString(input string) string {
	input = strings.TrimSpace(input)
	input = strings.TrimPrefix(input, "```json")
	input = strings.TrimPrefix(input, "```")
	input = strings.TrimSuffix(input, "```")
	return strings.TrimSpace(input)
}
