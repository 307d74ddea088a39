package ai

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// DefaultTokenEncoder is the encoding used to estimate prompt sizes.
const DefaultTokenEncoder = "o200k_base"

// TruncateToTokens cuts text to at most maxTokens tokens of the given encoding.
// A non-positive maxTokens disables truncation.
func TruncateToTokens(text string, encoder string, maxTokens int) (string, error) {
	if maxTokens <= 0 || text == "" {
		return text, nil
	}
	if encoder == "" {
		encoder = DefaultTokenEncoder
	}

	enc, err := tiktoken.GetEncoding(encoder)
	if err != nil {
		return "", fmt.Errorf("failed to load token encoder %q: %w", encoder, err)
	}

	tokens := enc.Encode(text, nil, nil)
	if len(tokens) <= maxTokens {
		return text, nil
	}

	return enc.Decode(tokens[:maxTokens]), nil
}
