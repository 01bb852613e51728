// Package metrics measures exported text in bytes, lines and estimated tokens.
package metrics

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// Counter provides methods for counting bytes, tokens, and lines in text
type Counter interface {
	// Count returns the number of bytes, tokens, and lines in the given text
	Count(text string) (bytes, tokens, lines int)
}

// NewCounter returns the counter named by tokenizer: "simple" or "tiktoken".
func NewCounter(tokenizer, model string) (Counter, error) {
	switch tokenizer {
	case "", "simple":
		return &SimpleCounter{}, nil
	case "tiktoken":
		return NewTiktokenCounter(model)
	}
	return nil, fmt.Errorf("unknown tokenizer %q", tokenizer)
}

// SimpleCounter estimates tokens as bytes/4
type SimpleCounter struct{}

// Count returns bytes, estimated tokens, and lines for the given text
func (c *SimpleCounter) Count(text string) (int, int, int) {
	return len(text), estimateTokenCountSimple(text), countLines(text)
}

// TiktokenCounter uses the tiktoken library to count tokens
type TiktokenCounter struct {
	model    string
	encoding *tiktoken.Tiktoken
}

// NewTiktokenCounter creates a new TiktokenCounter for the given model
func NewTiktokenCounter(model string) (*TiktokenCounter, error) {
	encoding, err := tiktoken.EncodingForModel(model)
	if err != nil {
		return nil, fmt.Errorf("unsupported model for tiktoken: %s", model)
	}
	return &TiktokenCounter{model: model, encoding: encoding}, nil
}

// Count returns bytes, tokens (using tiktoken), and lines for the given text
func (c *TiktokenCounter) Count(text string) (int, int, int) {
	tokens := len(c.encoding.Encode(strings.TrimSpace(text), nil, nil))
	return len(text), tokens, countLines(text)
}

// estimateTokenCountSimple provides a simple approximation of token count
// by dividing the byte count by 4 (average English token is ~4 bytes)
func estimateTokenCountSimple(text string) int {
	return len(text) / 4
}

// countLines counts newline-separated lines; empty text has none.
func countLines(text string) int {
	if text == "" {
		return 0
	}
	n := strings.Count(text, "\n")
	if !strings.HasSuffix(text, "\n") {
		n++
	}
	return n
}
