// Package ocr is the boundary to the external text-recognition engine. The
// engine is a black box that turns an image or PDF into raw text; all
// structure is recovered later by the field extractor. Unreadable input must
// degrade to empty text, never abort the upload pipeline.
package ocr

import (
	"context"
	"strings"
	"unicode/utf8"
)

// Engine recognizes raw text in an uploaded file.
type Engine interface {
	RecognizeText(ctx context.Context, data []byte, contentType string) (string, error)
	Close() error
}

// TextEngine is a passthrough for clients that already hold the receipt text
// (e.g. e-mail receipts or a device-side recognizer). Binary input yields
// empty text.
type TextEngine struct{}

func NewTextEngine() *TextEngine {
	return &TextEngine{}
}

func (e *TextEngine) RecognizeText(_ context.Context, data []byte, contentType string) (string, error) {
	if !strings.HasPrefix(contentType, "text/") && contentType != "" {
		return "", nil
	}
	if !utf8.Valid(data) {
		return "", nil
	}
	return string(data), nil
}

func (e *TextEngine) Close() error {
	return nil
}
