package ocr

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const recognizePrompt = `Transcribe all text visible on this receipt exactly as printed,
line by line, top to bottom. Output plain text only, no commentary, no markdown.`

// Gemini implements Engine using Google Gemini vision. It is asked for a
// verbatim transcript only; field extraction stays in this codebase.
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGemini creates a Gemini-backed OCR engine.
func NewGemini(apiKey string, modelName string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if modelName == "" {
		modelName = "gemini-2.5-pro"
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &Gemini{
		client: client,
		model:  client.GenerativeModel(modelName),
	}, nil
}

func (g *Gemini) RecognizeText(ctx context.Context, data []byte, contentType string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	format := "png"
	switch contentType {
	case "image/jpeg", "image/jpg":
		format = "jpeg"
	case "image/webp":
		format = "webp"
	case "application/pdf":
		format = "pdf"
	}

	parts := []genai.Part{
		genai.ImageData(format, data),
		genai.Text(recognizePrompt),
	}

	resp, err := g.model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("generating content: %w", err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response from gemini")
	}

	var out strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			out.WriteString(string(text))
		}
	}

	return strings.TrimSpace(out.String()), nil
}

func (g *Gemini) Close() error {
	return g.client.Close()
}
