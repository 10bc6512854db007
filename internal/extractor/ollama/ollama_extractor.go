// Package ollama implements the semantic extractor over a local Ollama
// server's chat API.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"extractd/internal/config"
	"extractd/internal/domain"
	"extractd/internal/extractor"
	"extractd/internal/port"
)

const defaultBaseURL = "http://localhost:11434"

func init() {
	extractor.RegisterProvider("ollama", func(cfg *config.ExtractorConfig) (port.TextExtractor, error) {
		return NewExtractor(cfg), nil
	})
}

// Extractor implements port.TextExtractor against an Ollama /api/chat endpoint.
type Extractor struct {
	model   string
	baseURL string
	client  *http.Client
}

// NewExtractor creates an Ollama-based extractor from the extractor config.
func NewExtractor(cfg *config.ExtractorConfig) *Extractor {
	model := cfg.Model
	if model == "" {
		model = "llama3"
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	return &Extractor{
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (e *Extractor) Extract(ctx context.Context, documentText string) (*domain.ExtractionResult, error) {
	reqBody := map[string]interface{}{
		"model":  e.model,
		"stream": false,
		"format": "json",
		"messages": []map[string]interface{}{
			{
				"role":    "user",
				"content": extractor.BuildPrompt(documentText),
			},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/api/chat", bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling ollama API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var parsed struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("unmarshaling response: %w", err)
	}

	result, ok := extractor.RecoverResult(parsed.Message.Content)
	if !ok {
		return nil, &extractor.Error{
			Code:    domain.ErrCodeExtractorError,
			Message: "unable to parse JSON from model output",
		}
	}
	return result, nil
}
