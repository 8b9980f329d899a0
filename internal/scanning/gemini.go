package scanning

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/zombor/invoice-capture/internal/imaging"
)

const (
	geminiAttempts    = 3
	geminiRetryWait   = 2 * time.Second
	geminiTimeout     = 60 * time.Second
	geminiTemperature = 0.1
)

// Gemini implements the Scanner interface using Google Gemini
type Gemini struct {
	client    *genai.Client
	model     *genai.GenerativeModel
	retryWait time.Duration
}

// NewGemini creates a new Gemini Scanner instance
func NewGemini(apiKey string, modelName string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(geminiTemperature)

	return &Gemini{
		client:    client,
		model:     model,
		retryWait: geminiRetryWait,
	}, nil
}

// ScanInvoice analyzes an invoice and extracts its line items
func (g *Gemini) ScanInvoice(ctx context.Context, imageData []byte, contentType string) (*InvoiceData, error) {
	ctx, cancel := context.WithTimeout(ctx, geminiTimeout)
	defer cancel()

	finalImageData, err := imaging.Prepare(imageData, contentType)
	if err != nil {
		return nil, err
	}

	// genai.ImageData expects just the format suffix; Prepare always yields PNG
	parts := []genai.Part{
		genai.ImageData("png", finalImageData),
		genai.Text(invoiceScanPrompt),
	}

	var resp *genai.GenerateContentResponse
	err = withQuotaRetry(ctx, geminiAttempts, g.retryWait, func() error {
		var genErr error
		resp, genErr = g.model.GenerateContent(ctx, parts...)
		return genErr
	})
	if err != nil {
		return nil, fmt.Errorf("generating content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no response from gemini")
	}

	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			responseText.WriteString(string(text))
		}
	}

	slog.Debug("Gemini response", "text", responseText.String())

	data, err := parseInvoiceJSON(responseText.String())
	if err != nil {
		return nil, fmt.Errorf("parsing invoice data: %w", err)
	}

	return data, nil
}

// Close closes the Gemini client
func (g *Gemini) Close() error {
	return g.client.Close()
}

// isQuotaError reports whether err is a rate limit or quota rejection
func isQuotaError(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusTooManyRequests {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota")
}

// withQuotaRetry runs fn up to attempts times, pausing wait between tries,
// as long as it fails with a quota error
func withQuotaRetry(ctx context.Context, attempts int, wait time.Duration, fn func() error) error {
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = fn()
		if err == nil || !isQuotaError(err) || attempt == attempts {
			return err
		}

		slog.Warn("Quota exceeded, retrying", "attempt", attempt, "wait", wait)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
	return err
}
