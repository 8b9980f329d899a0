package onec

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 30 * time.Second

// Result is the answer of the accounting system to one document
type Result struct {
	Success   bool   `json:"success"`
	DocNumber string `json:"doc_number,omitempty"`
	Error     string `json:"error,omitempty"`
	Debug     string `json:"debug,omitempty"`
}

// Message renders the result for the operator
func (r Result) Message() string {
	if r.Success {
		number := r.DocNumber
		if number == "" {
			number = "NEW"
		}
		return fmt.Sprintf("✅ Document created! Number: %s", number)
	}
	reason := r.Error
	if reason == "" {
		reason = "Unknown"
	}
	return fmt.Sprintf("❌ 1C error: %s", reason)
}

// rawResult tolerates a numeric doc_number
type rawResult struct {
	Success   bool   `json:"success"`
	DocNumber any    `json:"doc_number"`
	Error     string `json:"error"`
	Debug     string `json:"debug"`
}

// Client posts documents as JSON to an HTTP service endpoint in 1C, or to
// anything answering in the same shape
type Client struct {
	url      string
	username string
	password string
	http     *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

// New creates a Client. An empty url puts the client in debug mode where
// every document is accepted without being sent.
func New(url, username, password string, opts ...Option) *Client {
	c := &Client{
		url:      strings.TrimSpace(url),
		username: username,
		password: password,
		http:     &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Send posts payload and reports the outcome. Failures are part of the
// Result, never returned as errors.
func (c *Client) Send(ctx context.Context, payload any) Result {
	if c.url == "" {
		slog.Warn("1C URL not set, document not forwarded")
		return Result{Success: true, Debug: "1C URL not set"}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return Result{Error: fmt.Sprintf("encoding document: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return Result{Error: fmt.Sprintf("creating request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.username != "" || c.password != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		slog.Error("Error calling 1C", "url", c.url, "error", err)
		return Result{Error: err.Error()}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{Error: fmt.Sprintf("reading response: %v", err)}
	}

	if resp.StatusCode != http.StatusOK {
		slog.Error("1C rejected document", "status", resp.StatusCode)
		return Result{Error: string(data)}
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw rawResult
	if err := dec.Decode(&raw); err != nil {
		return Result{Error: fmt.Sprintf("decoding response: %v", err)}
	}

	result := Result{
		Success: raw.Success,
		Error:   raw.Error,
		Debug:   raw.Debug,
	}
	if raw.DocNumber != nil {
		result.DocNumber = fmt.Sprint(raw.DocNumber)
	}
	return result
}
