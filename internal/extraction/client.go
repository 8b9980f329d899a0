package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/zombor/invoice-capture/internal/imaging"
)

// MaxFileSize is the largest file accepted for extraction (10 MiB)
const MaxFileSize = 10 << 20

const (
	scanPath       = "/api/scan"
	defaultTimeout = 120 * time.Second
)

// File is one selected document
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// LoadFile reads a file from disk and resolves its content type
func LoadFile(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("reading file: %w", err)
	}
	name := filepath.Base(path)
	return File{
		Name:        name,
		ContentType: imaging.ContentType(name, data),
		Data:        data,
	}, nil
}

// Client calls the remote extraction service, one file per call
type Client struct {
	http     *http.Client
	endpoint *url.URL
	timeout  time.Duration
}

// Option configures a Client
type Option func(*Client)

// WithTimeout bounds a single extraction call
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.http = h
	}
}

// New creates a Client for the service at endpoint
func New(endpoint string, opts ...Option) (*Client, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parsing endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("scheme %q is not supported", u.Scheme)
	}

	c := &Client{
		http:     http.DefaultClient,
		endpoint: u,
		timeout:  defaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Extract sends f to the service and classifies the outcome.
// It never returns an error: every failure is a tagged Result.
func (c *Client) Extract(ctx context.Context, f File) Result {
	if len(f.Data) > MaxFileSize {
		return Result{
			Kind:    KindTooLarge,
			Message: fmt.Sprintf("file is %d bytes, the limit is %d", len(f.Data), MaxFileSize),
		}
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.post(ctx, f)
	if err != nil {
		slog.Warn("Extraction request failed", "filename", f.Name, "error", err)
		return Result{Kind: KindNetworkError, Message: err.Error()}
	}

	if resp.Error != "" {
		return Result{Kind: KindServiceError, Message: resp.Error}
	}

	return Result{
		Kind:        KindOK,
		Items:       normalizeItems(resp.Items),
		SupplierINN: stringValue(resp.SupplierINN),
		DocNumber:   stringValue(resp.DocNumber),
		DocDate:     stringValue(resp.DocDate),
		TotalSum:    amountValue(resp.TotalSum),
		Preview:     resp.Preview,
	}
}

func (c *Client) post(ctx context.Context, f File) (*scanResponse, error) {
	scanURL, err := c.endpoint.Parse(scanPath)
	if err != nil {
		return nil, fmt.Errorf("parsing URL: %w", err)
	}

	body, contentType, err := multipartBody(f)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, scanURL.String(), body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling extraction service: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %s", res.Status)
	}

	var decoded scanResponse
	if err := json.NewDecoder(res.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return &decoded, nil
}

func multipartBody(f File) (io.Reader, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, f.Name))
	contentType := f.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("creating form file: %w", err)
	}
	if _, err := part.Write(f.Data); err != nil {
		return nil, "", fmt.Errorf("writing form file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("closing multipart writer: %w", err)
	}
	return body, writer.FormDataContentType(), nil
}
