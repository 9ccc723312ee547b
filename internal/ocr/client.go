// Package ocr talks to the HTTP text recognition service.
package ocr

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"sync"
	"time"
)

const (
	// FormField is the multipart field carrying the image
	FormField = "file"
	// FormFilename is the filename sent with the image part
	FormFilename = "frame.png"

	defaultTimeout = 30 * time.Second
	maxBodySize    = 1 << 20
)

// Client posts PNG frames to the configured endpoint.
type Client struct {
	http   *http.Client
	logger *slog.Logger

	mu  sync.RWMutex
	url string
}

// New creates a client for endpoint.
func New(endpoint string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		http:   &http.Client{Timeout: defaultTimeout},
		logger: logger,
		url:    endpoint,
	}
}

// URL returns the current endpoint.
func (c *Client) URL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.url
}

// SetURL switches the endpoint; in-flight requests keep the old one.
func (c *Client) SetURL(endpoint string) {
	c.mu.Lock()
	c.url = endpoint
	c.mu.Unlock()
}

// Recognize uploads image and returns the recognized text.
func (c *Client) Recognize(ctx context.Context, image []byte) (string, error) {
	body, contentType, err := encodeImage(image)
	if err != nil {
		return "", err
	}

	endpoint := c.URL()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("ocr request", "url", endpoint, "bytes", len(image))

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("%w: read response: %w", ErrUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("ocr request rejected", "url", endpoint, "status", resp.StatusCode)
		return "", &StatusError{Status: resp.StatusCode, Body: string(data)}
	}

	return ParseText(data), nil
}

func encodeImage(image []byte) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, FormField, FormFilename))
	header.Set("Content-Type", "image/png")

	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("create form part: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return nil, "", fmt.Errorf("write image: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close form: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}
