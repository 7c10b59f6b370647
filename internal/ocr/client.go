// Package ocr is the boundary to the external OCR engine. The engine itself
// is a separate service; this client only ships image bytes out and plain
// text back.
package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// Recognizer turns image bytes into recognized text. Implementations must
// release any engine resource on every exit path, including timeouts.
type Recognizer interface {
	Recognize(ctx context.Context, image []byte, filename string) (string, error)
}

// Client calls an OCR service over HTTP. OCR is slow: the timeout is on the
// order of minutes, not seconds.
type Client struct {
	url        string
	httpClient *http.Client
}

func NewClient(url string, timeoutMinutes int) *Client {
	if timeoutMinutes <= 0 {
		timeoutMinutes = 5
	}
	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: time.Duration(timeoutMinutes) * time.Minute,
		},
	}
}

// Recognize posts the image as multipart form data and returns the engine's
// recognized text.
func (c *Client) Recognize(ctx context.Context, image []byte, filename string) (string, error) {
	if c.url == "" {
		return "", fmt.Errorf("ocr service url not configured")
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image", filename)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, &body)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ocr call failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ocr service error %d: %s", resp.StatusCode, respBody)
	}

	var parsed struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}
	return parsed.Text, nil
}
