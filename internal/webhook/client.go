// Package webhook forwards assembled invoice requests to the external
// workflow engine as multipart form-data: the pricing schema as a string
// field, delivery notes as file parts.
package webhook

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

// DeliveryNote is one uploaded PDF to attach to the invoice request.
type DeliveryNote struct {
	Filename string
	Content  io.Reader
}

type Client struct {
	url  string
	http *http.Client
}

// New builds a webhook client; an empty URL yields a disabled client.
func New(url string) *Client {
	return &Client{url: url, http: &http.Client{Timeout: 60 * time.Second}}
}

// Enabled reports whether a webhook URL is configured.
func (c *Client) Enabled() bool { return c.url != "" }

// SendInvoiceRequest posts the pricing schema and delivery notes. A non-2xx
// status is an error; the workflow engine owns retries.
func (c *Client) SendInvoiceRequest(ctx context.Context, schema any, notes []DeliveryNote) error {
	if !c.Enabled() {
		return fmt.Errorf("webhook url not configured")
	}

	payload, err := json.Marshal(schema)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("schema", string(payload)); err != nil {
		return err
	}
	for _, n := range notes {
		part, err := mw.CreateFormFile("delivery_notes", n.Filename)
		if err != nil {
			return err
		}
		if _, err := io.Copy(part, n.Content); err != nil {
			return fmt.Errorf("copy %s: %w", n.Filename, err)
		}
	}
	if err := mw.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send to webhook: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
