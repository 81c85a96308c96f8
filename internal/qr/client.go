package qr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"time"

	"sigsetup/internal/domain"
)

// DefaultBaseURL is the public qrserver read endpoint.
const DefaultBaseURL = "http://api.qrserver.com/v1/read-qr-code/"

const requestTimeout = 30 * time.Second

// Client posts images to the decode API.
type Client struct {
	base string
	http *http.Client
}

// NewClient returns a decoder against base (DefaultBaseURL when empty).
func NewClient(base string, h *http.Client) *Client {
	if base == "" {
		base = DefaultBaseURL
	}
	if h == nil {
		h = http.DefaultClient
	}
	return &Client{base: base, http: h}
}

// symbol mirrors one entry of the API's response array:
// [{"type":"qrcode","symbol":[{"seq":0,"data":"...","error":null}]}]
type symbol struct {
	Data  *string `json:"data"`
	Error *string `json:"error"`
}

type result struct {
	Type    string   `json:"type"`
	Symbols []symbol `json:"symbol"`
}

// Decode uploads the image at imagePath and returns the first QR payload.
func (c *Client) Decode(ctx context.Context, imagePath string) (string, error) {
	img, err := os.ReadFile(imagePath)
	if err != nil {
		return "", fmt.Errorf("reading image: %w", err)
	}

	body := new(bytes.Buffer)
	mw := multipart.NewWriter(body)
	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="file"; filename=%q`, filepath.Base(imagePath)))
	hdr.Set("Content-Type", "image/png")
	part, err := mw.CreatePart(hdr)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(img); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	rctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(rctx, http.MethodPost, c.base, body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("decode request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return "", fmt.Errorf("decode API: %s", resp.Status)
	}

	var results []result
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&results); err != nil {
		return "", fmt.Errorf("decode API response: %w", err)
	}
	for _, r := range results {
		for _, s := range r.Symbols {
			if s.Data != nil && *s.Data != "" {
				return *s.Data, nil
			}
		}
	}
	return "", domain.ErrNoQRCode
}

// Compile-time assertion that Client implements domain.QRDecoder.
var _ domain.QRDecoder = (*Client)(nil)
