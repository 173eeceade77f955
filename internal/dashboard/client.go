package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sort"
	"strings"
	"time"

	"smart-resume/internal/resume"
)

const (
	// DefaultAPIURL is used when neither a flag nor RESUME_API_URL is set.
	DefaultAPIURL = "http://localhost:8080"

	defaultTimeout = 120 * time.Second
	maxErrorBody   = 4 << 10
)

// UploadResponse is the service's reply to a successful upload.
type UploadResponse struct {
	Status    string            `json:"status"`
	Message   string            `json:"message"`
	ExportID  string            `json:"export_id"`
	Downloads map[string]string `json:"downloads"`
	Data      json.RawMessage   `json:"data"`
}

// Record decodes Data. A missing, null or non-object value yields an empty
// profile.
func (r UploadResponse) Record() resume.Record {
	var rec resume.Record
	if len(bytes.TrimSpace(r.Data)) == 0 {
		return resume.Structured(resume.Profile{})
	}
	if err := json.Unmarshal(r.Data, &rec); err != nil {
		return resume.Structured(resume.Profile{})
	}
	return rec
}

// DownloadLinks returns the artifact links sorted in json, csv, xlsx order
// and then by label.
func (r UploadResponse) DownloadLinks() []Download {
	links := make([]Download, 0, len(r.Downloads))
	for label, path := range r.Downloads {
		links = append(links, Download{Label: label, Path: path})
	}
	rank := map[string]int{"json": 0, "csv": 1, "xlsx": 2}
	sort.Slice(links, func(i, j int) bool {
		ri, iok := rank[links[i].Label]
		rj, jok := rank[links[j].Label]
		switch {
		case iok && jok:
			return ri < rj
		case iok != jok:
			return iok
		default:
			return links[i].Label < links[j].Label
		}
	})
	return links
}

// APIError is a non-200 reply from the service.
type APIError struct {
	StatusCode int
	Detail     string
	Body       string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend error: %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("backend error: %d: %s", e.StatusCode, e.Body)
}

// Client talks to the parser's HTTP service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the transport.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient builds a client for baseURL with a 120 second request timeout.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultAPIURL
	}
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL resolves a service path such as a download link.
func (c *Client) URL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

// Ping checks that the service answers /ping.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL("/ping"), nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}
	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("decode ping: %w", err)
	}
	if body.Message != "pong" {
		return fmt.Errorf("unexpected ping reply %q", body.Message)
	}
	return nil
}

// Upload posts a résumé as the multipart field "file".
func (c *Client) Upload(ctx context.Context, fileName string, r io.Reader) (UploadResponse, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return UploadResponse{}, err
	}
	if _, err := io.Copy(part, r); err != nil {
		return UploadResponse{}, fmt.Errorf("read %s: %w", fileName, err)
	}
	if err := writer.Close(); err != nil {
		return UploadResponse{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL("/upload"), body)
	if err != nil {
		return UploadResponse{}, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return UploadResponse{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return UploadResponse{}, apiError(resp)
	}

	var out UploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return UploadResponse{}, fmt.Errorf("decode upload response: %w", err)
	}
	return out, nil
}

// Download copies a server-side artifact to w.
func (c *Client) Download(ctx context.Context, path string, w io.Writer) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(path), nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return apiError(resp)
	}
	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("download %s: %w", path, err)
	}
	return nil
}

func apiError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	apiErr := &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil {
		apiErr.Detail = parsed.Detail
	}
	return apiErr
}
