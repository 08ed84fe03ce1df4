// Package apiclient talks to the remote reports API. A single Client is built in main
// and passed to every consumer.
package apiclient

import (
	"bytes"
	"context"
	"crimewatch/models"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 64 << 10

// Client is the reports API client
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

// New creates a client for the API at baseURL. A nil httpClient gets a client with the given timeout.
func New(baseURL string, timeout time.Duration, httpClient *http.Client) (*Client, error) {
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid API base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid API base URL %q: scheme and host required", baseURL)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{baseURL: u, httpClient: httpClient}, nil
}

// ListReports returns all reports, optionally restricted to one status.
// GET /api/reports?status=
func (c *Client) ListReports(ctx context.Context, status string) ([]models.Report, error) {
	q := url.Values{}
	if status != "" {
		q.Set("status", status)
	}
	var out []models.Report
	if err := c.do(ctx, http.MethodGet, "/api/reports", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetReport returns one report. GET /api/reports/{id}
func (c *Client) GetReport(ctx context.Context, id string) (*models.Report, error) {
	var out models.Report
	if err := c.do(ctx, http.MethodGet, "/api/reports/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListReportsByGenre returns reports of one crime genre. GET /api/reports/crime-genre/{genre}
func (c *Client) ListReportsByGenre(ctx context.Context, genre string) ([]models.Report, error) {
	var out []models.Report
	if err := c.do(ctx, http.MethodGet, "/api/reports/crime-genre/"+url.PathEscape(genre), nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateReport submits a new report. POST /api/reports
func (c *Client) CreateReport(ctx context.Context, req *models.CreateReportRequest) (*models.Report, error) {
	var out models.Report
	if err := c.do(ctx, http.MethodPost, "/api/reports", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateStatus moves a report to status and returns the API's copy of it.
// PATCH /api/reports/{id}/status
func (c *Client) UpdateStatus(ctx context.Context, id string, status models.ReportStatus) (*models.Report, error) {
	var out models.Report
	body := models.UpdateStatusRequest{Status: status.APIValue()}
	if err := c.do(ctx, http.MethodPatch, "/api/reports/"+url.PathEscape(id)+"/status", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// do performs one request. There are no retries: every failure is returned as an *APIError.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out interface{}) error {
	u := *c.baseURL
	rawPath := c.baseURL.EscapedPath() + path
	unescaped, err := url.PathUnescape(rawPath)
	if err != nil {
		return &APIError{Message: "failed to build request", Err: err}
	}
	u.Path, u.RawPath = unescaped, rawPath
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return &APIError{Message: "failed to encode request", Err: err}
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return &APIError{Message: "failed to build request", Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		var payload models.APIErrorPayload
		if len(raw) == 0 || json.Unmarshal(raw, &payload) != nil {
			return responseError(resp.StatusCode, nil)
		}
		return responseError(resp.StatusCode, &payload)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &APIError{StatusCode: resp.StatusCode, Message: "invalid response from the reports service", Err: err}
	}
	return nil
}
