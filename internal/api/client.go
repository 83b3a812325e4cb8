package api

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client talks to a running daemon's HTTP API. It is what the CLI commands
// use; the daemon itself never imports it.
type Client struct {
	http *resty.Client
}

// NewClient builds a client for the daemon listening at bind ("host:port"
// or a full http URL).
func NewClient(bind string) *Client {
	base := bind
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}
	httpClient := resty.New().
		SetBaseURL(base).
		SetTimeout(30 * time.Second).
		SetHeader("Accept", "application/json")
	return &Client{http: httpClient}
}

// Process submits a set for asynchronous processing.
func (c *Client) Process(ctx context.Context, setNumber string) (*ProcessResponse, error) {
	var out ProcessResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		SetError(&ErrorResponse{}).
		Post("/api/process/" + setNumber)
	if err != nil {
		return nil, fmt.Errorf("daemon unreachable: %w", err)
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return &out, nil
}

// Status fetches the job status for a set.
func (c *Client) Status(ctx context.Context, setNumber string) (*StatusResponse, error) {
	var out StatusResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		SetError(&ErrorResponse{}).
		Get("/api/status/" + setNumber)
	if err != nil {
		return nil, fmt.Errorf("daemon unreachable: %w", err)
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return &out, nil
}

// Validate checks a set number against the catalog.
func (c *Client) Validate(ctx context.Context, setNumber string) (*ValidateResponse, error) {
	var out ValidateResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		SetError(&ErrorResponse{}).
		Get("/api/validate/" + setNumber)
	if err != nil {
		return nil, fmt.Errorf("daemon unreachable: %w", err)
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return &out, nil
}

// Sets lists every processed set.
func (c *Client) Sets(ctx context.Context) (*SetsResponse, error) {
	var out SetsResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		SetError(&ErrorResponse{}).
		Get("/api/sets")
	if err != nil {
		return nil, fmt.Errorf("daemon unreachable: %w", err)
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return &out, nil
}

// Set fetches the detail view of one processed set.
func (c *Client) Set(ctx context.Context, setNumber string) (*SetDetailResponse, error) {
	var out SetDetailResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		SetError(&ErrorResponse{}).
		Get("/api/sets/" + setNumber)
	if err != nil {
		return nil, fmt.Errorf("daemon unreachable: %w", err)
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return &out, nil
}

// DownloadSTL saves one part's mesh to destPath.
func (c *Client) DownloadSTL(ctx context.Context, setNumber, partNum, destPath string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetOutput(destPath).
		Get("/download/" + setNumber + "/" + partNum)
	if err != nil {
		return fmt.Errorf("daemon unreachable: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("download failed: %s", resp.Status())
	}
	return nil
}

// DownloadZip saves the archive of a set's meshes to destPath.
func (c *Client) DownloadZip(ctx context.Context, setNumber, destPath string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetOutput(destPath).
		Get("/download/" + setNumber + "/zip")
	if err != nil {
		return fmt.Errorf("daemon unreachable: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("download failed: %s", resp.Status())
	}
	return nil
}

func apiError(resp *resty.Response) error {
	if body, ok := resp.Error().(*ErrorResponse); ok && body.Error != "" {
		return fmt.Errorf("%s", body.Error)
	}
	return fmt.Errorf("daemon returned %s", resp.Status())
}
