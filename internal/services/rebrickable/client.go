package rebrickable

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"brickforge/internal/services"
)

const userAgent = "brickforge/ldraw2stl"

// Client talks to the Rebrickable API v3.
type Client struct {
	http     *resty.Client
	pageSize int
}

// Option configures the client.
type Option func(*Client)

// WithPageSize overrides the parts page size.
func WithPageSize(size int) Option {
	return func(c *Client) {
		if size > 0 {
			c.pageSize = size
		}
	}
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.http.SetTimeout(timeout)
		}
	}
}

// New constructs a Rebrickable client.
func New(apiKey, baseURL string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("rebrickable api key required")
	}
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("rebrickable base url required")
	}

	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30 * time.Second).
		SetHeader("Authorization", "key "+apiKey).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", userAgent)

	client := &Client{http: httpClient, pageSize: 1000}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// SetInfo fetches set-level metadata.
func (c *Client) SetInfo(ctx context.Context, setNumber string) (*SetInfo, error) {
	var info SetInfo
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&info).
		Get(fmt.Sprintf("/sets/%s/", setNumber))
	if err != nil {
		return nil, services.Wrap(services.ErrUnavailable, "rebrickable", "set info", setNumber, err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, services.Wrap(services.ErrNotFound, "rebrickable", "set info", "set "+setNumber+" not found", nil)
	}
	if resp.IsError() {
		return nil, services.Wrap(services.ErrUnavailable, "rebrickable", "set info",
			fmt.Sprintf("%s: unexpected status %d", setNumber, resp.StatusCode()), nil)
	}
	return &info, nil
}

// SetParts downloads the full raw parts list for a set, following pagination.
func (c *Client) SetParts(ctx context.Context, setNumber string) ([]SetPart, error) {
	var all []SetPart
	page := 1
	for {
		var result partsPage
		resp, err := c.http.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"page":      strconv.Itoa(page),
				"page_size": strconv.Itoa(c.pageSize),
			}).
			SetResult(&result).
			Get(fmt.Sprintf("/sets/%s/parts/", setNumber))
		if err != nil {
			return nil, services.Wrap(services.ErrUnavailable, "rebrickable", "set parts", setNumber, err)
		}
		if resp.StatusCode() == http.StatusNotFound {
			return nil, services.Wrap(services.ErrNotFound, "rebrickable", "set parts", "set "+setNumber+" not found", nil)
		}
		if resp.IsError() {
			return nil, services.Wrap(services.ErrUnavailable, "rebrickable", "set parts",
				fmt.Sprintf("%s: unexpected status %d", setNumber, resp.StatusCode()), nil)
		}

		all = append(all, result.Results...)
		if result.Next == nil || *result.Next == "" {
			break
		}
		page++
	}
	return all, nil
}

// FetchSetData fetches metadata and the complete parts list in one call.
func (c *Client) FetchSetData(ctx context.Context, setNumber string) (*SetData, error) {
	info, err := c.SetInfo(ctx, setNumber)
	if err != nil {
		return nil, err
	}
	partsList, err := c.SetParts(ctx, setNumber)
	if err != nil {
		return nil, err
	}
	if len(partsList) == 0 {
		return nil, services.Wrap(services.ErrNotFound, "rebrickable", "set parts", "set "+setNumber+" has no inventory", nil)
	}
	return &SetData{SetNumber: setNumber, Info: *info, Parts: partsList}, nil
}

// ValidateSet checks whether a set exists, trying the number as given and then
// the "-1" suffixed variant Rebrickable uses for primary releases. It returns
// the metadata and the resolved set number.
func (c *Client) ValidateSet(ctx context.Context, setNumber string) (*SetInfo, string, error) {
	for _, candidate := range SetNumberCandidates(setNumber) {
		info, err := c.SetInfo(ctx, candidate)
		if err == nil {
			return info, candidate, nil
		}
		if !errors.Is(err, services.ErrNotFound) {
			return nil, "", err
		}
	}
	return nil, "", services.Wrap(services.ErrNotFound, "rebrickable", "validate", "set "+setNumber+" not found", nil)
}

// SetNumberCandidates lists the lookup variants for a user-supplied set number:
// the number as given, then with a "-1" suffix appended, or the base number if
// a suffix was already present.
func SetNumberCandidates(setNumber string) []string {
	setNumber = strings.TrimSpace(setNumber)
	if setNumber == "" {
		return nil
	}
	if !strings.Contains(setNumber, "-") {
		return []string{setNumber, setNumber + "-1"}
	}
	base := strings.SplitN(setNumber, "-", 2)[0]
	return []string{setNumber, base}
}
