package dining

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// PeriodLister lists the meal periods a location serves on a given day.
// Implemented by *Client; the period resolver depends only on this.
type PeriodLister interface {
	FetchPeriods(ctx context.Context, locationID string, date time.Time) []Period
}

// MenuFetcher retrieves the raw menu payload for one period.
type MenuFetcher interface {
	FetchMenu(ctx context.Context, locationID string, date time.Time, periodID string) any
}

// Catalog is the strict surface used by the setup wizard, where failures
// must be reported instead of collapsed.
type Catalog interface {
	Schools(ctx context.Context) ([]School, error)
	Locations(ctx context.Context, schoolID string) ([]Location, error)
	Periods(ctx context.Context, locationID string, date time.Time) ([]Period, error)
}

var (
	_ PeriodLister = (*Client)(nil)
	_ MenuFetcher  = (*Client)(nil)
	_ Catalog      = (*Client)(nil)
)

// Client talks to the DineOnCampus HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	logger    *slog.Logger
}

const (
	DefaultBaseURL   = "https://apiv4.dineoncampus.com"
	DateLayout       = "2006-01-02"
	defaultUserAgent = "dinemenu/0.1"
	requestTimeout   = 15 * time.Second
	maxBodyBytes     = 8 << 20
	bodyPreviewLen   = 500
)

// NewClient builds a Client rooted at baseURL. An empty baseURL uses the
// public DineOnCampus endpoint.
func NewClient(baseURL string, logger *slog.Logger) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
		logger:    logger,
	}, nil
}

// SchoolsURL is the public site list.
func (c *Client) SchoolsURL() string {
	return c.resolve("/sites/public", nil)
}

// LocationsURL lists the dining locations of a school.
func (c *Client) LocationsURL(schoolID string) string {
	values := url.Values{}
	values.Set("siteId", schoolID)
	return c.resolve("/locations/status_by_site", values)
}

// PeriodsURL lists a location's periods for one calendar day.
func (c *Client) PeriodsURL(locationID string, date time.Time) string {
	values := url.Values{}
	values.Set("date", date.Format(DateLayout))
	return c.resolve("/locations/"+locationID+"/periods/", values)
}

// MenuURL addresses the menu of one period on one day.
func (c *Client) MenuURL(locationID string, date time.Time, periodID string) string {
	values := url.Values{}
	values.Set("date", date.Format(DateLayout))
	values.Set("period", periodID)
	return c.resolve("/locations/"+locationID+"/menu", values)
}

// FetchJSON performs one GET and decodes the body. Any failure (transport,
// non-200 status, invalid JSON) is logged and reported as an empty mapping,
// so callers treat missing data and failed requests the same way.
func (c *Client) FetchJSON(ctx context.Context, rawURL string) any {
	payload, err := c.GetJSON(ctx, rawURL)
	if err != nil {
		c.logger.Error("api request failed", "url", rawURL, "error", err)
		return map[string]any{}
	}
	return payload
}

// GetJSON performs one GET and decodes the body, returning wrapped errors.
func (c *Client) GetJSON(ctx context.Context, rawURL string) (any, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("api %s returned status %d: %s", req.URL.Path, resp.StatusCode, preview(body))
	}

	c.logger.Debug("api response", "url", rawURL, "status", resp.StatusCode, "body", preview(body))

	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()
	var payload any
	if err := decoder.Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return payload, nil
}

// Schools lists every public site.
func (c *Client) Schools(ctx context.Context) ([]School, error) {
	payload, err := c.GetJSON(ctx, c.SchoolsURL())
	if err != nil {
		return nil, err
	}
	return decodeSchools(payload), nil
}

// Locations lists the dining locations of a school.
func (c *Client) Locations(ctx context.Context, schoolID string) ([]Location, error) {
	payload, err := c.GetJSON(ctx, c.LocationsURL(schoolID))
	if err != nil {
		return nil, err
	}
	return decodeLocations(payload), nil
}

// Periods lists a location's periods for date.
func (c *Client) Periods(ctx context.Context, locationID string, date time.Time) ([]Period, error) {
	payload, err := c.GetJSON(ctx, c.PeriodsURL(locationID, date))
	if err != nil {
		return nil, err
	}
	return decodePeriods(payload), nil
}

// FetchPeriods is the lenient form of Periods: failures yield no periods.
func (c *Client) FetchPeriods(ctx context.Context, locationID string, date time.Time) []Period {
	return decodePeriods(c.FetchJSON(ctx, c.PeriodsURL(locationID, date)))
}

// FetchMenu returns the raw menu payload, or an empty mapping on failure.
func (c *Client) FetchMenu(ctx context.Context, locationID string, date time.Time, periodID string) any {
	return c.FetchJSON(ctx, c.MenuURL(locationID, date, periodID))
}

func (c *Client) resolve(path string, values url.Values) string {
	rel := &url.URL{Path: strings.TrimSuffix(c.baseURL.Path, "/") + path}
	if len(values) > 0 {
		rel.RawQuery = values.Encode()
	}
	return c.baseURL.ResolveReference(rel).String()
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api base %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api base %q: missing host", raw)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

func preview(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) > bodyPreviewLen {
		return text[:bodyPreviewLen]
	}
	return text
}
