package prayer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/comitanigiacomo/khatma-sync-engine/internal/core/domain"
)

const (
	DefaultBaseURL = "https://api.aladhan.com/v1"

	// Egyptian General Authority of Survey.
	defaultMethod = 5
	defaultTune   = "4,0,0,0,0,0,0,0,0"
)

var _ domain.PrayerTimesProvider = (*Client)(nil)

// Client fetches daily prayer times from the aladhan timingsByAddress API.
type Client struct {
	baseURL    string
	method     int
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		method:     defaultMethod,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type timingsResponse struct {
	Code int `json:"code"`
	Data struct {
		Timings map[string]string `json:"timings"`
	} `json:"data"`
}

func (c *Client) Timings(ctx context.Context, date time.Time, address string) (map[string]string, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, fmt.Errorf("%w: empty address", domain.ErrExternalLookup)
	}

	q := url.Values{}
	q.Set("address", address)
	q.Set("method", fmt.Sprint(c.method))
	q.Set("tune", defaultTune)
	endpoint := fmt.Sprintf("%s/timingsByAddress/%s?%s", c.baseURL, date.Format("02-01-2006"), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrExternalLookup, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrExternalLookup, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: prayer times for %q returned %d", domain.ErrExternalLookup, address, resp.StatusCode)
	}

	var body timingsResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode prayer times: %v", domain.ErrExternalLookup, err)
	}
	if body.Code != http.StatusOK || len(body.Data.Timings) == 0 {
		return nil, fmt.Errorf("%w: no prayer times for %q", domain.ErrExternalLookup, address)
	}

	timings := make(map[string]string, domain.DailyPrayers)
	for _, name := range domain.PrayerNames {
		t, ok := body.Data.Timings[name]
		if !ok {
			return nil, fmt.Errorf("%w: missing %s time", domain.ErrExternalLookup, name)
		}
		timings[name] = t
	}
	return timings, nil
}
