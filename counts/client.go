package counts

import (
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client queries the external counts provider for the current public
// metric (followers, views, likes) of a target link.
type Client struct {
	http *resty.Client
}

var defaultClient *Client

// Init configures the package-level client. An empty baseURL leaves
// snapshots disabled.
func Init(baseURL string) {
	if baseURL == "" {
		defaultClient = nil
		return
	}
	defaultClient = NewClient(baseURL)
}

// Enabled reports whether a counts provider is configured.
func Enabled() bool {
	return defaultClient != nil
}

func NewClient(baseURL string) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(10 * time.Second).
			SetRetryCount(2),
	}
}

// Snapshot returns the provider's current count for the target link.
func Snapshot(link string) (int, error) {
	if defaultClient == nil {
		return 0, fmt.Errorf("counts provider not configured")
	}
	return defaultClient.Snapshot(link)
}

func (c *Client) Snapshot(link string) (int, error) {
	var out struct {
		Count int `json:"count"`
	}

	resp, err := c.http.R().
		SetQueryParam("target", link).
		SetResult(&out).
		Get("/v1/count")
	if err != nil {
		return 0, err
	}
	if resp.IsError() {
		return 0, fmt.Errorf("counts provider returned %s", resp.Status())
	}

	return out.Count, nil
}
