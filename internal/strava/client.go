package strava

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "https://www.strava.com"

// ErrTokenExpired signals a 401 from the API; the access token must be
// refreshed out-of-band (see the refresh command).
var ErrTokenExpired = errors.New("strava access token expired")

// ErrNotFound signals an unknown activity id.
var ErrNotFound = errors.New("activity not found")

// StreamKeys is the stream set requested for every activity, matching what
// the comparison and conversion steps can consume.
var StreamKeys = []string{
	"time", "latlng", "distance", "altitude", "velocity_smooth",
	"heartrate", "cadence", "watts", "temp", "moving", "grade_smooth",
}

type Client struct {
	http    *http.Client
	baseURL string
	token   string
}

func NewClient(token string) *Client {
	return &Client{
		http:    &http.Client{Timeout: 30 * time.Second},
		baseURL: defaultBaseURL,
		token:   token,
	}
}

// ActivitySummary is the subset of the list payload the CLI shows.
type ActivitySummary struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Type       string  `json:"type"`
	StartDate  string  `json:"start_date"`
	Distance   float64 `json:"distance"`
	MovingTime float64 `json:"moving_time"`
}

// Activities lists the athlete's recent activities, newest first.
func (c *Client) Activities(perPage int) ([]ActivitySummary, error) {
	q := url.Values{"per_page": {fmt.Sprint(perPage)}}
	raw, err := c.get("/api/v3/athlete/activities", q)
	if err != nil {
		return nil, err
	}
	var activities []ActivitySummary
	if err := json.Unmarshal(raw, &activities); err != nil {
		return nil, fmt.Errorf("parse activities: %w", err)
	}
	return activities, nil
}

// Activity fetches the full activity detail as raw JSON, plus the summary
// fields needed to name the saved file.
func (c *Client) Activity(id int64) (json.RawMessage, *ActivitySummary, error) {
	raw, err := c.get(fmt.Sprintf("/api/v3/activities/%d", id), nil)
	if err != nil {
		return nil, nil, err
	}
	var summary ActivitySummary
	if err := json.Unmarshal(raw, &summary); err != nil {
		return nil, nil, fmt.Errorf("parse activity detail: %w", err)
	}
	return raw, &summary, nil
}

// Streams fetches the activity's streams keyed by type.
func (c *Client) Streams(id int64) (json.RawMessage, error) {
	q := url.Values{
		"keys":        {strings.Join(StreamKeys, ",")},
		"key_by_type": {"true"},
	}
	return c.get(fmt.Sprintf("/api/v3/activities/%d/streams", id), q)
}

func (c *Client) get(path string, q url.Values) (json.RawMessage, error) {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("strava request: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return nil, ErrTokenExpired
	case http.StatusNotFound:
		return nil, ErrNotFound
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("strava api status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return raw, nil
}
