// Package fdsn implements the archive.Client interface against FDSN web
// services (event, station) plus the IRIS timeseries service for sample
// data. The timeseries service is used instead of fdsnws/dataselect
// because it serves the same samples in GeoCSV text rather than miniSEED.
package fdsn

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/mktide/quakepick/internal/archive"
	"github.com/mktide/quakepick/internal/archive/httpclient"
)

// DefaultEndpoint is the IRIS federated data center.
const DefaultEndpoint = "https://service.iris.edu"

// fdsnTime is the timestamp layout FDSN services accept in query strings.
const fdsnTime = "2006-01-02T15:04:05.000000"

// Client talks to one FDSN data center.
type Client struct {
	http *httpclient.Client
}

var _ archive.Client = (*Client)(nil)

// Option configures the Client.
type Option func(*clientOptions)

type clientOptions struct {
	timeout time.Duration
}

// WithTimeout sets the per-request HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *clientOptions) {
		o.timeout = d
	}
}

// New creates a Client for the given service endpoint. An empty endpoint
// selects IRIS.
func New(endpoint string, opts ...Option) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	o := clientOptions{timeout: 30 * time.Second}
	for _, opt := range opts {
		opt(&o)
	}
	return &Client{
		http: httpclient.New(strings.TrimRight(endpoint, "/"), httpclient.WithTimeout(o.timeout)),
	}
}

// LookupEvent resolves an event identifier to its origin time via the
// fdsnws event service. The text format reports one row per event carrying
// the preferred origin (or the first listed one), which keeps origin
// selection deterministic.
func (c *Client) LookupEvent(ctx context.Context, eventID string) (time.Time, error) {
	q := url.Values{}
	q.Set("eventid", eventID)
	q.Set("format", "text")

	body, err := c.http.GetText(ctx, "/fdsnws/event/1/query", q)
	if err != nil {
		var se *httpclient.StatusError
		if errors.As(err, &se) && se.Code == 404 {
			return time.Time{}, fmt.Errorf("%w: event %q", archive.ErrEventNotFound, eventID)
		}
		return time.Time{}, fmt.Errorf("fdsn event lookup: %w", err)
	}

	origin, err := parseEventTime(body)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: event %q: %v", archive.ErrEventNotFound, eventID, err)
	}
	return origin, nil
}

// parseEventTime extracts the origin time from an FDSN event text table.
// Rows are pipe-delimited: EventID|Time|Latitude|Longitude|Depth|...
func parseEventTime(body string) (time.Time, error) {
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "|")
		if len(fields) < 2 {
			return time.Time{}, fmt.Errorf("malformed event row %q", line)
		}
		return parseFDSNTime(strings.TrimSpace(fields[1]))
	}
	return time.Time{}, errors.New("no origin in response")
}

// parseFDSNTime parses the timestamp variants FDSN services emit: with or
// without fractional seconds, with or without a trailing Z.
func parseFDSNTime(s string) (time.Time, error) {
	s = strings.TrimSuffix(s, "Z")
	for _, layout := range []string{
		"2006-01-02T15:04:05.999999999",
		"2006-01-02T15:04:05",
	} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable time %q", s)
}
