package fdsn

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mktide/quakepick/internal/archive"
	"github.com/mktide/quakepick/internal/archive/httpclient"
	"github.com/mktide/quakepick/internal/model"
)

// GetWaveforms fetches raw waveform segments for the selector over
// [start, end]. The wildcard channel pattern is expanded to concrete
// channel codes via the station service, then each channel is fetched from
// the timeseries service. A channel with no data is skipped (the missing
// orientation surfaces during conditioning); no data at all is
// ErrDataUnavailable.
func (c *Client) GetWaveforms(ctx context.Context, sel archive.Selector, start, end time.Time) ([]model.Segment, error) {
	channels, err := c.resolveChannels(ctx, sel, start, end)
	if err != nil {
		return nil, err
	}

	var segments []model.Segment
	for _, cha := range channels {
		segs, err := c.fetchChannel(ctx, sel, cha, start, end)
		if err != nil {
			var se *httpclient.StatusError
			if errors.As(err, &se) && se.Code == 404 {
				slog.Debug("no data for channel", "channel", cha)
				continue
			}
			return nil, fmt.Errorf("fdsn timeseries %s: %w", cha, err)
		}
		segments = append(segments, segs...)
	}

	if len(segments) == 0 {
		return nil, fmt.Errorf("%w: %s in [%s, %s]", archive.ErrDataUnavailable,
			sel, start.UTC().Format(fdsnTime), end.UTC().Format(fdsnTime))
	}
	return segments, nil
}

// resolveChannels expands the selector's channel pattern into the concrete
// channel codes operating during the window, via the station service.
func (c *Client) resolveChannels(ctx context.Context, sel archive.Selector, start, end time.Time) ([]string, error) {
	q := stationQuery(sel, start, end)
	body, err := c.http.GetText(ctx, "/fdsnws/station/1/query", q)
	if err != nil {
		var se *httpclient.StatusError
		if errors.As(err, &se) && se.Code == 404 {
			return nil, fmt.Errorf("%w: no channels match %s", archive.ErrDataUnavailable, sel)
		}
		return nil, fmt.Errorf("fdsn station query: %w", err)
	}

	channels := parseChannelCodes(body)
	if len(channels) == 0 {
		return nil, fmt.Errorf("%w: no channels match %s", archive.ErrDataUnavailable, sel)
	}
	return channels, nil
}

func stationQuery(sel archive.Selector, start, end time.Time) url.Values {
	q := url.Values{}
	q.Set("network", sel.Network)
	q.Set("station", sel.Station)
	q.Set("location", sel.Location)
	q.Set("channel", sel.Channel)
	q.Set("starttime", start.UTC().Format(fdsnTime))
	q.Set("endtime", end.UTC().Format(fdsnTime))
	q.Set("level", "channel")
	q.Set("format", "text")
	return q
}

// parseChannelCodes extracts unique channel codes from a station-service
// text table (Network|Station|Location|Channel|...).
func parseChannelCodes(body string) []string {
	seen := map[string]bool{}
	var channels []string
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "|")
		if len(fields) < 4 {
			continue
		}
		cha := strings.TrimSpace(fields[3])
		if cha != "" && !seen[cha] {
			seen[cha] = true
			channels = append(channels, cha)
		}
	}
	return channels
}

// fetchChannel downloads one channel's samples from the timeseries service
// and splits them into contiguous segments at gaps.
func (c *Client) fetchChannel(ctx context.Context, sel archive.Selector, channel string, start, end time.Time) ([]model.Segment, error) {
	q := url.Values{}
	q.Set("net", sel.Network)
	q.Set("sta", sel.Station)
	q.Set("loc", sel.Location)
	q.Set("cha", channel)
	q.Set("starttime", start.UTC().Format(fdsnTime))
	q.Set("endtime", end.UTC().Format(fdsnTime))
	q.Set("format", "geocsv")

	body, err := c.http.GetText(ctx, "/irisws/timeseries/1/query", q)
	if err != nil {
		return nil, err
	}
	return parseGeoCSV(body, sel, channel)
}

// parseGeoCSV parses a GeoCSV 2.0 timeseries body: "# key: value" headers
// (sample_rate_hz is required), a column header row, then "time, value"
// rows. Runs of samples are split into separate segments wherever the
// inter-sample step exceeds 1.5 sample intervals.
func parseGeoCSV(body string, sel archive.Selector, channel string) ([]model.Segment, error) {
	var sampleRate float64

	var segments []model.Segment
	var cur *model.Segment
	var prev time.Time
	sawHeader := false

	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			if v, ok := headerValue(line, "sample_rate_hz"); ok {
				sr, err := strconv.ParseFloat(v, 64)
				if err != nil {
					return nil, fmt.Errorf("bad sample_rate_hz %q", v)
				}
				sampleRate = sr
			}
			continue
		}
		if !sawHeader {
			// Column header row ("Time, Sample").
			sawHeader = true
			continue
		}

		ts, value, err := parseSampleRow(line)
		if err != nil {
			return nil, err
		}
		if sampleRate <= 0 {
			return nil, errors.New("geocsv: missing sample_rate_hz header")
		}

		dt := 1.0 / sampleRate
		if cur == nil || ts.Sub(prev).Seconds() > 1.5*dt {
			segments = append(segments, model.Segment{
				Network:    sel.Network,
				Station:    sel.Station,
				Location:   sel.Location,
				Channel:    channel,
				SampleRate: sampleRate,
				StartTime:  ts,
			})
			cur = &segments[len(segments)-1]
		}
		cur.Data = append(cur.Data, value)
		prev = ts
	}

	return segments, nil
}

// headerValue extracts the value of a "# key: value" GeoCSV header line.
func headerValue(line, key string) (string, bool) {
	rest := strings.TrimSpace(strings.TrimPrefix(line, "#"))
	if !strings.HasPrefix(rest, key+":") {
		return "", false
	}
	return strings.TrimSpace(strings.TrimPrefix(rest, key+":")), true
}

func parseSampleRow(line string) (time.Time, float64, error) {
	idx := strings.IndexByte(line, ',')
	if idx < 0 {
		return time.Time{}, 0, fmt.Errorf("geocsv: malformed row %q", line)
	}
	ts, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(line[:idx]))
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("geocsv: bad timestamp in %q: %v", line, err)
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(line[idx+1:]), 64)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("geocsv: bad sample in %q: %v", line, err)
	}
	return ts.UTC(), value, nil
}
