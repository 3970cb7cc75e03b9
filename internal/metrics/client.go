// Package metrics talks to the time-series backend and turns its answers
// into per-entity snapshots and deltas.
package metrics

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Point is one raw sample from the backend. The value stays a wire
// string until the matcher parses it.
type Point struct {
	Timestamp float64
	Value     string
}

// Series is one labeled time series returned by a query.
type Series struct {
	Labels map[string]string
	Points []Point
}

// Client issues instant and range queries against the metrics backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a metrics client. Every request is bounded by the
// given timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// InstantQuery evaluates the expression at a single instant.
func (c *Client) InstantQuery(ctx context.Context, expr string, ts time.Time) ([]Series, error) {
	params := url.Values{}
	params.Set("query", expr)
	params.Set("time", strconv.FormatInt(ts.Unix(), 10))
	return c.query(ctx, params)
}

// RangeQuery evaluates the expression over [start, end] with the given step.
func (c *Client) RangeQuery(ctx context.Context, expr string, start, end time.Time, step time.Duration) ([]Series, error) {
	params := url.Values{}
	params.Set("query", expr)
	params.Set("start", strconv.FormatInt(start.Unix(), 10))
	params.Set("end", strconv.FormatInt(end.Unix(), 10))
	params.Set("step", strconv.FormatInt(int64(step.Seconds()), 10))
	return c.query(ctx, params)
}

func (c *Client) query(ctx context.Context, params url.Values) ([]Series, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("metrics: build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("metrics: query failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("metrics: backend returned %d: %s", resp.StatusCode, body)
	}

	var payload struct {
		Status string `json:"status"`
		Data   struct {
			Result []struct {
				Metric map[string]string `json:"metric"`
				Value  []any             `json:"value"`
				Values [][]any           `json:"values"`
			} `json:"result"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("metrics: decode response: %w", err)
	}
	if payload.Status != "success" {
		return nil, fmt.Errorf("metrics: backend status %q", payload.Status)
	}

	series := make([]Series, 0, len(payload.Data.Result))
	for _, r := range payload.Data.Result {
		s := Series{Labels: r.Metric}
		// Instant answers carry a single [ts, val] pair, range answers a
		// list of them. Both shapes must be accepted.
		if len(r.Value) == 2 {
			if p, ok := pointFromPair(r.Value); ok {
				s.Points = append(s.Points, p)
			}
		}
		for _, pair := range r.Values {
			if p, ok := pointFromPair(pair); ok {
				s.Points = append(s.Points, p)
			}
		}
		series = append(series, s)
	}
	return series, nil
}

func pointFromPair(pair []any) (Point, bool) {
	if len(pair) != 2 {
		return Point{}, false
	}

	var ts float64
	switch v := pair[0].(type) {
	case float64:
		ts = v
	case string:
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Point{}, false
		}
		ts = parsed
	default:
		return Point{}, false
	}

	val, ok := pair[1].(string)
	if !ok {
		// Some backends emit numeric values directly.
		if f, isNum := pair[1].(float64); isNum {
			val = strconv.FormatFloat(f, 'f', -1, 64)
		} else {
			return Point{}, false
		}
	}

	return Point{Timestamp: ts, Value: val}, true
}
