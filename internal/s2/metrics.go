package s2

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// MetricsRequest scopes a metrics query. Basin and Stream narrow the query;
// both empty means account-wide.
type MetricsRequest struct {
	Set    string
	Basin  string
	Stream string
	Start  time.Time
	End    time.Time
}

type metricsResponse struct {
	Series []MetricSeries `json:"series"`
}

func (c *Client) Metrics(ctx context.Context, req MetricsRequest) ([]MetricSeries, error) {
	q := url.Values{}
	if req.Set != "" {
		q.Set("set", req.Set)
	}
	if req.Basin != "" {
		q.Set("basin", req.Basin)
	}
	if req.Stream != "" {
		q.Set("stream", req.Stream)
	}
	if !req.Start.IsZero() {
		q.Set("start", req.Start.UTC().Format(time.RFC3339))
	}
	if !req.End.IsZero() {
		q.Set("end", req.End.UTC().Format(time.RFC3339))
	}
	target := c.accountPath("/v1/metrics")
	if len(q) > 0 {
		target += "?" + q.Encode()
	}
	var resp metricsResponse
	if err := c.do(ctx, http.MethodGet, target, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Series, nil
}
