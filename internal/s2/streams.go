package s2

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

type ListStreamsRequest struct {
	Prefix     string
	StartAfter string
	Limit      int
}

type listStreamsResponse struct {
	Streams []StreamInfo `json:"streams"`
	HasMore bool         `json:"has_more"`
}

func (c *Client) ListStreams(ctx context.Context, basin string, req ListStreamsRequest) ([]StreamInfo, error) {
	q := url.Values{}
	if req.Prefix != "" {
		q.Set("prefix", req.Prefix)
	}
	if req.StartAfter != "" {
		q.Set("start_after", req.StartAfter)
	}
	if req.Limit > 0 {
		q.Set("limit", strconv.Itoa(req.Limit))
	}
	target := c.basinPath(basin, "/v1/streams")
	if len(q) > 0 {
		target += "?" + q.Encode()
	}
	var resp listStreamsResponse
	if err := c.do(ctx, http.MethodGet, target, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Streams, nil
}

type CreateStreamRequest struct {
	Stream string        `json:"stream"`
	Config *StreamConfig `json:"config,omitempty"`
}

func (c *Client) CreateStream(ctx context.Context, basin string, req CreateStreamRequest) (StreamInfo, error) {
	if err := ValidateStreamName(req.Stream); err != nil {
		return StreamInfo{}, err
	}
	var info StreamInfo
	err := c.do(ctx, http.MethodPost, c.basinPath(basin, "/v1/streams"), req, &info)
	return info, err
}

func (c *Client) DeleteStream(ctx context.Context, basin, stream string) error {
	return c.do(ctx, http.MethodDelete, c.basinPath(basin, "/v1/streams/"+url.PathEscape(stream)), nil, nil)
}

func (c *Client) GetStreamConfig(ctx context.Context, basin, stream string) (StreamConfig, error) {
	var cfg StreamConfig
	err := c.do(ctx, http.MethodGet, c.basinPath(basin, "/v1/streams/"+url.PathEscape(stream)+"/config"), nil, &cfg)
	return cfg, err
}

func (c *Client) ReconfigureStream(ctx context.Context, basin, stream string, cfg StreamConfig) (StreamConfig, error) {
	var out StreamConfig
	err := c.do(ctx, http.MethodPatch, c.basinPath(basin, "/v1/streams/"+url.PathEscape(stream)+"/config"), cfg, &out)
	return out, err
}

// CheckTail returns the position one past the last appended record. A fresh
// stream reports sequence number zero.
func (c *Client) CheckTail(ctx context.Context, basin, stream string) (StreamPosition, error) {
	var resp struct {
		Tail StreamPosition `json:"tail"`
	}
	err := c.do(ctx, http.MethodGet, c.basinPath(basin, "/v1/streams/"+url.PathEscape(stream)+"/records/tail"), nil, &resp)
	return resp.Tail, err
}
