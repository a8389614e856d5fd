package s2

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

type ListBasinsRequest struct {
	Prefix     string
	StartAfter string
	Limit      int
}

type listBasinsResponse struct {
	Basins  []BasinInfo `json:"basins"`
	HasMore bool        `json:"has_more"`
}

func (c *Client) ListBasins(ctx context.Context, req ListBasinsRequest) ([]BasinInfo, error) {
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
	target := c.accountPath("/v1/basins")
	if len(q) > 0 {
		target += "?" + q.Encode()
	}
	var resp listBasinsResponse
	if err := c.do(ctx, http.MethodGet, target, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Basins, nil
}

type CreateBasinRequest struct {
	Basin  string       `json:"basin"`
	Config *BasinConfig `json:"config,omitempty"`
}

func (c *Client) CreateBasin(ctx context.Context, req CreateBasinRequest) (BasinInfo, error) {
	if err := ValidateBasinName(req.Basin); err != nil {
		return BasinInfo{}, err
	}
	var info BasinInfo
	err := c.do(ctx, http.MethodPost, c.accountPath("/v1/basins"), req, &info)
	return info, err
}

func (c *Client) DeleteBasin(ctx context.Context, basin string) error {
	return c.do(ctx, http.MethodDelete, c.accountPath("/v1/basins/"+url.PathEscape(basin)), nil, nil)
}

func (c *Client) GetBasinConfig(ctx context.Context, basin string) (BasinConfig, error) {
	var cfg BasinConfig
	err := c.do(ctx, http.MethodGet, c.accountPath("/v1/basins/"+url.PathEscape(basin)+"/config"), nil, &cfg)
	return cfg, err
}

func (c *Client) ReconfigureBasin(ctx context.Context, basin string, cfg BasinConfig) (BasinConfig, error) {
	var out BasinConfig
	err := c.do(ctx, http.MethodPatch, c.accountPath("/v1/basins/"+url.PathEscape(basin)+"/config"), cfg, &out)
	return out, err
}
