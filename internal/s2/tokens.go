package s2

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

type ListAccessTokensRequest struct {
	Prefix     string
	StartAfter string
	Limit      int
}

type listAccessTokensResponse struct {
	AccessTokens []AccessTokenInfo `json:"access_tokens"`
	HasMore      bool              `json:"has_more"`
}

func (c *Client) ListAccessTokens(ctx context.Context, req ListAccessTokensRequest) ([]AccessTokenInfo, error) {
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
	target := c.accountPath("/v1/access-tokens")
	if len(q) > 0 {
		target += "?" + q.Encode()
	}
	var resp listAccessTokensResponse
	if err := c.do(ctx, http.MethodGet, target, nil, &resp); err != nil {
		return nil, err
	}
	return resp.AccessTokens, nil
}

type IssueAccessTokenRequest struct {
	ID                string           `json:"id"`
	ExpiresAt         *time.Time       `json:"expires_at,omitempty"`
	AutoPrefixStreams bool             `json:"auto_prefix_streams,omitempty"`
	Scope             AccessTokenScope `json:"scope"`
}

// IssueAccessToken mints a token and returns its secret. The secret is shown
// exactly once; it cannot be recovered later.
func (c *Client) IssueAccessToken(ctx context.Context, req IssueAccessTokenRequest) (string, error) {
	var resp struct {
		AccessToken string `json:"access_token"`
	}
	err := c.do(ctx, http.MethodPost, c.accountPath("/v1/access-tokens"), req, &resp)
	return resp.AccessToken, err
}

func (c *Client) RevokeAccessToken(ctx context.Context, id string) (AccessTokenInfo, error) {
	var info AccessTokenInfo
	err := c.do(ctx, http.MethodDelete, c.accountPath("/v1/access-tokens/"+url.PathEscape(id)), nil, &info)
	return info, err
}
