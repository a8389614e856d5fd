package s2

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultAccountEndpoint = "https://aws.s2.dev"
	DefaultBasinEndpoint   = "https://{basin}.b.aws.s2.dev"

	basinPlaceholder = "{basin}"
)

// Config carries everything needed to talk to the service. BasinEndpoint
// must contain the {basin} placeholder unless it equals AccountEndpoint, in
// which case basin-scoped calls are routed by path instead of hostname.
type Config struct {
	AccessToken     string
	AccountEndpoint string
	BasinEndpoint   string
	UserAgent       string
	HTTPClient      *http.Client
}

type Client struct {
	token      string
	accountURL string
	basinURL   string
	userAgent  string
	http       *http.Client
}

func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.AccessToken) == "" {
		return nil, fmt.Errorf("s2: access token required")
	}
	account := cfg.AccountEndpoint
	if account == "" {
		account = DefaultAccountEndpoint
	}
	basin := cfg.BasinEndpoint
	if basin == "" {
		basin = DefaultBasinEndpoint
	}
	if basin != account && !strings.Contains(basin, basinPlaceholder) {
		return nil, fmt.Errorf("s2: basin endpoint %q missing %s placeholder", basin, basinPlaceholder)
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = "s2-tui"
	}
	return &Client{
		token:      cfg.AccessToken,
		accountURL: strings.TrimRight(account, "/"),
		basinURL:   strings.TrimRight(basin, "/"),
		userAgent:  ua,
		http:       httpClient,
	}, nil
}

func (c *Client) accountPath(path string) string {
	return c.accountURL + path
}

func (c *Client) basinPath(basin, path string) string {
	if c.basinURL == c.accountURL {
		return c.accountURL + "/v1/basins/" + url.PathEscape(basin) + strings.TrimPrefix(path, "/v1")
	}
	return strings.Replace(c.basinURL, basinPlaceholder, basin, 1) + path
}

// do issues one JSON request. A nil out discards the response body; a nil in
// sends no body.
func (c *Client) do(ctx context.Context, method, rawURL string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("s2: encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("User-Agent", c.userAgent)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body) //nolint:errcheck
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("s2: decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return apiErr
	}
	var wire struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(raw, &wire) == nil {
		apiErr.Code = wire.Code
		apiErr.Message = wire.Message
		if apiErr.Message == "" {
			apiErr.Message = wire.Error
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(raw))
	}
	return apiErr
}
