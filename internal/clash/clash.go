// Package clash is a small client for the Clash of Clans REST API.
package clash

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Client calls the Clash of Clans API with a developer token.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	cache      *Cache
	logger     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL, e.g. for a proxy or tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(baseURL, "/") }
}

// WithHTTPClient replaces the default HTTP client (10s timeout).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithCache enables response caching. A nil cache disables it.
func WithCache(cache *Cache) Option {
	return func(c *Client) { c.cache = cache }
}

// WithLogger sets the logger used for request debugging.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient creates a Client authenticating with token.
func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	return c
}

// buildURL joins the base URL with path segments, escaping each one so a
// tag's leading '#' becomes %23.
func (c *Client) buildURL(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	return c.baseURL + "/" + strings.Join(escaped, "/")
}

// makeAPIRequest performs a GET request and decodes the JSON body into result.
func (c *Client) makeAPIRequest(ctx context.Context, endpoint string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("clash API request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	c.logger.Debug("clash API request",
		zap.String("url", endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)))

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var ce ClientError
		if json.Unmarshal(body, &ce) == nil {
			apiErr.Reason = ce.Reason
			apiErr.Message = ce.Message
		}
		return apiErr
	}

	return json.Unmarshal(body, result)
}

// GetClan returns the clan with the given tag.
func (c *Client) GetClan(ctx context.Context, tag string) (*Clan, error) {
	tag, err := NormalizeTag(tag)
	if err != nil {
		return nil, err
	}
	if clan, ok := c.cache.GetClan(tag); ok {
		return clan, nil
	}

	var clan Clan
	if err := c.makeAPIRequest(ctx, c.buildURL("clans", tag), &clan); err != nil {
		return nil, err
	}
	c.cache.SetClan(tag, &clan)
	return &clan, nil
}

// GetClanMembers returns the members of a clan, ordered by clan rank.
func (c *Client) GetClanMembers(ctx context.Context, tag string) ([]ClanMember, error) {
	tag, err := NormalizeTag(tag)
	if err != nil {
		return nil, err
	}

	var list ClanMemberList
	if err := c.makeAPIRequest(ctx, c.buildURL("clans", tag, "members"), &list); err != nil {
		return nil, err
	}
	return list.Items, nil
}

// GetPlayer returns the player with the given tag.
func (c *Client) GetPlayer(ctx context.Context, tag string) (*Player, error) {
	tag, err := NormalizeTag(tag)
	if err != nil {
		return nil, err
	}
	if player, ok := c.cache.GetPlayer(tag); ok {
		return player, nil
	}

	var player Player
	if err := c.makeAPIRequest(ctx, c.buildURL("players", tag), &player); err != nil {
		return nil, err
	}
	c.cache.SetPlayer(tag, &player)
	return &player, nil
}

// GetCurrentWar returns the clan's current war. A clan that is not in war
// yields a War with State WarStateNotInWar; a private war log yields an
// APIError for which IsPrivateWarLog is true.
func (c *Client) GetCurrentWar(ctx context.Context, tag string) (*War, error) {
	tag, err := NormalizeTag(tag)
	if err != nil {
		return nil, err
	}
	if war, ok := c.cache.GetWar(tag); ok {
		return war, nil
	}

	var war War
	if err := c.makeAPIRequest(ctx, c.buildURL("clans", tag, "currentwar"), &war); err != nil {
		return nil, err
	}
	c.cache.SetWar(tag, &war)
	return &war, nil
}

// timeLayout is the compact ISO 8601 format used for war timestamps.
const timeLayout = "20060102T150405.000Z"

// ParseTime parses an API timestamp such as "20240131T183000.000Z".
func ParseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}
