// Package discord is the REST boundary to the Discord API: OAuth code
// exchange plus the authenticated proxy calls the deletion pipeline consumes.
package discord

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/redact/redact-backend/internal/common"
	"github.com/redact/redact-backend/internal/domain"
)

const defaultAPIBase = "https://discord.com/api"

// Client calls the Discord REST API on behalf of a user
type Client struct {
	apiBase      string
	clientID     string
	clientSecret string
	redirectURI  string
	httpClient   *http.Client
}

// Config holds the OAuth application credentials and API base URL
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	APIBase      string
}

// NewClient creates a Discord API client
func NewClient(cfg Config) *Client {
	apiBase := cfg.APIBase
	if apiBase == "" {
		apiBase = defaultAPIBase
	}
	return &Client{
		apiBase:      strings.TrimSuffix(apiBase, "/"),
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		redirectURI:  cfg.RedirectURI,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
	}
}

// ExchangeCode exchanges an OAuth authorization code for tokens
func (c *Client) ExchangeCode(ctx context.Context, code string) (*domain.Tokens, error) {
	params := url.Values{
		"client_id":     {c.clientID},
		"client_secret": {c.clientSecret},
		"grant_type":    {"authorization_code"},
		"code":          {code},
		"redirect_uri":  {c.redirectURI},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiBase+"/oauth2/token", strings.NewReader(params.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var tokens domain.Tokens
	if err := c.do(req, &tokens); err != nil {
		return nil, fmt.Errorf("token exchange failed: %w", err)
	}
	return &tokens, nil
}

// User fetches the authenticated user's profile
func (c *Client) User(ctx context.Context, accessToken string) (*domain.User, error) {
	var user domain.User
	if err := c.get(ctx, accessToken, "/users/@me", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Guilds fetches the servers the user belongs to
func (c *Client) Guilds(ctx context.Context, accessToken string) ([]domain.Guild, error) {
	var guilds []domain.Guild
	if err := c.get(ctx, accessToken, "/users/@me/guilds", &guilds); err != nil {
		return nil, err
	}
	return guilds, nil
}

// GuildChannels fetches the channels of a server
func (c *Client) GuildChannels(ctx context.Context, accessToken, guildID string) ([]domain.Channel, error) {
	var channels []domain.Channel
	if err := c.get(ctx, accessToken, "/guilds/"+guildID+"/channels", &channels); err != nil {
		return nil, err
	}
	return channels, nil
}

// DMChannels fetches the user's direct message channels
func (c *Client) DMChannels(ctx context.Context, accessToken string) ([]domain.Channel, error) {
	var channels []domain.Channel
	if err := c.get(ctx, accessToken, "/users/@me/channels", &channels); err != nil {
		return nil, err
	}
	return channels, nil
}

// Messages fetches up to limit messages from a channel, newest first.
// A non-empty before pages backward from that message ID.
func (c *Client) Messages(ctx context.Context, accessToken, channelID string, limit int, before string) ([]domain.Message, error) {
	params := url.Values{"limit": {fmt.Sprintf("%d", limit)}}
	if before != "" {
		params.Set("before", before)
	}

	var messages []domain.Message
	path := "/channels/" + channelID + "/messages?" + params.Encode()
	if err := c.get(ctx, accessToken, path, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// DeleteMessage deletes a single message from a channel
func (c *Client) DeleteMessage(ctx context.Context, accessToken, channelID, messageID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
		c.apiBase+"/channels/"+channelID+"/messages/"+messageID, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	return c.do(req, nil)
}

// get issues an authenticated GET and decodes the JSON response into dest
func (c *Client) get(ctx context.Context, accessToken, path string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBase+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	return c.do(req, dest)
}

// do executes the request and maps non-2xx responses to UpstreamError
func (c *Client) do(req *http.Request, dest interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &common.UpstreamError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	if dest == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("parse response failed: %w", err)
	}
	return nil
}
