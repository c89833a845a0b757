package chzzk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

const (
	defaultAPIBase     = "https://api.chzzk.naver.com"
	defaultGameAPIBase = "https://comm-api.game.naver.com"
)

// Chzzk timestamps ("2024-05-01 21:03:00") are KST without an offset.
var kst = time.FixedZone("KST", 9*60*60)

// ErrNotLive means the channel has no open live broadcast.
var ErrNotLive = errors.New("channel is not live")

// LiveDetail is the subset of the live-detail response the bot uses.
type LiveDetail struct {
	Title         string
	Status        string
	OpenDate      time.Time
	Viewers       int
	ChatChannelID string
}

// UserProfile is a chat participant's profile card. FollowDate is zero when the
// user does not follow the channel.
type UserProfile struct {
	IDHash     string
	Nickname   string
	FollowDate time.Time
}

// Client provides minimal REST helpers against the Chzzk APIs. All requests carry the
// NID session cookies.
type Client struct {
	NidAut      string
	NidSes      string
	APIBase     string
	GameAPIBase string
	HTTPClient  *http.Client
}

func (c *Client) http() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *Client) apiBase() string {
	if c.APIBase != "" {
		return c.APIBase
	}
	return defaultAPIBase
}

func (c *Client) gameAPIBase() string {
	if c.GameAPIBase != "" {
		return c.GameAPIBase
	}
	return defaultGameAPIBase
}

func (c *Client) get(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Cookie", fmt.Sprintf("NID_AUT=%s; NID_SES=%s", c.NidAut, c.NidSes))
	resp, err := c.http().Do(req)
	if err != nil {
		return err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Warn("failed to close response body", slog.Any("err", err))
		}
	}()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("chzzk api status %d for %s", resp.StatusCode, req.URL.Path)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// parseKST parses a Chzzk timestamp. Returns the zero time for empty or malformed input.
func parseKST(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.ParseInLocation("2006-01-02 15:04:05", s, kst)
	if err != nil {
		return time.Time{}
	}
	return t
}

// LiveDetail fetches the channel's current live metadata.
func (c *Client) LiveDetail(ctx context.Context, channelID string) (*LiveDetail, error) {
	var body struct {
		Content struct {
			LiveTitle           string `json:"liveTitle"`
			Status              string `json:"status"`
			ConcurrentUserCount int    `json:"concurrentUserCount"`
			OpenDate            string `json:"openDate"`
			ChatChannelID       string `json:"chatChannelId"`
		} `json:"content"`
	}
	url := fmt.Sprintf("%s/service/v2/channels/%s/live-detail", c.apiBase(), channelID)
	if err := c.get(ctx, url, &body); err != nil {
		return nil, fmt.Errorf("live detail: %w", err)
	}
	if body.Content.ChatChannelID == "" {
		return nil, ErrNotLive
	}
	return &LiveDetail{
		Title:         body.Content.LiveTitle,
		Status:        body.Content.Status,
		OpenDate:      parseKST(body.Content.OpenDate),
		Viewers:       body.Content.ConcurrentUserCount,
		ChatChannelID: body.Content.ChatChannelID,
	}, nil
}

// UserProfile fetches a chat participant's profile card for the given chat channel.
func (c *Client) UserProfile(ctx context.Context, chatChannelID, userIDHash string) (*UserProfile, error) {
	var body struct {
		Content struct {
			UserIDHash        string `json:"userIdHash"`
			Nickname          string `json:"nickname"`
			StreamingProperty struct {
				Following struct {
					FollowDate string `json:"followDate"`
				} `json:"following"`
			} `json:"streamingProperty"`
		} `json:"content"`
	}
	url := fmt.Sprintf("%s/nng_main/v1/chats/%s/users/%s/profile-card?chatType=STREAMING",
		c.gameAPIBase(), chatChannelID, userIDHash)
	if err := c.get(ctx, url, &body); err != nil {
		return nil, fmt.Errorf("user profile: %w", err)
	}
	if body.Content.UserIDHash == "" {
		return nil, fmt.Errorf("user %s not resolved", userIDHash)
	}
	return &UserProfile{
		IDHash:     body.Content.UserIDHash,
		Nickname:   body.Content.Nickname,
		FollowDate: parseKST(body.Content.StreamingProperty.Following.FollowDate),
	}, nil
}

// AccessToken fetches the chat access token required by the websocket handshake.
func (c *Client) AccessToken(ctx context.Context, chatChannelID string) (string, error) {
	var body struct {
		Content struct {
			AccessToken string `json:"accessToken"`
		} `json:"content"`
	}
	url := fmt.Sprintf("%s/nng_main/v1/chats/access-token?channelId=%s&chatType=STREAMING",
		c.gameAPIBase(), chatChannelID)
	if err := c.get(ctx, url, &body); err != nil {
		return "", fmt.Errorf("chat access token: %w", err)
	}
	if body.Content.AccessToken == "" {
		return "", fmt.Errorf("empty chat access token")
	}
	return body.Content.AccessToken, nil
}
