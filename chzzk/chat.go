package chzzk

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const defaultChatServer = "wss://kr-ss1.chat.naver.com/chat"

// Chat protocol command codes.
const (
	cmdPing      = 0
	cmdConnect   = 100
	cmdPong      = 10000
	cmdConnected = 10100
	cmdSendChat  = 3101
	cmdRecvChat  = 93101
)

// Message is one inbound chat line.
type Message struct {
	AuthorID string
	Nickname string
	Text     string
	Time     time.Time
}

type frame struct {
	Ver   string          `json:"ver"`
	Cmd   int             `json:"cmd"`
	Svcid string          `json:"svcid,omitempty"`
	Cid   string          `json:"cid,omitempty"`
	Tid   int             `json:"tid,omitempty"`
	Bdy   json.RawMessage `json:"bdy,omitempty"`
}

// Chat is a websocket chat session for one channel. Connect establishes the session;
// handlers must be registered before Connect.
type Chat struct {
	client    *Client
	channelID string

	// ServerURL overrides the chat websocket endpoint (tests).
	ServerURL string

	onMessage    func([]Message)
	onDisconnect func()

	mu            sync.Mutex
	conn          *websocket.Conn
	chatChannelID string

	closeOnce sync.Once
	closed    chan struct{}
}

// NewChat creates a chat session for the given channel. It does not connect.
func NewChat(client *Client, channelID string) *Chat {
	return &Chat{client: client, channelID: channelID, closed: make(chan struct{})}
}

// OnMessage registers the batch handler invoked for each received group of chat lines.
func (c *Chat) OnMessage(fn func([]Message)) { c.onMessage = fn }

// OnDisconnect registers the handler invoked once when the session ends.
func (c *Chat) OnDisconnect(fn func()) { c.onDisconnect = fn }

// ChatChannelID returns the chat channel id resolved during Connect.
func (c *Chat) ChatChannelID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.chatChannelID
}

// UserInfo resolves a chat participant's profile within this session's chat channel.
func (c *Chat) UserInfo(ctx context.Context, authorID string) (*UserProfile, error) {
	return c.client.UserProfile(ctx, c.ChatChannelID(), authorID)
}

// LiveDetail fetches the session channel's current live metadata.
func (c *Chat) LiveDetail(ctx context.Context) (*LiveDetail, error) {
	return c.client.LiveDetail(ctx, c.channelID)
}

// Connect resolves the chat channel, fetches an access token, dials the chat server,
// and starts the read and keepalive loops. It returns once the session is established.
func (c *Chat) Connect(ctx context.Context) error {
	detail, err := c.client.LiveDetail(ctx, c.channelID)
	if err != nil {
		return fmt.Errorf("resolve chat channel: %w", err)
	}
	token, err := c.client.AccessToken(ctx, detail.ChatChannelID)
	if err != nil {
		return err
	}

	server := c.ServerURL
	if server == "" {
		server = defaultChatServer
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, server, nil)
	if err != nil {
		return fmt.Errorf("dial chat server: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.chatChannelID = detail.ChatChannelID
	c.mu.Unlock()

	connectBdy, _ := json.Marshal(map[string]interface{}{
		"accTkn":  token,
		"auth":    "SEND",
		"devType": 2001,
	})
	if err := c.writeFrame(frame{Ver: "2", Cmd: cmdConnect, Svcid: "game", Cid: detail.ChatChannelID, Bdy: connectBdy}); err != nil {
		_ = conn.Close()
		return fmt.Errorf("chat connect frame: %w", err)
	}

	go c.readLoop()
	go c.keepalive(ctx)
	return nil
}

// Send writes one chat line to the channel.
func (c *Chat) Send(text string) error {
	c.mu.Lock()
	cid := c.chatChannelID
	c.mu.Unlock()
	if cid == "" {
		return fmt.Errorf("chat not connected")
	}
	bdy, _ := json.Marshal(map[string]interface{}{
		"id":          uuid.New().String(),
		"msg":         text,
		"msgTime":     time.Now().UnixMilli(),
		"msgTypeCode": 1,
		"extras":      "{}",
	})
	return c.writeFrame(frame{Ver: "2", Cmd: cmdSendChat, Svcid: "game", Cid: cid, Bdy: bdy})
}

// Close terminates the session. The OnDisconnect handler fires exactly once, whether
// the session ends via Close or a read failure.
func (c *Chat) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closed)
		c.mu.Lock()
		conn := c.conn
		c.mu.Unlock()
		if conn != nil {
			err = conn.Close()
		}
		if c.onDisconnect != nil {
			c.onDisconnect()
		}
	})
	return err
}

// writeFrame serializes one frame. Gorilla connections allow a single concurrent
// writer, so writes are funneled through the session mutex.
func (c *Chat) writeFrame(f frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return fmt.Errorf("chat not connected")
	}
	return c.conn.WriteJSON(f)
}

func (c *Chat) readLoop() {
	defer func() { _ = c.Close() }()
	for {
		c.mu.Lock()
		conn := c.conn
		c.mu.Unlock()
		if conn == nil {
			return
		}
		var f frame
		if err := conn.ReadJSON(&f); err != nil {
			select {
			case <-c.closed:
			default:
				slog.Warn("chat read error", slog.Any("err", err))
			}
			return
		}
		switch f.Cmd {
		case cmdPing:
			if err := c.writeFrame(frame{Ver: "2", Cmd: cmdPong}); err != nil {
				slog.Warn("chat pong failed", slog.Any("err", err))
			}
		case cmdConnected:
			slog.Info("chat session established", slog.String("chat_channel", c.ChatChannelID()))
		case cmdRecvChat:
			batch := parseChatBody(f.Bdy)
			if len(batch) > 0 && c.onMessage != nil {
				c.onMessage(batch)
			}
		}
	}
}

// keepalive sends a client ping on a fixed cadence until the session or ctx ends.
func (c *Chat) keepalive(ctx context.Context) {
	ticker := time.NewTicker(20 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.closed:
			return
		case <-ticker.C:
			if err := c.writeFrame(frame{Ver: "2", Cmd: cmdPing}); err != nil {
				return
			}
		}
	}
}

// parseChatBody decodes a cmdRecvChat body. The profile field is itself a JSON-encoded
// string; a missing or malformed profile yields an empty AuthorID, which callers map to
// a synthesized guest identity.
func parseChatBody(raw json.RawMessage) []Message {
	var items []struct {
		Profile string `json:"profile"`
		Msg     string `json:"msg"`
		MsgTime int64  `json:"msgTime"`
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		slog.Warn("chat body decode failed", slog.Any("err", err))
		return nil
	}
	out := make([]Message, 0, len(items))
	for _, it := range items {
		var profile struct {
			UserIDHash string `json:"userIdHash"`
			Nickname   string `json:"nickname"`
		}
		if it.Profile != "" {
			if err := json.Unmarshal([]byte(it.Profile), &profile); err != nil {
				slog.Debug("chat profile decode failed", slog.Any("err", err))
			}
		}
		out = append(out, Message{
			AuthorID: profile.UserIDHash,
			Nickname: profile.Nickname,
			Text:     it.Msg,
			Time:     time.UnixMilli(it.MsgTime),
		})
	}
	return out
}
