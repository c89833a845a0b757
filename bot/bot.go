package bot

import (
	"context"
	"log/slog"
	"time"

	"github.com/kkugi/chuubot/chzzk"
	"github.com/kkugi/chuubot/game"
	"github.com/kkugi/chuubot/rng"
	"github.com/kkugi/chuubot/telemetry"
)

// guestPrefix synthesizes a stable fallback identity when the platform cannot resolve
// a durable user id. Guest records are never reconciled with later-resolved identities.
const guestPrefix = "guest_"

// Transport is the narrow chat-platform surface the bot consumes; chzzk.Chat
// implements it.
type Transport interface {
	Connect(ctx context.Context) error
	Close() error
	OnMessage(func([]chzzk.Message))
	OnDisconnect(func())
	Send(text string) error
	UserInfo(ctx context.Context, authorID string) (*chzzk.UserProfile, error)
	LiveDetail(ctx context.Context) (*chzzk.LiveDetail, error)
}

// Bot drives the chat event loop and the broadcast scheduler against one channel.
type Bot struct {
	transport Transport
	engine    *game.Engine
	handlers  *Handlers
	picker    *rng.Picker

	broadcastMin time.Duration
	broadcastMax time.Duration
}

// Config collects the long-lived collaborators, constructed once at startup.
type Config struct {
	Transport    Transport
	Engine       *game.Engine
	Stocks       StockLookup
	Picker       *rng.Picker
	BroadcastMin time.Duration
	BroadcastMax time.Duration
}

func New(cfg Config) *Bot {
	return &Bot{
		transport:    cfg.Transport,
		engine:       cfg.Engine,
		handlers:     NewHandlers(cfg.Transport, cfg.Stocks, cfg.Picker),
		picker:       cfg.Picker,
		broadcastMin: cfg.BroadcastMin,
		broadcastMax: cfg.BroadcastMax,
	}
}

// Run connects the transport and blocks until the chat disconnects or ctx is
// cancelled. The broadcast loop shares the run context, so a disconnect also stops
// broadcasting. In-flight message handlers are not cancelled; they complete or fail
// on their own.
func (b *Bot) Run(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	b.transport.OnDisconnect(func() {
		slog.Info("chat disconnected")
		telemetry.SetChatConnected(false)
		cancel()
	})
	b.transport.OnMessage(func(batch []chzzk.Message) {
		for _, msg := range batch {
			telemetry.IncMessageSeen()
			go b.handle(context.WithoutCancel(runCtx), msg)
		}
	})

	if err := b.transport.Connect(runCtx); err != nil {
		return err
	}
	slog.Info("chat connected")
	telemetry.SetChatConnected(true)

	go NewBroadcaster(b.transport, b.picker, b.broadcastMin, b.broadcastMax).Run(runCtx)

	<-runCtx.Done()
	if err := b.transport.Close(); err != nil {
		slog.Warn("chat close", slog.Any("err", err))
	}
	return nil
}

// handle processes one chat message end to end: resolve the author, classify the
// text, dispatch, and send the reply. Every failure is converted to a reply or a log
// line here; nothing escapes to the event loop.
func (b *Bot) handle(ctx context.Context, msg chzzk.Message) {
	userID, profile := b.resolveUser(ctx, msg.AuthorID)

	cmd := ParseCommand(msg.Text)
	if cmd.Kind == CmdNone {
		return
	}
	telemetry.IncCommand(cmd.Kind.String())
	ctx, span := telemetry.StartSpan(ctx, "bot", "command."+cmd.Kind.String())
	defer span.End()

	var reply string
	var err error
	switch cmd.Kind {
	case CmdGame:
		reply, err = b.engine.Play(ctx, userID, cmd.Arg)
	case CmdStock:
		reply = b.handlers.Stock(ctx, cmd.Arg)
	case CmdUptime:
		reply, err = b.handlers.Uptime(ctx)
	case CmdViewers:
		reply, err = b.handlers.Viewers(ctx)
	case CmdTitle:
		reply, err = b.handlers.Title(ctx)
	case CmdFollow:
		reply = b.handlers.Follow(profile)
	case CmdHelp:
		reply = b.handlers.Help()
	}
	if err != nil {
		slog.Error("command failed", slog.String("command", cmd.Kind.String()), slog.String("user", userID), slog.Any("err", err))
		telemetry.IncHandlerError(cmd.Kind.String())
		telemetry.RecordError(span, err)
		reply = GenericFailureReply
	}
	if reply == "" {
		return
	}
	if err := b.transport.Send(reply); err != nil {
		slog.Error("reply send failed", slog.String("command", cmd.Kind.String()), slog.Any("err", err))
	}
}

// resolveUser maps a platform author id to a stable user id, falling back to a
// synthesized guest identity when the profile cannot be resolved. The profile is also
// returned for handlers that need follow data.
func (b *Bot) resolveUser(ctx context.Context, authorID string) (string, *chzzk.UserProfile) {
	if authorID == "" {
		return guestPrefix + authorID, nil
	}
	profile, err := b.transport.UserInfo(ctx, authorID)
	if err != nil || profile.IDHash == "" {
		if err != nil {
			slog.Debug("user resolution failed", slog.String("author", authorID), slog.Any("err", err))
		}
		return guestPrefix + authorID, nil
	}
	return profile.IDHash, profile
}
