// Command chuubot is the main entrypoint for the Chzzk chat companion bot.
// It:
//   - Loads configuration and initializes structured logging.
//   - Connects to Postgres and runs idempotent migrations.
//   - Connects to the channel's live chat and runs the command event loop
//     alongside the randomized broadcast loop.
//   - Exposes a minimal HTTP server with /healthz, /status, /records, and /metrics.
//
// Shutdown is graceful on SIGINT/SIGTERM; a chat disconnect also ends the run.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/kkugi/chuubot/bot"
	"github.com/kkugi/chuubot/chzzk"
	"github.com/kkugi/chuubot/config"
	"github.com/kkugi/chuubot/db"
	"github.com/kkugi/chuubot/game"
	"github.com/kkugi/chuubot/rng"
	"github.com/kkugi/chuubot/server"
	"github.com/kkugi/chuubot/stats"
	"github.com/kkugi/chuubot/stock"
	"github.com/kkugi/chuubot/telemetry"
)

func main() {
	// Load .env file if present (local dev convenience only; production relies on real env)
	_ = godotenv.Load()

	// Configure logging (level + format). Defaults: level=info, format=text.
	lvl := slog.LevelInfo
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	case "info", "":
		// keep default
	default:
		tmp := slog.New(slog.NewTextHandler(os.Stdout, nil))
		tmp.Warn("unknown LOG_LEVEL, using info", slog.String("value", os.Getenv("LOG_LEVEL")))
	}
	var handler slog.Handler
	switch strings.ToLower(os.Getenv("LOG_FORMAT")) {
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	default:
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	}
	slog.SetDefault(slog.New(handler))

	// Config; missing credentials abort before anything connects.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", slog.Any("err", err))
		os.Exit(1)
	}
	if err := cfg.ValidateSession(); err != nil {
		slog.Error("startup validation failed", slog.Any("err", err))
		os.Exit(1)
	}

	// Metrics / telemetry init
	telemetry.Init()
	shutdownTracing, err := telemetry.InitTracing("chuubot", "1.0.0")
	if err != nil {
		slog.Error("tracing initialization failed", slog.Any("err", err))
		os.Exit(1)
	}
	defer shutdownTracing()

	// Root context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// DB
	connectCtx, cancelConnect := context.WithTimeout(ctx, 10*time.Second)
	database, err := db.Connect(connectCtx, cfg.DBDsn)
	cancelConnect()
	if err != nil {
		slog.Error("failed to open db", slog.Any("err", err))
		os.Exit(1)
	}
	defer func() {
		if err := database.Close(); err != nil {
			slog.Error("failed to close database", slog.Any("err", err))
		}
	}()
	if err := db.Migrate(ctx, database); err != nil {
		slog.Error("failed to migrate db", slog.Any("err", err))
		os.Exit(1)
	}

	// Long-lived collaborators, constructed once and passed by handle.
	picker := rng.New(nil)
	store := stats.NewStore(database)
	client := &chzzk.Client{NidAut: cfg.NidAut, NidSes: cfg.NidSes}
	chat := chzzk.NewChat(client, cfg.ChannelID)
	stocks := &stock.Client{ServiceKey: cfg.StockAPIKey}

	b := bot.New(bot.Config{
		Transport:    chat,
		Engine:       game.NewEngine(store, picker),
		Stocks:       stocks,
		Picker:       picker,
		BroadcastMin: cfg.BroadcastMinDelay,
		BroadcastMax: cfg.BroadcastMaxDelay,
	})

	// HTTP server (health/status/records/metrics)
	go func() {
		if err := server.Start(ctx, database, cfg.HTTPAddr); err != nil {
			slog.Error("http server exited with error", slog.Any("err", err))
		}
	}()

	// Block in the chat event loop until disconnect or shutdown signal.
	if err := b.Run(ctx); err != nil {
		slog.Error("bot run failed", slog.Any("err", err))
		os.Exit(1)
	}
	slog.Info("shutting down")
}
