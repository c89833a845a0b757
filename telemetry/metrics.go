// Package telemetry provides Prometheus metrics, correlation-id aware logging helpers,
// and OpenTelemetry tracing setup.
package telemetry

import (
	"context"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	once sync.Once

	// Counters
	CommandsHandled   *prometheus.CounterVec
	RoundsPlayed      *prometheus.CounterVec
	HandlerErrors     *prometheus.CounterVec
	ExternalAPIErrors *prometheus.CounterVec
	BroadcastsSent    prometheus.Counter
	MessagesSeen      prometheus.Counter

	// Gauges
	ChatConnectedGauge prometheus.Gauge // 1=connected,0=not
)

// Init registers metrics (idempotent).
func Init() {
	once.Do(func() {
		CommandsHandled = promauto.NewCounterVec(prometheus.CounterOpts{Name: "chuubot_commands_total", Help: "Recognized chat commands handled"}, []string{"command"})
		RoundsPlayed = promauto.NewCounterVec(prometheus.CounterOpts{Name: "chuubot_game_rounds_total", Help: "Completed game rounds by outcome"}, []string{"outcome"})
		HandlerErrors = promauto.NewCounterVec(prometheus.CounterOpts{Name: "chuubot_handler_errors_total", Help: "Command handler failures"}, []string{"command"})
		ExternalAPIErrors = promauto.NewCounterVec(prometheus.CounterOpts{Name: "chuubot_external_api_errors_total", Help: "External API call failures"}, []string{"api"})
		BroadcastsSent = promauto.NewCounter(prometheus.CounterOpts{Name: "chuubot_broadcasts_total", Help: "Unsolicited broadcast messages sent"})
		MessagesSeen = promauto.NewCounter(prometheus.CounterOpts{Name: "chuubot_messages_seen_total", Help: "Chat messages observed (commands or not)"})
		ChatConnectedGauge = promauto.NewGauge(prometheus.GaugeOpts{Name: "chuubot_chat_connected", Help: "Chat session connected=1 disconnected=0"})
	})
}

// IncCommand counts one handled command.
func IncCommand(command string) {
	if CommandsHandled != nil {
		CommandsHandled.WithLabelValues(command).Inc()
	}
}

// IncRound counts one completed game round.
func IncRound(outcome string) {
	if RoundsPlayed != nil {
		RoundsPlayed.WithLabelValues(outcome).Inc()
	}
}

// IncHandlerError counts one failed command handler.
func IncHandlerError(command string) {
	if HandlerErrors != nil {
		HandlerErrors.WithLabelValues(command).Inc()
	}
}

// IncExternalError counts one external API failure.
func IncExternalError(api string) {
	if ExternalAPIErrors != nil {
		ExternalAPIErrors.WithLabelValues(api).Inc()
	}
}

// IncBroadcast counts one broadcast message.
func IncBroadcast() {
	if BroadcastsSent != nil {
		BroadcastsSent.Inc()
	}
}

// IncMessageSeen counts one observed chat message.
func IncMessageSeen() {
	if MessagesSeen != nil {
		MessagesSeen.Inc()
	}
}

// SetChatConnected sets the connection gauge.
func SetChatConnected(connected bool) {
	if ChatConnectedGauge != nil {
		if connected {
			ChatConnectedGauge.Set(1)
		} else {
			ChatConnectedGauge.Set(0)
		}
	}
}

// Correlation ID helpers ----------------------------------------------------
type corrKeyType struct{}

var corrKey corrKeyType

// WithCorrelation returns a new context embedding correlation id (if absent) and the id.
func WithCorrelation(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, corrKey, id)
}

// GetCorrelation returns correlation id or empty string.
func GetCorrelation(ctx context.Context) string {
	v := ctx.Value(corrKey)
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// LoggerWithCorr returns a logger with corr attribute if present.
func LoggerWithCorr(ctx context.Context) *slog.Logger {
	if id := GetCorrelation(ctx); id != "" {
		return slog.Default().With(slog.String("corr", id))
	}
	return slog.Default()
}
