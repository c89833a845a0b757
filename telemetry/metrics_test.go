package telemetry

import (
	"context"
	"testing"
)

func TestInitIdempotent(t *testing.T) {
	Init()
	Init() // second call must not re-register (promauto panics on duplicates)
	if CommandsHandled == nil || BroadcastsSent == nil || ChatConnectedGauge == nil {
		t.Fatal("metrics not initialized")
	}
}

func TestIncHelpersAfterInit(t *testing.T) {
	Init()
	// Smoke: none of these may panic.
	IncCommand("game")
	IncRound("win")
	IncHandlerError("stock")
	IncExternalError("chzzk")
	IncBroadcast()
	IncMessageSeen()
	SetChatConnected(true)
	SetChatConnected(false)
}

func TestCorrelation(t *testing.T) {
	ctx := context.Background()
	if got := GetCorrelation(ctx); got != "" {
		t.Errorf("empty context correlation = %q", got)
	}
	ctx = WithCorrelation(ctx, "abc-123")
	if got := GetCorrelation(ctx); got != "abc-123" {
		t.Errorf("correlation = %q, want abc-123", got)
	}
	if l := LoggerWithCorr(ctx); l == nil {
		t.Error("LoggerWithCorr returned nil")
	}
}
