package bot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kkugi/chuubot/rng"
	"github.com/kkugi/chuubot/telemetry"
)

// Sender is the outbound send capability shared with the command handlers.
type Sender interface {
	Send(text string) error
}

const broadcastText = "꾹이 햄부기 맛잇당"

// Broadcaster emits one decorated message, waits a uniform random delay in
// [min, max), and repeats until its context is cancelled. It shares nothing with the
// command handlers beyond the Sender.
type Broadcaster struct {
	send   Sender
	picker *rng.Picker
	min    time.Duration
	max    time.Duration
}

func NewBroadcaster(send Sender, picker *rng.Picker, min, max time.Duration) *Broadcaster {
	return &Broadcaster{send: send, picker: picker, min: min, max: max}
}

// Run loops until ctx is done. A failed send is logged and the loop keeps going; the
// next attempt happens after the usual delay.
func (b *Broadcaster) Run(ctx context.Context) {
	timer := time.NewTimer(0)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
		msg := fmt.Sprintf("%s %s %s", broadcastText, b.picker.Emoji(), b.picker.Emoji())
		if err := b.send.Send(msg); err != nil {
			slog.Error("broadcast send failed", slog.Any("err", err))
		} else {
			telemetry.IncBroadcast()
		}
		timer.Reset(b.picker.Delay(b.min, b.max))
	}
}
