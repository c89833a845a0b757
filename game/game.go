// Package game implements the rock-paper-scissors round: move validation, uniform bot
// move selection, outcome resolution, and the single durable counter increment per round.
package game

import (
	"context"
	"fmt"

	"github.com/kkugi/chuubot/rng"
	"github.com/kkugi/chuubot/stats"
	"github.com/kkugi/chuubot/telemetry"
)

// Moves in the chat's own vocabulary: scissors, rock, paper.
var Moves = []string{"가위", "바위", "보"}

// beats maps each move to the move it defeats.
var beats = map[string]string{
	"가위": "보",
	"바위": "가위",
	"보":  "바위",
}

const InstructionReply = "가위, 바위, 보 중 하나를 입력해주세요! 예: !가위바위보 가위"

var outcomePhrase = map[stats.Outcome]string{
	stats.OutcomeWin:  "이겼습니다! {:chuu11:}{:chuu11:}",
	stats.OutcomeLoss: "졌습니다ㅠㅠ {:chuu4:}{:chuu4:}",
	stats.OutcomeDraw: "비겼습니다! {:chuu10:}{:chuu10:}",
}

// RoundStore is the slice of the stats store the engine needs.
type RoundStore interface {
	UpsertRoundResult(ctx context.Context, userID string, outcome stats.Outcome) (stats.Record, error)
}

// Engine plays rounds against users and records outcomes.
type Engine struct {
	store  RoundStore
	picker *rng.Picker
}

func NewEngine(store RoundStore, picker *rng.Picker) *Engine {
	return &Engine{store: store, picker: picker}
}

// IsValidMove reports whether the token is exactly one of the three canonical moves.
func IsValidMove(choice string) bool {
	_, ok := beats[choice]
	return ok
}

// Resolve returns the round outcome from the user's perspective. Both arguments must be
// canonical moves.
func Resolve(userChoice, botChoice string) stats.Outcome {
	switch {
	case userChoice == botChoice:
		return stats.OutcomeDraw
	case beats[userChoice] == botChoice:
		return stats.OutcomeWin
	default:
		return stats.OutcomeLoss
	}
}

// Play runs one round. An invalid move yields the instruction reply and touches no state.
// Otherwise exactly one counter is incremented, and the reply is built from the record the
// store returned so the tally shown always reflects this round.
func (e *Engine) Play(ctx context.Context, userID, userChoice string) (string, error) {
	if !IsValidMove(userChoice) {
		return InstructionReply, nil
	}
	botChoice := e.picker.Choice(Moves)
	outcome := Resolve(userChoice, botChoice)
	rec, err := e.store.UpsertRoundResult(ctx, userID, outcome)
	if err != nil {
		return "", fmt.Errorf("record round for %s: %w", userID, err)
	}
	telemetry.IncRound(string(outcome))
	return fmt.Sprintf("봇의 선택 => %s %s\n현재 전적: %d승 %d패 %d무",
		botChoice, outcomePhrase[outcome], rec.Wins, rec.Losses, rec.Draws), nil
}
