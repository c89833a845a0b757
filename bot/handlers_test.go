package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/kkugi/chuubot/chzzk"
	"github.com/kkugi/chuubot/rng"
	"github.com/kkugi/chuubot/stock"
)

type fakeLive struct {
	detail *chzzk.LiveDetail
	err    error
}

func (f *fakeLive) LiveDetail(context.Context) (*chzzk.LiveDetail, error) {
	return f.detail, f.err
}

type fakeStocks struct {
	quote *stock.Quote
	err   error
	calls int
}

func (f *fakeStocks) Lookup(_ context.Context, fragment string) (*stock.Quote, error) {
	f.calls++
	return f.quote, f.err
}

func fixedNow(h *Handlers, t time.Time) { h.now = func() time.Time { return t } }

func TestStockReplyFormatsFieldsVerbatim(t *testing.T) {
	stocks := &fakeStocks{quote: &stock.Quote{Name: "삼성전자", Current: "61500", High: "62100", Low: "61000"}}
	h := NewHandlers(&fakeLive{}, stocks, rng.New(&rng.Config{Seed: 1}))
	got := h.Stock(context.Background(), "삼성")
	want := "삼성 현재가: 61500원, 고가: 62100원, 저가: 61000원"
	if got != want {
		t.Errorf("Stock reply = %q, want %q", got, want)
	}
}

func TestStockNotFoundAndTransportFailureReadTheSame(t *testing.T) {
	h1 := NewHandlers(&fakeLive{}, &fakeStocks{err: stock.ErrNotFound}, rng.New(&rng.Config{Seed: 1}))
	h2 := NewHandlers(&fakeLive{}, &fakeStocks{err: errors.New("connection refused")}, rng.New(&rng.Config{Seed: 1}))
	r1 := h1.Stock(context.Background(), "없는종목")
	r2 := h2.Stock(context.Background(), "없는종목")
	if r1 != r2 {
		t.Errorf("not-found %q and transport failure %q must read the same", r1, r2)
	}
	if !strings.Contains(r1, "없는종목") || !strings.Contains(r1, "찾을 수 없습니다") {
		t.Errorf("unexpected not-found reply: %q", r1)
	}
}

func TestStockEmptyFragmentRespondsNotFound(t *testing.T) {
	stocks := &fakeStocks{quote: &stock.Quote{Current: "1"}}
	h := NewHandlers(&fakeLive{}, stocks, rng.New(&rng.Config{Seed: 1}))
	got := h.Stock(context.Background(), "")
	if !strings.Contains(got, "찾을 수 없습니다") {
		t.Errorf("empty fragment should answer not-found, got %q", got)
	}
	if stocks.calls != 0 {
		t.Errorf("empty fragment must not hit the API, got %d calls", stocks.calls)
	}
}

func TestUptimeTruncatesEachUnit(t *testing.T) {
	open := time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC)
	live := &fakeLive{detail: &chzzk.LiveDetail{OpenDate: open}}
	h := NewHandlers(live, &fakeStocks{}, rng.New(&rng.Config{Seed: 1}))
	// 1h05m30.9s elapsed: the fraction must truncate, not round.
	fixedNow(h, open.Add(1*time.Hour+5*time.Minute+30*time.Second+900*time.Millisecond))
	got, err := h.Uptime(context.Background())
	if err != nil {
		t.Fatalf("Uptime: %v", err)
	}
	if !strings.HasPrefix(got, "1시간 5분 30초") {
		t.Errorf("Uptime = %q, want prefix \"1시간 5분 30초\"", got)
	}
	if strings.Count(got, "{:") != 2 {
		t.Errorf("Uptime should carry two emoji draws: %q", got)
	}
}

func TestUptimePropagatesLiveError(t *testing.T) {
	h := NewHandlers(&fakeLive{err: errors.New("api down")}, &fakeStocks{}, rng.New(&rng.Config{Seed: 1}))
	if _, err := h.Uptime(context.Background()); err == nil {
		t.Error("expected error when live detail fails")
	}
}

func TestViewersReply(t *testing.T) {
	live := &fakeLive{detail: &chzzk.LiveDetail{Viewers: 1532}}
	h := NewHandlers(live, &fakeStocks{}, rng.New(&rng.Config{Seed: 2}))
	got, err := h.Viewers(context.Background())
	if err != nil {
		t.Fatalf("Viewers: %v", err)
	}
	if !strings.Contains(got, "시청자 수 1532명 돌파") {
		t.Errorf("Viewers = %q", got)
	}
	if strings.Count(got, "{:") != 2 {
		t.Errorf("Viewers should carry a leading and a trailing emoji: %q", got)
	}
}

func TestTitleVerbatim(t *testing.T) {
	live := &fakeLive{detail: &chzzk.LiveDetail{Title: "오늘은 버거 먹방"}}
	h := NewHandlers(live, &fakeStocks{}, rng.New(&rng.Config{Seed: 3}))
	got, err := h.Title(context.Background())
	if err != nil {
		t.Fatalf("Title: %v", err)
	}
	if got != "현재 방제: 오늘은 버거 먹방" {
		t.Errorf("Title = %q", got)
	}
}

func TestFollowDays(t *testing.T) {
	h := NewHandlers(&fakeLive{}, &fakeStocks{}, rng.New(&rng.Config{Seed: 4}))
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	fixedNow(h, now)
	// 10 days minus one second: floor division keeps it at 9.
	profile := &chzzk.UserProfile{IDHash: "hash1", FollowDate: now.Add(-10*24*time.Hour + time.Second)}
	got := h.Follow(profile)
	if !strings.Contains(got, fmt.Sprintf("%d일 경과", 9)) {
		t.Errorf("Follow = %q, want 9일 경과", got)
	}
}

func TestFollowWithoutRecord(t *testing.T) {
	h := NewHandlers(&fakeLive{}, &fakeStocks{}, rng.New(&rng.Config{Seed: 5}))
	for _, profile := range []*chzzk.UserProfile{nil, {IDHash: "hash1"}} {
		got := h.Follow(profile)
		if strings.Contains(got, "일 경과") {
			t.Errorf("non-follower must not get a duration, got %q", got)
		}
	}
}

func TestHelpListsAllCommands(t *testing.T) {
	h := NewHandlers(&fakeLive{}, &fakeStocks{}, rng.New(&rng.Config{Seed: 6}))
	got := h.Help()
	for _, cmd := range []string{"!가위바위보", "!주가", "!업타임", "!시청자수", "!방제", "!팔로우", "!명령어"} {
		if !strings.Contains(got, cmd) {
			t.Errorf("Help missing %s: %q", cmd, got)
		}
	}
}
