package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kkugi/chuubot/chzzk"
	"github.com/kkugi/chuubot/rng"
	"github.com/kkugi/chuubot/stock"
	"github.com/kkugi/chuubot/telemetry"
)

// GenericFailureReply is sent when a handler fails for reasons the user cannot fix.
const GenericFailureReply = "오류가 발생했어요. 잠시 후 다시 시도해주세요 ㅠㅠ"

const helpReply = "사용 가능 명령어: !가위바위보, !주가, !업타임, !시청자수, !방제, !팔로우, !명령어"

// LiveDetailer supplies the channel's current live metadata.
type LiveDetailer interface {
	LiveDetail(ctx context.Context) (*chzzk.LiveDetail, error)
}

// StockLookup finds one security by name fragment.
type StockLookup interface {
	Lookup(ctx context.Context, fragment string) (*stock.Quote, error)
}

// Handlers implement the stateless info query commands. Each is idempotent with
// respect to the bot's own state.
type Handlers struct {
	live   LiveDetailer
	stocks StockLookup
	picker *rng.Picker
	now    func() time.Time
}

func NewHandlers(live LiveDetailer, stocks StockLookup, picker *rng.Picker) *Handlers {
	return &Handlers{live: live, stocks: stocks, picker: picker, now: time.Now}
}

// Stock looks up a security by name fragment. Transport and parse failures are logged
// and folded into the not-found reply; from the user's perspective they read the same.
func (h *Handlers) Stock(ctx context.Context, fragment string) string {
	notFound := fmt.Sprintf("\"%s\" 종목을 찾을 수 없습니다.", fragment)
	if fragment == "" {
		return notFound
	}
	quote, err := h.stocks.Lookup(ctx, fragment)
	if errors.Is(err, stock.ErrNotFound) {
		return notFound
	}
	if err != nil {
		slog.Error("stock lookup failed", slog.String("fragment", fragment), slog.Any("err", err))
		telemetry.IncExternalError("stock")
		return notFound
	}
	return fmt.Sprintf("%s 현재가: %s원, 고가: %s원, 저가: %s원", fragment, quote.Current, quote.High, quote.Low)
}

// Uptime reports elapsed wall-clock time since the stream opened, truncated toward
// zero at each unit.
func (h *Handlers) Uptime(ctx context.Context) (string, error) {
	detail, err := h.live.LiveDetail(ctx)
	if err != nil {
		return "", fmt.Errorf("uptime: %w", err)
	}
	ms := h.now().Sub(detail.OpenDate).Milliseconds()
	hours := ms / 3_600_000
	minutes := ms % 3_600_000 / 60_000
	seconds := ms % 60_000 / 1_000
	return fmt.Sprintf("%d시간 %d분 %d초 %s%s", hours, minutes, seconds, h.picker.Emoji(), h.picker.Emoji()), nil
}

// Viewers reports the current concurrent viewer count.
func (h *Handlers) Viewers(ctx context.Context) (string, error) {
	detail, err := h.live.LiveDetail(ctx)
	if err != nil {
		return "", fmt.Errorf("viewer count: %w", err)
	}
	return fmt.Sprintf("%s 시청자 수 %d명 돌파 %s", h.picker.Emoji(), detail.Viewers, h.picker.Emoji()), nil
}

// Title reports the room title verbatim.
func (h *Handlers) Title(ctx context.Context) (string, error) {
	detail, err := h.live.LiveDetail(ctx)
	if err != nil {
		return "", fmt.Errorf("room title: %w", err)
	}
	return "현재 방제: " + detail.Title, nil
}

// Follow reports how many whole days the user has followed the channel. A nil profile
// (unresolved guest) or a zero follow date reads as "not following" instead of a
// nonsensical duration.
func (h *Handlers) Follow(profile *chzzk.UserProfile) string {
	if profile == nil || profile.FollowDate.IsZero() {
		return "팔로우 정보가 없어요. 먼저 팔로우해주세요!"
	}
	days := h.now().Sub(profile.FollowDate).Milliseconds() / 86_400_000
	return fmt.Sprintf("팔로우한 지 %d일 경과 %s%s", days, h.picker.Emoji(), h.picker.Emoji())
}

// Help enumerates the recognized command tokens. No external call.
func (h *Handlers) Help() string {
	return helpReply
}
