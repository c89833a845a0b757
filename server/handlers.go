package server

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/kkugi/chuubot/stats"
)

var processStart = time.Now()

// Handlers holds the dependencies for the HTTP endpoints.
type Handlers struct {
	db    *sql.DB
	store *stats.Store
}

func NewHandlers(db *sql.DB) *Handlers {
	return &Handlers{db: db, store: stats.NewStore(db)}
}

// HandleHealthz responds to liveness probe requests by checking database connectivity.
func (h *Handlers) HandleHealthz(w http.ResponseWriter, r *http.Request) {
	if err := h.db.PingContext(r.Context()); err != nil {
		http.Error(w, "unhealthy", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// HandleStatus reports process uptime and how many users have a stored record.
func (h *Handlers) HandleStatus(w http.ResponseWriter, r *http.Request) {
	var players int
	if err := h.db.QueryRowContext(r.Context(), `SELECT COUNT(*) FROM game_results`).Scan(&players); err != nil {
		http.Error(w, "status query failed", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status":         "ok",
		"uptime_seconds": int(time.Since(processStart).Seconds()),
		"players":        players,
	})
}

// HandleRecord serves GET /records/{userId}: the stored tally, all-zero when absent.
func (h *Handlers) HandleRecord(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID := strings.TrimPrefix(r.URL.Path, "/records/")
	if userID == "" || strings.Contains(userID, "/") {
		http.Error(w, "missing user id", http.StatusBadRequest)
		return
	}
	rec, err := h.store.GetRecord(r.Context(), userID)
	if err != nil {
		http.Error(w, "record query failed", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"user_id": rec.UserID,
		"wins":    rec.Wins,
		"losses":  rec.Losses,
		"draws":   rec.Draws,
	})
}
