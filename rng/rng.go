// Package rng provides the random selection used by the game and by decorative emoji draws.
// Randomness is isolated behind a Picker so tests can seed a deterministic sequence.
package rng

import (
	"math/rand"
	"sync"
	"time"
)

// Emoji pool for decorative draws. Draws are independent; repeats are allowed.
var emojis = [...]string{"{:chuu11:}", "{:chuuChuu13:}", "{:chuu10:}"}

// Picker draws uniformly from ordered sequences. It is safe for concurrent use.
type Picker struct {
	mu     sync.Mutex
	random *rand.Rand
}

// Config for the picker.
type Config struct {
	// Optional seed for testing. Zero means seed from the clock.
	Seed int64
}

// New creates a picker. A nil config seeds from the clock.
func New(cfg *Config) *Picker {
	var seed int64
	if cfg != nil && cfg.Seed != 0 {
		seed = cfg.Seed
	} else {
		seed = time.Now().UnixNano()
	}
	return &Picker{random: rand.New(rand.NewSource(seed))}
}

// Index returns a uniform index in [0, n). n must be positive.
func (p *Picker) Index(n int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.random.Intn(n)
}

// Choice returns one element of a non-empty ordered sequence, drawn uniformly.
func (p *Picker) Choice(set []string) string {
	return set[p.Index(len(set))]
}

// Emoji draws one decorative emoji from the fixed pool.
func (p *Picker) Emoji() string {
	return emojis[p.Index(len(emojis))]
}

// Delay returns a uniform duration in [min, max). If max <= min it returns min.
func (p *Picker) Delay(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return min + time.Duration(p.random.Int63n(int64(max-min)))
}
