package memes

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/qepting91/memebot/internal/domain"
)

// Strategy owns every random choice the engine makes. Seed it for
// reproducible runs.
type Strategy struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewStrategy(seed uint64) *Strategy {
	return &Strategy{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// NewRandomStrategy seeds from the runtime's random source.
func NewRandomStrategy() *Strategy {
	return NewStrategy(rand.Uint64())
}

// between returns a value in [lo, hi].
func (s *Strategy) between(lo, hi int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return lo + s.rng.IntN(hi-lo+1)
}

// ExtraCount is how many candidates to request beyond what is needed.
func (s *Strategy) ExtraCount() int { return s.between(5, 20) }

// Salt is the random part of a cache-busting token.
func (s *Strategy) Salt() int { return s.between(1000, 9999) }

func (s *Strategy) PreDelay() time.Duration {
	return time.Duration(s.between(100, 500)) * time.Millisecond
}

func (s *Strategy) PostDelay() time.Duration {
	return time.Duration(s.between(100, 200)) * time.Millisecond
}

// SortMethods picks two to four distinct listing orders in random order.
func (s *Strategy) SortMethods() []domain.SortMethod {
	n := s.between(2, len(domain.SortMethods))
	s.mu.Lock()
	perm := s.rng.Perm(len(domain.SortMethods))
	s.mu.Unlock()

	out := make([]domain.SortMethod, 0, n)
	for _, i := range perm[:n] {
		out = append(out, domain.SortMethods[i])
	}
	return out
}

func (s *Strategy) TimeWindow() domain.TimeWindow {
	return domain.TimeWindows[s.between(0, len(domain.TimeWindows)-1)]
}

// Shuffle reorders items in place.
func Shuffle[T any](s *Strategy, items []T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rng.Shuffle(len(items), func(i, j int) {
		items[i], items[j] = items[j], items[i]
	})
}
