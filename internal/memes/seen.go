package memes

import (
	"crypto/sha1"
	"encoding/hex"
	"sync"
)

// MaxSeen is the number of fingerprints tracked before the set is cleared.
const MaxSeen = 1000

// Fingerprint identifies a post by title, url and author, independent of the
// subreddit or strategy that surfaced it.
func Fingerprint(title, url, author string) string {
	h := sha1.New()
	h.Write([]byte(title))
	h.Write([]byte{0})
	h.Write([]byte(url))
	h.Write([]byte{0})
	h.Write([]byte(author))
	return hex.EncodeToString(h.Sum(nil))
}

// SeenSet holds fingerprints already served by this process. It is cleared
// in full once it grows past MaxSeen.
type SeenSet struct {
	mu  sync.Mutex
	ids map[string]struct{}
}

func NewSeenSet() *SeenSet {
	return &SeenSet{ids: make(map[string]struct{})}
}

func (s *SeenSet) Seen(fp string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ids[fp]
	return ok
}

func (s *SeenSet) Record(fp string) {
	s.mu.Lock()
	s.ids[fp] = struct{}{}
	s.mu.Unlock()
}

// Add records fp and reports whether it was new. Check and insert happen
// under one lock so concurrent requests cannot both accept the same post.
func (s *SeenSet) Add(fp string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ids[fp]; ok {
		return false
	}
	s.ids[fp] = struct{}{}
	return true
}

// MaybeReset clears the set when it holds more than MaxSeen entries.
func (s *SeenSet) MaybeReset() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.ids) <= MaxSeen {
		return false
	}
	s.ids = make(map[string]struct{})
	return true
}

func (s *SeenSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}
