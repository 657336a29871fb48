// Package memes pulls fresh, non-duplicate image posts from the content API.
//
// The Engine rotates sort methods, time windows and search orders, busts the
// upstream search cache, and filters every candidate through a Classifier and
// a process-wide SeenSet before handing results to the caller.
package memes

import (
	"strings"

	"github.com/qepting91/memebot/internal/domain"
)

// Classifier decides whether a post carries an image. It favours recall:
// a few non-image posts slipping through is acceptable.
type Classifier struct {
	extensions []string
	patterns   []string
}

// NewClassifier builds a classifier from URL suffixes and URL substrings.
func NewClassifier(extensions, patterns []string) *Classifier {
	return &Classifier{
		extensions: lowerAll(extensions),
		patterns:   lowerAll(patterns),
	}
}

// IsImagePost reports whether the candidate looks image-bearing.
func (c *Classifier) IsImagePost(p domain.PostCandidate) bool {
	if p.URL == "" {
		return false
	}
	u := strings.ToLower(p.URL)

	for _, ext := range c.extensions {
		if strings.HasSuffix(u, ext) {
			return true
		}
	}
	for _, pat := range c.patterns {
		if strings.Contains(u, pat) {
			return true
		}
	}
	if p.PostHint == "image" || p.PostHint == "rich:video" {
		return true
	}
	return p.IsGallery
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
