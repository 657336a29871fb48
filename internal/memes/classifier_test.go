package memes

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/qepting91/memebot/internal/config"
	"github.com/qepting91/memebot/internal/domain"
)

func defaultClassifier() *Classifier {
	return NewClassifier(config.SupportedImageFormats, config.ImageURLPatterns)
}

func TestIsImagePostSupportedExtensions(t *testing.T) {
	c := defaultClassifier()
	for _, ext := range config.SupportedImageFormats {
		p := domain.PostCandidate{URL: "https://example.com/meme" + ext}
		assert.True(t, c.IsImagePost(p), ext)

		p.URL = "https://example.com/MEME" + strings.ToUpper(ext)
		assert.True(t, c.IsImagePost(p), p.URL)
	}
}

func TestIsImagePostMissingURL(t *testing.T) {
	c := defaultClassifier()
	assert.False(t, c.IsImagePost(domain.PostCandidate{}))
	assert.False(t, c.IsImagePost(domain.PostCandidate{PostHint: "image"}))
	assert.False(t, c.IsImagePost(domain.PostCandidate{IsGallery: true}), "url check comes first")
}

func TestIsImagePostHostingPatterns(t *testing.T) {
	c := defaultClassifier()
	urls := []string{
		"https://imgur.com/gallery/abc",
		"https://i.imgur.com/xyz",
		"https://media.giphy.com/media/123/giphy",
		"https://gfycat.com/somethingfunny",
		"https://www.reddit.com/media?url=abc",
		"https://preview.redd.it/abc?width=640",
		"https://example.com/img/42",
		"https://example.com/image/42",
		"https://example.com/pic.webp",
	}
	for _, u := range urls {
		assert.True(t, c.IsImagePost(domain.PostCandidate{URL: u}), u)
	}
}

func TestIsImagePostHints(t *testing.T) {
	c := defaultClassifier()
	page := "https://www.reddit.com/r/memes/comments/abc/title/"

	assert.False(t, c.IsImagePost(domain.PostCandidate{URL: page}))
	assert.False(t, c.IsImagePost(domain.PostCandidate{URL: page, PostHint: "self"}))
	assert.True(t, c.IsImagePost(domain.PostCandidate{URL: page, PostHint: "image"}))
	assert.True(t, c.IsImagePost(domain.PostCandidate{URL: page, PostHint: "rich:video"}))
	assert.True(t, c.IsImagePost(domain.PostCandidate{URL: page, IsGallery: true}))
}

func TestIsImagePostRejectsPlainLinks(t *testing.T) {
	c := defaultClassifier()
	for _, u := range []string{
		"https://example.com/meme.txt",
		"https://example.com/meme.pdf",
		"https://example.com/meme",
		"https://example.com/meme.mp4",
	} {
		assert.False(t, c.IsImagePost(domain.PostCandidate{URL: u}), u)
	}
}
