package instagram

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidReelURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want bool
	}{
		{"reels with www", "https://www.instagram.com/reels/C7xYz_1-ab/", true},
		{"reels without trailing slash", "https://www.instagram.com/reels/C7xYz_1-ab", true},
		{"reels without www", "https://instagram.com/reels/abc123/", true},
		{"reels over http", "http://www.instagram.com/reels/abc123", true},
		{"post with www", "https://www.instagram.com/p/DAbc-12_x/", true},
		{"post without www over http", "http://instagram.com/p/DAbc", true},

		{"empty", "", false},
		{"whitespace", "   ", false},
		{"missing scheme", "www.instagram.com/reels/abc123/", false},
		{"wrong scheme", "ftp://www.instagram.com/reels/abc123/", false},
		{"wrong host", "https://www.example.com/reels/abc123/", false},
		{"lookalike host", "https://www.instagram.com.evil.io/reels/abc123/", false},
		{"singular reel", "https://www.instagram.com/reel/abc123/", false},
		{"story link", "https://www.instagram.com/stories/someone/123/", false},
		{"missing id", "https://www.instagram.com/reels/", false},
		{"query string", "https://www.instagram.com/reels/abc123/?igsh=xyz", false},
		{"extra path segment", "https://www.instagram.com/p/abc123/media", false},
		{"double slash", "https://www.instagram.com/p/abc123//", false},
		{"id with dot", "https://www.instagram.com/p/abc.123/", false},
		{"leading space", " https://www.instagram.com/p/abc123/", false},
		{"random text", "download this please", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidReelURL(tt.url))
		})
	}
}

func TestShortcode(t *testing.T) {
	code, ok := Shortcode("https://www.instagram.com/reels/C7xYz_1-ab/")
	assert.True(t, ok)
	assert.Equal(t, "C7xYz_1-ab", code)

	code, ok = Shortcode("http://instagram.com/p/DAbc")
	assert.True(t, ok)
	assert.Equal(t, "DAbc", code)

	_, ok = Shortcode("https://www.instagram.com/reel/abc/")
	assert.False(t, ok)
}

func TestIsReel(t *testing.T) {
	assert.True(t, IsReel("https://www.instagram.com/reels/abc/"))
	assert.False(t, IsReel("https://www.instagram.com/p/abc/"))
	assert.False(t, IsReel("nonsense"))
}

func TestCanonicalURLs(t *testing.T) {
	assert.Equal(t, "https://www.instagram.com/p/abc/", GetPostURL("abc"))
	assert.Equal(t, "https://www.instagram.com/reels/abc/", GetReelURL("abc"))
	assert.Empty(t, GetPostURL(""))
	assert.Empty(t, GetReelURL(""))

	// canonical links must round-trip through the validator
	assert.True(t, IsValidReelURL(GetPostURL("abc")))
	assert.True(t, IsValidReelURL(GetReelURL("abc")))
}
