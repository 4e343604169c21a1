package instagram

import (
	"fmt"
	"regexp"
)

const (
	// BaseURL is the base URL for Instagram
	BaseURL = "https://www.instagram.com"

	// ReelsPath and PostPath are the two link shapes reelgrab accepts
	ReelsPath = "reels"
	PostPath  = "p"

	// ExampleReelURL is shown as input placeholder text
	ExampleReelURL = BaseURL + "/reels/..."
)

// linkPattern matches a whole reel or post link. The singular /reel/ form
// is deliberately not accepted.
var linkPattern = regexp.MustCompile(`^https?://(?:www\.)?instagram\.com/(reels|p)/([\w-]+)/?$`)

// IsValidReelURL reports whether s is an accepted reel or post link
func IsValidReelURL(s string) bool {
	return linkPattern.MatchString(s)
}

// Shortcode returns the media id of an accepted link
func Shortcode(link string) (string, bool) {
	m := linkPattern.FindStringSubmatch(link)
	if m == nil {
		return "", false
	}
	return m[2], true
}

// IsReel reports whether an accepted link uses the /reels/ shape
func IsReel(link string) bool {
	m := linkPattern.FindStringSubmatch(link)
	return m != nil && m[1] == ReelsPath
}

// GetPostURL constructs the canonical URL for a post
func GetPostURL(shortcode string) string {
	if shortcode == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s/%s/", BaseURL, PostPath, shortcode)
}

// GetReelURL constructs the canonical URL for a reel
func GetReelURL(shortcode string) string {
	if shortcode == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s/%s/", BaseURL, ReelsPath, shortcode)
}
