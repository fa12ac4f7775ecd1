package platform

import (
	"regexp"
	"strings"
)

// Platform identifies which external media host a URL belongs to.
type Platform string

const (
	YouTube   Platform = "YouTube"
	Instagram Platform = "Instagram"
	TikTok    Platform = "TikTok"
	Twitter   Platform = "Twitter"
	Unknown   Platform = "Unknown"
)

func (p Platform) String() string {
	return string(p)
}

// Checked in order, so a URL that somehow matches several patterns always
// classifies the same way.
var patterns = []struct {
	substr string
	tag    Platform
}{
	{"youtube.com", YouTube},
	{"youtu.be", YouTube},
	{"instagram.com", Instagram},
	{"tiktok.com", TikTok},
	{"twitter.com", Twitter},
	{"x.com", Twitter},
}

// Classify maps a raw URL to a platform tag. It is pure and total: any input
// yields exactly one tag, with Unknown as the fallback.
func Classify(url string) Platform {
	lower := strings.ToLower(url)
	for _, p := range patterns {
		if strings.Contains(lower, p.substr) {
			return p.tag
		}
	}
	return Unknown
}

var urlRegex = regexp.MustCompile(`https?://[^\s]+`)

// FindURLs extracts every URL from a message text, preserving input order.
func FindURLs(text string) []string {
	return urlRegex.FindAllString(text, -1)
}
