// Package platform classifies media URLs by source site.
package platform

import (
	"strings"

	"github.com/veranemoloko/media-downloader/internal/domain"
)

type rule struct {
	platform domain.Platform
	needles  []string
}

// Checked in order; the first matching rule wins even if later ones also match.
var rules = []rule{
	{platform: domain.PlatformTikTok, needles: []string{"tiktok.com"}},
	{platform: domain.PlatformYouTube, needles: []string{"youtube.com", "youtu.be"}},
	{platform: domain.PlatformBilibili, needles: []string{"bilibili.com"}},
}

// Classify returns the platform of url by substring match. It never fails.
func Classify(url string) domain.Platform {
	for _, r := range rules {
		for _, n := range r.needles {
			if strings.Contains(url, n) {
				return r.platform
			}
		}
	}
	return domain.PlatformUnknown
}
