package service

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/canvasshq/canvass-backend/internal/model"
)

// CollectMetadata derives submission metadata from the incoming request:
// device class, browser and OS from the User-Agent, traffic source from
// the Referer, and geo from the CDN headers when present.
func CollectMetadata(r *http.Request) model.SubmissionMetadata {
	ua := r.UserAgent()

	return model.SubmissionMetadata{
		Source:  sourceFromReferer(r.Referer()),
		Device:  deviceFromUA(ua),
		Browser: browserFromUA(ua),
		OS:      osFromUA(ua),
		Country: r.Header.Get("CF-IPCountry"),
		City:    r.Header.Get("CF-IPCity"),
	}
}

func sourceFromReferer(referer string) string {
	if referer == "" {
		return "direct"
	}
	u, err := url.Parse(referer)
	if err != nil || u.Host == "" {
		return "direct"
	}
	return strings.TrimPrefix(u.Host, "www.")
}

func deviceFromUA(ua string) string {
	lower := strings.ToLower(ua)
	switch {
	case strings.Contains(lower, "ipad") || strings.Contains(lower, "tablet"):
		return "tablet"
	case strings.Contains(lower, "mobi") || strings.Contains(lower, "android") || strings.Contains(lower, "iphone"):
		return "mobile"
	case ua == "":
		return "unknown"
	default:
		return "desktop"
	}
}

// browserFromUA picks the browser family. Order matters: Chrome's UA
// contains "Safari", and Edge's contains both.
func browserFromUA(ua string) string {
	switch {
	case strings.Contains(ua, "Edg/"):
		return "Edge"
	case strings.Contains(ua, "OPR/") || strings.Contains(ua, "Opera"):
		return "Opera"
	case strings.Contains(ua, "Firefox/"):
		return "Firefox"
	case strings.Contains(ua, "Chrome/"):
		return "Chrome"
	case strings.Contains(ua, "Safari/"):
		return "Safari"
	case ua == "":
		return "unknown"
	default:
		return "other"
	}
}

func osFromUA(ua string) string {
	switch {
	case strings.Contains(ua, "Windows"):
		return "Windows"
	case strings.Contains(ua, "Android"):
		return "Android"
	case strings.Contains(ua, "iPhone") || strings.Contains(ua, "iPad"):
		return "iOS"
	case strings.Contains(ua, "Mac OS X"):
		return "macOS"
	case strings.Contains(ua, "Linux"):
		return "Linux"
	case ua == "":
		return "unknown"
	default:
		return "other"
	}
}
