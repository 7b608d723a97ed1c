package caps

import "strings"

// ParseUserAgent classifies a user agent string. Detection order matters:
// Edge and Samsung Internet also advertise Chrome, and every Chromium
// browser also advertises Safari.
func ParseUserAgent(ua string) (BrowserFamily, OSFamily) {
	return parseBrowser(ua), parseOS(ua)
}

func parseOS(ua string) OSFamily {
	switch {
	case containsAny(ua, "iPhone", "iPad", "iPod"):
		return OSIOS
	case strings.Contains(ua, "Android"):
		return OSAndroid
	case strings.Contains(ua, "Windows"):
		return OSWindows
	case containsAny(ua, "Macintosh", "Mac OS X"):
		return OSMacOS
	case containsAny(ua, "Linux", "X11", "CrOS"):
		return OSLinux
	default:
		return OSOther
	}
}

func parseBrowser(ua string) BrowserFamily {
	switch {
	case strings.HasPrefix(ua, "ihero/"):
		return BrowserNative
	case containsAny(ua, "Edg/", "EdgA/", "EdgiOS/"):
		return BrowserEdge
	case strings.Contains(ua, "SamsungBrowser/"):
		return BrowserSamsung
	case containsAny(ua, "Firefox/", "FxiOS/"):
		return BrowserFirefox
	case containsAny(ua, "Chrome/", "CriOS/", "Chromium/"):
		return BrowserChrome
	case strings.Contains(ua, "Safari/") && strings.Contains(ua, "Version/"):
		return BrowserSafari
	default:
		return BrowserOther
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
