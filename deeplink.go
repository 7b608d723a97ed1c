package ihero

import (
	"net/url"
	"strconv"
	"strings"
)

// Query parameters read from the page location.
const (
	paramScene = "scene"
	paramDebug = "ihDebug"
)

// queryOf returns the parsed query of a URL or a bare query string.
func queryOf(location string) url.Values {
	if i := strings.IndexByte(location, '?'); i >= 0 {
		location = location[i+1:]
	}
	if i := strings.IndexByte(location, '#'); i >= 0 {
		location = location[:i]
	}
	q, err := url.ParseQuery(location)
	if err != nil {
		return url.Values{}
	}
	return q
}

// ParseSceneParam returns the initial gallery scene selected by the
// "scene" query parameter of location, which may be a full URL or a query
// string. Out-of-range indices are clamped to [0, sceneCount-1]; a missing
// or non-numeric value reports false.
func ParseSceneParam(location string, sceneCount int) (int, bool) {
	if sceneCount <= 0 {
		return 0, false
	}
	v := strings.TrimSpace(queryOf(location).Get(paramScene))
	if v == "" {
		return 0, false
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return min(max(i, 0), sceneCount-1), true
}

// debugParam reports whether location carries ihDebug=1.
func debugParam(location string) bool {
	return queryOf(location).Get(paramDebug) == "1"
}
