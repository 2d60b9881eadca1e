package utils

import (
	"path"
	"strings"
)

// MatchesPrefix reports whether urlPath is prefix itself or lives underneath it.
// "/imoveis" matches "/imoveis" and "/imoveis/5", but not "/imoveisx".
func MatchesPrefix(urlPath string, prefix string) bool {
	prefix = strings.TrimSuffix(prefix, "/")
	if prefix == "" {
		return false
	}
	return urlPath == prefix || strings.HasPrefix(urlPath, prefix+"/")
}

func SliceHasPrefixMatch(prefixes []string, urlPath string) bool {
	for _, p := range prefixes {
		if MatchesPrefix(urlPath, p) {
			return true
		}
	}

	return false
}

// CleanPath collapses dot segments and duplicate slashes, so "/x/../imoveis" is judged as "/imoveis"
func CleanPath(urlPath string) string {
	if urlPath == "" {
		return "/"
	}
	if urlPath[0] != '/' {
		urlPath = "/" + urlPath
	}
	return path.Clean(urlPath)
}

// ContainsFold is a case-insensitive substring check, used for filtering lists
func ContainsFold(haystack string, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
