package instagram

import (
	"fmt"
	"net/url"
	"strings"
	"unicode"
)

const (
	// BaseURL is the base URL for Instagram
	BaseURL = "https://www.instagram.com"

	// HashtagEndpoint is the path pattern of the hashtag browsing page
	HashtagEndpoint = "/explore/tags/%s/"
)

// GetHashtagURL constructs the JSON URL of one hashtag page. An empty cursor
// requests the first page.
func GetHashtagURL(base, tag, cursor string) string {
	u := strings.TrimRight(base, "/") + fmt.Sprintf(HashtagEndpoint, url.PathEscape(tag)) + "?__a=1"
	if cursor != "" {
		u += "&max_id=" + url.QueryEscape(cursor)
	}
	return u
}

// SanitizeTag strips a leading '#' and surrounding spaces
func SanitizeTag(tag string) string {
	tag = strings.TrimSpace(tag)
	return strings.TrimSpace(strings.TrimPrefix(tag, "#"))
}

// IsValidTag reports whether tag is made of letters, digits and underscores only
func IsValidTag(tag string) bool {
	if tag == "" {
		return false
	}
	for _, r := range tag {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}
	return true
}
