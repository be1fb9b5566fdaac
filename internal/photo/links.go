// Package photo normalizes stored photo references for display. Legacy
// rows carry Google Drive share links in two shapes; both are rewritten
// to a direct-view URL so they render inside an <img> tag.
package photo

import "strings"

const directViewBase = "https://lh3.googleusercontent.com/d/"

// DirectLink rewrites a drive share link into a direct-view URL.
// Data URLs and unrecognized shapes pass through unchanged.
func DirectLink(url string) string {
	if url == "" {
		return ""
	}
	if strings.HasPrefix(url, "data:") {
		return url
	}
	if id := extractFileID(url); id != "" {
		return directViewBase + id
	}
	return url
}

func extractFileID(url string) string {
	if _, rest, ok := strings.Cut(url, "id="); ok {
		id, _, _ := strings.Cut(rest, "&")
		return id
	}
	if _, rest, ok := strings.Cut(url, "/file/d/"); ok {
		id, _, _ := strings.Cut(rest, "/")
		return id
	}
	return ""
}
