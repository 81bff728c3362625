// Package validate classifies user input before anything is sent to the server.
package validate

import (
	"regexp"
	"strings"
)

// youtubePatterns recognizes watch, short-link, playlist and embed URLs.
var youtubePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^https?://(www\.)?youtube\.com/watch\?([^#\s]*&)?v=[\w-]+`),
	regexp.MustCompile(`(?i)^https?://(www\.)?youtu\.be/[\w-]+`),
	regexp.MustCompile(`(?i)^https?://(www\.)?youtube\.com/playlist\?([^#\s]*&)?list=[\w-]+`),
	regexp.MustCompile(`(?i)^https?://(www\.)?youtube\.com/(embed|v)/[\w-]+`),
}

// IsValidURL reports whether input looks like a YouTube video or playlist URL.
// Surrounding whitespace is ignored.
func IsValidURL(input string) bool {
	input = strings.TrimSpace(input)
	if input == "" {
		return false
	}
	for _, pattern := range youtubePatterns {
		if pattern.MatchString(input) {
			return true
		}
	}
	return false
}

// IsPlaylistURL reports whether input is a valid URL of the playlist form
func IsPlaylistURL(input string) bool {
	input = strings.TrimSpace(input)
	return IsValidURL(input) && youtubePatterns[2].MatchString(input)
}
