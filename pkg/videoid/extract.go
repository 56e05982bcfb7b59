// Package videoid extracts canonical YouTube video IDs from user input.
//
// Input can be a full watch URL, a youtu.be short URL, or a bare 11-character
// video ID pasted directly. The two branches (URL-aware parsing and the
// literal-ID fallback) intentionally coexist: users paste both shapes.
package videoid

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"video-tutor/pkg/domain"
)

// ErrInvalidURL is returned when the input matches no accepted shape or the
// extracted candidate is not a valid 11-character video ID.
var ErrInvalidURL = errors.New("invalid YouTube URL or video ID")

// Extract parses a user-supplied URL or bare ID into a canonical VideoID.
//
// Accepted shapes:
//   - https://www.youtube.com/watch?v=ID (any youtube.com host variant,
//     arbitrary extra query parameters in any order)
//   - https://www.youtube.com/embed/ID and the legacy /v/ID player URL
//   - https://youtu.be/ID
//   - the bare 11-character ID itself
//
// Surrounding whitespace is ignored. Everything else fails with ErrInvalidURL.
func Extract(input string) (domain.VideoID, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty input", ErrInvalidURL)
	}

	candidate, isURL := extractFromURL(trimmed)
	if !isURL {
		// Not a recognized URL shape: treat the trimmed input as a literal ID.
		candidate = trimmed
	}

	if !domain.IsValidVideoID(candidate) {
		return "", fmt.Errorf("%w: %q", ErrInvalidURL, input)
	}
	return domain.VideoID(candidate), nil
}

// extractFromURL attempts structural URL parsing. The second return value
// reports whether the input looked like a URL at all; when it does, the
// literal-ID fallback must not run, so a bad candidate fails extraction.
func extractFromURL(input string) (string, bool) {
	raw := input
	if !strings.Contains(raw, "://") && looksLikeYouTubeHost(raw) {
		// Scheme-less paste like "youtube.com/watch?v=..." still parses once
		// a scheme is supplied.
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", false
	}

	host := strings.ToLower(u.Host)
	host = strings.TrimPrefix(host, "www.")
	host = strings.TrimPrefix(host, "m.")

	switch {
	case host == "youtu.be":
		// Short URL: the ID is the first path segment.
		return strings.Trim(u.Path, "/"), true
	case host == "youtube.com" || strings.HasSuffix(host, ".youtube.com"):
		// Watch URL: the ID is the v query parameter, wherever it sits.
		if id := u.Query().Get("v"); id != "" {
			return id, true
		}
		// Embed and legacy player URLs carry the ID as a path segment instead.
		for _, prefix := range []string{"/embed/", "/v/"} {
			if rest, ok := strings.CutPrefix(u.Path, prefix); ok {
				id, _, _ := strings.Cut(rest, "/")
				return id, true
			}
		}
		return "", true
	default:
		// A URL, but not a YouTube one.
		return "", true
	}
}

func looksLikeYouTubeHost(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "youtube.com/") ||
		strings.HasPrefix(lower, "www.youtube.com/") ||
		strings.HasPrefix(lower, "m.youtube.com/") ||
		strings.HasPrefix(lower, "youtu.be/")
}
