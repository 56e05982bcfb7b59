package domain

import (
	"strings"
	"time"
)

// VideoIDLength is the length of every YouTube video ID.
const VideoIDLength = 11

// VideoID is a validated 11-character YouTube video ID.
//
// A VideoID should only be constructed from a successful parse (see
// pkg/videoid); consumers that receive untrusted strings must run them
// through IsValidVideoID first.
type VideoID string

// IsValidVideoID reports whether s has the exact shape of a YouTube video ID:
// 11 characters from the set [A-Za-z0-9_-].
func IsValidVideoID(s string) bool {
	if len(s) != VideoIDLength {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '_':
		default:
			return false
		}
	}
	return true
}

// TranscriptSegment is one timed line of spoken text.
type TranscriptSegment struct {
	// Text is the spoken text of the segment.
	Text string `json:"text"`

	// Start is the offset from the beginning of the video, in seconds.
	Start float64 `json:"start"`

	// Duration is how long the segment is spoken for, in seconds.
	Duration float64 `json:"duration"`
}

// Transcript is an ordered sequence of segments, ascending by Start.
// Ordering is trusted from the fetch API; no reordering is performed here.
type Transcript []TranscriptSegment

// PlainText renders the transcript as plain text, one segment per line.
// This is the representation handed to the chunker.
func (t Transcript) PlainText() string {
	var sb strings.Builder
	for i, seg := range t {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(seg.Text)
	}
	return sb.String()
}

// VideoRecord describes one successfully ingested video.
//
// It is created by the ingestion orchestrator after a successful fetch+store
// and overwritten on the next ingestion of the same video ID.
type VideoRecord struct {
	// VideoID is the canonical ID of the video.
	VideoID VideoID `json:"video_id"`

	// Title is the human-readable video title, or "Unknown Title" when both
	// title lookups failed. Title resolution is best-effort.
	Title string `json:"title"`

	// TranscriptPath is where the transcript file lives on disk.
	TranscriptPath string `json:"transcript_path"`

	// FetchedAt is when we fetched and stored this transcript.
	FetchedAt time.Time `json:"fetched_at"`
}
