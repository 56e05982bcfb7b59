package transcript

import "errors"

// The fetcher fails with exactly one of these kinds — never a generic error.
// Callers discriminate with errors.Is; the original diagnostic rides along
// via errors.Join. Only ErrNetwork is eligible for caller-initiated retry.
var (
	// ErrTranscriptsDisabled means the video owner disabled transcripts.
	ErrTranscriptsDisabled = errors.New("transcripts are disabled for this video")

	// ErrNoEnglishTranscript means transcripts exist but none in English,
	// including auto-generated ones.
	ErrNoEnglishTranscript = errors.New("no English transcript found for this video")

	// ErrVideoUnavailable means the video is private, deleted, or region-blocked.
	ErrVideoUnavailable = errors.New("the video is unavailable")

	// ErrNetwork is a transport-level failure reaching the transcript service.
	// This is the only retryable kind.
	ErrNetwork = errors.New("network error reaching the transcript service")

	// ErrUnknownFetch is the catch-all for unclassified failures; the original
	// diagnostic is always attached.
	ErrUnknownFetch = errors.New("could not retrieve the transcript")
)
