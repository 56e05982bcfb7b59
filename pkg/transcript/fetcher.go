// Package transcript fetches YouTube transcripts as ordered timed segments.
//
// YouTube exposes caption track metadata inside the watch page and serves the
// actual track content from its timedtext endpoint. The fetcher drives both
// requests and classifies every failure into the closed error set in
// errors.go so that callers (UI messages, retry policy) can discriminate.
package transcript

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"

	"video-tutor/pkg/domain"
	"video-tutor/pkg/httpclient"
)

const defaultBaseURL = "https://www.youtube.com"

// Options configures a Fetcher.
type Options struct {
	// BaseURL is the watch-page base. Defaults to the public YouTube host;
	// tests point it at an httptest server.
	BaseURL string

	// Languages is the preference-ordered list of language codes to accept.
	// A track matches when its language code equals or extends an entry
	// ("en" matches "en" and "en-US"). Defaults to ["en"].
	Languages []string

	// PreferManual selects manually created tracks over auto-generated ones
	// when both exist, since manual tracks are higher quality. Tie-breaking
	// beyond that is deliberately left to this policy knob. Defaults to true.
	PreferManual bool

	// Client is the HTTP client used for both requests. Defaults to a
	// browser-profile client.
	Client *httpclient.HTTPClient
}

// Fetcher retrieves transcripts for video IDs.
type Fetcher struct {
	baseURL      string
	languages    []string
	preferManual bool
	client       *httpclient.HTTPClient
}

// NewFetcher creates a Fetcher with default options: public YouTube host,
// English transcripts, manual tracks preferred.
func NewFetcher() *Fetcher {
	return NewFetcherWithOptions(Options{PreferManual: true})
}

// NewFetcherWithOptions creates a Fetcher with explicit options.
func NewFetcherWithOptions(opts Options) *Fetcher {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if len(opts.Languages) == 0 {
		opts.Languages = []string{"en"}
	}
	if opts.Client == nil {
		opts.Client = httpclient.NewClient(httpclient.BrowserClient)
	}
	return &Fetcher{
		baseURL:      opts.BaseURL,
		languages:    opts.Languages,
		preferManual: opts.PreferManual,
		client:       opts.Client,
	}
}

// captionTrack mirrors the track entries embedded in the watch page.
type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	// Kind is "asr" for auto-generated tracks, empty for manual ones.
	Kind string `json:"kind"`
	Name struct {
		SimpleText string `json:"simpleText"`
	} `json:"name"`
}

// playability mirrors the playabilityStatus object embedded in the watch page.
type playability struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

// Fetch retrieves the transcript for videoID, preferring manually created
// tracks in the configured languages. Segments are returned in the order the
// timedtext endpoint sends them; no reordering or deduplication is performed.
//
// On failure the returned error matches exactly one of ErrTranscriptsDisabled,
// ErrNoEnglishTranscript, ErrVideoUnavailable, ErrNetwork or ErrUnknownFetch.
func (f *Fetcher) Fetch(ctx context.Context, videoID domain.VideoID) (domain.Transcript, error) {
	watchURL := fmt.Sprintf("%s/watch?v=%s&hl=en", f.baseURL, videoID)
	page, err := f.fetchBody(ctx, watchURL)
	if err != nil {
		return nil, err
	}

	track, err := f.selectTrack(page)
	if err != nil {
		return nil, err
	}

	body, err := f.fetchBody(ctx, track.BaseURL)
	if err != nil {
		return nil, err
	}

	segments, err := parseTimedText(body)
	if err != nil {
		return nil, errors.Join(ErrUnknownFetch, err)
	}
	return segments, nil
}

// fetchBody GETs a URL and returns its body, classifying transport and
// status failures.
func (f *Fetcher) fetchBody(ctx context.Context, url string) (string, error) {
	resp, err := f.client.GetContext(ctx, url)
	if err != nil {
		return "", errors.Join(ErrNetwork, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return "", fmt.Errorf("%w: HTTP %d", ErrVideoUnavailable, resp.StatusCode)
	case resp.StatusCode >= http.StatusInternalServerError:
		return "", fmt.Errorf("%w: HTTP %d", ErrNetwork, resp.StatusCode)
	default:
		return "", fmt.Errorf("%w: unexpected HTTP status %d", ErrUnknownFetch, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Join(ErrNetwork, err)
	}
	return string(body), nil
}

// selectTrack classifies the watch page and picks the best caption track.
func (f *Fetcher) selectTrack(page string) (*captionTrack, error) {
	if status, ok := extractPlayability(page); ok {
		switch status.Status {
		case "ERROR", "LOGIN_REQUIRED", "UNPLAYABLE":
			return nil, fmt.Errorf("%w: %s", ErrVideoUnavailable, status.Reason)
		}
	}

	tracks, err := extractCaptionTracks(page)
	if err != nil {
		return nil, errors.Join(ErrUnknownFetch, err)
	}
	if len(tracks) == 0 {
		return nil, ErrTranscriptsDisabled
	}

	// Preference order: configured languages first, manual over auto within
	// each language when PreferManual is set.
	for _, lang := range f.languages {
		var fallback *captionTrack
		for i := range tracks {
			track := &tracks[i]
			if !languageMatches(track.LanguageCode, lang) {
				continue
			}
			if !f.preferManual || track.Kind != "asr" {
				return track, nil
			}
			if fallback == nil {
				fallback = track
			}
		}
		if fallback != nil {
			return fallback, nil
		}
	}
	return nil, fmt.Errorf("%w (available: %s)", ErrNoEnglishTranscript, availableLanguages(tracks))
}

// extractPlayability pulls the playabilityStatus object out of the watch page.
func extractPlayability(page string) (playability, bool) {
	const marker = `"playabilityStatus":`
	idx := strings.Index(page, marker)
	if idx < 0 {
		return playability{}, false
	}
	var status playability
	dec := json.NewDecoder(strings.NewReader(page[idx+len(marker):]))
	if err := dec.Decode(&status); err != nil {
		return playability{}, false
	}
	return status, true
}

// extractCaptionTracks pulls the captionTracks array out of the watch page.
// A missing array is not an error: it means the owner disabled transcripts.
func extractCaptionTracks(page string) ([]captionTrack, error) {
	const marker = `"captionTracks":`
	idx := strings.Index(page, marker)
	if idx < 0 {
		return nil, nil
	}
	var tracks []captionTrack
	dec := json.NewDecoder(strings.NewReader(page[idx+len(marker):]))
	if err := dec.Decode(&tracks); err != nil {
		return nil, fmt.Errorf("parse caption tracks: %w", err)
	}
	return tracks, nil
}

func languageMatches(code, want string) bool {
	return code == want || strings.HasPrefix(code, want+"-")
}

func availableLanguages(tracks []captionTrack) string {
	seen := make(map[string]bool, len(tracks))
	codes := make([]string, 0, len(tracks))
	for _, t := range tracks {
		if !seen[t.LanguageCode] {
			seen[t.LanguageCode] = true
			codes = append(codes, t.LanguageCode)
		}
	}
	return strings.Join(codes, ", ")
}

// timedTextDoc mirrors the timedtext XML served for a caption track:
//
//	<transcript><text start="1.54" dur="4.16">hey there</text>...</transcript>
type timedTextDoc struct {
	XMLName xml.Name        `xml:"transcript"`
	Texts   []timedTextNode `xml:"text"`
}

type timedTextNode struct {
	Start float64 `xml:"start,attr"`
	Dur   float64 `xml:"dur,attr"`
	Body  string  `xml:",chardata"`
}

// parseTimedText parses a timedtext XML document into transcript segments,
// preserving the order in which the endpoint sent them.
func parseTimedText(body string) (domain.Transcript, error) {
	var doc timedTextDoc
	if err := xml.Unmarshal([]byte(body), &doc); err != nil {
		return nil, fmt.Errorf("parse timedtext XML: %w", err)
	}

	segments := make(domain.Transcript, 0, len(doc.Texts))
	for _, node := range doc.Texts {
		// The endpoint double-escapes entities; the XML decoder removed one
		// layer, UnescapeString removes the other.
		segments = append(segments, domain.TranscriptSegment{
			Text:     html.UnescapeString(node.Body),
			Start:    node.Start,
			Duration: node.Dur,
		})
	}
	return segments, nil
}
