// Package title looks up human-readable video titles on a best-effort basis.
//
// Title resolution is explicitly non-critical: Resolve never fails, and a
// failure here must never abort an ingestion.
package title

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"video-tutor/pkg/domain"
	"video-tutor/pkg/httpclient"
)

// Unknown is the placeholder returned when both lookups fail.
const Unknown = "Unknown Title"

const defaultBaseURL = "https://www.youtube.com"

var (
	errEmptyTitle  = errors.New("empty title")
	errNoHTMLTitle = errors.New("no title found in watch page HTML")
)

// Resolver resolves video titles with a primary oEmbed lookup and a
// watch-page scrape fallback.
type Resolver struct {
	baseURL   string
	apiClient *httpclient.HTTPClient
	webClient *httpclient.HTTPClient
}

// NewResolver creates a resolver against the public YouTube host.
func NewResolver() *Resolver {
	return NewResolverWithBaseURL(defaultBaseURL)
}

// NewResolverWithBaseURL creates a resolver against a custom host.
// Tests point this at an httptest server.
func NewResolverWithBaseURL(baseURL string) *Resolver {
	return &Resolver{
		baseURL:   baseURL,
		apiClient: httpclient.NewClient(httpclient.APIClient),
		webClient: httpclient.NewClient(httpclient.BrowserClient),
	}
}

// Resolve returns the video's title, or Unknown when both the oEmbed lookup
// and the watch-page scrape fail. It never returns an error.
func (r *Resolver) Resolve(ctx context.Context, videoID domain.VideoID) string {
	if t, err := r.fromOEmbed(ctx, videoID); err == nil {
		return t
	}
	if t, err := r.fromWatchPage(ctx, videoID); err == nil {
		return t
	}
	return Unknown
}

// fromOEmbed asks YouTube's oEmbed endpoint for the video metadata.
func (r *Resolver) fromOEmbed(ctx context.Context, videoID domain.VideoID) (string, error) {
	watch := fmt.Sprintf("%s/watch?v=%s", r.baseURL, videoID)
	endpoint := fmt.Sprintf("%s/oembed?url=%s&format=json", r.baseURL, url.QueryEscape(watch))

	resp, err := r.apiClient.GetContext(ctx, endpoint)
	if err != nil {
		return "", fmt.Errorf("oembed request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("oembed status %d", resp.StatusCode)
	}

	var payload struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode oembed response: %w", err)
	}

	title := strings.TrimSpace(payload.Title)
	if title == "" {
		return "", errEmptyTitle
	}
	return title, nil
}

// fromWatchPage fetches the watch page and extracts a title from its HTML:
// the og:title meta tag first, then readability's title extraction.
func (r *Resolver) fromWatchPage(ctx context.Context, videoID domain.VideoID) (string, error) {
	watch := fmt.Sprintf("%s/watch?v=%s", r.baseURL, videoID)

	resp, err := r.webClient.GetContext(ctx, watch)
	if err != nil {
		return "", fmt.Errorf("watch page request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("watch page status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read watch page: %w", err)
	}

	return titleFromHTML(string(body))
}

// titleFromHTML extracts a title from watch-page HTML.
func titleFromHTML(htmlContent string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err == nil {
		if og, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
			if t := strings.TrimSpace(og); t != "" {
				return t, nil
			}
		}
	}

	article, err := readability.FromReader(strings.NewReader(htmlContent), nil)
	if err != nil {
		return "", fmt.Errorf("extract title: %w", err)
	}

	title := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(article.Title), "- YouTube"))
	if title == "" {
		return "", errNoHTMLTitle
	}
	return title, nil
}
