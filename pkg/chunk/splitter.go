// Package chunk splits transcripts into overlapping text chunks sized for
// embedding and retrieval. The splitting itself is delegated to langchaingo's
// recursive-character splitter; nothing here implements a custom algorithm.
package chunk

import (
	"github.com/tmc/langchaingo/textsplitter"

	"video-tutor/pkg/domain"
)

// Default parameters match the sizes the retrieval layer is tuned for.
const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 100
)

// Splitter splits a transcript's text into overlapping chunks.
type Splitter struct {
	inner textsplitter.RecursiveCharacter
}

// NewSplitter creates a splitter with the given chunk size and overlap.
// Non-positive values fall back to the defaults.
func NewSplitter(chunkSize, chunkOverlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if chunkOverlap < 0 {
		chunkOverlap = DefaultChunkOverlap
	}
	return &Splitter{
		inner: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(chunkSize),
			textsplitter.WithChunkOverlap(chunkOverlap),
			// Transcripts are rendered one segment per line, so newline is
			// the primary split point.
			textsplitter.WithSeparators([]string{"\n", " ", ""}),
		),
	}
}

// Split renders the transcript as plain text (one segment per line) and
// splits it into chunks.
func (s *Splitter) Split(transcript domain.Transcript) ([]string, error) {
	text := transcript.PlainText()
	if text == "" {
		return nil, nil
	}
	return s.inner.SplitText(text)
}
