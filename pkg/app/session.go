// Package app is the interactive shell: one text input for a video URL, then
// a free-text question loop once a transcript is loaded. Failures surface as
// inline messages, not process exit codes.
//
// The retry policy for network errors lives here, by design: the fetcher
// classifies, the shell decides.
package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"video-tutor/pkg/domain"
	"video-tutor/pkg/store"
	"video-tutor/pkg/transcript"
	"video-tutor/pkg/videoid"
)

// Ingestor runs one fetch-by-URL ingestion.
type Ingestor interface {
	IngestByURL(ctx context.Context, urlOrID string) (domain.VideoRecord, error)
}

// TranscriptLoader reloads a transcript from its durable copy on disk.
type TranscriptLoader interface {
	Load(path string) (domain.Transcript, error)
}

// Splitter splits a transcript into chunks for indexing.
type Splitter interface {
	Split(transcript domain.Transcript) ([]string, error)
}

// QAEngine indexes one video's chunks and answers questions against them.
type QAEngine interface {
	Index(ctx context.Context, record domain.VideoRecord, chunks []string) error
	Answer(ctx context.Context, question string) (string, error)
}

// SessionConfig wires the session dependencies.
type SessionConfig struct {
	Ingestor Ingestor
	Loader   TranscriptLoader
	Splitter Splitter
	Engine   QAEngine

	// In and Out default to stdin/stdout.
	In  io.Reader
	Out io.Writer

	// Render formats an answer for the terminal. Defaults to RenderMarkdown.
	Render func(string) (string, error)

	// MaxRetries bounds reattempts after a network error; the total attempt
	// count is MaxRetries+1. Defaults to 2.
	MaxRetries uint64

	// RetryInterval is the initial backoff interval. Defaults to 500ms.
	RetryInterval time.Duration
}

// Session is one interactive run of the tutor.
type Session struct {
	ingestor Ingestor
	loader   TranscriptLoader
	splitter Splitter
	engine   QAEngine

	in     *bufio.Scanner
	out    io.Writer
	render func(string) (string, error)

	maxRetries    uint64
	retryInterval time.Duration
}

// NewSession creates a session from its configuration.
func NewSession(cfg SessionConfig) *Session {
	if cfg.In == nil {
		cfg.In = os.Stdin
	}
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	if cfg.Render == nil {
		cfg.Render = RenderMarkdown
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 2
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = 500 * time.Millisecond
	}
	return &Session{
		ingestor:      cfg.Ingestor,
		loader:        cfg.Loader,
		splitter:      cfg.Splitter,
		engine:        cfg.Engine,
		in:            bufio.NewScanner(cfg.In),
		out:           cfg.Out,
		render:        cfg.Render,
		maxRetries:    cfg.MaxRetries,
		retryInterval: cfg.RetryInterval,
	}
}

// Run drives the event loop until the user quits or input ends.
func (s *Session) Run(ctx context.Context) error {
	fmt.Fprintln(s.out, "AI Powered Tutor — ask questions about a YouTube video lecture.")

	for {
		input, ok := s.prompt("\nEnter a YouTube video URL or ID (or 'quit'): ")
		if !ok || isQuit(input) {
			return nil
		}
		if input == "" {
			fmt.Fprintln(s.out, "Please enter a YouTube video URL or ID.")
			continue
		}

		record, err := s.ingestWithRetry(ctx, input)
		if err != nil {
			fmt.Fprintln(s.out, ingestErrorMessage(err))
			continue
		}
		fmt.Fprintf(s.out, "Fetched %q — transcript saved to %s\n", record.Title, record.TranscriptPath)

		// The file on disk is the durable copy; reload from it.
		loaded, err := s.loader.Load(record.TranscriptPath)
		if err != nil {
			fmt.Fprintf(s.out, "Could not read the stored transcript: %v\n", err)
			continue
		}

		chunks, err := s.splitter.Split(loaded)
		if err != nil {
			fmt.Fprintf(s.out, "Could not split the transcript: %v\n", err)
			continue
		}
		if err := s.engine.Index(ctx, record, chunks); err != nil {
			fmt.Fprintf(s.out, "Could not index the transcript: %v\n", err)
			continue
		}
		fmt.Fprintln(s.out, "Transcript processed successfully!")

		if quit := s.questionLoop(ctx); quit {
			return nil
		}
	}
}

// questionLoop reads questions until the user asks for a new video or quits.
// It reports whether the whole session should end.
func (s *Session) questionLoop(ctx context.Context) bool {
	for {
		question, ok := s.prompt("\nAsk a question ('back' for a new video, 'quit' to exit): ")
		if !ok || isQuit(question) {
			return true
		}
		if question == "" {
			continue
		}
		if strings.EqualFold(question, "back") {
			return false
		}

		answer, err := s.engine.Answer(ctx, question)
		if err != nil {
			fmt.Fprintf(s.out, "Could not answer the question: %v\n", err)
			continue
		}

		rendered, err := s.render(answer)
		if err != nil {
			rendered = answer + "\n"
		}
		fmt.Fprint(s.out, "\nAnswer:\n"+rendered)
	}
}

// ingestWithRetry retries only network errors, up to maxRetries reattempts
// with exponential backoff. Every other kind is terminal for the attempt.
func (s *Session) ingestWithRetry(ctx context.Context, input string) (domain.VideoRecord, error) {
	var record domain.VideoRecord
	op := func() error {
		r, err := s.ingestor.IngestByURL(ctx, input)
		if err != nil {
			if errors.Is(err, transcript.ErrNetwork) {
				return err
			}
			return backoff.Permanent(err)
		}
		record = r
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = s.retryInterval
	err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(bo, s.maxRetries), ctx))
	return record, err
}

// prompt prints the prompt and reads one trimmed line. The second return
// value is false when input is exhausted.
func (s *Session) prompt(text string) (string, bool) {
	fmt.Fprint(s.out, text)
	if !s.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.in.Text()), true
}

func isQuit(input string) bool {
	return strings.EqualFold(input, "quit") || strings.EqualFold(input, "exit")
}

// ingestErrorMessage maps each error kind to a remediation message. The
// kinds stay distinguished because the remediation differs: "no transcript
// exists" is not "video inaccessible" is not "transient network issue".
func ingestErrorMessage(err error) string {
	switch {
	case errors.Is(err, videoid.ErrInvalidURL):
		return "That doesn't look like a YouTube video URL or ID. Please check it and try again."
	case errors.Is(err, transcript.ErrTranscriptsDisabled):
		return "Transcripts are disabled for this video. Please try another video."
	case errors.Is(err, transcript.ErrNoEnglishTranscript):
		return "No English transcript found for this video. Please try another video."
	case errors.Is(err, transcript.ErrVideoUnavailable):
		return "The video is unavailable. Please check the URL or try another video."
	case errors.Is(err, transcript.ErrNetwork):
		return "Could not reach YouTube due to a network issue. Please try again later."
	case errors.Is(err, store.ErrPathSecurity):
		return "Refused to store the transcript outside the transcripts directory."
	default:
		return fmt.Sprintf("An unexpected error occurred: %v", err)
	}
}
