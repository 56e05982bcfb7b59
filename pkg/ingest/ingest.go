// Package ingest composes URL extraction, transcript fetching, storage and
// title resolution into one "fetch by URL" operation.
package ingest

import (
	"context"
	"fmt"
	"time"

	"video-tutor/pkg/domain"
	"video-tutor/pkg/videoid"
)

// Fetcher obtains a transcript for a video ID.
type Fetcher interface {
	Fetch(ctx context.Context, videoID domain.VideoID) (domain.Transcript, error)
}

// Store persists a transcript and returns the path of the durable copy.
type Store interface {
	Save(videoID domain.VideoID, transcript domain.Transcript) (string, error)
}

// TitleResolver looks up a video title. Implementations never fail; they
// return a placeholder instead.
type TitleResolver interface {
	Resolve(ctx context.Context, videoID domain.VideoID) string
}

// Orchestrator runs one ingestion synchronously, start to finish. It builds
// no retry logic of its own: retry policy for network errors belongs to the
// caller.
type Orchestrator struct {
	fetcher Fetcher
	store   Store
	titles  TitleResolver
}

// New creates an orchestrator from its three collaborators.
func New(fetcher Fetcher, store Store, titles TitleResolver) *Orchestrator {
	return &Orchestrator{
		fetcher: fetcher,
		store:   store,
		titles:  titles,
	}
}

// IngestByURL extracts the video ID from urlOrID, fetches its transcript,
// persists it, and resolves the title. The first failure from extraction,
// fetching or storing short-circuits the pipeline; title resolution is
// best-effort and never aborts it.
//
// On success the in-memory transcript is discarded: the file on disk is the
// durable copy, and callers reload from the store.
func (o *Orchestrator) IngestByURL(ctx context.Context, urlOrID string) (domain.VideoRecord, error) {
	id, err := videoid.Extract(urlOrID)
	if err != nil {
		return domain.VideoRecord{}, err
	}

	transcript, err := o.fetcher.Fetch(ctx, id)
	if err != nil {
		return domain.VideoRecord{}, err
	}

	path, err := o.store.Save(id, transcript)
	if err != nil {
		return domain.VideoRecord{}, fmt.Errorf("save transcript: %w", err)
	}

	record := domain.VideoRecord{
		VideoID:        id,
		TranscriptPath: path,
		FetchedAt:      time.Now(),
	}
	if o.titles != nil {
		record.Title = o.titles.Resolve(ctx, id)
	}
	return record, nil
}
