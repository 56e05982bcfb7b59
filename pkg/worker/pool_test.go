package worker

import (
	"context"
	"errors"
	"sync"
	"testing"

	"video-tutor/pkg/domain"
)

// mockIngestor is a mock implementation of Ingestor for testing
type mockIngestor struct {
	mu        sync.Mutex
	failing   map[string]error
	seen      []string
	callCount int
}

func (m *mockIngestor) IngestByURL(_ context.Context, urlOrID string) (domain.VideoRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount++
	m.seen = append(m.seen, urlOrID)
	if err, ok := m.failing[urlOrID]; ok {
		return domain.VideoRecord{}, err
	}
	return domain.VideoRecord{VideoID: domain.VideoID(urlOrID), Title: "title for " + urlOrID}, nil
}

func TestProcess_IngestsEveryInput(t *testing.T) {
	inputs := []string{"aaaaaaaaaaa", "bbbbbbbbbbb", "ccccccccccc", "ddddddddddd"}
	ingestor := &mockIngestor{}

	results, err := NewPool(3, ingestor).Process(context.Background(), inputs)
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}

	if len(results) != len(inputs) {
		t.Fatalf("got %d results, want %d", len(results), len(inputs))
	}
	if ingestor.callCount != len(inputs) {
		t.Errorf("Ingestor called %d times, want %d", ingestor.callCount, len(inputs))
	}
	for _, res := range results {
		if res.Err != nil {
			t.Errorf("Result for %s has error: %v", res.Input, res.Err)
		}
		if res.Record.VideoID != domain.VideoID(res.Input) {
			t.Errorf("Result for %s carries record for %s", res.Input, res.Record.VideoID)
		}
	}
}

func TestProcess_PartialFailureIsNotAnError(t *testing.T) {
	ingestor := &mockIngestor{failing: map[string]error{
		"bbbbbbbbbbb": errors.New("transcripts disabled"),
	}}

	results, err := NewPool(2, ingestor).Process(context.Background(), []string{"aaaaaaaaaaa", "bbbbbbbbbbb"})
	if err != nil {
		t.Fatalf("Process returned error for partial failure: %v", err)
	}

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			if res.Input != "bbbbbbbbbbb" {
				t.Errorf("unexpected failure for %s", res.Input)
			}
		}
	}
	if failed != 1 {
		t.Errorf("got %d failed results, want 1", failed)
	}
}

func TestProcess_AllFailuresReturnError(t *testing.T) {
	ingestor := &mockIngestor{failing: map[string]error{
		"aaaaaaaaaaa": errors.New("boom"),
		"bbbbbbbbbbb": errors.New("boom"),
	}}

	if _, err := NewPool(2, ingestor).Process(context.Background(), []string{"aaaaaaaaaaa", "bbbbbbbbbbb"}); err == nil {
		t.Error("Process succeeded with every input failing, want error")
	}
}

func TestNewPool_ClampsWorkerCount(t *testing.T) {
	ingestor := &mockIngestor{}
	if _, err := NewPool(0, ingestor).Process(context.Background(), []string{"aaaaaaaaaaa"}); err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if ingestor.callCount != 1 {
		t.Errorf("Ingestor called %d times, want 1", ingestor.callCount)
	}
}
