// Package worker runs a batch of ingestions concurrently over a fixed pool
// of goroutines. Per-video results are collected on a channel by a single
// aggregating goroutine, so workers never contend on shared state.
package worker

import (
	"context"
	"fmt"
	"log"
	"sync"

	"video-tutor/pkg/domain"
)

// Ingestor runs one fetch-by-URL ingestion.
type Ingestor interface {
	IngestByURL(ctx context.Context, urlOrID string) (domain.VideoRecord, error)
}

// Result is the outcome of ingesting one input.
type Result struct {
	Input  string
	Record domain.VideoRecord
	Err    error
}

// Pool distributes ingestion jobs across a fixed number of workers.
type Pool struct {
	workerCount int
	ingestor    Ingestor
}

// NewPool creates a pool. A worker count below 1 is treated as 1.
func NewPool(workerCount int, ingestor Ingestor) *Pool {
	if workerCount < 1 {
		workerCount = 1
	}
	return &Pool{
		workerCount: workerCount,
		ingestor:    ingestor,
	}
}

// Process ingests all inputs and returns one Result per input. The result
// order follows completion, not input order. It returns an error only when
// every input failed.
func (p *Pool) Process(ctx context.Context, inputs []string) ([]Result, error) {
	jobChan := make(chan string, len(inputs))
	for _, input := range inputs {
		jobChan <- input
	}
	close(jobChan)

	resultsChan := make(chan Result, len(inputs))

	var wg sync.WaitGroup
	for i := 0; i < p.workerCount; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for input := range jobChan {
				record, err := p.ingestor.IngestByURL(ctx, input)
				if err != nil {
					log.Printf("Worker %d: failed to ingest %s: %v", workerID, input, err)
				}
				resultsChan <- Result{Input: input, Record: record, Err: err}
			}
		}(i)
	}

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	results := make([]Result, 0, len(inputs))
	failed := 0
	for res := range resultsChan {
		if res.Err != nil {
			failed++
		}
		results = append(results, res)
	}

	if failed > 0 && failed == len(inputs) {
		return results, fmt.Errorf("all %d videos failed to ingest", failed)
	}
	return results, nil
}
