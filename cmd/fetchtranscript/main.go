// fetchtranscript downloads and stores transcripts for one or more videos
// without starting the interactive tutor. No LLM credentials are needed.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"

	"video-tutor/pkg/config"
	"video-tutor/pkg/httpclient"
	"video-tutor/pkg/ingest"
	"video-tutor/pkg/store"
	"video-tutor/pkg/title"
	"video-tutor/pkg/transcript"
	"video-tutor/pkg/worker"
)

func main() {
	var (
		dir     = flag.String("dir", config.DefaultTranscriptsDir, "Directory to store transcript files in")
		workers = flag.Int("workers", 4, "Number of parallel fetches")
		timeout = flag.Duration("timeout", 5*time.Minute, "Overall timeout for the whole batch")
	)
	flag.Parse()

	if flag.NArg() == 0 {
		log.Fatal("Usage: fetchtranscript [-dir DIR] [-workers N] URL_OR_ID [URL_OR_ID...]")
	}

	_ = godotenv.Load()

	client := httpclient.NewClient(httpclient.BrowserClient)
	fetcher := transcript.NewFetcherWithOptions(transcript.Options{Client: client, PreferManual: true})
	ingestor := ingest.New(fetcher, store.NewStore(*dir), title.NewResolver())

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	start := time.Now()
	results, err := worker.NewPool(*workers, ingestor).Process(ctx, flag.Args())
	if err != nil {
		log.Fatalf("Batch failed: %v", err)
	}

	saved := 0
	for _, res := range results {
		if res.Err != nil {
			continue
		}
		saved++
		log.Printf("Saved %q (%s) to %s", res.Record.Title, res.Record.VideoID, res.Record.TranscriptPath)
	}
	log.Printf("Done: %d of %d saved in %s", saved, flag.NArg(), time.Since(start).Round(time.Millisecond))
}
