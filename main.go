package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	chromem "github.com/philippgille/chromem-go"
	openai "github.com/sashabaranov/go-openai"
	"github.com/spf13/cobra"

	"video-tutor/pkg/app"
	"video-tutor/pkg/chunk"
	"video-tutor/pkg/config"
	"video-tutor/pkg/httpclient"
	"video-tutor/pkg/ingest"
	"video-tutor/pkg/rag"
	"video-tutor/pkg/store"
	"video-tutor/pkg/title"
	"video-tutor/pkg/transcript"
)

func main() {
	// A missing .env is fine; the environment may be set another way.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "video-tutor",
		Short: "Ask questions about a YouTube video lecture",
		Long: "video-tutor fetches the transcript of a YouTube video, indexes it, " +
			"and answers free-text questions about its content using an LLM.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context())
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if errors.Is(err, config.ErrMissingAPIKey) {
			log.Fatalf("Missing configuration: %v", err)
		}
		log.Fatalf("Session failed: %v", err)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	client := httpclient.NewClient(httpclient.BrowserClient)
	fetcher := transcript.NewFetcherWithOptions(transcript.Options{Client: client, PreferManual: true})
	transcripts := store.NewStore(cfg.TranscriptsDir)
	ingestor := ingest.New(fetcher, transcripts, title.NewResolver())

	chatCfg := openai.DefaultConfig(cfg.APIKey)
	chatCfg.BaseURL = cfg.ChatBaseURL
	engine, err := rag.NewEngine(rag.Config{
		Chat:      openai.NewClientWithConfig(chatCfg),
		ChatModel: cfg.ChatModel,
		Embedding: chromem.NewEmbeddingFuncOpenAICompat(
			cfg.EmbeddingBaseURL, cfg.EmbeddingAPIKey, cfg.EmbeddingModel, nil),
		TopK: cfg.TopK,
	})
	if err != nil {
		return fmt.Errorf("create answer engine: %w", err)
	}

	session := app.NewSession(app.SessionConfig{
		Ingestor: ingestor,
		Loader:   transcripts,
		Splitter: chunk.NewSplitter(cfg.ChunkSize, cfg.ChunkOverlap),
		Engine:   engine,
	})
	return session.Run(ctx)
}
