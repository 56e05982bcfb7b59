// Package rag answers questions about an ingested video by retrieving
// relevant transcript chunks from a local vector index and forwarding them
// with the question to an OpenAI-compatible chat-completion API.
//
// The vector index is chromem-go's embedded store; the embedding model and
// the chat model are both external services. Nothing here implements custom
// vector search or inference.
package rag

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"

	chromem "github.com/philippgille/chromem-go"
	openai "github.com/sashabaranov/go-openai"

	"video-tutor/pkg/domain"
)

// NoAnswerFound is returned when retrieval produces no relevant chunks.
const NoAnswerFound = "No relevant transcript passages found for the question."

// DefaultTopK is how many chunks are retrieved per question.
const DefaultTopK = 4

var (
	// ErrNotIndexed is returned by Answer before any transcript was indexed.
	ErrNotIndexed = errors.New("no transcript indexed yet")

	errNoChatChoices = errors.New("chat completion returned no choices")
)

// ChatClient is the slice of the OpenAI-compatible client the engine needs.
// *openai.Client satisfies it.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Config wires the engine dependencies.
type Config struct {
	// Chat is the chat-completion client. Required.
	Chat ChatClient

	// ChatModel is the model name sent with every completion. Required.
	ChatModel string

	// Embedding produces the vector for a piece of text. Required.
	Embedding chromem.EmbeddingFunc

	// TopK is how many chunks to retrieve per question. Defaults to
	// DefaultTopK.
	TopK int
}

// Engine owns one in-memory vector collection for the currently ingested
// video and answers questions against it.
type Engine struct {
	chat      ChatClient
	chatModel string
	embedding chromem.EmbeddingFunc
	topK      int

	collection *chromem.Collection
}

// NewEngine creates an engine from its configuration.
func NewEngine(cfg Config) (*Engine, error) {
	if cfg.Chat == nil {
		return nil, fmt.Errorf("chat client is required")
	}
	if cfg.ChatModel == "" {
		return nil, fmt.Errorf("chat model is required")
	}
	if cfg.Embedding == nil {
		return nil, fmt.Errorf("embedding func is required")
	}
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultTopK
	}
	return &Engine{
		chat:      cfg.Chat,
		chatModel: cfg.ChatModel,
		embedding: cfg.Embedding,
		topK:      cfg.TopK,
	}, nil
}

// Index embeds the chunks of one video and replaces the engine's collection
// with them. One video is indexed at a time; indexing a new video discards
// the previous index.
func (e *Engine) Index(ctx context.Context, record domain.VideoRecord, chunks []string) error {
	if len(chunks) == 0 {
		return fmt.Errorf("no chunks to index for video %s", record.VideoID)
	}

	db := chromem.NewDB()
	collection, err := db.CreateCollection("video-"+string(record.VideoID), nil, e.embedding)
	if err != nil {
		return fmt.Errorf("create collection: %w", err)
	}

	docs := make([]chromem.Document, 0, len(chunks))
	for i, chunk := range chunks {
		docs = append(docs, chromem.Document{
			ID:      fmt.Sprintf("%s-%d", record.VideoID, i),
			Content: chunk,
			Metadata: map[string]string{
				"videoId": string(record.VideoID),
				"title":   record.Title,
			},
		})
	}
	if err := collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("embed and index chunks: %w", err)
	}

	e.collection = collection
	return nil
}

// Answer retrieves the chunks most similar to question and asks the chat
// model to answer from them alone.
func (e *Engine) Answer(ctx context.Context, question string) (string, error) {
	if e.collection == nil {
		return "", ErrNotIndexed
	}

	n := e.topK
	if count := e.collection.Count(); n > count {
		n = count
	}
	results, err := e.collection.Query(ctx, question, n, nil, nil)
	if err != nil {
		return "", fmt.Errorf("query index: %w", err)
	}
	if len(results) == 0 {
		return NoAnswerFound, nil
	}

	excerpts := make([]string, 0, len(results))
	for _, r := range results {
		excerpts = append(excerpts, r.Content)
	}

	resp, err := e.chat.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.chatModel,
		// go-openai omits a zero temperature from the request, so send the
		// smallest value the API accepts to pin deterministic output.
		Temperature: 1e-8,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleSystem,
				Content: "You are a tutor answering questions about a YouTube video lecture. " +
					"Answer using only the provided transcript excerpts. " +
					"If the excerpts do not contain the answer, say so.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf("Transcript excerpts:\n\n%s\n\nQuestion: %s", strings.Join(excerpts, "\n\n---\n\n"), question),
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errNoChatChoices
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
