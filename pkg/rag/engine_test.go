package rag

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	chromem "github.com/philippgille/chromem-go"
	openai "github.com/sashabaranov/go-openai"

	"video-tutor/pkg/domain"
)

// mockChat is a mock implementation of ChatClient for testing
type mockChat struct {
	reply     string
	err       error
	callCount int
	lastReq   openai.ChatCompletionRequest
}

func (m *mockChat) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	m.callCount++
	m.lastReq = req
	if m.err != nil {
		return openai.ChatCompletionResponse{}, m.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: m.reply}},
		},
	}, nil
}

// keywordEmbedding is a deterministic embedding func for tests: the vector
// counts occurrences of three keywords and is normalized.
func keywordEmbedding(_ context.Context, text string) ([]float32, error) {
	lower := strings.ToLower(text)
	v := []float32{
		float32(strings.Count(lower, "compiler")),
		float32(strings.Count(lower, "parser")),
		float32(strings.Count(lower, "linker")),
		1, // keep the vector non-zero for unrelated text
	}
	var norm float32
	for _, x := range v {
		norm += x * x
	}
	norm = float32(math.Sqrt(float64(norm)))
	for i := range v {
		v[i] /= norm
	}
	return v, nil
}

func testRecord() domain.VideoRecord {
	return domain.VideoRecord{
		VideoID:        "dQw4w9WgXcQ",
		Title:          "Lecture 1: Introduction",
		TranscriptPath: "/data/transcripts/dQw4w9WgXcQ.txt",
	}
}

func newTestEngine(t *testing.T, chat ChatClient) *Engine {
	t.Helper()
	engine, err := NewEngine(Config{
		Chat:      chat,
		ChatModel: "test-model",
		Embedding: chromem.EmbeddingFunc(keywordEmbedding),
		TopK:      2,
	})
	if err != nil {
		t.Fatalf("NewEngine returned error: %v", err)
	}
	return engine
}

func TestAnswer_RetrievesRelevantChunksIntoPrompt(t *testing.T) {
	chat := &mockChat{reply: "A compiler translates source code."}
	engine := newTestEngine(t, chat)

	chunks := []string{
		"the compiler translates source code into machine code",
		"the parser builds a syntax tree from tokens",
		"lunch break announcement with no technical content",
	}
	if err := engine.Index(context.Background(), testRecord(), chunks); err != nil {
		t.Fatalf("Index returned error: %v", err)
	}

	answer, err := engine.Answer(context.Background(), "what does the compiler do?")
	if err != nil {
		t.Fatalf("Answer returned error: %v", err)
	}
	if answer != "A compiler translates source code." {
		t.Errorf("Answer = %q, want the mock reply", answer)
	}

	if chat.callCount != 1 {
		t.Fatalf("Chat called %d times, want 1", chat.callCount)
	}
	prompt := chat.lastReq.Messages[len(chat.lastReq.Messages)-1].Content
	if !strings.Contains(prompt, "the compiler translates source code") {
		t.Errorf("Prompt does not contain the most relevant chunk:\n%s", prompt)
	}
	if !strings.Contains(prompt, "what does the compiler do?") {
		t.Errorf("Prompt does not contain the question:\n%s", prompt)
	}
	if chat.lastReq.Model != "test-model" {
		t.Errorf("Model = %q, want %q", chat.lastReq.Model, "test-model")
	}
}

func TestAnswer_BeforeIndexing(t *testing.T) {
	engine := newTestEngine(t, &mockChat{reply: "unused"})

	_, err := engine.Answer(context.Background(), "anything")
	if !errors.Is(err, ErrNotIndexed) {
		t.Errorf("Answer error = %v, want ErrNotIndexed", err)
	}
}

func TestAnswer_ChatFailurePropagates(t *testing.T) {
	chat := &mockChat{err: errors.New("rate limited")}
	engine := newTestEngine(t, chat)

	if err := engine.Index(context.Background(), testRecord(), []string{"a chunk about compilers"}); err != nil {
		t.Fatalf("Index returned error: %v", err)
	}

	if _, err := engine.Answer(context.Background(), "question"); err == nil {
		t.Error("Answer succeeded despite chat failure, want error")
	}
}

func TestIndex_ReplacesPreviousVideo(t *testing.T) {
	chat := &mockChat{reply: "ok"}
	engine := newTestEngine(t, chat)

	if err := engine.Index(context.Background(), testRecord(), []string{"old chunk about linkers"}); err != nil {
		t.Fatalf("First index returned error: %v", err)
	}

	second := testRecord()
	second.VideoID = "a-b_c1D2e3F"
	if err := engine.Index(context.Background(), second, []string{"new chunk about parsers"}); err != nil {
		t.Fatalf("Second index returned error: %v", err)
	}

	if _, err := engine.Answer(context.Background(), "tell me about parsers"); err != nil {
		t.Fatalf("Answer returned error: %v", err)
	}
	prompt := chat.lastReq.Messages[len(chat.lastReq.Messages)-1].Content
	if strings.Contains(prompt, "old chunk") {
		t.Errorf("Prompt still contains chunks from the previous video:\n%s", prompt)
	}
}

func TestIndex_EmptyChunks(t *testing.T) {
	engine := newTestEngine(t, &mockChat{reply: "unused"})

	if err := engine.Index(context.Background(), testRecord(), nil); err == nil {
		t.Error("Index with no chunks succeeded, want error")
	}
}

func TestNewEngine_ValidatesConfig(t *testing.T) {
	valid := Config{
		Chat:      &mockChat{},
		ChatModel: "m",
		Embedding: chromem.EmbeddingFunc(keywordEmbedding),
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "missing chat client", mutate: func(c *Config) { c.Chat = nil }},
		{name: "missing chat model", mutate: func(c *Config) { c.ChatModel = "" }},
		{name: "missing embedding func", mutate: func(c *Config) { c.Embedding = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			if _, err := NewEngine(cfg); err == nil {
				t.Error("NewEngine succeeded with invalid config, want error")
			}
		})
	}
}
