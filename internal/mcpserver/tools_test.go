package mcpserver

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/anvithk/KnowledgeAPI/internal/rag/indexer"
)

type mockIndexer struct {
	OnIndex func(ctx context.Context, source string, opts indexer.IndexOptions) (string, error)
}

func (m *mockIndexer) Index(ctx context.Context, source string, opts indexer.IndexOptions) (string, error) {
	return m.OnIndex(ctx, source, opts)
}

type mockResponder struct {
	OnAnswer func(ctx context.Context, question string, k int, history []string) (string, error)
}

func (m *mockResponder) Answer(ctx context.Context, question string, k int) (string, error) {
	return m.OnAnswer(ctx, question, k, nil)
}

func (m *mockResponder) AnswerWithHistory(ctx context.Context, question string, k int, history []string) (string, error) {
	return m.OnAnswer(ctx, question, k, history)
}

func newTestServer(t *testing.T, idx *mockIndexer, resp *mockResponder) *Server {
	t.Helper()
	server, err := NewServer(&Ports{Indexer: idx, Responder: resp})
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	return server
}

func TestNewServer_MissingPorts(t *testing.T) {
	if _, err := NewServer(&Ports{Responder: &mockResponder{}}); !errors.Is(err, ErrMissingIndexer) {
		t.Errorf("expected ErrMissingIndexer, got %v", err)
	}
	if _, err := NewServer(&Ports{Indexer: &mockIndexer{}}); !errors.Is(err, ErrMissingResponder) {
		t.Errorf("expected ErrMissingResponder, got %v", err)
	}
}

func TestHandleIndex(t *testing.T) {
	var gotSource string
	var gotOpts indexer.IndexOptions
	idx := &mockIndexer{
		OnIndex: func(_ context.Context, source string, opts indexer.IndexOptions) (string, error) {
			gotSource = source
			gotOpts = opts
			return "Indexed 3 chunks from " + source, nil
		},
	}
	server := newTestServer(t, idx, &mockResponder{})

	input := IndexInput{Source: "notes.txt", ChunkSize: 200, ChunkOverlap: 20}
	_, output, err := server.handleIndex(context.Background(), nil, input)
	if err != nil {
		t.Fatalf("handleIndex failed: %v", err)
	}
	if gotSource != "notes.txt" {
		t.Errorf("indexer saw source %q, want notes.txt", gotSource)
	}
	if gotOpts.ChunkSize != 200 || gotOpts.ChunkOverlap != 20 {
		t.Errorf("chunk options not forwarded, got %+v", gotOpts)
	}
	if !strings.Contains(output.Message, "Indexed 3 chunks") {
		t.Errorf("unexpected message %q", output.Message)
	}
}

func TestHandleIndex_Error(t *testing.T) {
	idx := &mockIndexer{
		OnIndex: func(_ context.Context, _ string, _ indexer.IndexOptions) (string, error) {
			return "", errors.New("unsupported document type")
		},
	}
	server := newTestServer(t, idx, &mockResponder{})

	_, _, err := server.handleIndex(context.Background(), nil, IndexInput{Source: "diagram.svg"})
	if err == nil || !strings.Contains(err.Error(), "unsupported") {
		t.Errorf("expected indexing error, got %v", err)
	}
}

func TestHandleAsk(t *testing.T) {
	var gotK int
	resp := &mockResponder{
		OnAnswer: func(_ context.Context, question string, k int, _ []string) (string, error) {
			gotK = k
			return "The reactor is vented weekly.", nil
		},
	}
	server := newTestServer(t, &mockIndexer{}, resp)

	_, output, err := server.handleAsk(context.Background(), nil, AskInput{Question: "How often is the reactor vented?"})
	if err != nil {
		t.Fatalf("handleAsk failed: %v", err)
	}
	if gotK != 5 {
		t.Errorf("expected default top_k 5, got %d", gotK)
	}
	if output.Answer != "The reactor is vented weekly." {
		t.Errorf("unexpected answer %q", output.Answer)
	}

	_, _, err = server.handleAsk(context.Background(), nil, AskInput{Question: "again", TopK: 2})
	if err != nil {
		t.Fatalf("handleAsk failed: %v", err)
	}
	if gotK != 2 {
		t.Errorf("expected top_k 2, got %d", gotK)
	}
}

func TestHandleAsk_Error(t *testing.T) {
	resp := &mockResponder{
		OnAnswer: func(_ context.Context, _ string, _ int, _ []string) (string, error) {
			return "", errors.New("nothing indexed")
		},
	}
	server := newTestServer(t, &mockIndexer{}, resp)

	_, _, err := server.handleAsk(context.Background(), nil, AskInput{Question: "anything?"})
	if err == nil || !strings.Contains(err.Error(), "nothing indexed") {
		t.Errorf("expected responder error, got %v", err)
	}
}
