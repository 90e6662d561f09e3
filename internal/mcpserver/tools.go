package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anvithk/KnowledgeAPI/internal/config"
	"github.com/anvithk/KnowledgeAPI/internal/rag/indexer"
)

// IndexInput is the input schema for the index_document tool.
type IndexInput struct {
	Source       string `json:"source" jsonschema:"path, directory or URL of the document to index"`
	ChunkSize    int    `json:"chunk_size,omitempty" jsonschema:"tokens per chunk (default 500)"`
	ChunkOverlap int    `json:"chunk_overlap,omitempty" jsonschema:"overlapping tokens between chunks (default 50)"`
}

// IndexOutput is the output schema for the index_document tool.
type IndexOutput struct {
	Message string `json:"message"`
}

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer from the indexed documents"`
	TopK     int    `json:"top_k,omitempty" jsonschema:"number of context chunks to retrieve (default 5)"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer string `json:"answer"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "index_document",
		Description: "Index a local file, directory or URL into the knowledge base",
	}, s.handleIndex)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question using the indexed documents",
	}, s.handleAsk)
}

// handleIndex handles the index_document tool invocation.
func (s *Server) handleIndex(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IndexInput,
) (*mcp.CallToolResult, IndexOutput, error) {
	opts := indexer.IndexOptions{
		ChunkSize:    input.ChunkSize,
		ChunkOverlap: input.ChunkOverlap,
	}

	message, err := s.ports.Indexer.Index(ctx, input.Source, opts)
	if err != nil {
		return nil, IndexOutput{}, err
	}

	return nil, IndexOutput{Message: message}, nil
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	k := input.TopK
	if k <= 0 {
		k = config.DefaultTopK
	}

	answer, err := s.ports.Responder.AnswerWithHistory(ctx, input.Question, k, nil)
	if err != nil {
		return nil, AskOutput{}, err
	}

	return nil, AskOutput{Answer: answer}, nil
}
