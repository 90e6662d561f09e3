// Package mcpserver exposes the knowledge base over the Model Context
// Protocol so MCP-compatible assistants can index documents and ask
// questions against the local index.
package mcpserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anvithk/KnowledgeAPI/internal/rag/indexer"
	"github.com/anvithk/KnowledgeAPI/internal/rag/responder"
)

// Version is the MCP server version.
const Version = "0.1.0"

// Ports aggregates the services the MCP server drives. A single
// injection point keeps wiring in one place.
type Ports struct {
	Indexer   indexer.Indexer
	Responder responder.Responder
}

func (p *Ports) Validate() error {
	if p.Indexer == nil {
		return ErrMissingIndexer
	}
	if p.Responder == nil {
		return ErrMissingResponder
	}
	return nil
}

// Server is the MCP server for the knowledge assistant.
type Server struct {
	ports  *Ports
	server *mcp.Server
}

// NewServer creates a new MCP server with the given ports.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	impl := &mcp.Implementation{
		Name:    "knowledge-assistant",
		Version: Version,
	}

	s := &Server{
		ports:  ports,
		server: mcp.NewServer(impl, nil),
	}

	s.registerTools()

	return s, nil
}

// Run starts the MCP server over stdio.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP starts the MCP server over HTTP on the specified address.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background()) //nolint:errcheck
	}()

	err := httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}
