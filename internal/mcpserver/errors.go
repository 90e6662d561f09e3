package mcpserver

import "errors"

// ErrMissingIndexer is returned when no indexer is provided.
var ErrMissingIndexer = errors.New("mcp: indexer is required")

// ErrMissingResponder is returned when no responder is provided.
var ErrMissingResponder = errors.New("mcp: responder is required")
