package docModel

import "errors"

// Core pipeline failures. Callers match these with errors.Is; every layer
// wraps them with context via fmt.Errorf("...: %w", err).
var (
	// ErrInvalidConfiguration indicates a bad init or chunking parameter,
	// e.g. chunk_size <= chunk_overlap or a missing db path.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrNotFound indicates the source path or URL does not resolve.
	ErrNotFound = errors.New("source not found")

	// ErrUnsupportedType indicates a file extension outside the supported set.
	ErrUnsupportedType = errors.New("unsupported file type")

	// ErrIndexNotFound indicates answer was called before anything was indexed.
	ErrIndexNotFound = errors.New("vector index not found")

	// ErrNotConfigured indicates a provider is missing its credential.
	// Distinct from a provider call that failed at runtime.
	ErrNotConfigured = errors.New("provider not configured")

	// ErrProviderUnavailable indicates an embedding or LLM call failed.
	ErrProviderUnavailable = errors.New("provider unavailable")
)
