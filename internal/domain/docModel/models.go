package docModel

type DocType string

var PDF DocType = "PDF"
var EPUB DocType = "EPUB"
var MOBI DocType = "MOBI"
var TXT DocType = "TXT"
var HTML DocType = "HTML"
var ERR DocType = "ERROR"

// Document is one raw text unit produced by a loader. A single file can
// yield several of these (one per page or epub section).
type Document struct {
	Text    string   `json:"text"`
	Source  string   `json:"source"` //canonical path or URL, the dedup key
	Title   string   `json:"title,omitempty"`
	Authors []string `json:"authors,omitempty"`
	Page    int      `json:"page,omitempty"`
}

// Chunk is a bounded slice of a Document prepared for embedding.
// Text here is already sanitized - punctuation and quotes are stripped
// before embedding, so exact-text fidelity is intentionally lost.
type Chunk struct {
	ChunkId string `json:"chunk_id"`
	Source  string `json:"source"`
	Text    string `json:"text"`
	Title   string `json:"title,omitempty"`
	Page    int    `json:"page,omitempty"`
	Order   int    `json:"order"`
}

type SearchResult struct {
	Chunk Chunk   `json:"chunk"`
	Score float32 `json:"score"`
}
