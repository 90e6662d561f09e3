// Package vectorstore implements the on-disk vector index backing retrieval.
// The index is a flat in-memory structure persisted as a single gob file
// under the knowledge base directory; search is exact brute-force cosine
// similarity, which is the right trade-off at personal-knowledge-base scale.
package vectorstore

import (
	"container/heap"
	"encoding/gob"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/anvithk/KnowledgeAPI/internal/domain/docModel"
)

// Index holds every chunk and its embedding. Vectors[i] is the embedding
// of Chunks[i]; the two slices always have equal length.
type Index struct {
	Dimension int
	Chunks    []docModel.Chunk
	Vectors   [][]float32
}

// Load reads the index file at path. A missing file returns (nil, nil)
// so callers can distinguish "no knowledge base yet" from a read failure.
func Load(path string) (*Index, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening index: %w", err)
	}
	defer f.Close()

	var idx Index
	if err := gob.NewDecoder(f).Decode(&idx); err != nil {
		return nil, fmt.Errorf("decoding index: %w", err)
	}
	if len(idx.Chunks) != len(idx.Vectors) {
		return nil, fmt.Errorf("decoding index: %d chunks but %d vectors", len(idx.Chunks), len(idx.Vectors))
	}
	return &idx, nil
}

// Save writes the index to path via a temp file and rename, so readers
// never observe a partially written index.
func Save(idx *Index, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("creating index directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "index-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp index: %w", err)
	}
	tmpName := tmp.Name()

	if err := gob.NewEncoder(tmp).Encode(idx); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("encoding index: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp index: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing index: %w", err)
	}
	return nil
}

// Merge appends chunks and their vectors to existing and returns the
// combined index. A nil existing starts a fresh index sized from the
// first vector. Merge never mutates its inputs' backing state beyond
// appending, and rejects mismatched lengths or dimensions.
func Merge(existing *Index, chunks []docModel.Chunk, vectors [][]float32) (*Index, error) {
	if len(chunks) != len(vectors) {
		return nil, fmt.Errorf("merge: %d chunks but %d vectors", len(chunks), len(vectors))
	}
	if existing == nil {
		if len(vectors) == 0 {
			return &Index{}, nil
		}
		existing = &Index{Dimension: len(vectors[0])}
	}
	for i, v := range vectors {
		if existing.Dimension == 0 {
			existing.Dimension = len(v)
		}
		if len(v) != existing.Dimension {
			return nil, fmt.Errorf("merge: vector %d has dimension %d, index has %d", i, len(v), existing.Dimension)
		}
	}
	existing.Chunks = append(existing.Chunks, chunks...)
	existing.Vectors = append(existing.Vectors, vectors...)
	return existing, nil
}

// CountBySource returns how many chunks in the index came from source.
func (idx *Index) CountBySource(source string) int {
	n := 0
	for _, c := range idx.Chunks {
		if c.Source == source {
			n++
		}
	}
	return n
}

func cosineSimilarity(a, b []float32) float32 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}

type scoredChunk struct {
	pos   int
	score float32
}

// minHeap keeps the k best candidates seen so far, worst on top.
type minHeap []scoredChunk

func (h minHeap) Len() int            { return len(h) }
func (h minHeap) Less(i, j int) bool  { return h[i].score < h[j].score }
func (h minHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *minHeap) Push(x interface{}) { *h = append(*h, x.(scoredChunk)) }
func (h *minHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// Search returns the k chunks most similar to query, best first.
func (idx *Index) Search(query []float32, k int) []docModel.SearchResult {
	if idx == nil || k <= 0 || len(idx.Chunks) == 0 {
		return nil
	}

	h := &minHeap{}
	heap.Init(h)
	for pos, vec := range idx.Vectors {
		score := cosineSimilarity(query, vec)
		if h.Len() < k {
			heap.Push(h, scoredChunk{pos: pos, score: score})
		} else if score > (*h)[0].score {
			(*h)[0] = scoredChunk{pos: pos, score: score}
			heap.Fix(h, 0)
		}
	}

	results := make([]docModel.SearchResult, h.Len())
	for i := h.Len() - 1; i >= 0; i-- {
		sc := heap.Pop(h).(scoredChunk)
		results[i] = docModel.SearchResult{Chunk: idx.Chunks[sc.pos], Score: sc.score}
	}
	return results
}

// SearchMMR retrieves fetchK candidates by similarity and re-ranks them
// with maximal marginal relevance. lambda balances relevance against
// diversity: 1 is pure similarity, 0 is pure diversity.
func (idx *Index) SearchMMR(query []float32, k, fetchK int, lambda float32) []docModel.SearchResult {
	if idx == nil || k <= 0 {
		return nil
	}
	if fetchK < k {
		fetchK = k
	}

	type candidate struct {
		pos    int
		score  float32
		chunk  docModel.Chunk
		vector []float32
	}

	top := idx.Search(query, fetchK)
	candidates := make([]candidate, 0, len(top))
	for _, r := range top {
		// Search drops positions, so recover the vector by chunk
		// identity; ChunkId is unique per chunk.
		for pos, c := range idx.Chunks {
			if c.ChunkId == r.Chunk.ChunkId {
				candidates = append(candidates, candidate{pos: pos, score: r.Score, chunk: c, vector: idx.Vectors[pos]})
				break
			}
		}
	}

	selected := make([]docModel.SearchResult, 0, k)
	selectedVecs := make([][]float32, 0, k)
	used := make([]bool, len(candidates))

	for len(selected) < k && len(selected) < len(candidates) {
		bestIdx := -1
		var bestScore float32
		for i, cand := range candidates {
			if used[i] {
				continue
			}
			maxRedundancy := float32(0)
			for _, sv := range selectedVecs {
				if sim := cosineSimilarity(cand.vector, sv); sim > maxRedundancy {
					maxRedundancy = sim
				}
			}
			mmr := lambda*cand.score - (1-lambda)*maxRedundancy
			if bestIdx == -1 || mmr > bestScore {
				bestIdx = i
				bestScore = mmr
			}
		}
		if bestIdx == -1 {
			break
		}
		used[bestIdx] = true
		selected = append(selected, docModel.SearchResult{Chunk: candidates[bestIdx].chunk, Score: candidates[bestIdx].score})
		selectedVecs = append(selectedVecs, candidates[bestIdx].vector)
	}
	return selected
}
