package vectorstore

import (
	"path/filepath"
	"testing"

	"github.com/anvithk/KnowledgeAPI/internal/domain/docModel"
)

func chunk(id, source, text string) docModel.Chunk {
	return docModel.Chunk{ChunkId: id, Source: source, Text: text}
}

func TestLoadMissingIndex(t *testing.T) {
	idx, err := Load(filepath.Join(t.TempDir(), "index"))
	if err != nil {
		t.Fatalf("Load returned error for missing file: %v", err)
	}
	if idx != nil {
		t.Error("expected nil index for missing file")
	}
}

func TestMergeAndRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index")

	idx, err := Merge(nil,
		[]docModel.Chunk{chunk("c1", "a.txt", "alpha"), chunk("c2", "a.txt", "beta")},
		[][]float32{{1, 0, 0}, {0, 1, 0}})
	if err != nil {
		t.Fatalf("Merge failed: %v", err)
	}
	if idx.Dimension != 3 {
		t.Errorf("expected dimension 3, got %d", idx.Dimension)
	}

	idx, err = Merge(idx, []docModel.Chunk{chunk("c3", "b.txt", "gamma")}, [][]float32{{0, 0, 1}})
	if err != nil {
		t.Fatalf("second Merge failed: %v", err)
	}
	if len(idx.Chunks) != 3 || len(idx.Vectors) != 3 {
		t.Fatalf("expected 3 entries, got %d chunks %d vectors", len(idx.Chunks), len(idx.Vectors))
	}

	if err := Save(idx, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load after Save failed: %v", err)
	}
	if reloaded == nil || len(reloaded.Chunks) != 3 {
		t.Fatalf("reloaded index lost entries: %+v", reloaded)
	}
	if reloaded.Chunks[2].ChunkId != "c3" {
		t.Errorf("chunk order not preserved: %+v", reloaded.Chunks)
	}
}

func TestMergeRejectsMismatch(t *testing.T) {
	if _, err := Merge(nil, []docModel.Chunk{chunk("c1", "a", "x")}, nil); err == nil {
		t.Error("expected error for chunk/vector length mismatch")
	}

	idx, err := Merge(nil, []docModel.Chunk{chunk("c1", "a", "x")}, [][]float32{{1, 0}})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Merge(idx, []docModel.Chunk{chunk("c2", "a", "y")}, [][]float32{{1, 0, 0}}); err == nil {
		t.Error("expected error for dimension mismatch")
	}
}

func TestCountBySource(t *testing.T) {
	idx, _ := Merge(nil,
		[]docModel.Chunk{chunk("c1", "a.txt", "x"), chunk("c2", "b.txt", "y"), chunk("c3", "a.txt", "z")},
		[][]float32{{1, 0}, {0, 1}, {1, 1}})

	if got := idx.CountBySource("a.txt"); got != 2 {
		t.Errorf("expected 2 chunks for a.txt, got %d", got)
	}
	if got := idx.CountBySource("missing"); got != 0 {
		t.Errorf("expected 0 chunks for unknown source, got %d", got)
	}
}

func TestSearchRanksBySimilarity(t *testing.T) {
	idx, _ := Merge(nil,
		[]docModel.Chunk{chunk("c1", "a", "x axis"), chunk("c2", "a", "y axis"), chunk("c3", "a", "diagonal")},
		[][]float32{{1, 0}, {0, 1}, {0.7, 0.7}})

	results := idx.Search([]float32{1, 0}, 2)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Chunk.ChunkId != "c1" {
		t.Errorf("expected exact match first, got %s", results[0].Chunk.ChunkId)
	}
	if results[1].Chunk.ChunkId != "c3" {
		t.Errorf("expected diagonal second, got %s", results[1].Chunk.ChunkId)
	}
	if results[0].Score < results[1].Score {
		t.Error("results not ordered best first")
	}
}

func TestSearchKLargerThanIndex(t *testing.T) {
	idx, _ := Merge(nil, []docModel.Chunk{chunk("c1", "a", "x")}, [][]float32{{1, 0}})

	results := idx.Search([]float32{1, 0}, 10)
	if len(results) != 1 {
		t.Errorf("expected 1 result, got %d", len(results))
	}
}

func TestSearchMMRPrefersDiversity(t *testing.T) {
	// Two near-duplicates close to the query plus one distinct
	// direction. The query sits off the duplicates' axis so relevance
	// and redundancy disagree and the re-rank has a real choice.
	// Pure similarity would pick both duplicates.
	idx, _ := Merge(nil,
		[]docModel.Chunk{chunk("c1", "a", "dup one"), chunk("c2", "a", "dup two"), chunk("c3", "a", "other")},
		[][]float32{{1, 0}, {1, -0.02}, {0.5, 0.8}})

	results := idx.SearchMMR([]float32{1, 0.1}, 2, 3, 0.5)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Chunk.ChunkId != "c1" {
		t.Errorf("expected best match first, got %s", results[0].Chunk.ChunkId)
	}
	if results[1].Chunk.ChunkId != "c3" {
		t.Errorf("expected diverse chunk second, got %s", results[1].Chunk.ChunkId)
	}
}

func TestSearchMMRPureRelevance(t *testing.T) {
	idx, _ := Merge(nil,
		[]docModel.Chunk{chunk("c1", "a", "dup one"), chunk("c2", "a", "dup two"), chunk("c3", "a", "other")},
		[][]float32{{1, 0}, {0.99, 0.01}, {0.5, 0.8}})

	results := idx.SearchMMR([]float32{1, 0}, 2, 3, 1.0)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[1].Chunk.ChunkId != "c2" {
		t.Errorf("lambda=1 should keep the near-duplicate, got %s", results[1].Chunk.ChunkId)
	}
}

func TestPathLockIdentity(t *testing.T) {
	a := PathLock("/tmp/db")
	b := PathLock("/tmp/db/")
	c := PathLock("/tmp/other")

	if a != b {
		t.Error("equivalent paths should share a lock")
	}
	if a == c {
		t.Error("distinct paths should not share a lock")
	}
}
