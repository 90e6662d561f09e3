package chunker

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/anvithk/KnowledgeAPI/internal/domain/docModel"
)

func tokenDoc(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "tok%d ", i)
	}
	return b.String()
}

func TestSplit_RejectsBadConfig(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		overlap int
	}{
		{"overlap equals size", 100, 100},
		{"overlap larger than size", 100, 200},
		{"zero size", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Split("some text here", tt.size, tt.overlap)
			if !errors.Is(err, docModel.ErrInvalidConfiguration) {
				t.Errorf("Split(%d, %d) err = %v, want ErrInvalidConfiguration", tt.size, tt.overlap, err)
			}
		})
	}
}

func TestSplit_WindowInvariants(t *testing.T) {
	const size, overlap = 500, 50
	chunks, err := Split(tokenDoc(2000), size, overlap)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	if len(chunks) < 4 {
		t.Fatalf("2000 token doc produced %d chunks, want >= 4", len(chunks))
	}

	for i, c := range chunks {
		n := len(strings.Fields(c))
		if n > size {
			t.Errorf("chunk %d has %d tokens, budget is %d", i, n, size)
		}
	}

	// Consecutive chunks share exactly `overlap` tokens.
	for i := 0; i < len(chunks)-1; i++ {
		cur := strings.Fields(chunks[i])
		next := strings.Fields(chunks[i+1])
		tail := cur[len(cur)-overlap:]
		head := next[:overlap]
		for j := range tail {
			if tail[j] != head[j] {
				t.Fatalf("chunks %d/%d overlap mismatch at %d: %s vs %s", i, i+1, j, tail[j], head[j])
			}
		}
	}
}

func TestSplit_SmallInput(t *testing.T) {
	chunks, err := Split("just a few tokens", 500, 50)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1", len(chunks))
	}
	if chunks[0] != "just a few tokens" {
		t.Errorf("got %q", chunks[0])
	}
}

func TestSplit_EmptyInput(t *testing.T) {
	chunks, err := Split("   \n\t ", 500, 50)
	if err != nil {
		t.Fatalf("Split failed: %v", err)
	}
	if len(chunks) != 0 {
		t.Errorf("whitespace-only input produced %d chunks", len(chunks))
	}
}

func TestSanitize(t *testing.T) {
	got := Sanitize(`He said: "don't panic!" (page 4)`)
	want := "He said dont panic page 4"
	if got != want {
		t.Errorf("Sanitize = %q, want %q", got, want)
	}
}
