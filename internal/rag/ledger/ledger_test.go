package ledger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index_record.json")

	l, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error for missing file: %v", err)
	}
	if l.Recovered {
		t.Error("missing file should not be flagged as recovered")
	}
	if l.Len() != 0 {
		t.Errorf("expected empty ledger, got %d sources", l.Len())
	}
}

func TestRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index_record.json")

	l, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	l.MarkIndexed("/docs/b.pdf")
	l.MarkIndexed("/docs/a.txt")
	l.MarkIndexed("https://example.com/notes.html")
	if err := l.Persist(); err != nil {
		t.Fatalf("Persist failed: %v", err)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	for _, s := range []string{"/docs/a.txt", "/docs/b.pdf", "https://example.com/notes.html"} {
		if !reloaded.IsIndexed(s) {
			t.Errorf("source %q lost across persist/load", s)
		}
	}
	if reloaded.IsIndexed("/docs/never.txt") {
		t.Error("IsIndexed reported a source that was never marked")
	}

	got := reloaded.Sources()
	want := []string{"/docs/a.txt", "/docs/b.pdf", "https://example.com/notes.html"}
	if len(got) != len(want) {
		t.Fatalf("expected %d sources, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sources not sorted: got %v", got)
			break
		}
	}
}

func TestCorruptRecordRecovers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index_record.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	l, err := Load(path)
	if err != nil {
		t.Fatalf("corrupt record should not fail Load: %v", err)
	}
	if !l.Recovered {
		t.Error("expected Recovered flag on corrupt record")
	}
	if l.Len() != 0 {
		t.Errorf("corrupt record should degrade to empty, got %d sources", l.Len())
	}
}

func TestPersistCreatesDirectoryAndLeavesNoTemp(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "db")
	path := filepath.Join(dir, "index_record.json")

	l, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	l.MarkIndexed("/docs/a.txt")
	if err := l.Persist(); err != nil {
		t.Fatalf("Persist failed: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("record file missing after Persist: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("temp file %s left behind", e.Name())
		}
	}
}

func TestPersistOverwritesPrevious(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index_record.json")

	l, _ := Load(path)
	l.MarkIndexed("/docs/a.txt")
	if err := l.Persist(); err != nil {
		t.Fatal(err)
	}
	l.MarkIndexed("/docs/b.txt")
	if err := l.Persist(); err != nil {
		t.Fatal(err)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.Len() != 2 {
		t.Errorf("expected 2 sources after second persist, got %d", reloaded.Len())
	}
}
