// Package ledger persists the set of sources that have been fully indexed.
// Membership means every chunk of that source was embedded and merged into
// the vector index - it is the at-most-once guard for re-indexing.
package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

type record struct {
	IndexedDoc []string `json:"indexed_doc"`
}

type Ledger struct {
	path    string
	sources map[string]struct{}

	// Recovered reports that the on-disk record existed but could not be
	// parsed and was degraded to an empty ledger. Callers should log it;
	// a recovered ledger means previously indexed sources will re-index.
	Recovered bool
}

// Load reads the ledger at path. A missing file yields an empty ledger.
// A corrupt file also yields an empty ledger, with Recovered set, rather
// than a hard failure.
func Load(path string) (*Ledger, error) {
	l := &Ledger{path: path, sources: make(map[string]struct{})}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return l, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading index record: %w", err)
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		l.Recovered = true
		return l, nil
	}
	for _, s := range rec.IndexedDoc {
		l.sources[s] = struct{}{}
	}
	return l, nil
}

func (l *Ledger) IsIndexed(source string) bool {
	_, ok := l.sources[source]
	return ok
}

func (l *Ledger) MarkIndexed(source string) {
	l.sources[source] = struct{}{}
}

func (l *Ledger) Len() int {
	return len(l.sources)
}

// Sources returns the recorded sources in sorted order.
func (l *Ledger) Sources() []string {
	out := make([]string, 0, len(l.sources))
	for s := range l.sources {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Persist writes the full set back to disk. The record is written to a
// temp file in the same directory and renamed over the old one, so a
// crash mid-write never loses the previous ledger.
func (l *Ledger) Persist() error {
	dir := filepath.Dir(l.path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("creating ledger directory: %w", err)
	}

	data, err := json.MarshalIndent(record{IndexedDoc: l.Sources()}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding index record: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "index_record-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp record: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing index record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing index record: %w", err)
	}
	if err := os.Rename(tmpName, l.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing index record: %w", err)
	}
	return nil
}
