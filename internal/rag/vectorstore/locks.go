package vectorstore

import (
	"path/filepath"
	"sync"
)

var (
	lockRegistryMu sync.Mutex
	lockRegistry   = make(map[string]*sync.RWMutex)
)

// PathLock returns the lock guarding the knowledge base rooted at dbPath.
// Indexing takes the write side, answering takes the read side, so
// concurrent questions never observe a half-written index. The same
// cleaned path always yields the same lock.
func PathLock(dbPath string) *sync.RWMutex {
	key := filepath.Clean(dbPath)

	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if l, ok := lockRegistry[key]; ok {
		return l
	}
	l := &sync.RWMutex{}
	lockRegistry[key] = l
	return l
}
