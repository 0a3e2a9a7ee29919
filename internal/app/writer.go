package app

import (
	"sync"

	"github.com/marcus/memopad/internal/store"
)

// memoWriter orders memo writes made from concurrent commands. Each write
// takes a sequence number in Update; a write that reaches the store after
// a newer one for the same tab is skipped.
type memoWriter struct {
	st *store.Store

	mu      sync.Mutex
	next    uint64
	written map[int]uint64
}

func newMemoWriter(st *store.Store) *memoWriter {
	return &memoWriter{st: st, written: make(map[int]uint64)}
}

// issue reserves the next sequence number.
func (w *memoWriter) issue() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.next++
	return w.next
}

// save writes content for tabID unless a newer write already landed. It
// reports whether the content was written.
func (w *memoWriter) save(seq uint64, tabID int, content string) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if seq < w.written[tabID] {
		return false, nil
	}
	if err := w.st.SaveMemo(tabID, content); err != nil {
		return false, err
	}
	w.written[tabID] = seq
	return true, nil
}
