package testutil

import (
	"fmt"
	"strings"
	"sync"
)

// Journal is an ordered, concurrency-safe record of lifecycle calls.
type Journal struct {
	mu      sync.Mutex
	entries []string
}

// NewJournal creates an empty journal.
func NewJournal() *Journal { return &Journal{} }

// Record appends a formatted entry.
func (j *Journal) Record(format string, args ...any) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, fmt.Sprintf(format, args...))
}

// Entries returns a copy of all entries.
func (j *Journal) Entries() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]string, len(j.entries))
	copy(out, j.entries)
	return out
}

// Count returns how many entries equal entry.
func (j *Journal) Count(entry string) int {
	j.mu.Lock()
	defer j.mu.Unlock()
	n := 0
	for _, e := range j.entries {
		if e == entry {
			n++
		}
	}
	return n
}

// Index returns the position of the first entry equal to entry, or -1.
func (j *Journal) Index(entry string) int {
	j.mu.Lock()
	defer j.mu.Unlock()
	for i, e := range j.entries {
		if e == entry {
			return i
		}
	}
	return -1
}

// Filter returns the entries starting with prefix, in order.
func (j *Journal) Filter(prefix string) []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	var out []string
	for _, e := range j.entries {
		if strings.HasPrefix(e, prefix) {
			out = append(out, e)
		}
	}
	return out
}

// Reset drops all entries.
func (j *Journal) Reset() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = nil
}
