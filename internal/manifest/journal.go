package manifest

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/hupe1980/screenmesh/core"
)

// Journal is the ordered record of a run: script steps and the lifecycle
// calls they caused. Entries have the form "<name>:<call>" for hooks and
// events, "> <step>" before and "< <step>: <outcome>" after each step.
type Journal struct {
	mu      sync.Mutex
	entries []string
}

func (j *Journal) record(format string, args ...any) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, fmt.Sprintf(format, args...))
}

// Entries returns a copy of the recorded entries.
func (j *Journal) Entries() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]string, len(j.entries))
	copy(out, j.entries)
	return out
}

// WriteTo writes one entry per line.
func (j *Journal) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, e := range j.Entries() {
		n, err := fmt.Fprintln(w, e)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func (j *Journal) observe(name string, a core.Activatable) {
	a.OnActivated(func(_ any, e core.ActivationEventArgs) {
		if e.WasInitialized {
			j.record("%s:Activated(init)", name)
		} else {
			j.record("%s:Activated", name)
		}
	})
	a.OnAttemptingDeactivation(func(any, core.DeactivationEventArgs) {
		j.record("%s:AttemptingDeactivation", name)
	})
	a.OnDeactivated(func(_ context.Context, _ any, e core.DeactivationEventArgs) error {
		if e.WasClosed {
			j.record("%s:Deactivated(close)", name)
		} else {
			j.record("%s:Deactivated", name)
		}
		return nil
	})
}
