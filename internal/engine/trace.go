package engine

import (
	"sync"
	"sync/atomic"
)

// Event records one evaluated step.
type Event struct {
	Seq    int64    `json:"seq"`
	Op     string   `json:"op"`
	Args   []string `json:"args"`
	Result string   `json:"result,omitempty"`
	Fault  string   `json:"fault,omitempty"`
	Error  string   `json:"error,omitempty"`
}

// Recorder collects events stamped with a monotonic logical clock.
// Seq values start at 1 and never repeat, so traces compare equal across
// runs regardless of wall time.
//
// Thread-safety: Recorder is safe for concurrent use.
type Recorder struct {
	seq    atomic.Int64
	mu     sync.Mutex
	events []Event
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Record stamps ev with the next seq and appends it.
func (r *Recorder) Record(ev Event) Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	ev.Seq = r.seq.Add(1)
	r.events = append(r.events, ev)
	return ev
}

// Events returns a copy of the recorded events in seq order.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Current returns the last assigned seq, or 0 if nothing was recorded.
func (r *Recorder) Current() int64 {
	return r.seq.Load()
}
