package gateway

import (
	"sort"
	"sync"
)

// Operation names a remote call. Each operation has its own in-flight indicator.
type Operation string

const (
	OpRegister Operation = "register"
	OpLogin    Operation = "login"
	OpLogout   Operation = "logout"
	OpUpload   Operation = "upload"
	OpGenerate Operation = "generate"
	OpOptimize Operation = "optimize"
	OpExport   Operation = "export"
	OpMatch    Operation = "match"
	OpRecords  Operation = "records"
)

// Operations lists every operation in display order.
func Operations() []Operation {
	return []Operation{OpRegister, OpLogin, OpLogout, OpUpload, OpGenerate, OpOptimize, OpExport, OpMatch, OpRecords}
}

// Inflight tracks which operations currently have a call outstanding.
// Overlapping calls of the same operation are counted, so the flag clears only
// when the last one returns.
type Inflight struct {
	mu     sync.Mutex
	counts map[Operation]int
}

// NewInflight creates an empty tracker.
func NewInflight() *Inflight {
	return &Inflight{counts: make(map[Operation]int)}
}

// Begin marks op as in flight and returns the func that clears it.
func (f *Inflight) Begin(op Operation) func() {
	f.mu.Lock()
	f.counts[op]++
	f.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			if f.counts[op] <= 1 {
				delete(f.counts, op)
				return
			}
			f.counts[op]--
		})
	}
}

// Busy reports whether op has a call outstanding.
func (f *Inflight) Busy(op Operation) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counts[op] > 0
}

// Snapshot returns the busy operations, sorted by name.
func (f *Inflight) Snapshot() []Operation {
	f.mu.Lock()
	defer f.mu.Unlock()
	busy := make([]Operation, 0, len(f.counts))
	for op := range f.counts {
		busy = append(busy, op)
	}
	sort.Slice(busy, func(i, j int) bool { return busy[i] < busy[j] })
	return busy
}
