package diag

import "sync"

// Reporter receives diagnostics. Implementations: BagReporter, DedupReporter.
type Reporter interface {
	Report(d Diagnostic)
}

// BagReporter writes into a *Bag. It is safe for concurrent use.
type BagReporter struct {
	mu  sync.Mutex
	Bag *Bag
}

func (r *BagReporter) Report(d Diagnostic) {
	if r == nil || r.Bag == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Bag.Add(d)
}
