package classifier

import "sync"

// Dedup tracks canonical SMILES seen so far across every source file fed to
// the classifier, so that the first occurrence of a duplicate wins (§4.2
// step 1) regardless of which source file or goroutine processes it. The
// default in-memory implementation scopes this to a single classify run;
// callers that need the dedup set to span separate runs or processes (the
// catalogue's durable BBT read-through cache) supply their own
// implementation backed by a shared store.
type Dedup interface {
	// Claim reports whether canonicalSMILES has not been claimed before,
	// and marks it claimed either way. The first caller to Claim a given
	// SMILES gets true; every subsequent caller gets false.
	Claim(canonicalSMILES string) bool
}

// memDedup is the default Dedup: an in-process, concurrency-safe set that
// lives only as long as the classify run that created it.
type memDedup struct {
	mu   sync.Mutex
	seen map[string]bool
}

// NewDedup constructs an empty, concurrency-safe, in-memory Dedup.
func NewDedup() Dedup {
	return &memDedup{seen: make(map[string]bool)}
}

func (d *memDedup) Claim(canonicalSMILES string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.seen[canonicalSMILES] {
		return false
	}
	d.seen[canonicalSMILES] = true
	return true
}
