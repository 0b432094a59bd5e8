package core

import "sync"

// ResolutionRun is the mutable state scoped to one invocation: per-method
// quota counters and the aggregate query statistics behind the
// cost-distribution summary. All mutation is serialized on one mutex; the
// run is shared by every resolver task and is never a process global.
type ResolutionRun struct {
	mu         sync.Mutex
	quotaCeil  map[Method]int
	quotaUsed  map[Method]int
	dispatched map[Method]int
	resolved   map[Method]int
	total      int
}

// NewResolutionRun creates run state with per-method quota ceilings
// (0 = unlimited) and previously consumed usage carried over from the
// quota store, so billing-period caps survive restarts.
func NewResolutionRun(ceilings map[Method]int, used map[Method]int) *ResolutionRun {
	run := &ResolutionRun{
		quotaCeil:  make(map[Method]int, len(ceilings)),
		quotaUsed:  make(map[Method]int, len(used)),
		dispatched: make(map[Method]int),
		resolved:   make(map[Method]int),
	}
	for method, ceil := range ceilings {
		if ceil > 0 {
			run.quotaCeil[method] = ceil
		}
	}
	for method, count := range used {
		if count > 0 {
			run.quotaUsed[method] = count
		}
	}
	return run
}

// QuotaExhausted reports whether the method's call budget is used up.
func (r *ResolutionRun) QuotaExhausted(method Method) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	ceil, ok := r.quotaCeil[method]
	return ok && r.quotaUsed[method] >= ceil
}

// ReserveQuota atomically claims one call against the method's quota and
// records the dispatch. It returns false without counting anything when
// the ceiling is already reached; the counter never exceeds the ceiling.
func (r *ResolutionRun) ReserveQuota(method Method) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ceil, ok := r.quotaCeil[method]; ok && r.quotaUsed[method] >= ceil {
		return false
	}
	r.quotaUsed[method]++
	r.dispatched[method]++
	r.total++
	return true
}

// RecordConclusive counts a domain resolved conclusively by the method.
func (r *ResolutionRun) RecordConclusive(method Method) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resolved[method]++
}

// QuotaUsed returns the consumed quota for a method.
func (r *ResolutionRun) QuotaUsed(method Method) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.quotaUsed[method]
}

// RunSummary is the aggregate view handed to the reporter.
type RunSummary struct {
	TotalQueries int            `json:"total_queries"`
	Dispatched   map[Method]int `json:"dispatched"`
	Resolved     map[Method]int `json:"resolved"`
	QuotaUsed    map[Method]int `json:"quota_used"`
}

// Summary snapshots the aggregate counters.
func (r *ResolutionRun) Summary() RunSummary {
	r.mu.Lock()
	defer r.mu.Unlock()
	summary := RunSummary{
		TotalQueries: r.total,
		Dispatched:   make(map[Method]int, len(r.dispatched)),
		Resolved:     make(map[Method]int, len(r.resolved)),
		QuotaUsed:    make(map[Method]int, len(r.quotaUsed)),
	}
	for method, count := range r.dispatched {
		summary.Dispatched[method] = count
	}
	for method, count := range r.resolved {
		summary.Resolved[method] = count
	}
	for method, count := range r.quotaUsed {
		summary.QuotaUsed[method] = count
	}
	return summary
}
