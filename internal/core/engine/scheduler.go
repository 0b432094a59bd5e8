package engine

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/tldsweep/tldsweep/internal/core"
)

// Scheduler resolves a candidate set concurrently under a global worker
// bound. Per-method limits are enforced inside the registry, so excess
// workers block in Acquire instead of busy-spinning.
type Scheduler struct {
	Resolver *Resolver
	Workers  int
	Logger   *zap.Logger

	// OnResult, when set, is invoked as each result completes (completion
	// order, serialized). The returned slice is always in input order.
	OnResult func(*core.DomainResult)
}

type resolveJob struct {
	index     int
	candidate core.DomainCandidate
}

// ResolveAll resolves every candidate and returns results in input order
// regardless of completion order. On cancellation it stops dispatching,
// lets in-flight resolvers finish or abort, and returns the completed
// results alongside ErrRunCancelled.
func (s *Scheduler) ResolveAll(ctx context.Context, run *core.ResolutionRun, methods []MethodSpec, candidates []core.DomainCandidate) ([]*core.DomainResult, error) {
	workers := s.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(candidates) {
		workers = len(candidates)
	}

	results := make([]*core.DomainResult, len(candidates))
	jobs := make(chan resolveJob)

	var (
		wg     sync.WaitGroup
		emitMu sync.Mutex
	)

	worker := func() {
		defer wg.Done()
		for job := range jobs {
			if ctx.Err() != nil {
				return
			}
			result, err := s.Resolver.Resolve(ctx, run, methods, job.candidate)
			if err != nil {
				// Cancellation mid-candidate: drop the partial result.
				return
			}
			results[job.index] = result
			if s.OnResult != nil {
				emitMu.Lock()
				s.OnResult(result)
				emitMu.Unlock()
			}
		}
	}

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go worker()
	}

dispatch:
	for i, candidate := range candidates {
		select {
		case <-ctx.Done():
			break dispatch
		case jobs <- resolveJob{index: i, candidate: candidate}:
		}
	}
	close(jobs)
	wg.Wait()

	if ctx.Err() != nil {
		completed := make([]*core.DomainResult, 0, len(results))
		for _, result := range results {
			if result != nil {
				completed = append(completed, result)
			}
		}
		if s.Logger != nil {
			s.Logger.Warn("run cancelled",
				zap.Int("completed", len(completed)),
				zap.Int("candidates", len(candidates)),
			)
		}
		return completed, ErrRunCancelled
	}

	return results, nil
}
