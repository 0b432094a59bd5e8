package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tldsweep/tldsweep/internal/core"
	"github.com/tldsweep/tldsweep/internal/observability"
)

// Resolver decides the final status of one candidate by walking the active
// methods in precedence order and stopping at the first conclusive outcome.
type Resolver struct {
	Registry *Registry
	Logger   *zap.Logger
	Metrics  *observability.Metrics
	Clock    func() time.Time
}

// Resolve runs the method chain for one candidate. Adapter failures become
// synthetic inconclusive outcomes and the walk continues; quota-exhausted
// methods are skipped without leaving evidence. The only error returned is
// run cancellation, in which case no partial result is reported.
func (r *Resolver) Resolve(ctx context.Context, run *core.ResolutionRun, methods []MethodSpec, candidate core.DomainCandidate) (*core.DomainResult, error) {
	result := &core.DomainResult{
		Candidate: candidate,
		Evidence:  make([]core.VerificationOutcome, 0, len(methods)),
	}

	for _, spec := range methods {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRunCancelled, err)
		}

		release, err := r.Registry.Acquire(ctx, run, spec.Name)
		if err != nil {
			if errors.Is(err, ErrQuotaExhausted) {
				r.Metrics.ObserveQuotaSkip(string(spec.Name))
				continue
			}
			return nil, fmt.Errorf("%w: %v", ErrRunCancelled, err)
		}

		if !run.ReserveQuota(spec.Name) {
			// Lost the last quota slot to a concurrent resolver.
			release()
			continue
		}

		outcome := r.invoke(ctx, spec, candidate)
		release()

		// Run-level cancellation during the call aborts the candidate;
		// a per-method timeout does not reach here and falls through as
		// a synthetic failure instead.
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRunCancelled, err)
		}

		result.Evidence = append(result.Evidence, outcome)
		if outcome.Conclusive {
			run.RecordConclusive(spec.Name)
			break
		}
	}

	r.finalize(result)
	return result, nil
}

func (r *Resolver) invoke(ctx context.Context, spec MethodSpec, candidate core.DomainCandidate) core.VerificationOutcome {
	callCtx := ctx
	if spec.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, spec.Timeout)
		defer cancel()
	}

	checker := r.Registry.Adapter(spec.Name)
	started := time.Now()
	outcome, err := checker.Check(callCtx, candidate)
	elapsed := time.Since(started)
	if err != nil {
		r.Metrics.ObserveMethodCall(string(spec.Name), "failed", elapsed)
		reason := "adapter failed: " + err.Error()
		if errors.Is(err, context.DeadlineExceeded) {
			reason = "timeout"
		}
		if r.Logger != nil {
			r.Logger.Debug("method call failed",
				zap.String("domain", candidate.FQDN()),
				zap.String("method", string(spec.Name)),
				zap.Error(err),
			)
		}
		failed := core.VerificationOutcome{
			CheckID:    uuid.New().String(),
			Method:     spec.Name,
			Status:     core.StatusUnknown,
			Reason:     core.CapReason(reason),
			Failed:     true,
			ResolvedAt: r.now(),
		}
		return failed
	}

	result := "inconclusive"
	if outcome.Conclusive {
		result = "conclusive"
	}
	r.Metrics.ObserveMethodCall(string(spec.Name), result, elapsed)

	normalized := *outcome
	normalized.Method = spec.Name
	if normalized.CheckID == "" {
		normalized.CheckID = uuid.New().String()
	}
	if normalized.ResolvedAt.IsZero() {
		normalized.ResolvedAt = r.now()
	}
	if !normalized.Conclusive {
		// Inconclusive outcomes never carry a price.
		normalized.Price = nil
	}
	return normalized
}

func (r *Resolver) finalize(result *core.DomainResult) {
	result.CompletedAt = r.now()
	for _, outcome := range result.Evidence {
		if !outcome.Conclusive {
			continue
		}
		result.FinalStatus = outcome.Status
		result.Price = outcome.Price
		reason := outcome.Reason
		if reason == "" {
			reason = defaultReason(outcome.Status)
		}
		result.Reason = core.CapReason(fmt.Sprintf("%s (%s)", reason, outcome.Method))
		return
	}

	result.FinalStatus = core.StatusUnknown
	result.Reason = core.JoinReasons(result.Evidence)
	if result.Reason == "" {
		result.Reason = "all data was inconclusive"
	}
}

func defaultReason(status core.Status) string {
	switch status {
	case core.StatusAvailable:
		return "domain is available"
	case core.StatusPremium:
		return "domain is premium and available"
	case core.StatusUnavailable:
		return "domain is registered"
	default:
		return "all data was inconclusive"
	}
}

func (r *Resolver) now() time.Time {
	if r != nil && r.Clock != nil {
		return r.Clock()
	}
	return time.Now().UTC()
}
