// Package engine is the verification orchestration core: the method
// registry, the per-domain resolver, and the cross-domain scheduler.
package engine

import (
	"context"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/tldsweep/tldsweep/internal/core"
	"github.com/tldsweep/tldsweep/internal/core/adapter"
)

// MethodSpec is the static configuration for one verification method.
type MethodSpec struct {
	Name               core.Method
	Rank               int
	Enabled            bool
	MaxConcurrent      int64
	RatePerSecond      float64
	Quota              int
	QuotaWindow        time.Duration
	RequiresCredential bool
	HasCredential      bool
	Timeout            time.Duration
}

// DefaultSpecs returns the stock method order: cheapest and unlimited
// first, the quota-capped paid API last. rdap ships disabled.
func DefaultSpecs() []MethodSpec {
	return []MethodSpec{
		{Name: core.MethodTLD, Rank: 10, Enabled: true, MaxConcurrent: 64, Timeout: time.Second},
		{Name: core.MethodDNS, Rank: 20, Enabled: true, MaxConcurrent: 32, Timeout: 5 * time.Second},
		{Name: core.MethodWHOIS, Rank: 30, Enabled: true, MaxConcurrent: 8, RatePerSecond: 4, Timeout: 10 * time.Second},
		{Name: core.MethodRDAP, Rank: 35, Enabled: false, MaxConcurrent: 8, RatePerSecond: 4, Timeout: 10 * time.Second},
		{Name: core.MethodNCAPI, Rank: 40, Enabled: true, MaxConcurrent: 4, RatePerSecond: 2, Timeout: 10 * time.Second},
		{Name: core.MethodGandi, Rank: 50, Enabled: true, MaxConcurrent: 2, RatePerSecond: 1, Timeout: 60 * time.Second},
		{Name: core.MethodDomainr, Rank: 60, Enabled: true, MaxConcurrent: 5, RatePerSecond: 2, Quota: 10000, QuotaWindow: 30 * 24 * time.Hour, RequiresCredential: true, Timeout: 10 * time.Second},
	}
}

// Registry holds the configured methods, their adapters, and the permit
// sources bounding concurrent in-flight calls per method.
type Registry struct {
	specs    []MethodSpec
	adapters map[core.Method]adapter.Adapter
	permits  map[core.Method]*semaphore.Weighted
	pacers   map[core.Method]*rate.Limiter
}

// NewRegistry builds a registry from specs and adapters. Specs are ordered
// by precedence rank; methods without an adapter are dropped.
func NewRegistry(specs []MethodSpec, adapters map[core.Method]adapter.Adapter) *Registry {
	ordered := make([]MethodSpec, 0, len(specs))
	for _, spec := range specs {
		if adapters[spec.Name] == nil {
			continue
		}
		if spec.MaxConcurrent <= 0 {
			spec.MaxConcurrent = 1
		}
		ordered = append(ordered, spec)
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Rank < ordered[j].Rank
	})

	registry := &Registry{
		specs:    ordered,
		adapters: adapters,
		permits:  make(map[core.Method]*semaphore.Weighted, len(ordered)),
		pacers:   make(map[core.Method]*rate.Limiter, len(ordered)),
	}
	for _, spec := range ordered {
		registry.permits[spec.Name] = semaphore.NewWeighted(spec.MaxConcurrent)
		if spec.RatePerSecond > 0 {
			burst := int(spec.MaxConcurrent)
			if burst < 1 {
				burst = 1
			}
			registry.pacers[spec.Name] = rate.NewLimiter(rate.Limit(spec.RatePerSecond), burst)
		}
	}
	return registry
}

// ActiveMethods resolves the method list in effect for a run. Include and
// exclude filters are mutually exclusive; disabled methods and methods
// missing a required credential are left out.
func (r *Registry) ActiveMethods(include, exclude []core.Method) ([]MethodSpec, error) {
	if len(include) > 0 && len(exclude) > 0 {
		return nil, configErrorf("include and exclude method filters are mutually exclusive")
	}

	wanted := methodSet(include)
	unwanted := methodSet(exclude)
	for name := range wanted {
		if _, ok := r.Spec(name); !ok {
			return nil, configErrorf("unknown method %q in include filter", name)
		}
	}
	for name := range unwanted {
		if _, ok := r.Spec(name); !ok {
			return nil, configErrorf("unknown method %q in exclude filter", name)
		}
	}

	active := make([]MethodSpec, 0, len(r.specs))
	for _, spec := range r.specs {
		if len(wanted) > 0 {
			if _, ok := wanted[spec.Name]; !ok {
				continue
			}
		} else if !spec.Enabled {
			continue
		}
		if _, ok := unwanted[spec.Name]; ok {
			continue
		}
		if spec.RequiresCredential && !spec.HasCredential {
			if _, ok := wanted[spec.Name]; ok {
				return nil, configErrorf("method %q requires a credential that is not configured", spec.Name)
			}
			continue
		}
		active = append(active, spec)
	}

	if len(active) == 0 {
		return nil, configErrorf("no active verification methods after filtering")
	}
	return active, nil
}

// Adapter returns the adapter registered for a method.
func (r *Registry) Adapter(method core.Method) adapter.Adapter {
	return r.adapters[method]
}

// Spec returns the configured spec for a method.
func (r *Registry) Spec(method core.Method) (MethodSpec, bool) {
	for _, spec := range r.specs {
		if spec.Name == method {
			return spec, true
		}
	}
	return MethodSpec{}, false
}

// Specs returns all configured specs in precedence order.
func (r *Registry) Specs() []MethodSpec {
	out := make([]MethodSpec, len(r.specs))
	copy(out, r.specs)
	return out
}

// Acquire blocks for a concurrency permit and the method's pace slot. It
// fails fast with ErrQuotaExhausted when the run's quota counter has
// reached the method's ceiling; quota is consumed only at dispatch, by
// ResolutionRun.ReserveQuota.
func (r *Registry) Acquire(ctx context.Context, run *core.ResolutionRun, method core.Method) (func(), error) {
	if run.QuotaExhausted(method) {
		return nil, ErrQuotaExhausted
	}

	permit := r.permits[method]
	if permit == nil {
		return func() {}, nil
	}
	if err := permit.Acquire(ctx, 1); err != nil {
		return nil, err
	}

	if pacer := r.pacers[method]; pacer != nil {
		if err := pacer.Wait(ctx); err != nil {
			permit.Release(1)
			return nil, err
		}
	}

	return func() { permit.Release(1) }, nil
}

func methodSet(methods []core.Method) map[core.Method]struct{} {
	set := make(map[core.Method]struct{}, len(methods))
	for _, method := range methods {
		name := core.Method(strings.ToLower(strings.TrimSpace(string(method))))
		if name == "" {
			continue
		}
		set[name] = struct{}{}
	}
	return set
}
