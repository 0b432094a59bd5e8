package cmd

import (
	"context"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tldsweep/tldsweep/internal/config"
	"github.com/tldsweep/tldsweep/internal/core"
	"github.com/tldsweep/tldsweep/internal/core/adapter"
	"github.com/tldsweep/tldsweep/internal/core/engine"
	"github.com/tldsweep/tldsweep/internal/core/store"
	"github.com/tldsweep/tldsweep/internal/tldtable"
)

// app bundles everything a command needs once configuration is loaded:
// the method registry, the TLD table, and the quota store.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	store    *store.Store
	table    *tldtable.Table
	registry *engine.Registry

	// carried-over usage per quota-capped method. Each run starts from
	// this baseline; persistQuota advances it by the run's delta so that
	// in serve mode later requests see quota spent by earlier ones.
	usageMu      sync.Mutex
	initialUsage map[core.Method]int
}

func buildApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	table, err := tldtable.Load(cfg.Data.TLDTable)
	if err != nil {
		return nil, err
	}

	quotaStore, err := store.Open(ctx, cfg.Store.Path)
	if err != nil {
		return nil, err
	}

	specs := buildSpecs(cfg)
	registry := engine.NewRegistry(specs, buildAdapters(cfg, table))

	initialUsage := make(map[core.Method]int)
	now := time.Now().UTC()
	for _, spec := range specs {
		if spec.Quota <= 0 {
			continue
		}
		used, err := quotaStore.Usage(ctx, spec.Name, spec.QuotaWindow, now)
		if err != nil {
			_ = quotaStore.Close()
			return nil, err
		}
		initialUsage[spec.Name] = used
	}

	return &app{
		cfg:          cfg,
		logger:       logger,
		store:        quotaStore,
		table:        table,
		registry:     registry,
		initialUsage: initialUsage,
	}, nil
}

func (a *app) Close() {
	if a == nil {
		return
	}
	if err := a.store.Close(); err != nil && a.logger != nil {
		a.logger.Warn("close quota store", zap.Error(err))
	}
}

// newRun seeds run state with configured ceilings and the usage already
// consumed this quota window.
func (a *app) newRun() *core.ResolutionRun {
	ceilings := make(map[core.Method]int)
	for _, spec := range a.registry.Specs() {
		if spec.Quota > 0 {
			ceilings[spec.Name] = spec.Quota
		}
	}

	a.usageMu.Lock()
	baseline := make(map[core.Method]int, len(a.initialUsage))
	for method, used := range a.initialUsage {
		baseline[method] = used
	}
	a.usageMu.Unlock()

	return core.NewResolutionRun(ceilings, baseline)
}

// persistQuota writes this run's quota consumption back to the store and
// advances the in-process baseline. Called even after cancellation:
// dispatched calls are spent regardless.
func (a *app) persistQuota(ctx context.Context, run *core.ResolutionRun) {
	now := time.Now().UTC()
	for _, spec := range a.registry.Specs() {
		if spec.Quota <= 0 {
			continue
		}

		a.usageMu.Lock()
		delta := run.QuotaUsed(spec.Name) - a.initialUsage[spec.Name]
		if delta > 0 {
			a.initialUsage[spec.Name] += delta
		}
		a.usageMu.Unlock()
		if delta <= 0 {
			continue
		}

		if err := a.store.RecordUsage(ctx, spec.Name, delta, spec.QuotaWindow, now); err != nil && a.logger != nil {
			a.logger.Warn("persist quota usage",
				zap.String("method", string(spec.Name)),
				zap.Error(err),
			)
		}
	}
}

func buildSpecs(cfg *config.Config) []engine.MethodSpec {
	specs := engine.DefaultSpecs()
	for i := range specs {
		switch specs[i].Name {
		case core.MethodDNS:
			applyMethodConfig(&specs[i], cfg.Methods.DNS.MethodConfig)
		case core.MethodWHOIS:
			applyMethodConfig(&specs[i], cfg.Methods.WHOIS.MethodConfig)
		case core.MethodRDAP:
			applyMethodConfig(&specs[i], cfg.Methods.RDAP)
		case core.MethodNCAPI:
			applyMethodConfig(&specs[i], cfg.Methods.NCAPI.MethodConfig)
		case core.MethodGandi:
			applyMethodConfig(&specs[i], cfg.Methods.Gandi.MethodConfig)
		case core.MethodDomainr:
			applyMethodConfig(&specs[i], cfg.Methods.Domainr.MethodConfig)
			if cfg.Methods.Domainr.Quota > 0 {
				specs[i].Quota = cfg.Methods.Domainr.Quota
			}
			if cfg.Methods.Domainr.QuotaWindow > 0 {
				specs[i].QuotaWindow = cfg.Methods.Domainr.QuotaWindow
			}
			specs[i].HasCredential = cfg.Methods.Domainr.APIKey != ""
		}
	}
	return specs
}

func applyMethodConfig(spec *engine.MethodSpec, mc config.MethodConfig) {
	spec.Enabled = mc.Enabled
	if mc.MaxConcurrent > 0 {
		spec.MaxConcurrent = mc.MaxConcurrent
	}
	if mc.RatePerSecond > 0 {
		spec.RatePerSecond = mc.RatePerSecond
	}
	if mc.Timeout > 0 {
		spec.Timeout = mc.Timeout
	}
}

func buildAdapters(cfg *config.Config, table *tldtable.Table) map[core.Method]adapter.Adapter {
	httpClient := &http.Client{Timeout: 60 * time.Second}

	return map[core.Method]adapter.Adapter{
		core.MethodTLD: &adapter.TLDAdapter{Table: table},
		core.MethodDNS: &adapter.DNSAdapter{
			Server:              cfg.Methods.DNS.Server,
			ConclusiveOnRecords: cfg.Methods.DNS.ConclusiveOnRecords,
		},
		core.MethodWHOIS: &adapter.WHOISAdapter{
			Patterns: whoisPatterns(cfg),
		},
		core.MethodRDAP: &adapter.RDAPAdapter{},
		core.MethodNCAPI: &adapter.NCAPIAdapter{
			BaseURL: cfg.Methods.NCAPI.BaseURL,
			Client:  httpClient,
		},
		core.MethodGandi: &adapter.GandiAdapter{
			BaseURL: cfg.Methods.Gandi.BaseURL,
			Client:  httpClient,
		},
		core.MethodDomainr: &adapter.DomainrAdapter{
			BaseURL: cfg.Methods.Domainr.BaseURL,
			Client:  httpClient,
			APIKey:  cfg.Methods.Domainr.APIKey,
		},
	}
}

func whoisPatterns(cfg *config.Config) adapter.WHOISPatterns {
	patterns := adapter.DefaultWHOISPatterns()
	if len(cfg.Methods.WHOIS.AvailablePatterns) > 0 {
		patterns.Available = cfg.Methods.WHOIS.AvailablePatterns
	}
	if len(cfg.Methods.WHOIS.ProhibitedPatterns) > 0 {
		patterns.Prohibited = cfg.Methods.WHOIS.ProhibitedPatterns
	}
	if len(cfg.Methods.WHOIS.RegisteredPatterns) > 0 {
		patterns.Registered = cfg.Methods.WHOIS.RegisteredPatterns
	}
	return patterns
}

func toMethods(names []string) []core.Method {
	methods := make([]core.Method, 0, len(names))
	for _, name := range names {
		methods = append(methods, core.Method(name))
	}
	return methods
}
