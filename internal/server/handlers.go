package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/tldsweep/tldsweep/internal/core"
	"github.com/tldsweep/tldsweep/internal/core/engine"
)

const maxResolveDomains = 500

type resolveRequest struct {
	Domains []string `json:"domains"`
	Include []string `json:"include,omitempty"`
	Exclude []string `json:"exclude,omitempty"`
}

type resolveResponse struct {
	Results   []*core.DomainResult `json:"results"`
	Summary   core.RunSummary      `json:"summary"`
	Cancelled bool                 `json:"cancelled,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleResolve runs the method chain for the posted domains and returns
// results in the order the domains were given.
func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body: " + err.Error()})
		return
	}
	if len(req.Domains) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "domains is required"})
		return
	}
	if len(req.Domains) > maxResolveDomains {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "too many domains in one request"})
		return
	}

	methods, err := s.deps.Registry.ActiveMethods(toMethods(req.Include), toMethods(req.Exclude))
	if err != nil {
		var cfgErr *engine.ConfigError
		if errors.As(err, &cfgErr) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		s.deps.Logger.Error("method selection failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	candidates := make([]core.DomainCandidate, 0, len(req.Domains))
	for _, domain := range req.Domains {
		candidates = append(candidates, core.NewCandidate(domain))
	}

	run := s.deps.NewRun()
	scheduler := &engine.Scheduler{
		Resolver: &engine.Resolver{Registry: s.deps.Registry, Logger: s.deps.Logger, Metrics: s.metrics},
		Workers:  s.deps.Workers,
		Logger:   s.deps.Logger,
	}

	results, err := scheduler.ResolveAll(r.Context(), run, methods, candidates)
	cancelled := errors.Is(err, engine.ErrRunCancelled)
	if err != nil && !cancelled {
		s.deps.Logger.Error("resolution failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	if s.deps.PersistQuota != nil {
		// Background context: spent quota must be recorded even when the
		// client has gone away.
		s.deps.PersistQuota(context.Background(), run)
	}
	for _, result := range results {
		s.metrics.ObserveResult(result.FinalStatus.String())
	}

	writeJSON(w, http.StatusOK, resolveResponse{
		Results:   results,
		Summary:   run.Summary(),
		Cancelled: cancelled,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func toMethods(names []string) []core.Method {
	methods := make([]core.Method, 0, len(names))
	for _, name := range names {
		methods = append(methods, core.Method(name))
	}
	return methods
}
