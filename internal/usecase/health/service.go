// Package health aggregates component liveness checks.
package health

import "context"

// Status is the aggregated health of the service.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates the store works but a provider check failed.
	Degraded Status = "degraded"
	// Unhealthy indicates the vector store is unreachable.
	Unhealthy Status = "error"
)

// CheckResult is a single component outcome.
type CheckResult string

const (
	// CheckOK indicates a passing check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing check.
	CheckError CheckResult = "error"
)

// Component names reported in checks.
const (
	ComponentStore     = "vector_store"
	ComponentEmbedding = "embedding"
)

// Report aggregates check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	store     StorePinger
	embedding EmbeddingChecker
}

// New creates a Service. embedding can be nil.
func New(store StorePinger, embedding EmbeddingChecker) *Service {
	return &Service{store: store, embedding: embedding}
}

// Check probes each component. The store is load-bearing: if it is down the
// whole service is down. A failing embedding provider only degrades, since
// stats and stored data remain readable.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)
	status := Healthy

	if err := s.store.Ping(ctx); err != nil {
		checks[ComponentStore] = CheckError
		status = Unhealthy
	} else {
		checks[ComponentStore] = CheckOK
	}

	if s.embedding != nil {
		if err := s.embedding.HealthCheck(ctx); err != nil {
			checks[ComponentEmbedding] = CheckError
			if status == Healthy {
				status = Degraded
			}
		} else {
			checks[ComponentEmbedding] = CheckOK
		}
	}

	return Report{Status: status, Checks: checks}
}
