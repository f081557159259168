package assetdex

import (
	"context"

	healthuc "github.com/kailas-cloud/assetdex/internal/usecase/health"
)

// Aggregated health states reported in HealthStatus.Status.
const (
	HealthOK       = string(healthuc.Healthy)
	HealthDegraded = string(healthuc.Degraded)
	HealthError    = string(healthuc.Unhealthy)
)

// HealthStatus is a snapshot of storage health.
//
// Checks is keyed by "database" and, for the redis driver, "index". Values
// are "ok", "error" or "building" (index still scanning existing assets;
// queries run but may miss records).
type HealthStatus struct {
	Status string
	Checks map[string]string
}

// Ready reports whether queries see the complete catalog.
func (h HealthStatus) Ready() bool { return h.Status == HealthOK }

// Health probes storage. It never fails; problems show up in the report.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for component, result := range report.Checks {
		checks[component] = string(result)
	}
	return HealthStatus{Status: string(report.Status), Checks: checks}
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}
