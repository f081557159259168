package health

import (
	"context"
	"errors"

	"github.com/kailas-cloud/assetdex/internal/db"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy means storage answers and the asset index is complete.
	Healthy Status = "ok"
	// Degraded means queries run but may miss assets (index absent or building).
	Degraded Status = "degraded"
	// Unhealthy means storage does not answer.
	Unhealthy Status = "error"
)

// CheckResult is the outcome of one component check.
type CheckResult string

const (
	CheckOK       CheckResult = "ok"
	CheckError    CheckResult = "error"
	CheckBuilding CheckResult = "building"
)

// Component names used as Report.Checks keys.
const (
	ComponentDatabase = "database"
	ComponentIndex    = "index"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	db    DBPinger
	index IndexChecker
}

// New creates a Service. index can be nil (storage without a search index).
func New(db DBPinger, index IndexChecker) *Service {
	return &Service{db: db, index: index}
}

// Check pings storage and, when present, the asset index. The index is not
// probed while storage is down.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult, 2)

	if err := s.db.Ping(ctx); err != nil {
		checks[ComponentDatabase] = CheckError
		if s.index != nil {
			checks[ComponentIndex] = CheckError
		}
		return Report{Status: Unhealthy, Checks: checks}
	}
	checks[ComponentDatabase] = CheckOK

	status := Healthy
	if s.index != nil {
		switch err := s.index.IndexReady(ctx); {
		case err == nil:
			checks[ComponentIndex] = CheckOK
		case errors.Is(err, db.ErrIndexBuilding):
			checks[ComponentIndex] = CheckBuilding
			status = Degraded
		default:
			checks[ComponentIndex] = CheckError
			status = Degraded
		}
	}

	return Report{Status: status, Checks: checks}
}
