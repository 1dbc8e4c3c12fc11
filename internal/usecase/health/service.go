package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates the index is served but a dependency is failing.
	Degraded Status = "degraded"
	// Unhealthy indicates no index is being served.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Check names.
const (
	CheckIndex  = "index"
	CheckSource = "source"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	index  IndexReadiness
	source SourcePinger
}

// New creates a Service. source can be nil when the document source has no
// remote store to ping.
func New(index IndexReadiness, source SourcePinger) *Service {
	return &Service{index: index, source: source}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)
	status := Healthy

	if s.index.Ready() {
		checks[CheckIndex] = CheckOK
	} else {
		checks[CheckIndex] = CheckError
		status = Unhealthy
	}

	if s.source != nil {
		if err := s.source.Ping(ctx); err != nil {
			checks[CheckSource] = CheckError
			if status == Healthy {
				status = Degraded
			}
		} else {
			checks[CheckSource] = CheckOK
		}
	}

	return Report{Status: status, Checks: checks}
}
