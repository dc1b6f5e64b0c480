package health

import (
	"context"
	"errors"
	"net/http"

	"github.com/kailas-cloud/docchat/internal/domain"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates the document service answers but refuses our requests.
	Degraded Status = "degraded"
	// Unhealthy indicates the document service is unreachable.
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
	CheckDocService  = "docservice"
	CheckCredentials = "credentials"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	probe DocServiceProbe
}

// New creates a Service.
func New(probe DocServiceProbe) *Service {
	return &Service{probe: probe}
}

// Check probes the document service.
// Any answer, even a rejection, counts as reachable. Only a failed round trip
// or an unreadable answer marks it down.
func (s *Service) Check(ctx context.Context) Report {
	checks := map[string]CheckResult{
		CheckDocService:  CheckOK,
		CheckCredentials: CheckOK,
	}

	_, err := s.probe.ListCollections(ctx)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrRemoteRejected):
		if st := domain.StatusOf(err); st == http.StatusUnauthorized || st == http.StatusForbidden {
			checks[CheckCredentials] = CheckError
		}
	default:
		checks[CheckDocService] = CheckError
		checks[CheckCredentials] = CheckError
	}

	status := Healthy
	switch {
	case checks[CheckDocService] == CheckError:
		status = Unhealthy
	case checks[CheckCredentials] == CheckError:
		status = Degraded
	}

	return Report{Status: status, Checks: checks}
}
