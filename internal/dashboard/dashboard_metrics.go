package dashboard

import (
	"errors"

	dashboarderrors "hris-admin/internal/dashboard/errors"
	"hris-admin/internal/shared/apperror"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeSuccess    = "success"
	outcomeStale      = "stale"
	outcomeCancelled  = "cancelled"
	outcomeNetwork    = "network_failure"
	outcomeRejected   = "backend_rejection"
	outcomeValidation = "validation_failure"
	outcomeError      = "error"
)

// Metrics counts gateway outcomes per action.
type Metrics struct {
	actions *prometheus.CounterVec
}

// NewMetrics registers the collectors on reg. A nil reg skips registration.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dashboard",
			Subsystem: "gateway",
			Name:      "actions_total",
			Help:      "Remote employee actions issued by the dashboard, by outcome.",
		}, []string{"action", "outcome"}),
	}
	if reg != nil {
		reg.MustRegister(m.actions)
	}
	return m
}

func (m *Metrics) observe(action, outcome string) {
	if m == nil {
		return
	}
	m.actions.WithLabelValues(action, outcome).Inc()
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return outcomeSuccess
	case errors.Is(err, dashboarderrors.ErrActionCancelled):
		return outcomeCancelled
	case errors.Is(err, dashboarderrors.ErrNetworkFailure):
		return outcomeNetwork
	case errors.Is(err, dashboarderrors.ErrBackendRejection):
		return outcomeRejected
	case errors.Is(err, dashboarderrors.ErrValidationFailure):
		return outcomeValidation
	default:
		return outcomeError
	}
}

func errorCode(err error) string {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}
