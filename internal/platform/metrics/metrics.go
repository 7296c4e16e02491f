package metrics

import (
	"errors"

	"dog-kennel/internal/domain/errs"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	Namespace = "kennel"

	LabelResult = "result"
	LabelMethod = "method"
	LabelRoute  = "route"
	LabelStatus = "status"
)

// Valores de LabelResult.
const (
	ResultSuccess      = "success"
	ResultAlreadyOwned = "already_owned"
	ResultDenied       = "denied"
	ResultInvalid      = "invalid"
	ResultError        = "error"
	ResultRetry        = "retry"
	ResultFailed       = "failed"
)

var DogClaims = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "dog_claims_total",
		Help:      "Dog claim attempts by result",
	},
	[]string{LabelResult},
)

var DogReleases = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "dog_releases_total",
		Help:      "Dog release attempts by result",
	},
	[]string{LabelResult},
)

var Logins = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "logins_total",
		Help:      "Login attempts by result",
	},
	[]string{LabelResult},
)

var Registrations = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "registrations_total",
		Help:      "Registration attempts by result",
	},
	[]string{LabelResult},
)

var PasswordResets = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "password_resets_total",
		Help:      "Password reset requests by result",
	},
	[]string{LabelResult},
)

var Notifications = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "notifications_total",
		Help:      "Outbox delivery attempts by result",
	},
	[]string{LabelResult},
)

var HTTPRequests = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route and status",
	},
	[]string{LabelMethod, LabelRoute, LabelStatus},
)

var HTTPDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by method and route",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{LabelMethod, LabelRoute},
)

// ResultFor clasifica el error de una operación para LabelResult.
func ResultFor(err error) string {
	switch {
	case err == nil:
		return ResultSuccess
	case errors.Is(err, errs.ErrAlreadyOwned):
		return ResultAlreadyOwned
	case errors.Is(err, errs.ErrPermission), errors.Is(err, errs.ErrInvalidCredentials):
		return ResultDenied
	case errors.Is(err, errs.ErrValidation), errors.Is(err, errs.ErrNotFound):
		return ResultInvalid
	default:
		return ResultError
	}
}
