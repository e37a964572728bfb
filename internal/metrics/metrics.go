// Package metrics exposes Prometheus counters for credential issuance,
// verification outcomes and revocations.
package metrics

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ferdiebergado/tokenkit/internal/token"
)

const (
	namespace = "tokenkit"

	ResultOK = "ok"
)

type Metrics struct {
	registry *prometheus.Registry

	issued       *prometheus.CounterVec
	verified     *prometheus.CounterVec
	revokedUses  *prometheus.CounterVec
	revoked      prometheus.Counter
	purged       prometheus.Counter
	loginFailure prometheus.Counter
}

// New registers every collector on its own registry, so more than one
// instance can exist in a process (tests).
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		issued: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tokens_issued_total",
			Help:      "Number of credentials issued, by token type and role.",
		}, []string{"type", "role"}),
		verified: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "token_verifications_total",
			Help:      "Number of credential verifications, by token type and result.",
		}, []string{"type", "result"}),
		revokedUses: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "revoked_token_uses_total",
			Help:      "Number of presented credentials that verified but were on the deny-list, by token type.",
		}, []string{"type"}),
		revoked: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tokens_revoked_total",
			Help:      "Number of credentials added to the deny-list.",
		}),
		purged: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "revocations_purged_total",
			Help:      "Number of expired deny-list entries removed.",
		}),
		loginFailure: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "login_failures_total",
			Help:      "Number of rejected login attempts.",
		}),
	}
}

func (m *Metrics) Issued(typ token.Type, role token.Role) {
	m.issued.WithLabelValues(string(typ), role.String()).Inc()
}

// Verified records the outcome of a verification. A nil err counts as ok.
func (m *Metrics) Verified(typ token.Type, err error) {
	m.verified.WithLabelValues(string(typ), Result(err)).Inc()
}

// RevokedUse records a credential that passed verification but had been revoked.
// token_verifications_total already counted it as ok, since the signature and expiry hold.
func (m *Metrics) RevokedUse(typ token.Type) {
	m.revokedUses.WithLabelValues(string(typ)).Inc()
}

func (m *Metrics) Revoked(n int) {
	m.revoked.Add(float64(n))
}

func (m *Metrics) Purged(n int64) {
	m.purged.Add(float64(n))
}

func (m *Metrics) LoginFailed() {
	m.loginFailure.Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Result maps a verification error to its metric label.
func Result(err error) string {
	if err == nil {
		return ResultOK
	}

	var tokErr *token.Error
	if errors.As(err, &tokErr) {
		return tokErr.Kind.Label()
	}

	return "error"
}
