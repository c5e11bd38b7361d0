// Package metrics defines Prometheus metrics for the registration service,
// covering logins, submissions, uploads and rate limiting.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	LoginAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "intersectionreg_login_attempts_total",
		Help: "Total number of admin login attempts by outcome",
	}, []string{"outcome"})
	RegistrationsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "intersectionreg_registrations_created_total",
		Help: "Total number of registrations stored",
	})
	RegistrationsRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "intersectionreg_registrations_rejected_total",
		Help: "Total number of registration submissions rejected, by reason",
	}, []string{"reason"})
	UploadsStored = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "intersectionreg_uploads_stored_total",
		Help: "Total number of attachments stored, by category",
	}, []string{"category"})
	RateLimited = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "intersectionreg_rate_limited_total",
		Help: "Total number of API requests rejected by the rate limiter",
	})
	AdminRedirects = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "intersectionreg_admin_redirects_total",
		Help: "Total number of admin page navigations redirected to the login page",
	})
)

func init() {
	prometheus.MustRegister(LoginAttempts)
	prometheus.MustRegister(RegistrationsCreated)
	prometheus.MustRegister(RegistrationsRejected)
	prometheus.MustRegister(UploadsStored)
	prometheus.MustRegister(RateLimited)
	prometheus.MustRegister(AdminRedirects)
}

// Handler returns an http.Handler exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
