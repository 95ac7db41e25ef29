// Package metrics holds Prometheus instruments that are used across the
// engine.  All collectors are registered with the global registry, so
// importing this package in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	DomainCacheRefreshTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "domain_cache_refresh_total",
			Help: "Cumulative number of successful domain-mapping cache refreshes.",
		})

	DomainCacheRefreshErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "domain_cache_refresh_errors_total",
			Help: "Cumulative number of failed domain-mapping cache refreshes.",
		})

	DomainCacheStaleServesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "domain_cache_stale_serves_total",
			Help: "Times an expired snapshot was served because a refresh failed.",
		})

	HostResolveHitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "host_resolve_hits_total",
			Help: "Inbound requests whose host mapped to a tenant.",
		})

	HostResolveMissesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "host_resolve_misses_total",
			Help: "Inbound requests whose host matched no tenant mapping.",
		})

	TemplateApplyTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "template_apply_total",
			Help: "Cumulative number of successful template applications.",
		})

	TemplateApplyFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "template_apply_failures_total",
			Help: "Cumulative number of failed template applications.",
		})

	TemplateApplyRestoresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "template_apply_restores_total",
			Help: "Best-effort page restores attempted after a failed application.",
		})
)

func init() {
	prometheus.MustRegister(
		DomainCacheRefreshTotal,
		DomainCacheRefreshErrorsTotal,
		DomainCacheStaleServesTotal,
		HostResolveHitsTotal,
		HostResolveMissesTotal,
		TemplateApplyTotal,
		TemplateApplyFailuresTotal,
		TemplateApplyRestoresTotal,
	)
}
