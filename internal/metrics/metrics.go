// Package metrics exposes Prometheus collectors for the outreach pipeline.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	placesFoundTotal     prometheus.Counter
	leadsBuiltTotal      *prometheus.CounterVec
	pagesHarvestedTotal  prometheus.Counter
	emailsHarvestedTotal prometheus.Counter
	sendsTotal           *prometheus.CounterVec

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		placesFoundTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "outreach_places_found_total",
				Help: "Total number of place summaries returned by nearby search.",
			},
		)

		leadsBuiltTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "outreach_leads_built_total",
				Help: "Total number of leads built, labeled by status.",
			},
			[]string{"status"},
		)

		pagesHarvestedTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "outreach_pages_harvested_total",
				Help: "Total number of websites processed while harvesting emails.",
			},
		)

		emailsHarvestedTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "outreach_emails_harvested_total",
				Help: "Total number of contact emails harvested.",
			},
		)

		sendsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "outreach_sends_total",
				Help: "Total send-loop outcomes, labeled by result.",
			},
			[]string{"result"},
		)
	})
}

// Handler returns an http.Handler exposing the Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObservePlacesFound adds to the nearby-search result counter.
func ObservePlacesFound(n int) {
	if placesFoundTotal != nil && n > 0 {
		placesFoundTotal.Add(float64(n))
	}
}

// ObserveLeadBuilt counts one built lead by status.
func ObserveLeadBuilt(status string) {
	if leadsBuiltTotal != nil {
		leadsBuiltTotal.WithLabelValues(status).Inc()
	}
}

// ObserveHarvest counts one harvested website and its yielded emails.
func ObserveHarvest(emailCount int) {
	if pagesHarvestedTotal != nil {
		pagesHarvestedTotal.Inc()
	}
	if emailsHarvestedTotal != nil && emailCount > 0 {
		emailsHarvestedTotal.Add(float64(emailCount))
	}
}

// ObserveSend counts one send-loop outcome: sent, failed, or skipped.
func ObserveSend(result string) {
	if sendsTotal != nil {
		sendsTotal.WithLabelValues(result).Inc()
	}
}
