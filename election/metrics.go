// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/danielhkuo/team-election/cache"
)

const metricNamePrefix = "election_"

type metrics struct {
	tokensTotal      *prometheus.CounterVec
	votesTotal       *prometheus.CounterVec
	validationsTotal *prometheus.CounterVec
}

func (s *Service) registerMetrics(registry prometheus.Registerer) {
	factory := promauto.With(registry)

	s.metrics.tokensTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: metricNamePrefix + "token_requests_total",
		Help: "Total number of token requests by outcome",
	}, []string{"outcome"})
	s.metrics.votesTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: metricNamePrefix + "votes_total",
		Help: "Total number of vote attempts by outcome",
	}, []string{"outcome"})
	s.metrics.validationsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: metricNamePrefix + "token_validations_total",
		Help: "Total number of token validations by outcome",
	}, []string{"outcome"})

	registerCacheMetrics(factory, "token", s.tokens.Stats)
	registerCacheMetrics(factory, "token_owner", s.owners.Stats)
	registerCacheMetrics(factory, "vote_state", s.votes.Stats)
}

func registerCacheMetrics(factory promauto.Factory, name string, stats func() cache.Stats) {
	labels := prometheus.Labels{"cache": name}
	factory.NewCounterFunc(prometheus.CounterOpts{
		Name:        metricNamePrefix + "cache_hits_total",
		Help:        "Total number of cache hits",
		ConstLabels: labels,
	}, func() float64 { return float64(stats().Hits) })
	factory.NewCounterFunc(prometheus.CounterOpts{
		Name:        metricNamePrefix + "cache_misses_total",
		Help:        "Total number of cache misses",
		ConstLabels: labels,
	}, func() float64 { return float64(stats().Misses) })
}
