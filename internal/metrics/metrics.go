// Package metrics holds the Prometheus instruments exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "huepanel"

var (
	BridgeRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bridge_requests_total",
		Help:      "Requests sent to the hue bridge by method and outcome.",
	}, []string{"method", "outcome"})

	EffectTicks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "effect_ticks_total",
		Help:      "Effect ticks computed and applied, by effect type.",
	}, []string{"type"})

	ActiveEffects = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_effects",
		Help:      "Effects currently registered.",
	})

	TimersFired = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "timers_total",
		Help:      "Timers by final status.",
	}, []string{"status"})

	PowerSamples = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "power_sampler_ticks_total",
		Help:      "Power sampler ticks by result.",
	}, []string{"result"})

	TotalWatts = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "estimated_total_watts",
		Help:      "Estimated consumption of all lights at the last sample.",
	})
)
