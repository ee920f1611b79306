// Package metrics records seat and hold activity as Prometheus series.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Hold episode outcomes.
const (
	OutcomeConfirmed = "confirmed"
	OutcomeCleared   = "cleared"
	OutcomeExpired   = "expired"
	OutcomeReleased  = "released" // every held seat deselected
)

var (
	holdEpisodes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fareflow_hold_episodes_total",
			Help: "Hold episodes by lifecycle event",
		},
		[]string{"event"},
	)

	seatToggles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fareflow_seat_toggles_total",
			Help: "Seat clicks by result",
		},
		[]string{"result"},
	)

	seatsBooked = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fareflow_seats_booked_total",
			Help: "Seats moved to booked",
		},
	)

	seatsByStatus = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "fareflow_seats",
			Help: "Current number of seats per status",
		},
		[]string{"status"},
	)

	holdDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fareflow_hold_duration_seconds",
			Help:    "How long hold episodes lasted",
			Buckets: prometheus.LinearBuckets(5, 5, 12),
		},
		[]string{"outcome"},
	)
)

// Monitor is the write side of the seat metrics.  A nil *Monitor is
// valid and records nothing.
type Monitor struct{}

// NewMonitor returns a Monitor backed by the default registry.
func NewMonitor() *Monitor { return &Monitor{} }

// HoldStarted counts a new hold episode.
func (m *Monitor) HoldStarted() {
	if m == nil {
		return
	}
	holdEpisodes.WithLabelValues("started").Inc()
}

// HoldEnded counts the end of an episode and how long it lasted.
func (m *Monitor) HoldEnded(outcome string, lasted time.Duration) {
	if m == nil {
		return
	}
	holdEpisodes.WithLabelValues(outcome).Inc()
	holdDuration.WithLabelValues(outcome).Observe(lasted.Seconds())
}

// SeatToggled counts a click; changed is false for ignored clicks
// (booked or unknown seats).
func (m *Monitor) SeatToggled(changed bool) {
	if m == nil {
		return
	}
	result := "changed"
	if !changed {
		result = "ignored"
	}
	seatToggles.WithLabelValues(result).Inc()
}

// SeatsBooked counts newly booked seats.
func (m *Monitor) SeatsBooked(n int) {
	if m == nil || n == 0 {
		return
	}
	seatsBooked.Add(float64(n))
}

// SetSeatCounts publishes the current per-status totals.
func (m *Monitor) SetSeatCounts(available, held, booked int) {
	if m == nil {
		return
	}
	seatsByStatus.WithLabelValues("available").Set(float64(available))
	seatsByStatus.WithLabelValues("held").Set(float64(held))
	seatsByStatus.WithLabelValues("booked").Set(float64(booked))
}
