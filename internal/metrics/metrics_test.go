package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMonitor_NilIsNoop(t *testing.T) {
	var m *Monitor
	assert.NotPanics(t, func() {
		m.HoldStarted()
		m.HoldEnded(OutcomeExpired, time.Second)
		m.SeatToggled(true)
		m.SeatsBooked(3)
		m.SetSeatCounts(1, 2, 3)
	})
}

func TestMonitor_Records(t *testing.T) {
	m := NewMonitor()

	started := testutil.ToFloat64(holdEpisodes.WithLabelValues("started"))
	m.HoldStarted()
	assert.Equal(t, started+1, testutil.ToFloat64(holdEpisodes.WithLabelValues("started")))

	booked := testutil.ToFloat64(seatsBooked)
	m.SeatsBooked(2)
	m.SeatsBooked(0)
	assert.Equal(t, booked+2, testutil.ToFloat64(seatsBooked))

	ignored := testutil.ToFloat64(seatToggles.WithLabelValues("ignored"))
	m.SeatToggled(false)
	assert.Equal(t, ignored+1, testutil.ToFloat64(seatToggles.WithLabelValues("ignored")))

	m.SetSeatCounts(190, 5, 3)
	assert.Equal(t, float64(190), testutil.ToFloat64(seatsByStatus.WithLabelValues("available")))
	assert.Equal(t, float64(5), testutil.ToFloat64(seatsByStatus.WithLabelValues("held")))
	assert.Equal(t, float64(3), testutil.ToFloat64(seatsByStatus.WithLabelValues("booked")))
}
