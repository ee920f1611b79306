package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/stimpy3/fareFlow/internal/model"
	"github.com/stimpy3/fareFlow/internal/queue"
	"github.com/stimpy3/fareFlow/internal/repository"
)

var epoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock { return &fakeClock{t: epoch} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

// at moves the clock to epoch+ms.
func (c *fakeClock) at(ms int64) {
	c.mu.Lock()
	c.t = epoch.Add(time.Duration(ms) * time.Millisecond)
	c.mu.Unlock()
}

type manualTimer struct {
	delay   time.Duration
	fn      func()
	stopped bool
}

type manualScheduler struct {
	mu     sync.Mutex
	timers []*manualTimer
}

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) func() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTimer{delay: d, fn: f}
	s.timers = append(s.timers, t)
	return func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		was := !t.stopped
		t.stopped = true
		return was
	}
}

func (s *manualScheduler) pending() []*manualTimer {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*manualTimer
	for _, t := range s.timers {
		if !t.stopped {
			out = append(out, t)
		}
	}
	return out
}

func (s *manualScheduler) all() []*manualTimer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*manualTimer(nil), s.timers...)
}

type recordingPublisher struct {
	confirmed chan queue.BookingConfirmedEvent
	expired   chan queue.HoldExpiredEvent
}

func newRecordingPublisher() *recordingPublisher {
	return &recordingPublisher{
		confirmed: make(chan queue.BookingConfirmedEvent, 8),
		expired:   make(chan queue.HoldExpiredEvent, 8),
	}
}

func (p *recordingPublisher) PublishBookingConfirmed(_ context.Context, ev queue.BookingConfirmedEvent) error {
	p.confirmed <- ev
	return nil
}

func (p *recordingPublisher) PublishHoldExpired(_ context.Context, ev queue.HoldExpiredEvent) error {
	p.expired <- ev
	return nil
}

type fixture struct {
	coord     *Coordinator
	clock     *fakeClock
	sched     *manualScheduler
	publisher *recordingPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	seats, err := repository.GenerateSeats(198, 5000)
	require.NoError(t, err)
	reg, err := repository.NewSeatRegistry(seats)
	require.NoError(t, err)

	log, _ := test.NewNullLogger()
	f := &fixture{
		clock:     newFakeClock(),
		sched:     &manualScheduler{},
		publisher: newRecordingPublisher(),
	}
	n := 0
	f.coord = NewCoordinator(reg, 60*time.Second,
		WithClock(f.clock.Now),
		WithAfterFunc(f.sched.AfterFunc),
		WithPublisher(f.publisher),
		WithLogger(log),
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		}),
	)
	t.Cleanup(f.coord.Close)
	return f
}

func seatStatus(t *testing.T, st State, id string) model.SeatStatus {
	t.Helper()
	for _, s := range st.Seats {
		if s.SeatID == id {
			return s.Status
		}
	}
	t.Fatalf("seat %s not in state", id)
	return ""
}

func heldCount(st State) int {
	return repository.CountSeats(st.Seats).Held
}

func expiresAtMs(t *testing.T, st State) int64 {
	t.Helper()
	require.NotNil(t, st.Session.ExpiresAt)
	return st.Session.ExpiresAt.Sub(epoch).Milliseconds()
}
