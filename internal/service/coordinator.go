package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/stimpy3/fareFlow/internal/metrics"
	"github.com/stimpy3/fareFlow/internal/model"
	"github.com/stimpy3/fareFlow/internal/queue"
	"github.com/stimpy3/fareFlow/internal/repository"
)

// AfterFunc schedules f to run once after d and returns a function that
// cancels it.  time.AfterFunc satisfies it through StdAfterFunc.
type AfterFunc func(d time.Duration, f func()) (stop func() bool)

// StdAfterFunc schedules f on the runtime timer.
func StdAfterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

// EventPublisher receives seat events once the state change that caused
// them has been committed.
type EventPublisher interface {
	PublishBookingConfirmed(ctx context.Context, ev queue.BookingConfirmedEvent) error
	PublishHoldExpired(ctx context.Context, ev queue.HoldExpiredEvent) error
}

// State is a consistent copy of the cabin and the hold session.
type State struct {
	Seats   []model.Seat      `json:"seats"`
	Session model.HoldSession `json:"session"`
}

// Coordinator owns the seat registry and the hold controller and is the
// only writer of either.  Each operation runs under one lock, so the
// seat update of a click is always committed before the hold session
// looks at the held count, and an expiry can never interleave with a
// confirm.
//
// A deadline callback is armed when an episode starts and cancelled on
// every exit.  Operations also expire an overdue episode before doing
// anything else, so correctness never depends on the callback firing on
// time.
type Coordinator struct {
	mu        sync.Mutex
	registry  *repository.SeatRegistry
	hold      *HoldController
	now       func() time.Time
	afterFunc AfterFunc
	stopTimer func() bool
	publisher EventPublisher
	monitor   *metrics.Monitor
	log       logrus.FieldLogger
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

// WithAfterFunc replaces the deadline scheduler.  Passing nil disables
// deadline callbacks and leaves expiry to Sweep.
func WithAfterFunc(f AfterFunc) Option {
	return func(c *Coordinator) { c.afterFunc = f }
}

// WithPublisher sends confirm and expiry events to p.
func WithPublisher(p EventPublisher) Option {
	return func(c *Coordinator) { c.publisher = p }
}

// WithMonitor records metrics on m.
func WithMonitor(m *metrics.Monitor) Option {
	return func(c *Coordinator) { c.monitor = m }
}

// WithLogger replaces the standard logrus logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Coordinator) { c.log = l }
}

// WithIDGenerator replaces the uuid generator used for episode and
// booking ids.
func WithIDGenerator(newID func() string) Option {
	return func(c *Coordinator) { c.hold.newID = newID }
}

// NewCoordinator builds a Coordinator over registry whose hold episodes
// last holdDuration.
func NewCoordinator(registry *repository.SeatRegistry, holdDuration time.Duration, opts ...Option) *Coordinator {
	c := &Coordinator{
		registry:  registry,
		hold:      NewHoldController(holdDuration, uuid.NewString),
		now:       time.Now,
		afterFunc: StdAfterFunc,
		log:       logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.recordCounts()
	return c
}

// ToggleSeat applies a click on seatID and re-evaluates the hold
// session from the resulting seats.  Unknown and booked seats leave
// everything unchanged.
func (c *Coordinator) ToggleSeat(ctx context.Context, seatID string) State {
	c.mu.Lock()
	now := c.now()
	expired, hasExpired := c.expireIfDueLocked(now)

	_, changed := c.registry.Toggle(seatID)
	c.monitor.SeatToggled(changed)
	if changed {
		lasted := c.hold.Elapsed(now)
		episode := c.hold.Session().EpisodeID
		switch c.hold.Observe(c.registry.CountByStatus(model.SeatHeld), now) {
		case TransitionArmed:
			session := c.hold.Session()
			c.armTimerLocked(session.EpisodeID, *session.ExpiresAt, now)
			c.monitor.HoldStarted()
			c.log.WithFields(logrus.Fields{
				"episode_id": session.EpisodeID,
				"seat_id":    seatID,
				"expires_at": session.ExpiresAt.UTC().Format(time.RFC3339),
			}).Info("hold started")
		case TransitionReleased:
			c.cancelTimerLocked()
			c.monitor.HoldEnded(metrics.OutcomeReleased, lasted)
			c.log.WithFields(logrus.Fields{
				"episode_id": episode,
				"seat_id":    seatID,
			}).Info("hold released")
		}
		c.recordCounts()
	}
	state := c.stateLocked()
	c.mu.Unlock()

	if hasExpired {
		c.publishExpired(ctx, expired)
	}
	return state
}

// ConfirmBooking books every held seat and ends the episode in one
// step.  With nothing held it books nothing and returns an empty
// Booking.
func (c *Coordinator) ConfirmBooking(ctx context.Context) model.Booking {
	c.mu.Lock()
	now := c.now()
	expired, hasExpired := c.expireIfDueLocked(now)

	session := c.hold.Session()
	lasted := c.hold.Elapsed(now)
	ids := c.registry.BulkUpdateStatus(model.SeatHeld, model.SeatBooked)
	booking := model.Booking{
		EpisodeID:   session.EpisodeID,
		SeatIDs:     ids,
		TotalAmount: c.sumPricesLocked(ids),
		ConfirmedAt: now.UTC(),
	}
	if booking.SeatIDs == nil {
		booking.SeatIDs = []string{}
	}
	if c.hold.Reset() == TransitionReleased {
		c.cancelTimerLocked()
		c.monitor.HoldEnded(metrics.OutcomeConfirmed, lasted)
	}
	if !booking.Empty() {
		booking.BookingID = c.hold.newID()
		c.monitor.SeatsBooked(len(ids))
		c.recordCounts()
		c.log.WithFields(logrus.Fields{
			"booking_id": booking.BookingID,
			"episode_id": booking.EpisodeID,
			"seats":      len(ids),
			"total":      booking.TotalAmount,
		}).Info("booking confirmed")
	}
	c.mu.Unlock()

	if hasExpired {
		c.publishExpired(ctx, expired)
	}
	if !booking.Empty() {
		c.publishConfirmed(ctx, booking)
	}
	return booking
}

// ClearSelection returns every held seat to the cabin and ends the
// episode.  It is a no-op when nothing is held.
func (c *Coordinator) ClearSelection(ctx context.Context) State {
	c.mu.Lock()
	now := c.now()
	expired, hasExpired := c.expireIfDueLocked(now)

	lasted := c.hold.Elapsed(now)
	episode := c.hold.Session().EpisodeID
	ids := c.registry.BulkUpdateStatus(model.SeatHeld, model.SeatAvailable)
	if c.hold.Reset() == TransitionReleased {
		c.cancelTimerLocked()
		c.monitor.HoldEnded(metrics.OutcomeCleared, lasted)
		c.log.WithFields(logrus.Fields{
			"episode_id": episode,
			"seats":      len(ids),
		}).Info("selection cleared")
	}
	if len(ids) > 0 {
		c.recordCounts()
	}
	state := c.stateLocked()
	c.mu.Unlock()

	if hasExpired {
		c.publishExpired(ctx, expired)
	}
	return state
}

// Sweep expires the running episode if its deadline has passed,
// returning every held seat to the cabin.  It reports whether an
// episode expired.
func (c *Coordinator) Sweep(ctx context.Context) bool {
	c.mu.Lock()
	expired, ok := c.expireIfDueLocked(c.now())
	c.mu.Unlock()

	if ok {
		c.publishExpired(ctx, expired)
	}
	return ok
}

// State returns a copy of the seats and the session.
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

// Now reads the coordinator's clock.
func (c *Coordinator) Now() time.Time { return c.now() }

// HoldDuration is the length of every hold episode.
func (c *Coordinator) HoldDuration() time.Duration { return c.hold.Duration() }

// Close cancels a pending deadline callback.
func (c *Coordinator) Close() {
	c.mu.Lock()
	c.cancelTimerLocked()
	c.mu.Unlock()
}

func (c *Coordinator) stateLocked() State {
	seats := c.registry.Snapshot()
	cp := make([]model.Seat, len(seats))
	copy(cp, seats)
	return State{Seats: cp, Session: c.hold.Session()}
}

func (c *Coordinator) expireIfDueLocked(now time.Time) (queue.HoldExpiredEvent, bool) {
	if !c.hold.Expired(now) {
		return queue.HoldExpiredEvent{}, false
	}
	episode := c.hold.Session().EpisodeID
	lasted := c.hold.Elapsed(now)
	ids := c.registry.BulkUpdateStatus(model.SeatHeld, model.SeatAvailable)
	c.hold.Reset()
	c.cancelTimerLocked()
	c.monitor.HoldEnded(metrics.OutcomeExpired, lasted)
	c.recordCounts()
	c.log.WithFields(logrus.Fields{
		"episode_id": episode,
		"seats":      len(ids),
	}).Info("hold expired")

	if ids == nil {
		ids = []string{}
	}
	return queue.HoldExpiredEvent{
		EpisodeID: episode,
		SeatIDs:   ids,
		ExpiredAt: now.UTC().Format(time.RFC3339),
	}, true
}

func (c *Coordinator) armTimerLocked(episode string, deadline, now time.Time) {
	c.cancelTimerLocked()
	if c.afterFunc == nil {
		return
	}
	c.stopTimer = c.afterFunc(deadline.Sub(now), func() { c.onDeadline(episode) })
}

func (c *Coordinator) cancelTimerLocked() {
	if c.stopTimer != nil {
		c.stopTimer()
		c.stopTimer = nil
	}
}

// onDeadline runs on the timer goroutine.  A callback that outlived its
// episode does nothing; one that fired early re-arms for the rest.
func (c *Coordinator) onDeadline(episode string) {
	c.mu.Lock()
	session := c.hold.Session()
	if !session.Active || session.EpisodeID != episode {
		c.mu.Unlock()
		return
	}
	now := c.now()
	expired, ok := c.expireIfDueLocked(now)
	if !ok {
		c.armTimerLocked(episode, *session.ExpiresAt, now)
	}
	c.mu.Unlock()

	if ok {
		c.publishExpired(context.Background(), expired)
	}
}

func (c *Coordinator) sumPricesLocked(ids []string) int64 {
	var total int64
	for _, id := range ids {
		if s, err := c.registry.Get(id); err == nil {
			total += s.Price
		}
	}
	return total
}

func (c *Coordinator) recordCounts() {
	counts := c.registry.Counts()
	c.monitor.SetSeatCounts(counts.Available, counts.Held, counts.Booked)
}

func (c *Coordinator) publishConfirmed(ctx context.Context, b model.Booking) {
	if c.publisher == nil {
		return
	}
	ev := queue.BookingConfirmedEvent{
		BookingID:   b.BookingID,
		EpisodeID:   b.EpisodeID,
		SeatIDs:     b.SeatIDs,
		SeatCount:   len(b.SeatIDs),
		TotalAmount: b.TotalAmount,
		ConfirmedAt: b.ConfirmedAt.Format(time.RFC3339),
	}
	go func() {
		if err := c.publisher.PublishBookingConfirmed(context.WithoutCancel(ctx), ev); err != nil {
			c.log.WithError(err).WithField("booking_id", ev.BookingID).Warn("publish booking.confirmed failed")
		}
	}()
}

func (c *Coordinator) publishExpired(ctx context.Context, ev queue.HoldExpiredEvent) {
	if c.publisher == nil {
		return
	}
	go func() {
		if err := c.publisher.PublishHoldExpired(context.WithoutCancel(ctx), ev); err != nil {
			c.log.WithError(err).WithField("episode_id", ev.EpisodeID).Warn("publish hold.expired failed")
		}
	}()
}
