package service

import (
	"time"

	"github.com/stimpy3/fareFlow/internal/model"
)

// Transition reports what an evaluation did to the hold session.
type Transition int

const (
	// TransitionNone means the session kept its state.
	TransitionNone Transition = iota
	// TransitionArmed means an idle session started a new episode.
	TransitionArmed
	// TransitionReleased means a holding session went back to idle.
	TransitionReleased
)

func (t Transition) String() string {
	switch t {
	case TransitionArmed:
		return "armed"
	case TransitionReleased:
		return "released"
	default:
		return "none"
	}
}

// HoldController owns the single hold episode of the cabin.  It is Idle
// while no seat is held and Holding while at least one is, with one
// deadline for the whole episode.  The first seat held sets the
// deadline; later seats never extend it.
//
// HoldController is not safe for concurrent use.
type HoldController struct {
	duration time.Duration
	newID    func() string
	session  model.HoldSession
}

// NewHoldController returns an idle controller whose episodes last
// duration.  newID names each new episode.
func NewHoldController(duration time.Duration, newID func() string) *HoldController {
	return &HoldController{duration: duration, newID: newID}
}

// Duration is the length of every hold episode.
func (c *HoldController) Duration() time.Duration { return c.duration }

// Session returns the current session value.
func (c *HoldController) Session() model.HoldSession { return c.session }

// Holding reports whether an episode is running.
func (c *HoldController) Holding() bool { return c.session.Active }

// Observe re-evaluates the session against the held-seat count taken
// after the triggering mutation was applied.  Only the 0 -> 1 edge arms
// the deadline; dropping back to zero releases the session.
func (c *HoldController) Observe(heldCount int, now time.Time) Transition {
	switch {
	case !c.session.Active && heldCount > 0:
		started := now
		expires := now.Add(c.duration)
		c.session = model.HoldSession{
			Active:    true,
			StartedAt: &started,
			ExpiresAt: &expires,
			EpisodeID: c.newID(),
		}
		return TransitionArmed
	case c.session.Active && heldCount == 0:
		c.session = model.Idle()
		return TransitionReleased
	}
	return TransitionNone
}

// Reset ends the running episode, if any.  Confirm, clear and expiry go
// through here.
func (c *HoldController) Reset() Transition {
	if !c.session.Active {
		return TransitionNone
	}
	c.session = model.Idle()
	return TransitionReleased
}

// Expired reports whether a running episode has reached its deadline.
func (c *HoldController) Expired(now time.Time) bool {
	return c.session.Active && !now.Before(*c.session.ExpiresAt)
}

// Remaining returns the time left in the running episode, never below
// zero.  It is zero while idle.
func (c *HoldController) Remaining(now time.Time) time.Duration {
	return RemainingAt(c.session, now)
}

// Elapsed returns how long the running episode has lasted.
func (c *HoldController) Elapsed(now time.Time) time.Duration {
	if !c.session.Active || c.session.StartedAt == nil {
		return 0
	}
	return now.Sub(*c.session.StartedAt)
}

// RemainingAt computes the time left in session at now.
func RemainingAt(session model.HoldSession, now time.Time) time.Duration {
	if !session.Active || session.ExpiresAt == nil {
		return 0
	}
	if d := session.ExpiresAt.Sub(now); d > 0 {
		return d
	}
	return 0
}
