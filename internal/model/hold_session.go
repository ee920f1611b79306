package model

import "time"

// HoldSession is the single timed window during which seats may be
// held.  While Active is false every other field is zero.
//
// Fields:
//
//	Active    – true while at least one seat is held and the deadline is armed.
//	ExpiresAt – absolute deadline of the episode.
//	StartedAt – when the first seat of the episode was held.
//	EpisodeID – opaque id naming the episode in logs and events.
type HoldSession struct {
	Active    bool       `json:"active"`
	ExpiresAt *time.Time `json:"expires_at"`
	StartedAt *time.Time `json:"started_at,omitempty"`
	EpisodeID string     `json:"episode_id,omitempty"`
}

// Idle returns an inactive session.
func Idle() HoldSession { return HoldSession{} }
