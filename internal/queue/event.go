// Package queue defines the messages exchanged over the broker together
// with the publisher and the background consumer that records them.
package queue

// Queue names.  The routing key of every message equals its queue name.
const (
	BookingConfirmedQueue = "booking.confirmed"
	HoldExpiredQueue      = "hold.expired"
)

// BookingConfirmedEvent is published when a confirm books at least one
// seat.  It carries enough for downstream consumers to log or notify
// without asking the seat service.
type BookingConfirmedEvent struct {
	BookingID   string   `json:"booking_id"`
	EpisodeID   string   `json:"episode_id"`
	SeatIDs     []string `json:"seats"`
	SeatCount   int      `json:"seat_count"`
	TotalAmount int64    `json:"total_amount"`
	ConfirmedAt string   `json:"confirmed_at"`
}

// HoldExpiredEvent is published when a hold episode times out and its
// seats are returned to the cabin.
type HoldExpiredEvent struct {
	EpisodeID string   `json:"episode_id"`
	SeatIDs   []string `json:"seats"`
	ExpiredAt string   `json:"expired_at"`
}
