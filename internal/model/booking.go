package model

import "time"

// Booking is the outcome of a confirm.  A confirm with nothing held
// yields a Booking with an empty BookingID and no seats.
type Booking struct {
	BookingID   string    `json:"booking_id,omitempty"`
	EpisodeID   string    `json:"episode_id,omitempty"`
	SeatIDs     []string  `json:"seat_ids"`
	TotalAmount int64     `json:"total_amount"`
	ConfirmedAt time.Time `json:"confirmed_at"`
}

// Empty reports whether the confirm booked no seats.
func (b Booking) Empty() bool { return len(b.SeatIDs) == 0 }
