package repository

import (
	"fmt"

	"github.com/stimpy3/fareFlow/internal/model"
)

// StatusCounts tallies seats per status.
type StatusCounts struct {
	Available int `json:"available"`
	Held      int `json:"held"`
	Booked    int `json:"booked"`
}

// SeatRegistry holds the fixed cabin and applies status transitions to
// it.  Every mutation builds a new slice and swaps it in, so a slice
// returned earlier is never changed afterwards and observers can detect
// a change by comparing slices.  Slices handed out by the registry must
// be treated as read-only.
//
// SeatRegistry is not safe for concurrent use; the service layer
// serializes access.
type SeatRegistry struct {
	seats []model.Seat
	index map[string]int
}

// NewSeatRegistry copies seats into a new registry.  The seat set is
// fixed from then on.
func NewSeatRegistry(seats []model.Seat) (*SeatRegistry, error) {
	cp := make([]model.Seat, len(seats))
	index := make(map[string]int, len(seats))
	for i, s := range seats {
		if _, dup := index[s.SeatID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSeat, s.SeatID)
		}
		index[s.SeatID] = i
		cp[i] = s
	}
	return &SeatRegistry{seats: cp, index: index}, nil
}

// Toggle applies a passenger click to one seat: AVAILABLE becomes HELD,
// HELD goes back to AVAILABLE and BOOKED is left alone.  Unknown ids
// are ignored.  It returns the resulting collection and whether the
// click changed anything.
func (r *SeatRegistry) Toggle(seatID string) ([]model.Seat, bool) {
	i, ok := r.index[seatID]
	if !ok {
		return r.seats, false
	}
	var next model.SeatStatus
	switch r.seats[i].Status {
	case model.SeatAvailable:
		next = model.SeatHeld
	case model.SeatHeld:
		next = model.SeatAvailable
	default:
		return r.seats, false
	}
	seats := make([]model.Seat, len(r.seats))
	copy(seats, r.seats)
	seats[i].Status = next
	r.seats = seats
	return r.seats, true
}

// BulkUpdateStatus moves every seat currently in from to to, leaving
// all other seats untouched.  It returns the ids it changed in cabin
// order; when nothing matched the collection is not replaced.
func (r *SeatRegistry) BulkUpdateStatus(from, to model.SeatStatus) []string {
	var changed []string
	var seats []model.Seat
	for i, s := range r.seats {
		if s.Status != from {
			continue
		}
		if seats == nil {
			seats = make([]model.Seat, len(r.seats))
			copy(seats, r.seats)
		}
		seats[i].Status = to
		changed = append(changed, s.SeatID)
	}
	if seats != nil {
		r.seats = seats
	}
	return changed
}

// Snapshot returns the current collection.
func (r *SeatRegistry) Snapshot() []model.Seat { return r.seats }

// Len returns the number of seats in the cabin.
func (r *SeatRegistry) Len() int { return len(r.seats) }

// Get returns the seat with the given id.
func (r *SeatRegistry) Get(seatID string) (model.Seat, error) {
	i, ok := r.index[seatID]
	if !ok {
		return model.Seat{}, fmt.Errorf("%w: %s", ErrSeatNotFound, seatID)
	}
	return r.seats[i], nil
}

// CountByStatus returns how many seats are in status.
func (r *SeatRegistry) CountByStatus(status model.SeatStatus) int {
	n := 0
	for _, s := range r.seats {
		if s.Status == status {
			n++
		}
	}
	return n
}

// Counts tallies every status in one pass.
func (r *SeatRegistry) Counts() StatusCounts {
	return CountSeats(r.seats)
}

// IDsWithStatus lists the ids of seats in status, in cabin order.
func (r *SeatRegistry) IDsWithStatus(status model.SeatStatus) []string {
	var ids []string
	for _, s := range r.seats {
		if s.Status == status {
			ids = append(ids, s.SeatID)
		}
	}
	return ids
}

// CountSeats tallies the statuses of an arbitrary seat slice.
func CountSeats(seats []model.Seat) StatusCounts {
	var c StatusCounts
	for _, s := range seats {
		switch s.Status {
		case model.SeatAvailable:
			c.Available++
		case model.SeatHeld:
			c.Held++
		case model.SeatBooked:
			c.Booked++
		}
	}
	return c
}
