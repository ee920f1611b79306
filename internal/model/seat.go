package model

// SeatStatus is the lifecycle state of a single seat.  A seat moves
// between AVAILABLE and HELD as the passenger clicks it, and from HELD
// to BOOKED when the selection is confirmed.  BOOKED is terminal.
type SeatStatus string

const (
	SeatAvailable SeatStatus = "available"
	SeatHeld      SeatStatus = "held"
	SeatBooked    SeatStatus = "booked"
)

// Valid reports whether s is one of the three known statuses.
func (s SeatStatus) Valid() bool {
	switch s {
	case SeatAvailable, SeatHeld, SeatBooked:
		return true
	}
	return false
}

// Seat describes one seat of the aircraft cabin.  Seats are uniquely
// identified by SeatID for the lifetime of the process.
//
// Fields:
//
//	SeatID – row number followed by column letter, e.g. "12C".
//	Price  – fare in whole currency units, fixed when the cabin is built.
//	Status – current status.
type Seat struct {
	SeatID string     `json:"seat_id"`
	Price  int64      `json:"price"`
	Status SeatStatus `json:"status"`
}
