package repository

import (
	"fmt"
	"strconv"

	"github.com/stimpy3/fareFlow/internal/model"
)

const (
	seatsPerRow = 3  // seats per row on each side of the aisle
	rowsPerSide = 33 // rows before numbering restarts on the right block
)

// GenerateSeats builds the cabin in display order.  Seat i sits in row
// i/3+1 (numbering restarts after row 33) and takes letters A-C on the
// left block and D-F once the left block (the first 99 seats) is full.
// Every seat starts AVAILABLE at the given price.
func GenerateSeats(total int, price int64) ([]model.Seat, error) {
	if total <= 0 || price <= 0 {
		return nil, fmt.Errorf("%w: total=%d price=%d", ErrInvalidLayout, total, price)
	}
	seats := make([]model.Seat, 0, total)
	for i := 0; i < total; i++ {
		seats = append(seats, model.Seat{
			SeatID: seatLabel(i),
			Price:  price,
			Status: model.SeatAvailable,
		})
	}
	return seats, nil
}

func seatLabel(index int) string {
	row := index/seatsPerRow + 1
	if row > rowsPerSide {
		row -= rowsPerSide
	}
	first := 'A'
	if index >= seatsPerRow*rowsPerSide {
		first = 'D'
	}
	return strconv.Itoa(row) + string(first+rune(index%seatsPerRow))
}

// SplitBlocks returns the seat ids of the left and right cabin blocks.
// The left block holds the first half of the seats.
func SplitBlocks(seats []model.Seat) (left, right []string) {
	mid := len(seats) / 2
	left = make([]string, 0, mid)
	right = make([]string, 0, len(seats)-mid)
	for i, s := range seats {
		if i < mid {
			left = append(left, s.SeatID)
		} else {
			right = append(right, s.SeatID)
		}
	}
	return left, right
}
