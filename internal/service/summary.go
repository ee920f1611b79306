package service

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/stimpy3/fareFlow/internal/model"
	"github.com/stimpy3/fareFlow/internal/repository"
)

// urgentThreshold is the time left at which the countdown turns urgent.
const urgentThreshold = 10

// currencySymbol prefixes every formatted amount.
const currencySymbol = "₹"

var printer = message.NewPrinter(language.English)

// Summary is the booking panel derived from a State.  Nothing in it is
// stored; it is recomputed from the seats and the session on demand.
type Summary struct {
	SelectedSeats   []string `json:"selected_seats"`
	SelectedCount   int      `json:"selected_count"`
	BasePrice       int64    `json:"base_price"`
	SurgePrice      int64    `json:"surge_price"`
	TotalPrice      int64    `json:"total_price"`
	AveragePrice    int64    `json:"average_price"`
	BookedCount     int      `json:"booked_count"`
	AvailableCount  int      `json:"available_count"`
	TotalSeats      int      `json:"total_seats"`
	HoldActive      bool     `json:"hold_active"`
	TimeLeftSeconds *int     `json:"time_left_seconds"`
	Countdown       string   `json:"countdown"`
	Urgent          bool     `json:"urgent"`
	Display         Display  `json:"display"`
}

// Display carries the currency amounts already formatted for a panel.
type Display struct {
	BasePrice    string `json:"base_price"`
	SurgePrice   string `json:"surge_price,omitempty"`
	TotalPrice   string `json:"total_price"`
	AveragePrice string `json:"average_price"`
}

// Summarize derives the booking panel for state at now.  basePrice is
// the undiscounted fare per seat; the difference between what the held
// seats cost and count*basePrice is reported as surge.
func Summarize(state State, basePrice int64, now time.Time) Summary {
	counts := repository.CountSeats(state.Seats)
	s := Summary{
		SelectedSeats:  []string{},
		BookedCount:    counts.Booked,
		AvailableCount: counts.Available,
		TotalSeats:     len(state.Seats),
		HoldActive:     state.Session.Active,
	}
	for _, seat := range state.Seats {
		if seat.Status != model.SeatHeld {
			continue
		}
		s.SelectedSeats = append(s.SelectedSeats, seat.SeatID)
		s.TotalPrice += seat.Price
	}
	s.SelectedCount = len(s.SelectedSeats)
	s.BasePrice = int64(s.SelectedCount) * basePrice
	s.SurgePrice = s.TotalPrice - s.BasePrice
	s.AveragePrice = AveragePrice(s.TotalPrice, s.SelectedCount)

	if state.Session.Active {
		left := int(RemainingAt(state.Session, now) / time.Second)
		s.TimeLeftSeconds = &left
		s.Urgent = left <= urgentThreshold
	}
	s.Countdown = FormatCountdown(s.TimeLeftSeconds)

	s.Display = Display{
		BasePrice:    FormatAmount(s.BasePrice),
		TotalPrice:   FormatAmount(s.TotalPrice),
		AveragePrice: FormatAmount(s.AveragePrice),
	}
	if s.SurgePrice > 0 {
		s.Display.SurgePrice = "+" + FormatAmount(s.SurgePrice)
	}
	return s
}

// AveragePrice is total/count rounded half up, or 0 for no seats.
func AveragePrice(total int64, count int) int64 {
	if count == 0 {
		return 0
	}
	return decimal.NewFromInt(total).
		Div(decimal.NewFromInt(int64(count))).
		Round(0).
		IntPart()
}

// FormatCountdown renders whole seconds as M:SS, or "--:--" for nil.
func FormatCountdown(seconds *int) string {
	if seconds == nil {
		return "--:--"
	}
	return fmt.Sprintf("%d:%02d", *seconds/60, *seconds%60)
}

// FormatAmount renders an amount with digit grouping, e.g. ₹10,000.
func FormatAmount(amount int64) string {
	return printer.Sprintf("%s%d", currencySymbol, amount)
}
