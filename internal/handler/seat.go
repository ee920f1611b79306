// Package handler exposes the seat selection API over HTTP.  Handlers
// are thin: every state change goes through the service.Coordinator and
// the response is the state it returns.
package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/stimpy3/fareFlow/internal/repository"
	"github.com/stimpy3/fareFlow/internal/service"
)

// SeatHandler serves seat, booking and summary endpoints.
type SeatHandler struct {
	Coord     *service.Coordinator
	BasePrice int64
}

// NewSeatHandler panics if coord is nil.
func NewSeatHandler(coord *service.Coordinator, basePrice int64) *SeatHandler {
	if coord == nil {
		panic("nil coordinator passed to NewSeatHandler")
	}
	return &SeatHandler{Coord: coord, BasePrice: basePrice}
}

// ListSeats returns every seat and the hold session.
func (h *SeatHandler) ListSeats(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Coord.State())
}

// Layout returns the seat ids split into the left and right blocks of
// the cabin.  The layout never changes after startup, so it carries no
// status and is safe to cache.
func (h *SeatHandler) Layout(c echo.Context) error {
	left, right := repository.SplitBlocks(h.Coord.State().Seats)
	return c.JSON(http.StatusOK, echo.Map{
		"left":  left,
		"right": right,
		"total": len(left) + len(right),
	})
}

// ToggleSeat flips one seat between available and held.  Unknown and
// booked seats are not errors; the unchanged state comes back.
func (h *SeatHandler) ToggleSeat(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat id is required"})
	}
	return c.JSON(http.StatusOK, h.Coord.ToggleSeat(c.Request().Context(), id))
}

// Confirm books every held seat.  201 when seats were booked, 200 when
// nothing was held.
func (h *SeatHandler) Confirm(c echo.Context) error {
	booking := h.Coord.ConfirmBooking(c.Request().Context())
	status := http.StatusCreated
	if booking.Empty() {
		status = http.StatusOK
	}
	return c.JSON(status, echo.Map{"booking": booking})
}

// Clear releases every held seat.
func (h *SeatHandler) Clear(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Coord.ClearSelection(c.Request().Context()))
}

// Summary returns the booking panel for the current state.
func (h *SeatHandler) Summary(c echo.Context) error {
	return c.JSON(http.StatusOK, service.Summarize(h.Coord.State(), h.BasePrice, h.Coord.Now()))
}
