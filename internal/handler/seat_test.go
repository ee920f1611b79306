package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stimpy3/fareFlow/internal/model"
	"github.com/stimpy3/fareFlow/internal/repository"
	"github.com/stimpy3/fareFlow/internal/service"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T) (*echo.Echo, *time.Time) {
	t.Helper()
	seats, err := repository.GenerateSeats(198, 5000)
	require.NoError(t, err)
	reg, err := repository.NewSeatRegistry(seats)
	require.NoError(t, err)

	now := testNow
	log, _ := test.NewNullLogger()
	coord := service.NewCoordinator(reg, time.Minute,
		service.WithClock(func() time.Time { return now }),
		service.WithAfterFunc(nil),
		service.WithLogger(log),
	)
	t.Cleanup(coord.Close)

	h := NewSeatHandler(coord, 5000)
	e := echo.New()
	e.GET("/healthz", Health)
	e.GET("/v1/seats", h.ListSeats)
	e.GET("/v1/seats/layout", h.Layout)
	e.POST("/v1/seats/:id/toggle", h.ToggleSeat)
	e.POST("/v1/booking/confirm", h.Confirm)
	e.POST("/v1/booking/clear", h.Clear)
	e.GET("/v1/summary", h.Summary)
	return e, &now
}

func do(t *testing.T, e *echo.Echo, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func decodeState(t *testing.T, rec *httptest.ResponseRecorder) service.State {
	t.Helper()
	var st service.State
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	return st
}

func statusIn(st service.State, id string) model.SeatStatus {
	for _, s := range st.Seats {
		if s.SeatID == id {
			return s.Status
		}
	}
	return ""
}

func TestHealth(t *testing.T) {
	e, _ := newTestServer(t)
	rec := do(t, e, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestListSeats_InitialState(t *testing.T) {
	e, _ := newTestServer(t)
	rec := do(t, e, http.MethodGet, "/v1/seats")
	require.Equal(t, http.StatusOK, rec.Code)

	st := decodeState(t, rec)
	assert.Len(t, st.Seats, 198)
	assert.False(t, st.Session.Active)
	assert.Nil(t, st.Session.ExpiresAt)
	assert.Contains(t, rec.Body.String(), `"expires_at":null`)
}

func TestLayout_SplitsBlocks(t *testing.T) {
	e, _ := newTestServer(t)
	rec := do(t, e, http.MethodGet, "/v1/seats/layout")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Left  []string `json:"left"`
		Right []string `json:"right"`
		Total int      `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Left, 99)
	assert.Len(t, body.Right, 99)
	assert.Equal(t, 198, body.Total)
	assert.Equal(t, "1A", body.Left[0])
	assert.Equal(t, "1D", body.Right[0])
}

func TestToggleSeat_StartsHold(t *testing.T) {
	e, _ := newTestServer(t)
	rec := do(t, e, http.MethodPost, "/v1/seats/1A/toggle")
	require.Equal(t, http.StatusOK, rec.Code)

	st := decodeState(t, rec)
	assert.Equal(t, model.SeatHeld, statusIn(st, "1A"))
	require.True(t, st.Session.Active)
	require.NotNil(t, st.Session.ExpiresAt)
	assert.True(t, st.Session.ExpiresAt.Equal(testNow.Add(time.Minute)))
}

func TestToggleSeat_UnknownIsNotAnError(t *testing.T) {
	e, _ := newTestServer(t)
	rec := do(t, e, http.MethodPost, "/v1/seats/99Z/toggle")
	require.Equal(t, http.StatusOK, rec.Code)

	st := decodeState(t, rec)
	assert.False(t, st.Session.Active)
	assert.Equal(t, 0, repository.CountSeats(st.Seats).Held)
}

func TestConfirm_BooksHeldSeats(t *testing.T) {
	e, _ := newTestServer(t)
	do(t, e, http.MethodPost, "/v1/seats/1A/toggle")
	do(t, e, http.MethodPost, "/v1/seats/1B/toggle")

	rec := do(t, e, http.MethodPost, "/v1/booking/confirm")
	require.Equal(t, http.StatusCreated, rec.Code)

	var body struct {
		Booking model.Booking `json:"booking"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.ElementsMatch(t, []string{"1A", "1B"}, body.Booking.SeatIDs)
	assert.Equal(t, int64(10000), body.Booking.TotalAmount)
	assert.NotEmpty(t, body.Booking.BookingID)

	st := decodeState(t, do(t, e, http.MethodGet, "/v1/seats"))
	assert.Equal(t, model.SeatBooked, statusIn(st, "1A"))
	assert.False(t, st.Session.Active)
}

func TestConfirm_NothingHeldIsNoop(t *testing.T) {
	e, _ := newTestServer(t)
	rec := do(t, e, http.MethodPost, "/v1/booking/confirm")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `"seat_ids":[]`))
}

func TestClear_ReleasesSeats(t *testing.T) {
	e, _ := newTestServer(t)
	do(t, e, http.MethodPost, "/v1/seats/2C/toggle")

	st := decodeState(t, do(t, e, http.MethodPost, "/v1/booking/clear"))
	assert.Equal(t, model.SeatAvailable, statusIn(st, "2C"))
	assert.False(t, st.Session.Active)
}

func TestSummary_Countdown(t *testing.T) {
	e, now := newTestServer(t)
	do(t, e, http.MethodPost, "/v1/seats/1A/toggle")
	*now = testNow.Add(52 * time.Second)

	rec := do(t, e, http.MethodGet, "/v1/summary")
	require.Equal(t, http.StatusOK, rec.Code)

	var s service.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s))
	assert.Equal(t, []string{"1A"}, s.SelectedSeats)
	require.NotNil(t, s.TimeLeftSeconds)
	assert.Equal(t, 8, *s.TimeLeftSeconds)
	assert.Equal(t, "0:08", s.Countdown)
	assert.True(t, s.Urgent)
	assert.Equal(t, "₹5,000", s.Display.TotalPrice)
}

func TestNewSeatHandler_PanicsOnNil(t *testing.T) {
	assert.Panics(t, func() { NewSeatHandler(nil, 5000) })
}
