package handler

import (
    "context"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/sclab/seat-reservation/internal/booking"
    "github.com/sclab/seat-reservation/internal/repository"
    "github.com/sclab/seat-reservation/internal/slot"
)

// SeatHandler serves the seat catalog and per-seat availability.  Both
// endpoints are read-only and sit behind the response cache.
type SeatHandler struct {
    Seats  *repository.SeatRepo
    Engine *booking.Engine
}

func NewSeatHandler(seats *repository.SeatRepo, engine *booking.Engine) *SeatHandler {
    return &SeatHandler{Seats: seats, Engine: engine}
}

type seatResp struct {
    ID      uint64 `json:"id"`
    Room    string `json:"room"`
    IsFixed bool   `json:"is_fixed"`
}

// List returns the full seat catalog.  Fixed seats are included so clients
// can render them greyed out.
// GET /v1/seats
func (h *SeatHandler) List(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    seats, err := h.Seats.List(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    out := make([]seatResp, 0, len(seats))
    for _, s := range seats {
        out = append(out, seatResp{ID: s.ID, Room: s.Room, IsFixed: s.IsFixed})
    }
    return c.JSON(http.StatusOK, echo.Map{"seats": out})
}

// Availability returns the occupied slot indices for one seat today.  Slot i
// covers the hour starting at 9+i o'clock; clients grey those cells out.
// GET /v1/seats/:id/availability
func (h *SeatHandler) Availability(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    seat, err := h.Seats.GetByID(ctx, id)
    if err != nil {
        if err == repository.ErrSeatNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "seat_not_found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }

    refDate := h.Engine.RefDate()
    // A fixed seat is never bookable; report every slot taken.
    if seat.IsFixed {
        all := make([]int, slot.Count)
        for i := range all {
            all[i] = i
        }
        return c.JSON(http.StatusOK, echo.Map{
            "seat_id":  seat.ID,
            "ref_date": refDate.Format("2006-01-02"),
            "occupied": all,
        })
    }

    occupied, err := h.Engine.Availability(ctx, id, refDate)
    if err != nil {
        code, body := errorBody(err)
        return c.JSON(code, body)
    }
    return c.JSON(http.StatusOK, echo.Map{
        "seat_id":  seat.ID,
        "ref_date": refDate.Format("2006-01-02"),
        "occupied": occupied,
    })
}
