package handler

import (
    "context"
    "errors"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/sclab/seat-reservation/internal/booking"
    "github.com/sclab/seat-reservation/internal/model"
    "github.com/sclab/seat-reservation/internal/queue"
    queue_publisher "github.com/sclab/seat-reservation/internal/service"
)

// ReservationHandler exposes the reservation lifecycle over HTTP.  All the
// domain rules live in the booking engine; this layer binds requests, maps
// domain errors to status codes and fires lifecycle events.
type ReservationHandler struct {
    Engine *booking.Engine
}

func NewReservationHandler(engine *booking.Engine) *ReservationHandler {
    return &ReservationHandler{Engine: engine}
}

// ----- DTOs -----

type createReservationReq struct {
    SeatID    uint64 `json:"seat_id"`
    StartedAt int    `json:"started_at"`
    EndedAt   int    `json:"ended_at"`
}

type extendReq struct {
    ExtraHours int `json:"extra_hours"`
}

type reservationResp struct {
    ID         uint64     `json:"id"`
    UserID     uint64     `json:"user_id"`
    SeatID     uint64     `json:"seat_id"`
    RefDate    string     `json:"ref_date"`
    StartedAt  int        `json:"started_at"`
    EndedAt    int        `json:"ended_at"`
    Status     string     `json:"status"`
    CheckoutAt *time.Time `json:"checkout_at,omitempty"`
    ExtendedAt *time.Time `json:"extended_at,omitempty"`
    CreatedAt  time.Time  `json:"created_at"`
}

func toResp(r *model.Reservation) reservationResp {
    return reservationResp{
        ID:         r.ID,
        UserID:     r.UserID,
        SeatID:     r.SeatID,
        RefDate:    r.RefDate.Format("2006-01-02"),
        StartedAt:  r.StartedAt,
        EndedAt:    r.EndedAt,
        Status:     r.Status,
        CheckoutAt: r.CheckoutAt,
        ExtendedAt: r.ExtendedAt,
        CreatedAt:  r.CreatedAt,
    }
}

// errorBody maps an engine error to a status code and a stable machine code.
// Clients switch on the code, not the message.
func errorBody(err error) (int, echo.Map) {
    switch {
    case errors.Is(err, booking.ErrInvalidSpan):
        return http.StatusBadRequest, echo.Map{"error": "invalid_span"}
    case errors.Is(err, booking.ErrSeatNotFound):
        return http.StatusNotFound, echo.Map{"error": "seat_not_found"}
    case errors.Is(err, booking.ErrNotFound):
        return http.StatusNotFound, echo.Map{"error": "not_found"}
    case errors.Is(err, booking.ErrForbidden):
        return http.StatusForbidden, echo.Map{"error": "forbidden"}
    case errors.Is(err, booking.ErrDuplicateDaily):
        return http.StatusConflict, echo.Map{"error": "duplicate_daily_reservation"}
    case errors.Is(err, booking.ErrSlotConflict):
        return http.StatusConflict, echo.Map{"error": "slot_conflict"}
    case errors.Is(err, booking.ErrInvalidState):
        return http.StatusConflict, echo.Map{"error": "invalid_state"}
    case errors.Is(err, booking.ErrExtendTooEarly):
        return http.StatusConflict, echo.Map{"error": "extend_too_early"}
    case errors.Is(err, booking.ErrConcurrentModification):
        return http.StatusConflict, echo.Map{"error": "concurrent_modification"}
    }
    return http.StatusInternalServerError, echo.Map{"error": "internal_error"}
}

// publish fires a lifecycle event without blocking the request.  Event
// delivery is best-effort; the reservation is already committed.
func publish(eventType string, r *model.Reservation) {
    ev := queue.ReservationEvent{
        Type:          eventType,
        ReservationID: r.ID,
        UserID:        r.UserID,
        SeatID:        r.SeatID,
        RefDate:       r.RefDate.Format("2006-01-02"),
        StartedAt:     r.StartedAt,
        EndedAt:       r.EndedAt,
        Status:        r.Status,
        OccurredAt:    time.Now().UTC().Format(time.RFC3339),
    }
    go func() {
        ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
        defer cancel()
        _ = queue_publisher.PublishReservationEvent(ctx, ev)
    }()
}

// Create books a seat for the authenticated user on the current day.
// POST /v1/reservations
func (h *ReservationHandler) Create(c echo.Context) error {
    uid, ok := c.Get("user_id").(uint64)
    if !ok || uid == 0 {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var req createReservationReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_body"})
    }
    if req.SeatID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat_id required"})
    }

    r, err := h.Engine.Create(c.Request().Context(), req.SeatID, uid, req.StartedAt, req.EndedAt)
    if err != nil {
        code, body := errorBody(err)
        return c.JSON(code, body)
    }
    publish(queue.EventCreated, r)
    return c.JSON(http.StatusCreated, toResp(r))
}

// Checkout ends a reservation.  Leaving before the window starts cancels it;
// leaving during or after the window expires it, clipping unused hours.
// PATCH /v1/reservations/:id/checkout
func (h *ReservationHandler) Checkout(c echo.Context) error {
    uid, ok := c.Get("user_id").(uint64)
    if !ok || uid == 0 {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_id"})
    }

    r, err := h.Engine.Depart(c.Request().Context(), id, uid)
    if err != nil {
        code, body := errorBody(err)
        return c.JSON(code, body)
    }
    publish(queue.EventDeparted, r)
    return c.JSON(http.StatusOK, toResp(r))
}

// Extend lengthens a reservation by 1 to 3 hours within the final minutes of
// its window.
// PATCH /v1/reservations/:id/extend
func (h *ReservationHandler) Extend(c echo.Context) error {
    uid, ok := c.Get("user_id").(uint64)
    if !ok || uid == 0 {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_id"})
    }
    var req extendReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_body"})
    }

    r, err := h.Engine.Extend(c.Request().Context(), id, uid, req.ExtraHours)
    if err != nil {
        code, body := errorBody(err)
        return c.JSON(code, body)
    }
    publish(queue.EventExtended, r)
    return c.JSON(http.StatusOK, toResp(r))
}

// ListToday returns every active reservation for the current day, the
// room-overview view the lobby screen renders.
// GET /v1/reservations/today
func (h *ReservationHandler) ListToday(c echo.Context) error {
    rs, err := h.Engine.ListForDay(c.Request().Context(), h.Engine.RefDate())
    if err != nil {
        code, body := errorBody(err)
        return c.JSON(code, body)
    }
    out := make([]reservationResp, 0, len(rs))
    for i := range rs {
        out = append(out, toResp(&rs[i]))
    }
    return c.JSON(http.StatusOK, echo.Map{"reservations": out})
}
