package booking

import (
    "context"
    "errors"
    "time"

    "github.com/sclab/seat-reservation/internal/clock"
    "github.com/sclab/seat-reservation/internal/model"
    "github.com/sclab/seat-reservation/internal/slot"
)

// extendWindowMinutes is how close to the end of the booked window a user
// must be before an extension is offered.  Gating late keeps users from
// hoarding the following hours all afternoon.
const extendWindowMinutes = 20

// maxExtensions caps how many times a single reservation may be extended.
const maxExtensions = 1

// Engine drives the reservation state machine.  It holds no mutable state of
// its own; every operation is an independent transactional unit of work.
type Engine struct {
    store Store
    clock clock.Clock
}

// NewEngine wires the engine to its record store and time source.
func NewEngine(store Store, clk clock.Clock) *Engine {
    if store == nil || clk == nil {
        panic("nil dependency passed to NewEngine")
    }
    return &Engine{store: store, clock: clk}
}

// hourOn returns the current hour counted on refDate's day.  The grid's
// final slot is hour 24, which the wall clock reports as hour 0 of the
// following day; counting relative to the reservation's own day keeps a
// departure during or after that slot on the EXPIRED side of the split
// instead of looking like a pre-start cancellation.
func (e *Engine) hourOn(refDate time.Time) int {
    return e.clock.Hour() + 24*daysBetween(refDate, e.clock.RefDate())
}

// daysBetween counts calendar days from one day-start to another.  The two
// values may carry different locations (the store hands back UTC dates, the
// clock works in the service timezone), so only the calendar date matters.
func daysBetween(from, to time.Time) int {
    return int(dateUTC(to).Sub(dateUTC(from)).Hours() / 24)
}

func dateUTC(t time.Time) time.Time {
    y, m, d := t.Date()
    return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// run executes fn as a transaction, retrying exactly once when the store
// reports a commit race.  fn must re-read everything it needs on each
// attempt.
func (e *Engine) run(ctx context.Context, fn func(tx Tx) error) error {
    err := e.store.InTx(ctx, fn)
    if errors.Is(err, ErrTxConflict) {
        err = e.store.InTx(ctx, fn)
        if errors.Is(err, ErrTxConflict) {
            return ErrConcurrentModification
        }
    }
    return err
}

// Create books seatID for userID over the inclusive hour range
// [startHour, endHour] on the current day.  The duplicate-daily rule and the
// overlap check are re-evaluated inside the same transaction that inserts
// the row, so two racing creates cannot both pass.
func (e *Engine) Create(ctx context.Context, seatID, userID uint64, startHour, endHour int) (*model.Reservation, error) {
    if err := slot.ValidateSpan(startHour, endHour); err != nil {
        return nil, ErrInvalidSpan
    }
    refDate := e.clock.RefDate()

    var created *model.Reservation
    err := e.run(ctx, func(tx Tx) error {
        created = nil
        bookable, err := tx.SeatBookable(ctx, seatID)
        if err != nil {
            return err
        }
        if !bookable {
            return ErrSeatNotFound
        }
        taken, err := tx.HasNonCancelled(ctx, userID, refDate)
        if err != nil {
            return err
        }
        if taken {
            return ErrDuplicateDaily
        }
        existing, err := tx.ListForSeatDay(ctx, seatID, refDate)
        if err != nil {
            return err
        }
        if hasConflict(existing, startHour, endHour) {
            return ErrSlotConflict
        }
        r := &model.Reservation{
            UserID:    userID,
            SeatID:    seatID,
            RefDate:   refDate,
            StartedAt: startHour,
            EndedAt:   endHour,
            Status:    model.StatusActive,
        }
        if err := tx.Insert(ctx, r); err != nil {
            return err
        }
        created = r
        return nil
    })
    if err != nil {
        return nil, err
    }
    return created, nil
}

// Depart checks userID out of an ACTIVE reservation.  The current hour
// decides the terminal state:
//
//   - before the window starts: CANCELLED, window untouched (never used);
//   - within the window: EXPIRED with EndedAt clipped down to the current
//     hour, so the later hours are immediately bookable by others;
//   - after the window: EXPIRED, window untouched (fully consumed).
//
// Usage always rounds down to the whole hour in progress; a 09–12 sitter
// leaving at 09:20 frees 10 through 12.
func (e *Engine) Depart(ctx context.Context, reservationID, userID uint64) (*model.Reservation, error) {
    var departed *model.Reservation
    err := e.run(ctx, func(tx Tx) error {
        departed = nil
        r, err := tx.Get(ctx, reservationID)
        if err != nil {
            return err
        }
        if r.Status != model.StatusActive {
            return ErrInvalidState
        }
        if r.UserID != userID {
            return ErrForbidden
        }

        now := e.clock.Now()
        cur := e.hourOn(r.RefDate)
        switch {
        case cur < r.StartedAt:
            r.Status = model.StatusCancelled
        case cur <= r.EndedAt:
            r.Status = model.StatusExpired
            r.EndedAt = cur
        default:
            r.Status = model.StatusExpired
        }
        r.CheckoutAt = &now

        if err := tx.Update(ctx, r); err != nil {
            return err
        }
        departed = r
        return nil
    })
    if err != nil {
        return nil, err
    }
    return departed, nil
}

// Extend grows an ACTIVE reservation by one to three hours.  It is only
// offered inside the final 20 minutes of the current window, and only when
// the hours immediately after the window are free on the seat.
func (e *Engine) Extend(ctx context.Context, reservationID, userID uint64, extraHours int) (*model.Reservation, error) {
    if extraHours < 1 || extraHours > 3 {
        return nil, ErrInvalidSpan
    }

    var extended *model.Reservation
    err := e.run(ctx, func(tx Tx) error {
        extended = nil
        r, err := tx.Get(ctx, reservationID)
        if err != nil {
            return err
        }
        if r.Status != model.StatusActive {
            return ErrInvalidState
        }
        if r.UserID != userID {
            return ErrForbidden
        }

        // Minutes until the booked window closes (EndedAt covers a full
        // hour, so the window closes at EndedAt+1:00).  Hours count on the
        // reservation's day so a window ending in the hour-24 slot still
        // measures correctly after the wall clock wraps.
        remaining := (r.EndedAt+1)*60 - (e.hourOn(r.RefDate)*60 + e.clock.Minute())
        if remaining > extendWindowMinutes {
            return ErrExtendTooEarly
        }
        if r.EndedAt+extraHours > slot.CloseHour {
            return ErrInvalidSpan
        }
        if r.ExtendedCount >= maxExtensions {
            return ErrInvalidSpan
        }

        existing, err := tx.ListForSeatDay(ctx, r.SeatID, r.RefDate)
        if err != nil {
            return err
        }
        others := make([]model.Reservation, 0, len(existing))
        for _, o := range existing {
            if o.ID != r.ID {
                others = append(others, o)
            }
        }
        if hasConflict(others, r.EndedAt+1, r.EndedAt+extraHours) {
            return ErrSlotConflict
        }

        now := e.clock.Now()
        r.EndedAt += extraHours
        r.ExtendedAt = &now
        r.ExtendedCount++

        if err := tx.Update(ctx, r); err != nil {
            return err
        }
        extended = r
        return nil
    })
    if err != nil {
        return nil, err
    }
    return extended, nil
}

// Availability returns the occupied slot indices for a seat on refDate,
// sorted ascending with duplicates removed.
func (e *Engine) Availability(ctx context.Context, seatID uint64, refDate time.Time) ([]int, error) {
    var slots []int
    err := e.run(ctx, func(tx Tx) error {
        rs, err := tx.ListForSeatDay(ctx, seatID, refDate)
        if err != nil {
            return err
        }
        slots = occupiedSlots(rs)
        return nil
    })
    if err != nil {
        return nil, err
    }
    return slots, nil
}

// ListForDay returns every ACTIVE reservation on refDate across all seats,
// for the day-overview listing.
func (e *Engine) ListForDay(ctx context.Context, refDate time.Time) ([]model.Reservation, error) {
    var out []model.Reservation
    err := e.run(ctx, func(tx Tx) error {
        rs, err := tx.ListActiveForDay(ctx, refDate)
        if err != nil {
            return err
        }
        out = rs
        return nil
    })
    if err != nil {
        return nil, err
    }
    return out, nil
}

// RefDate exposes the engine's day normalization so callers build cache keys
// and queries against the same day boundary the engine uses.
func (e *Engine) RefDate() time.Time { return e.clock.RefDate() }
