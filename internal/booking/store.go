package booking

import (
    "context"
    "time"

    "github.com/sclab/seat-reservation/internal/model"
)

// Store abstracts the durable reservation record store.  InTx runs fn as one
// atomic unit: every read fn performs must be consistent with the final
// write, and a commit-time race must surface as ErrTxConflict.
type Store interface {
    InTx(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is the per-transaction view of the store.  ListForSeatDay and
// GetForUpdate must lock the rows they return so that the engine's
// read-then-write on a reservation row is serializable with respect to
// concurrent writers.
type Tx interface {
    // SeatBookable reports whether the seat exists and is not fixed.
    SeatBookable(ctx context.Context, seatID uint64) (bool, error)
    // HasNonCancelled reports whether the user holds any non-CANCELLED
    // reservation on refDate.
    HasNonCancelled(ctx context.Context, userID uint64, refDate time.Time) (bool, error)
    // ListForSeatDay returns all reservations for the seat on refDate that
    // contribute an occupied interval: ACTIVE rows plus EXPIRED rows with a
    // checkout timestamp.
    ListForSeatDay(ctx context.Context, seatID uint64, refDate time.Time) ([]model.Reservation, error)
    // ListActiveForDay returns every ACTIVE reservation on refDate across
    // all seats.
    ListActiveForDay(ctx context.Context, refDate time.Time) ([]model.Reservation, error)
    // Get returns the reservation or ErrNotFound.
    Get(ctx context.Context, id uint64) (*model.Reservation, error)
    // Insert persists a new reservation and fills in its generated ID and
    // timestamps.
    Insert(ctx context.Context, r *model.Reservation) error
    // Update writes back the mutated reservation row.
    Update(ctx context.Context, r *model.Reservation) error
}
