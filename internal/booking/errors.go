// Package booking implements the reservation lifecycle engine and the
// seat/day overlap resolver.  The package is stateless between calls; every
// operation runs as one transactional unit of work against the Store and
// reads time exclusively from the injected clock.
package booking

import "errors"

// Sentinel errors surfaced by the engine.  Handlers translate each value
// into a distinct HTTP status and stable error code so the client can render
// specific guidance.
var (
    // ErrInvalidSpan reports malformed or out-of-range time bounds.
    ErrInvalidSpan = errors.New("invalid reservation span")
    // ErrDuplicateDaily reports that the user already holds a non-cancelled
    // reservation for the day.
    ErrDuplicateDaily = errors.New("user already has a reservation today")
    // ErrSlotConflict reports that the requested hours overlap an existing
    // occupied interval on the seat.
    ErrSlotConflict = errors.New("requested hours are already taken")
    // ErrNotFound reports that the referenced reservation does not exist.
    ErrNotFound = errors.New("reservation not found")
    // ErrForbidden reports that the caller does not own the reservation.
    ErrForbidden = errors.New("reservation belongs to another user")
    // ErrInvalidState reports an operation on a reservation that has already
    // left the ACTIVE state.
    ErrInvalidState = errors.New("reservation is not active")
    // ErrExtendTooEarly reports an extension requested before the trailing
    // 20-minute window opens.
    ErrExtendTooEarly = errors.New("extension not yet available")
    // ErrSeatNotFound reports a booking attempt against an unknown or fixed
    // seat.
    ErrSeatNotFound = errors.New("seat not found")
    // ErrTxConflict is returned by the store when the underlying transaction
    // lost a race (deadlock, lock wait timeout).  The engine retries the
    // unit of work once before giving up.
    ErrTxConflict = errors.New("storage transaction conflict")
    // ErrConcurrentModification reports that the retry after a transaction
    // conflict failed as well.
    ErrConcurrentModification = errors.New("concurrent modification")
)
