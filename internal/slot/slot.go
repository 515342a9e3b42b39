// Package slot maps between the daily booking grid and wall-clock hours.
// The room is bookable from 09:00 through 24:59, which gives sixteen one-hour
// slots indexed 0–15.  A single reservation spans one to four contiguous
// slots.
package slot

import "errors"

const (
    // OpenHour is the first bookable wall-clock hour.
    OpenHour = 9
    // CloseHour is the last bookable wall-clock hour, inclusive.
    CloseHour = 24
    // Count is the number of slots in the daily grid.
    Count = CloseHour - OpenHour + 1
    // MaxSpanHours caps the length of a single reservation.
    MaxSpanHours = 4
)

// ErrOutOfRange reports an hour or slot index outside the daily grid.
var ErrOutOfRange = errors.New("slot: hour outside the 09-24 grid")

// ErrInvalidSpan reports a malformed or over-long hour span.
var ErrInvalidSpan = errors.New("slot: invalid hour span")

// ToHour converts a zero-based slot index to its wall-clock hour.
func ToHour(index int) (int, error) {
    if index < 0 || index >= Count {
        return 0, ErrOutOfRange
    }
    return index + OpenHour, nil
}

// ToSlot converts a wall-clock hour to its zero-based slot index.
func ToSlot(hour int) (int, error) {
    if hour < OpenHour || hour > CloseHour {
        return 0, ErrOutOfRange
    }
    return hour - OpenHour, nil
}

// ValidateSpan checks that [startHour, endHour] is a well-formed reservation
// window: both bounds on the grid, start not after end, and at most
// MaxSpanHours hours long (bounds inclusive).
func ValidateSpan(startHour, endHour int) error {
    if startHour < OpenHour || startHour > CloseHour ||
        endHour < OpenHour || endHour > CloseHour {
        return ErrInvalidSpan
    }
    if startHour > endHour {
        return ErrInvalidSpan
    }
    if endHour-startHour+1 > MaxSpanHours {
        return ErrInvalidSpan
    }
    return nil
}
