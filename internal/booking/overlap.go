package booking

import (
    "sort"

    "github.com/sclab/seat-reservation/internal/model"
    "github.com/sclab/seat-reservation/internal/slot"
)

// occupiedInterval returns the inclusive hour range a reservation blocks on
// its seat, or ok=false when it blocks nothing.  ACTIVE rows block their full
// booked window.  EXPIRED rows block their window only when they carry a
// checkout timestamp; EndedAt was already clipped to the real usage by the
// depart transition, so no re-derivation happens here.  CANCELLED rows never
// block anything.
func occupiedInterval(r model.Reservation) (start, end int, ok bool) {
    switch r.Status {
    case model.StatusActive:
        return r.StartedAt, r.EndedAt, true
    case model.StatusExpired:
        if r.CheckoutAt == nil {
            return 0, 0, false
        }
        return r.StartedAt, r.EndedAt, true
    default:
        return 0, 0, false
    }
}

// hasConflict reports whether the candidate inclusive range [start, end]
// intersects any occupied interval in rs.
func hasConflict(rs []model.Reservation, start, end int) bool {
    for _, r := range rs {
        s, e, ok := occupiedInterval(r)
        if !ok {
            continue
        }
        if start <= e && end >= s {
            return true
        }
    }
    return false
}

// occupiedSlots returns the union of all occupied intervals in rs as sorted,
// deduplicated slot indices.  Hours outside the grid are skipped rather than
// reported; a clipped row can only leave the grid if the stored data is
// already corrupt.
func occupiedSlots(rs []model.Reservation) []int {
    seen := make(map[int]struct{})
    for _, r := range rs {
        s, e, ok := occupiedInterval(r)
        if !ok {
            continue
        }
        for h := s; h <= e; h++ {
            idx, err := slot.ToSlot(h)
            if err != nil {
                continue
            }
            seen[idx] = struct{}{}
        }
    }
    out := make([]int, 0, len(seen))
    for idx := range seen {
        out = append(out, idx)
    }
    sort.Ints(out)
    return out
}
