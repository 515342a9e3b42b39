package model

import "time"

// Reservation status values. Transitions are one-way: a reservation starts
// ACTIVE and ends in exactly one of EXPIRED or CANCELLED.
const (
    StatusActive    = "ACTIVE"
    StatusExpired   = "EXPIRED"
    StatusCancelled = "CANCELLED"
)

// Reservation records a user's claim on one seat for a contiguous range of
// whole hours on a single day.  StartedAt and EndedAt are absolute wall-clock
// hours in [9,24], both inclusive.  EndedAt shrinks when the user checks out
// partway through the window; it is never touched again once the row leaves
// ACTIVE.
//
// Fields:
//  ID            – primary key identifier.
//  UserID        – user who made the reservation.
//  SeatID        – seat being reserved.
//  RefDate       – calendar day the reservation belongs to (day start).
//  StartedAt     – first booked hour, inclusive.
//  EndedAt       – last booked hour, inclusive.
//  Status        – ACTIVE, EXPIRED or CANCELLED.
//  CheckoutAt    – set exactly once, on the depart transition (nullable).
//  ExtendedAt    – when the reservation was last extended (nullable).
//  ExtendedCount – number of successful extensions.
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type Reservation struct {
    ID            uint64     // reservations.id
    UserID        uint64     // reservations.user_id
    SeatID        uint64     // reservations.seat_id
    RefDate       time.Time  // reservations.ref_date
    StartedAt     int        // reservations.started_at
    EndedAt       int        // reservations.ended_at
    Status        string     // reservations.status
    CheckoutAt    *time.Time // reservations.checkout_at (nullable)
    ExtendedAt    *time.Time // reservations.extended_at (nullable)
    ExtendedCount int        // reservations.extended_count
    CreatedAt     time.Time  // reservations.created_at
    UpdatedAt     time.Time  // reservations.updated_at
}
