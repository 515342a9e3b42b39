// Package queue defines message payloads exchanged over the message broker.
package queue

// Event types carried by ReservationEvent.
const (
    EventCreated  = "reservation.created"
    EventDeparted = "reservation.departed"
    EventExtended = "reservation.extended"
)

// ReservationEvent is published on every lifecycle transition.  It carries
// enough for downstream consumers to log or build usage analytics without
// querying the primary database.
type ReservationEvent struct {
    Type          string `json:"type"`
    ReservationID uint64 `json:"reservation_id"`
    UserID        uint64 `json:"user_id"`
    SeatID        uint64 `json:"seat_id"`
    RefDate       string `json:"ref_date"` // YYYY-MM-DD in the service timezone
    StartedAt     int    `json:"started_at"`
    EndedAt       int    `json:"ended_at"`
    Status        string `json:"status"`
    OccurredAt    string `json:"occurred_at"` // RFC3339
}
