package model

import "time"

// Seat describes one physical study seat in the room catalog.  Fixed seats
// are administratively reserved and never bookable through the engine; they
// are listed so the client can render them greyed out.
//
// Fields:
//  ID        – primary key identifier (matches the number on the desk).
//  Room      – room the seat belongs to (e.g. "901").
//  IsFixed   – whether the seat is permanently assigned.
//  CreatedAt – creation timestamp.
type Seat struct {
    ID        uint64    // seats.id
    Room      string    // seats.room
    IsFixed   bool      // seats.is_fixed
    CreatedAt time.Time // seats.created_at
}
