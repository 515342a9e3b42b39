package repository

import (
    "context"
    "database/sql"

    "github.com/sclab/seat-reservation/internal/model"
)

// SeatRepo provides read access to the seat catalog.  The catalog is seeded
// at startup and administered outside this service, so there are no write
// methods here.
type SeatRepo struct {
    db *sql.DB
}

// NewSeatRepo constructs a SeatRepo with the given DB handle.
func NewSeatRepo(db *sql.DB) *SeatRepo {
    return &SeatRepo{db: db}
}

// List returns the full seat catalog ordered by seat number, fixed seats
// included so the client can render them as unavailable.
func (r *SeatRepo) List(ctx context.Context) ([]model.Seat, error) {
    const q = `SELECT id, room, is_fixed, created_at FROM seats ORDER BY id`
    rows, err := r.db.QueryContext(ctx, q)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    seats := make([]model.Seat, 0)
    for rows.Next() {
        var s model.Seat
        if err := rows.Scan(&s.ID, &s.Room, &s.IsFixed, &s.CreatedAt); err != nil {
            return nil, err
        }
        seats = append(seats, s)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return seats, nil
}

// GetByID returns a single seat or ErrSeatNotFound.
func (r *SeatRepo) GetByID(ctx context.Context, id uint64) (model.Seat, error) {
    const q = `SELECT id, room, is_fixed, created_at FROM seats WHERE id = ?`
    var s model.Seat
    err := r.db.QueryRowContext(ctx, q, id).Scan(&s.ID, &s.Room, &s.IsFixed, &s.CreatedAt)
    if err == sql.ErrNoRows {
        return model.Seat{}, ErrSeatNotFound
    }
    if err != nil {
        return model.Seat{}, err
    }
    return s, nil
}
