package repository

import (
    "context"
    "database/sql"
    "errors"
    "time"

    "github.com/go-sql-driver/mysql"

    "github.com/sclab/seat-reservation/internal/booking"
    "github.com/sclab/seat-reservation/internal/model"
)

// ReservationRepo is the MySQL implementation of the booking engine's Store.
// Every unit of work runs in one transaction; the rows a decision depends on
// are read with FOR UPDATE so that a racing writer blocks until the decision
// is committed.  Deadlocks and lock-wait timeouts surface as
// booking.ErrTxConflict, which the engine retries once.
type ReservationRepo struct {
    db *sql.DB
}

// NewReservationRepo returns a ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// InTx runs fn inside a transaction and commits when it returns nil.
func (r *ReservationRepo) InTx(ctx context.Context, fn func(tx booking.Tx) error) error {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()
    if err := fn(&reservationTx{tx: tx}); err != nil {
        return mapTxErr(err)
    }
    if err := tx.Commit(); err != nil {
        return mapTxErr(err)
    }
    committed = true
    return nil
}

// mapTxErr converts MySQL serialization failures into the engine's retryable
// sentinel. 1213 is a deadlock, 1205 a lock wait timeout.
func mapTxErr(err error) error {
    var me *mysql.MySQLError
    if errors.As(err, &me) {
        if me.Number == 1213 || me.Number == 1205 {
            return booking.ErrTxConflict
        }
    }
    return err
}

// reservationTx is the per-transaction view handed to the engine.
type reservationTx struct {
    tx *sql.Tx
}

const reservationCols = `id, user_id, seat_id, ref_date, started_at, ended_at,
       status, checkout_at, extended_at, extended_count, created_at, updated_at`

func refDateArg(refDate time.Time) string {
    return refDate.Format("2006-01-02")
}

func scanReservation(row interface {
    Scan(dest ...interface{}) error
}) (*model.Reservation, error) {
    var (
        r          model.Reservation
        checkoutAt sql.NullTime
        extendedAt sql.NullTime
    )
    err := row.Scan(
        &r.ID, &r.UserID, &r.SeatID, &r.RefDate, &r.StartedAt, &r.EndedAt,
        &r.Status, &checkoutAt, &extendedAt, &r.ExtendedCount, &r.CreatedAt, &r.UpdatedAt,
    )
    if err != nil {
        return nil, err
    }
    if checkoutAt.Valid {
        t := checkoutAt.Time
        r.CheckoutAt = &t
    }
    if extendedAt.Valid {
        t := extendedAt.Time
        r.ExtendedAt = &t
    }
    return &r, nil
}

// SeatBookable reports whether the seat exists and is not a fixed seat.
func (t *reservationTx) SeatBookable(ctx context.Context, seatID uint64) (bool, error) {
    var isFixed bool
    err := t.tx.QueryRowContext(ctx,
        `SELECT is_fixed FROM seats WHERE id = ?`, seatID).Scan(&isFixed)
    if err == sql.ErrNoRows {
        return false, nil
    }
    if err != nil {
        return false, err
    }
    return !isFixed, nil
}

// HasNonCancelled reports whether the user already holds a non-cancelled
// reservation on refDate.  The matching index range is locked so a racing
// create by the same user serializes behind this check.
func (t *reservationTx) HasNonCancelled(ctx context.Context, userID uint64, refDate time.Time) (bool, error) {
    var n int
    err := t.tx.QueryRowContext(ctx,
        `SELECT COUNT(*) FROM reservations
         WHERE user_id = ? AND ref_date = ? AND status <> 'CANCELLED'
         FOR UPDATE`,
        userID, refDateArg(refDate)).Scan(&n)
    if err != nil {
        return false, err
    }
    return n > 0, nil
}

// ListForSeatDay returns the rows that contribute occupied intervals for the
// seat on refDate, locked against concurrent writers.
func (t *reservationTx) ListForSeatDay(ctx context.Context, seatID uint64, refDate time.Time) ([]model.Reservation, error) {
    const q = `SELECT ` + reservationCols + `
               FROM reservations
               WHERE seat_id = ? AND ref_date = ?
                 AND (status = 'ACTIVE' OR (status = 'EXPIRED' AND checkout_at IS NOT NULL))
               ORDER BY started_at
               FOR UPDATE`
    rows, err := t.tx.QueryContext(ctx, q, seatID, refDateArg(refDate))
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []model.Reservation
    for rows.Next() {
        r, err := scanReservation(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, *r)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// ListActiveForDay returns every ACTIVE reservation on refDate.  This feeds
// the read-only day overview and takes no locks.
func (t *reservationTx) ListActiveForDay(ctx context.Context, refDate time.Time) ([]model.Reservation, error) {
    const q = `SELECT ` + reservationCols + `
               FROM reservations
               WHERE ref_date = ? AND status = 'ACTIVE'
               ORDER BY seat_id, started_at`
    rows, err := t.tx.QueryContext(ctx, q, refDateArg(refDate))
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []model.Reservation
    for rows.Next() {
        r, err := scanReservation(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, *r)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// Get loads a reservation row with a row lock, or booking.ErrNotFound.
func (t *reservationTx) Get(ctx context.Context, id uint64) (*model.Reservation, error) {
    const q = `SELECT ` + reservationCols + `
               FROM reservations WHERE id = ? FOR UPDATE`
    r, err := scanReservation(t.tx.QueryRowContext(ctx, q, id))
    if err == sql.ErrNoRows {
        return nil, booking.ErrNotFound
    }
    if err != nil {
        return nil, err
    }
    return r, nil
}

// Insert persists a new reservation and reads the row back to populate the
// generated ID and timestamps.
func (t *reservationTx) Insert(ctx context.Context, r *model.Reservation) error {
    const q = `INSERT INTO reservations (user_id, seat_id, ref_date, started_at, ended_at, status)
               VALUES (?, ?, ?, ?, ?, ?)`
    res, err := t.tx.ExecContext(ctx, q,
        r.UserID, r.SeatID, refDateArg(r.RefDate), r.StartedAt, r.EndedAt, r.Status)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    r.ID = uint64(id)
    const sel = `SELECT created_at, updated_at FROM reservations WHERE id = ?`
    return t.tx.QueryRowContext(ctx, sel, r.ID).Scan(&r.CreatedAt, &r.UpdatedAt)
}

// Update writes back the mutable lifecycle fields of a reservation row.
func (t *reservationTx) Update(ctx context.Context, r *model.Reservation) error {
    const q = `UPDATE reservations
               SET status = ?, ended_at = ?, checkout_at = ?, extended_at = ?,
                   extended_count = ?, updated_at = UTC_TIMESTAMP()
               WHERE id = ?`
    var checkoutAt, extendedAt interface{}
    if r.CheckoutAt != nil {
        checkoutAt = r.CheckoutAt.UTC()
    }
    if r.ExtendedAt != nil {
        extendedAt = r.ExtendedAt.UTC()
    }
    _, err := t.tx.ExecContext(ctx, q,
        r.Status, r.EndedAt, checkoutAt, extendedAt, r.ExtendedCount, r.ID)
    return err
}
