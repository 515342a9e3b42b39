package database

import (
    "context"
    "database/sql"
)

// schema holds the DDL for the service's four tables.  Statements are
// idempotent so Bootstrap can run on every start.
var schema = []string{
    `CREATE TABLE IF NOT EXISTS users (
        id            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
        student_id    VARCHAR(32)  NOT NULL,
        password_hash VARCHAR(100) NOT NULL,
        created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
        updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
        PRIMARY KEY (id),
        UNIQUE KEY uq_users_student_id (student_id)
    ) ENGINE=InnoDB`,

    `CREATE TABLE IF NOT EXISTS refresh_tokens (
        id         BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
        user_id    BIGINT UNSIGNED NOT NULL,
        token_hash CHAR(64) NOT NULL,
        expires_at DATETIME NOT NULL,
        revoked_at DATETIME NULL,
        created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
        PRIMARY KEY (id),
        KEY ix_refresh_tokens_hash (token_hash),
        CONSTRAINT fk_refresh_tokens_user FOREIGN KEY (user_id) REFERENCES users (id)
    ) ENGINE=InnoDB`,

    `CREATE TABLE IF NOT EXISTS seats (
        id         BIGINT UNSIGNED NOT NULL,
        room       VARCHAR(16) NOT NULL,
        is_fixed   TINYINT(1) NOT NULL DEFAULT 0,
        created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
        PRIMARY KEY (id)
    ) ENGINE=InnoDB`,

    `CREATE TABLE IF NOT EXISTS reservations (
        id             BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
        user_id        BIGINT UNSIGNED NOT NULL,
        seat_id        BIGINT UNSIGNED NOT NULL,
        ref_date       DATE NOT NULL,
        started_at     TINYINT UNSIGNED NOT NULL,
        ended_at       TINYINT UNSIGNED NOT NULL,
        status         ENUM('ACTIVE','EXPIRED','CANCELLED') NOT NULL DEFAULT 'ACTIVE',
        checkout_at    DATETIME NULL,
        extended_at    DATETIME NULL,
        extended_count INT NOT NULL DEFAULT 0,
        created_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
        updated_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
        PRIMARY KEY (id),
        KEY ix_reservations_seat_day (seat_id, ref_date),
        KEY ix_reservations_user_day (user_id, ref_date),
        CONSTRAINT fk_reservations_user FOREIGN KEY (user_id) REFERENCES users (id),
        CONSTRAINT fk_reservations_seat FOREIGN KEY (seat_id) REFERENCES seats (id)
    ) ENGINE=InnoDB`,
}

// fixedSeats lists the administratively reserved seats in room 901; they are
// shown in the catalog but never bookable.
var fixedSeats = map[uint64]bool{2: true, 4: true}

// Bootstrap creates the schema if needed and seeds the 13-seat catalog of
// room 901.  Seeding uses INSERT IGNORE so an already-populated catalog is
// left untouched.
func Bootstrap(ctx context.Context, db *sql.DB) error {
    for _, stmt := range schema {
        if _, err := db.ExecContext(ctx, stmt); err != nil {
            return err
        }
    }
    const seed = `INSERT IGNORE INTO seats (id, room, is_fixed) VALUES (?, ?, ?)`
    for id := uint64(1); id <= 13; id++ {
        if _, err := db.ExecContext(ctx, seed, id, "901", fixedSeats[id]); err != nil {
            return err
        }
    }
    return nil
}
