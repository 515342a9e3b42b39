package repository

import (
    "context"
    "database/sql"
    "strings"

    "github.com/sclab/seat-reservation/internal/model"
    "github.com/sclab/seat-reservation/internal/utils"
)

// UserRepo provides access to the users table.  Students log in with their
// student number; only the bcrypt hash of the password is stored.
type UserRepo struct{ DB *sql.DB }

// NewUserRepo returns a UserRepo bound to the given database.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a user and returns its ID.  Duplicate student numbers map
// to ErrStudentIDExists.
func (r *UserRepo) Create(ctx context.Context, studentID, password string, cost int) (uint64, error) {
    studentID = strings.TrimSpace(studentID)
    hash, err := utils.HashPassword(password, cost)
    if err != nil {
        return 0, err
    }
    res, err := r.DB.ExecContext(ctx,
        "INSERT INTO users (student_id, password_hash) VALUES (?,?)",
        studentID, hash)
    if err != nil {
        if strings.Contains(strings.ToLower(err.Error()), "1062") {
            return 0, ErrStudentIDExists
        }
        return 0, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(id), nil
}

// GetByStudentID fetches a user by student number.
func (r *UserRepo) GetByStudentID(ctx context.Context, studentID string) (model.User, error) {
    studentID = strings.TrimSpace(studentID)
    var u model.User
    err := r.DB.QueryRowContext(ctx,
        "SELECT id,student_id,password_hash,created_at,updated_at FROM users WHERE student_id=? LIMIT 1",
        studentID).Scan(&u.ID, &u.StudentID, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
    return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
    var u model.User
    err := r.DB.QueryRowContext(ctx,
        "SELECT id,student_id,password_hash,created_at,updated_at FROM users WHERE id=? LIMIT 1",
        id).Scan(&u.ID, &u.StudentID, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
    return u, err
}
