// Package repository implements the MySQL persistence layer.  Sentinel
// errors defined here let handlers distinguish failure scenarios without
// inspecting driver error strings.
package repository

import "errors"

// ErrStudentIDExists is returned when registering a student number that is
// already taken. Handlers should translate this into an HTTP 409 response.
var ErrStudentIDExists = errors.New("student id already exists")

// ErrSeatNotFound is returned when a seat lookup yields no rows.
var ErrSeatNotFound = errors.New("seat not found")
