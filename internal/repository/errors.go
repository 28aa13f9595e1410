// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios without
// string-matching driver errors.
package repository

import "errors"

// ErrEmailExists is returned when a create or update collides with the
// unique email constraint.  Handlers translate it into HTTP 409.
var ErrEmailExists = errors.New("email already exists")

// ErrUserNotFound is returned for lookups of missing users.
var ErrUserNotFound = errors.New("user not found")

// ErrCourseNotFound is returned for lookups of missing courses.
var ErrCourseNotFound = errors.New("course not found")

// ErrVideoNotFound is returned for lookups of missing videos.
var ErrVideoNotFound = errors.New("video not found")
