// Package repository defines data access for the seat allocation service.
// This file holds error types that are reused across multiple repositories.
// These sentinel values allow higher layers such as services and handlers to
// distinguish between different failure scenarios, for example a lookup that
// found nothing versus a tenancy violation.
package repository

import "errors"

// ErrSeatNotFound is returned when a seat lookup yields no rows.
var ErrSeatNotFound = errors.New("seat not found")

// ErrFloorNotFound is returned when a floor lookup yields no rows or the
// floor does not belong to the caller's organization.
var ErrFloorNotFound = errors.New("floor not found")

// ErrForbidden is returned when the caller attempts an operation on a
// resource outside their organization.  Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an insert cannot proceed because of
// conflicting state, such as creating a seat with a code that already
// exists on the floor.  Handlers should translate this into an HTTP 409.
var ErrConflict = errors.New("conflict")
