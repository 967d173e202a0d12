// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrForbidden indicates that the current user is not
// authorized to perform an operation on a resource owned by someone
// else, while ErrConflict signals a duplicate like or favorite.
package repository

import "errors"

// ErrLieuNotFound is returned when no venue exists for the requested
// identifier. Handlers translate this into an HTTP 404 response.
var ErrLieuNotFound = errors.New("lieu not found")

// ErrTypeImmutable is returned when an update attempts to change a
// venue's type. The type tag is fixed at creation time because it
// selects the satellite table; handlers translate this into 400.
var ErrTypeImmutable = errors.New("lieu type cannot be changed")

// ErrUnknownType is returned when a type tag does not belong to the
// eight registered venue categories.
var ErrUnknownType = errors.New("unknown lieu type")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers should translate this into an
// HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an insert cannot proceed because of
// existing state, such as liking a venue twice. Handlers should
// translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrEmailExists is returned by the user repository when registering
// an email address that is already taken.
var ErrEmailExists = errors.New("email already exists")
