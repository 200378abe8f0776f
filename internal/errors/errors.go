package errors

import "errors"

// Custom error types for the link-in-bio application.
// Handlers match these with errors.Is and map them to HTTP statuses:
// not-found errors to 404, conflicts to 409, ownership/tier failures to 403
// and authentication failures to 401.

// Not found.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrProfileNotFound = errors.New("profile not found")
	ErrLinkNotFound    = errors.New("link not found")
	ErrTokenNotFound   = errors.New("refresh token not found")
)

// Conflicts on unique resources.
var (
	ErrEmailExists   = errors.New("email already exists")
	ErrUsernameTaken = errors.New("username already taken")
	ErrProfileExists = errors.New("user already has a profile")
)

// Ownership.
var (
	ErrNotOwner       = errors.New("resource does not belong to the user")
	ErrForeignLinkIDs = errors.New("some links do not belong to your profile")
)

// Authentication.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or malformed token")
	ErrTokenExpired       = errors.New("refresh token expired")
)

// IsNotFound reports whether err is one of the not-found errors.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrProfileNotFound) ||
		errors.Is(err, ErrLinkNotFound) ||
		errors.Is(err, ErrTokenNotFound)
}

// IsConflict reports whether err is one of the uniqueness conflicts.
func IsConflict(err error) bool {
	return errors.Is(err, ErrEmailExists) ||
		errors.Is(err, ErrUsernameTaken) ||
		errors.Is(err, ErrProfileExists)
}
