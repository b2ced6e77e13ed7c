package domain

import "errors"

// Domain errors
var (
	ErrPlayerNotFound       = errors.New("player not found")
	ErrGameNotFound         = errors.New("game not found")
	ErrPlayerOrGameNotFound = errors.New("player or game not found")
	ErrStatsNotFound        = errors.New("stats record not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrStatsConflict        = errors.New("stats record already exists for this key")
	ErrUserExists           = errors.New("user with this email already exists")
	ErrValidation           = errors.New("validation failed")
	ErrUnauthorized         = errors.New("missing or invalid credentials")
	ErrInvalidCredentials   = errors.New("wrong email or password")
	ErrInvalidRequest       = errors.New("invalid request")
	ErrInternalError        = errors.New("internal server error")
)

// IsNotFound checks if an error is a not-found type error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPlayerNotFound) ||
		errors.Is(err, ErrGameNotFound) ||
		errors.Is(err, ErrPlayerOrGameNotFound) ||
		errors.Is(err, ErrStatsNotFound) ||
		errors.Is(err, ErrUserNotFound)
}

// IsConflict checks if an error is a uniqueness-conflict type error
func IsConflict(err error) bool {
	return errors.Is(err, ErrStatsConflict) || errors.Is(err, ErrUserExists)
}

// IsValidation checks if an error is a field-validation error
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsUnauthorized checks if an error is an authentication failure
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrInvalidCredentials)
}
