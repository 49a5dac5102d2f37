package service

import "errors"

// Sentinel errors shared across services. The api package translates these
// into HTTP statuses: not-found -> 404, forbidden/inactive -> 403, invalid
// credentials -> 401, everything else in this list -> 400.
var (
	ErrNotFound               = errors.New("not found")
	ErrForbidden              = errors.New("forbidden")
	ErrEmailTaken             = errors.New("email already in use")
	ErrAccountInactive        = errors.New("please activate your account first")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrInvalidActivationToken = errors.New("invalid or expired activation token")
	ErrDuplicateTitle         = errors.New("recipe title already exists for this chef")
	ErrInvalidRating          = errors.New("rating must be between 1 and 5")
	ErrEmptyReview            = errors.New("review text must not be empty")
	ErrSamePassword           = errors.New("new password cannot be the same as the old password")
	ErrActivationMail         = errors.New("registration saved but the activation email could not be sent")
)
