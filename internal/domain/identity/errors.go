package identity

import "errors"

var (
	ErrUserNotFound             = errors.New("user not found")
	ErrUsernameTaken            = errors.New("username already taken")
	ErrEmailTaken               = errors.New("email already registered")
	ErrPasswordMismatch         = errors.New("password confirmation does not match")
	ErrParentalApprovalRequired = errors.New("parental approval required")
	ErrBirthdateImmutable       = errors.New("birthdate cannot be changed")
	ErrInvalidCredentials       = errors.New("invalid username or password")
	ErrForbidden                = errors.New("forbidden")
)
