package domain

import "errors"

// InvalidCredentialsMessage is the only text a caller ever sees for a failed
// login, whether the email was unknown or the password wrong.
const InvalidCredentialsMessage = "Invalid email or password"

var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrConfiguration marks missing or unusable startup settings.
var ErrConfiguration = errors.New("configuration error")

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrUserExists     = errors.New("user already exists")
	ErrForbidden      = errors.New("access forbidden")
	ErrTicketNotFound = errors.New("ticket not found")
	ErrInvalidTicket  = errors.New("invalid ticket")
	ErrInvalidUser    = errors.New("invalid user")
	ErrIDMismatch     = errors.New("id in body does not match path")
)
