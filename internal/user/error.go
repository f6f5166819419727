package user

import "errors"

var (
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrProfileFields      = errors.New("full name, phone and address are required")

	// ErrProfileIncomplete carries the redirect the checkout gate fails into:
	// no session means /login, everything else means /profile.
	ErrProfileIncomplete    = errors.New("customer profile is incomplete")
	ErrUserNotAuthenticated = errors.New("user not authenticated")
)

// RedirectFor maps a profile-gate failure to the route the client should
// land on, with the return path preserved by the caller.
func RedirectFor(err error) string {
	if errors.Is(err, ErrUserNotAuthenticated) {
		return "/login"
	}
	return "/profile"
}
