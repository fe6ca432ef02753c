package session

import "errors"

// ErrInvalidCredentials is returned for both an unknown email and a wrong
// password.
var ErrInvalidCredentials = errors.New("invalid email or password")
