package auth

import "errors"

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("upgrade your membership to access this content")
	ErrAdminOnly       = errors.New("admin access required")
)
