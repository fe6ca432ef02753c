package person

import "errors"

var (
	ErrDuplicateEmail = errors.New("email already exists")
	ErrPersonNotFound = errors.New("person not found")
)
