package config

import (
	"errors"
	"fmt"
)

var (
	ErrMissing      = errors.New("required but not set")
	ErrInvalidValue = errors.New("invalid value")
	ErrOutOfRange   = errors.New("value out of range")
)

// ConfigError is returned for any configuration problem. It is fatal: the
// service must not start serving when one occurs.
type ConfigError struct {
	Key string
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %v", e.Key, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
