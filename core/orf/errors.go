package orf

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration matches every *ConfigError.
	ErrConfiguration = errors.New("invalid search configuration")
	// ErrInvalidInput matches every *InputError.
	ErrInvalidInput = errors.New("invalid input sequence")
)

// ConfigError reports unusable settings. It is raised before any scanning.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("orf: %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrConfiguration }

// InputError reports a missing or unusable sequence.
type InputError struct {
	SeqID  string
	Reason string
}

func (e *InputError) Error() string {
	if e.SeqID == "" {
		return "orf: " + e.Reason
	}
	return fmt.Sprintf("orf: sequence %q: %s", e.SeqID, e.Reason)
}

func (e *InputError) Unwrap() error { return ErrInvalidInput }
