package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownFormat is returned when a format tag is not registered.
	ErrUnknownFormat = errors.New("unknown file type")
	// ErrBlankArgument is returned when a required string argument is empty
	// or whitespace-only.
	ErrBlankArgument = errors.New("blank argument")
	// ErrTypeMismatch is returned when a generically loaded index cannot be
	// down-cast to the requested index variant.
	ErrTypeMismatch = errors.New("index type mismatch")
)

// MalformedError reports source content that violates a format's grammar.
type MalformedError struct {
	Format string
	Path   string
	Err    error
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed %s file %s: %v", e.Format, e.Path, e.Err)
}

func (e *MalformedError) Unwrap() error { return e.Err }

// NotBlank trims s and fails with ErrBlankArgument when nothing remains.
func NotBlank(s, name string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("%w: %s", ErrBlankArgument, name)
	}
	return s, nil
}
