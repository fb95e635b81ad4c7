package domain

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateTitle = errors.New("title already in use")
)

// ValidationError carries a user-facing message; handlers map it to 400.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }
