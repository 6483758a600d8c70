package person

import "errors"

var (
	ErrPersonNotFound = errors.New("person not found")
	ErrInvalidDates   = errors.New("birth date must be before death date")
)
