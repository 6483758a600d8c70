package tree

import "errors"

var (
	ErrTreeNotFound = errors.New("family tree not found")
)
