package host

import "errors"

var (
	ErrInvalidIndex = errors.New("invalid host index")
)
