package process

import "errors"

var (
	ErrProcessNotFound = errors.New("no process matched")
	ErrSignal          = errors.New("could not deliver signal")
	ErrUnknownSignal   = errors.New("unknown signal")
	ErrInvalidPattern  = errors.New("invalid process pattern")
)
