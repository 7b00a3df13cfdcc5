package reload

import "errors"

var (
	ErrVerify        = errors.New("verification failed")
	ErrInvalidRecord = errors.New("entry cannot be verified")
)
