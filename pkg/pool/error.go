package pool

import "errors"

var ErrPutOnClosedPool = errors.New("put on closed worker pool")
