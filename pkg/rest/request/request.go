package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// MaxBodySize limits request bodies; a hosts entry is two short strings
const MaxBodySize = 1 << 20

var ErrDecode = errors.New("invalid request body")

// JSONDECODE decodes a JSON body into dest. An empty body leaves dest untouched.
func JSONDECODE[T any](body io.Reader, dest *T) error {
	if body == nil {
		return nil
	}
	err := json.NewDecoder(io.LimitReader(body, MaxBodySize)).Decode(dest)
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return nil
}
