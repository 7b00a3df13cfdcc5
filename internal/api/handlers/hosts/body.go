package hosts

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// hostID accepts a JSON number or a numeric string. Anything else, including
// a missing field, is left invalid instead of failing the decode.
type hostID struct {
	value int
	valid bool
}

func (id *hostID) UnmarshalJSON(data []byte) error {
	*id = hostID{}
	raw := string(bytes.TrimSpace(data))
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = strings.TrimSpace(unquoted)
	}

	if n, err := strconv.Atoi(raw); err == nil {
		id.value, id.valid = n, true
		return nil
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil && f == math.Trunc(f) && math.Abs(f) <= math.MaxInt32 {
		id.value, id.valid = int(f), true
	}
	return nil
}

type addHostRequest struct {
	IP       string `json:"ip"`
	Hostname string `json:"hostname"`
}

type deleteHostRequest struct {
	ID hostID `json:"id"`
}

type editHostRequest struct {
	ID       hostID `json:"id"`
	IP       string `json:"ip"`
	Hostname string `json:"hostname"`
}

var _ json.Unmarshaler = (*hostID)(nil)
