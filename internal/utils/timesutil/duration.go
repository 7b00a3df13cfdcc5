// Duration wraps time.Duration so config loaders can read values like "5s"
// from JSON, environment variables and flags.
package timesutil

import (
	"encoding/json"
	"fmt"
	"time"
)

type Duration time.Duration

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("failed to parse duration from JSON: %s", string(b))
	}
	return d.UnmarshalText([]byte(s))
}

func (d *Duration) UnmarshalText(b []byte) error {
	parsed, err := FromString(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

func FromDuration(duration time.Duration) Duration {
	return Duration(duration)
}

func FromString(s string) (Duration, error) {
	dur, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("could not parse duration: %w", err)
	}

	return Duration(dur), nil
}
