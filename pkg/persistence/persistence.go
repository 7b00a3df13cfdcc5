package persistence

import "errors"

// ErrIO wraps every failure to read or write the backing storage.
var ErrIO = errors.New("storage i/o failure")

// LineStore persists an ordered list of raw text lines.
type LineStore interface {
	ReadLines() ([]string, error)    // all lines, split on "\n"
	AppendLine(line string) error    // append line followed by "\n"
	WriteLines(lines []string) error // replace content with lines joined by "\n" and a trailing "\n"

	// Update reads all lines, passes them to fn and writes back what fn returns,
	// holding the store's locks across both steps. An error from fn aborts the
	// write and is returned unwrapped.
	Update(fn func(lines []string) ([]string, error)) error
}

// Join renders lines the way every LineStore writes them. No lines is a single "\n".
func Join(lines []string) []byte {
	if len(lines) == 0 {
		return []byte{'\n'}
	}
	size := 0
	for _, line := range lines {
		size += len(line) + 1
	}
	buf := make([]byte, 0, size)
	for _, line := range lines {
		buf = append(buf, line...)
		buf = append(buf, '\n')
	}
	return buf
}
