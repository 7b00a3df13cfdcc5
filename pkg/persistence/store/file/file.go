package file

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/gofrs/flock"
	atomicfile "github.com/natefinch/atomic"
	"github.com/vitistack/dnsmasq-hosts/pkg/persistence"
)

type StoreOption func(s *Store)

// WithAtomicWrites makes WriteLines write a temp file and rename it over the target.
func WithAtomicWrites() StoreOption {
	return func(s *Store) {
		s.atomic = true
	}
}

// WithFileLock holds an advisory lock on lockPath for the duration of every
// operation, including the whole read-modify-write of Update.
func WithFileLock(lockPath string) StoreOption {
	return func(s *Store) {
		if lockPath != "" {
			s.flock = flock.New(lockPath)
		}
	}
}

// Store is a persistence.LineStore backed by a plain text file.
// The file is never created; a missing file is an I/O error.
type Store struct {
	lock   sync.Mutex // one flock acquisition at a time
	path   string
	atomic bool
	flock  *flock.Flock
	mode   os.FileMode
}

func NewStore(path string, opts ...StoreOption) *Store {
	s := &Store{
		lock: sync.Mutex{},
		path: path,
		mode: 0o644,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) ReadLines() ([]string, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	var lines []string
	err := s.withFileLock(false, func() error {
		var err error
		lines, err = s.read()
		return err
	})
	if err != nil {
		return nil, err
	}

	return lines, nil
}

func (s *Store) AppendLine(line string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.withFileLock(true, func() error {
		if err := s.appendLine(line); err != nil {
			return fmt.Errorf("%w: append %s: %w", persistence.ErrIO, s.path, err)
		}
		return nil
	})
}

func (s *Store) appendLine(line string) error {
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_WRONLY, s.mode)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(line + "\n"); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (s *Store) WriteLines(lines []string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.withFileLock(true, func() error {
		return s.write(lines)
	})
}

func (s *Store) Update(fn func(lines []string) ([]string, error)) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.withFileLock(true, func() error {
		lines, err := s.read()
		if err != nil {
			return err
		}
		lines, err = fn(lines)
		if err != nil {
			return err
		}
		return s.write(lines)
	})
}

func (s *Store) read() ([]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", persistence.ErrIO, s.path, err)
	}
	return strings.Split(string(data), "\n"), nil
}

func (s *Store) write(lines []string) error {
	data := persistence.Join(lines)
	var err error
	if s.atomic {
		err = atomicfile.WriteFile(s.path, bytes.NewReader(data))
	} else {
		err = os.WriteFile(s.path, data, s.mode)
	}
	if err != nil {
		return fmt.Errorf("%w: write %s: %w", persistence.ErrIO, s.path, err)
	}
	return nil
}

func (s *Store) withFileLock(exclusive bool, fn func() error) error {
	if s.flock == nil {
		return fn()
	}

	var err error
	if exclusive {
		err = s.flock.Lock()
	} else {
		err = s.flock.RLock()
	}
	if err != nil {
		return fmt.Errorf("%w: could not lock %s: %w", persistence.ErrIO, s.flock.Path(), err)
	}
	defer s.flock.Unlock()

	return fn()
}
