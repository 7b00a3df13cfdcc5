package memory

import (
	"fmt"
	"strings"
	"sync"

	"github.com/vitistack/dnsmasq-hosts/pkg/persistence"
)

// Store is an in-memory persistence.LineStore. Content is kept as the exact bytes a file would hold.
type Store struct {
	lock    sync.Mutex
	content string
	failErr error
}

func NewStore(content string) *Store {
	return &Store{
		lock:    sync.Mutex{},
		content: content,
	}
}

// FailWith makes every following operation fail with err wrapped in persistence.ErrIO. nil heals the store.
func (s *Store) FailWith(err error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.failErr = err
}

// Content returns the raw stored text.
func (s *Store) Content() string {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.content
}

func (s *Store) ReadLines() ([]string, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.failErr != nil {
		return nil, fmt.Errorf("%w: %w", persistence.ErrIO, s.failErr)
	}
	return strings.Split(s.content, "\n"), nil
}

func (s *Store) AppendLine(line string) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.failErr != nil {
		return fmt.Errorf("%w: %w", persistence.ErrIO, s.failErr)
	}
	s.content += line + "\n"
	return nil
}

func (s *Store) WriteLines(lines []string) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.failErr != nil {
		return fmt.Errorf("%w: %w", persistence.ErrIO, s.failErr)
	}
	s.content = string(persistence.Join(lines))
	return nil
}

func (s *Store) Update(fn func(lines []string) ([]string, error)) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.failErr != nil {
		return fmt.Errorf("%w: %w", persistence.ErrIO, s.failErr)
	}
	lines, err := fn(strings.Split(s.content, "\n"))
	if err != nil {
		return err
	}
	s.content = string(persistence.Join(lines))
	return nil
}
