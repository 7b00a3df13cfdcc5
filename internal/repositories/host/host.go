// Package host maps the dnsmasq hosts file onto an ordered list of model.HostEntry.
//
// Entries are addressed by their current position (index-as-identity). Ids are
// recomputed on every read, so callers must re-fetch after each mutation.
// Hostnames containing whitespace are written verbatim and will not survive
// the next parse.
package host

import (
	"fmt"
	"strings"
	"sync"

	"github.com/vitistack/dnsmasq-hosts/internal/model"
	"github.com/vitistack/dnsmasq-hosts/internal/utils"
	"github.com/vitistack/dnsmasq-hosts/pkg/persistence"
)

// Store is the Host Store: everything the handlers need from the hosts file.
type Store interface {
	List() ([]model.HostEntry, error)
	Add(ip, hostname string) error
	Delete(id int) error
	Edit(id int, ip, hostname string) error
}

type Repository struct {
	store persistence.LineStore
	mu    sync.Mutex // serializes read-modify-write cycles
}

func NewRepository(storage persistence.LineStore) *Repository {
	return &Repository{
		store: storage,
	}
}

func (r *Repository) List() ([]model.HostEntry, error) {
	lines, err := r.entryLines()
	if err != nil {
		return nil, err
	}

	entries := make([]model.HostEntry, 0, len(lines))
	for id, line := range lines {
		ip, hostname := parseLine(line)
		entries = append(entries, model.HostEntry{
			ID:       id,
			IP:       ip,
			Hostname: hostname,
		})
	}

	return entries, nil
}

func (r *Repository) Add(ip, hostname string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.store.AppendLine(model.FormatLine(ip, hostname)); err != nil {
		return fmt.Errorf("could not add host: %w", err)
	}
	return nil
}

func (r *Repository) Delete(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	err := r.store.Update(func(raw []string) ([]string, error) {
		lines := nonBlank(raw)
		if !utils.InBounds(lines, id) {
			return nil, fmt.Errorf("%w: %d", ErrInvalidIndex, id)
		}
		return utils.RemoveIndexFromSlice(lines, id), nil
	})
	if err != nil {
		return fmt.Errorf("could not delete host: %w", err)
	}
	return nil
}

func (r *Repository) Edit(id int, ip, hostname string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	err := r.store.Update(func(raw []string) ([]string, error) {
		lines := nonBlank(raw)
		if !utils.InBounds(lines, id) {
			return nil, fmt.Errorf("%w: %d", ErrInvalidIndex, id)
		}
		lines[id] = model.FormatLine(ip, hostname)
		return lines, nil
	})
	if err != nil {
		return fmt.Errorf("could not edit host: %w", err)
	}
	return nil
}

// entryLines returns the raw non-blank lines, in file order.
func (r *Repository) entryLines() ([]string, error) {
	raw, err := r.store.ReadLines()
	if err != nil {
		return nil, fmt.Errorf("could not read hosts: %w", err)
	}
	return nonBlank(raw), nil
}

func nonBlank(raw []string) []string {
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// parseLine splits on runs of whitespace. Missing fields are empty, extra fields are ignored.
func parseLine(line string) (ip, hostname string) {
	fields := strings.Fields(line)
	if len(fields) > 0 {
		ip = fields[0]
	}
	if len(fields) > 1 {
		hostname = fields[1]
	}
	return ip, hostname
}
