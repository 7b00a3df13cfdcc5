// Package process finds running processes by name and signals them, like pkill.
package process

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"syscall"

	"github.com/shirou/gopsutil/v3/process"
)

var signalNames = map[string]syscall.Signal{
	"HUP":  syscall.SIGHUP,
	"INT":  syscall.SIGINT,
	"KILL": syscall.SIGKILL,
	"TERM": syscall.SIGTERM,
	"QUIT": syscall.SIGQUIT,
}

// ParseSignal accepts "HUP", "SIGHUP" or a signal number.
func ParseSignal(name string) (syscall.Signal, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	if num, err := strconv.Atoi(name); err == nil && num > 0 {
		return syscall.Signal(num), nil
	}
	sig, ok := signalNames[strings.TrimPrefix(name, "SIG")]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownSignal, name)
	}
	return sig, nil
}

type target interface {
	Pid() int32
	Name(ctx context.Context) (string, error)
	Signal(ctx context.Context, sig syscall.Signal) error
}

type lister func(ctx context.Context) ([]target, error)

// Signaller sends one signal to every process whose name matches a pattern.
type Signaller struct {
	pattern *regexp.Regexp
	signal  syscall.Signal
	list    lister
	self    int32
}

func NewSignaller(pattern string, sig syscall.Signal) (*Signaller, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPattern, err)
	}
	return &Signaller{
		pattern: re,
		signal:  sig,
		list:    systemProcesses,
		self:    int32(os.Getpid()),
	}, nil
}

func (s *Signaller) Pattern() string {
	return s.pattern.String()
}

// Signal delivers the signal and returns the pids that received it.
// ErrProcessNotFound when nothing matched; ErrSignal when any delivery failed.
func (s *Signaller) Signal(ctx context.Context) ([]int32, error) {
	procs, err := s.list(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: listing processes: %w", ErrSignal, err)
	}

	var (
		signalled []int32
		errs      []error
	)
	for _, p := range procs {
		if p.Pid() == s.self {
			continue
		}
		name, err := p.Name(ctx)
		if err != nil { // process exited while iterating, or not ours to inspect
			continue
		}
		if !s.pattern.MatchString(name) {
			continue
		}

		if err := p.Signal(ctx, s.signal); err != nil {
			errs = append(errs, fmt.Errorf("pid %d: %w", p.Pid(), err))
			continue
		}
		signalled = append(signalled, p.Pid())
	}

	if len(errs) > 0 {
		return signalled, fmt.Errorf("%w: %w", ErrSignal, errors.Join(errs...))
	}
	if len(signalled) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrProcessNotFound, s.pattern)
	}
	return signalled, nil
}

type systemProcess struct {
	proc *process.Process
}

func (p systemProcess) Pid() int32 { return p.proc.Pid }

func (p systemProcess) Name(ctx context.Context) (string, error) {
	return p.proc.NameWithContext(ctx)
}

func (p systemProcess) Signal(ctx context.Context, sig syscall.Signal) error {
	return p.proc.SendSignalWithContext(ctx, sig)
}

func systemProcesses(ctx context.Context) ([]target, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}
	targets := make([]target, 0, len(procs))
	for _, p := range procs {
		targets = append(targets, systemProcess{proc: p})
	}
	return targets, nil
}
