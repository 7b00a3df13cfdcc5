package process

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"slices"
	"syscall"
	"testing"
	"time"
)

type fakeProcess struct {
	pid      int32
	name     string
	nameErr  error
	sigErr   error
	received []syscall.Signal
}

func (f *fakeProcess) Pid() int32 { return f.pid }

func (f *fakeProcess) Name(context.Context) (string, error) { return f.name, f.nameErr }

func (f *fakeProcess) Signal(_ context.Context, sig syscall.Signal) error {
	if f.sigErr != nil {
		return f.sigErr
	}
	f.received = append(f.received, sig)
	return nil
}

func newFakeSignaller(t *testing.T, pattern string, procs ...*fakeProcess) *Signaller {
	t.Helper()
	s, err := NewSignaller(pattern, syscall.SIGHUP)
	if err != nil {
		t.Fatalf("NewSignaller() failed: %v", err)
	}
	s.list = func(context.Context) ([]target, error) {
		targets := make([]target, 0, len(procs))
		for _, p := range procs {
			targets = append(targets, p)
		}
		return targets, nil
	}
	return s
}

func TestParseSignal(t *testing.T) {
	tests := []struct {
		in      string
		want    syscall.Signal
		wantErr bool
	}{
		{in: "HUP", want: syscall.SIGHUP},
		{in: "sighup", want: syscall.SIGHUP},
		{in: " TERM ", want: syscall.SIGTERM},
		{in: "1", want: syscall.Signal(1)},
		{in: "RELOAD", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseSignal(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownSignal) {
				t.Errorf("ParseSignal(%q): expected %v, got: %v", tt.in, ErrUnknownSignal, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseSignal(%q) = %v, %v; expected %v", tt.in, got, err, tt.want)
		}
	}
}

func TestNewSignallerInvalidPattern(t *testing.T) {
	if _, err := NewSignaller("dns(", syscall.SIGHUP); !errors.Is(err, ErrInvalidPattern) {
		t.Fatalf("expected %v, got: %v", ErrInvalidPattern, err)
	}
}

func TestSignalMatchingProcesses(t *testing.T) {
	dnsmasq := &fakeProcess{pid: 10, name: "dnsmasq"}
	other := &fakeProcess{pid: 11, name: "nginx"}
	gone := &fakeProcess{pid: 12, nameErr: errors.New("no such process")}
	s := newFakeSignaller(t, "dnsmasq", dnsmasq, other, gone)

	pids, err := s.Signal(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(pids, []int32{10}) {
		t.Errorf("expected pid 10 signalled, but got: %v", pids)
	}
	if !slices.Equal(dnsmasq.received, []syscall.Signal{syscall.SIGHUP}) {
		t.Errorf("dnsmasq did not receive SIGHUP: %v", dnsmasq.received)
	}
	if len(other.received) != 0 {
		t.Errorf("non matching process was signalled")
	}
}

func TestSignalSkipsSelf(t *testing.T) {
	s := newFakeSignaller(t, ".*")
	self := &fakeProcess{pid: s.self, name: "dnsmasq-hosts"}
	s.list = func(context.Context) ([]target, error) { return []target{self}, nil }

	if _, err := s.Signal(context.Background()); !errors.Is(err, ErrProcessNotFound) {
		t.Fatalf("expected %v, got: %v", ErrProcessNotFound, err)
	}
	if len(self.received) != 0 {
		t.Error("signaller must never signal its own process")
	}
}

func TestSignalNotFound(t *testing.T) {
	s := newFakeSignaller(t, "dnsmasq", &fakeProcess{pid: 11, name: "nginx"})
	if _, err := s.Signal(context.Background()); !errors.Is(err, ErrProcessNotFound) {
		t.Fatalf("expected %v, got: %v", ErrProcessNotFound, err)
	}
}

func TestSignalDeliveryFailure(t *testing.T) {
	denied := &fakeProcess{pid: 10, name: "dnsmasq", sigErr: syscall.EPERM}
	ok := &fakeProcess{pid: 11, name: "dnsmasq"}
	s := newFakeSignaller(t, "^dnsmasq$", denied, ok)

	pids, err := s.Signal(context.Background())
	if !errors.Is(err, ErrSignal) || !errors.Is(err, syscall.EPERM) {
		t.Fatalf("expected %v wrapping EPERM, got: %v", ErrSignal, err)
	}
	if !slices.Equal(pids, []int32{11}) {
		t.Errorf("expected the reachable process to still be signalled, got: %v", pids)
	}
}

func TestSignalRealProcess(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("process names are read from /proc")
	}
	path, err := exec.LookPath("sleep")
	if err != nil {
		t.Skip("sleep not available")
	}

	// a private copy with a unique name so no other process matches
	name := fmt.Sprintf("hsig%d", os.Getpid()%1000000)
	bin := filepath.Join(t.TempDir(), name)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Skipf("unable to copy sleep: %v", err)
	}
	if err := os.WriteFile(bin, data, 0o755); err != nil {
		t.Fatal(err)
	}

	cmd := exec.Command(bin, "30")
	if err := cmd.Start(); err != nil {
		t.Skipf("unable to start %s: %v", name, err)
	}
	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()
	t.Cleanup(func() { _ = cmd.Process.Kill() })

	select {
	case <-done:
		t.Skip("sleep copy exited immediately, probably a multi-call binary")
	case <-time.After(100 * time.Millisecond):
	}

	s, err := NewSignaller("^"+name+"$", syscall.SIGHUP)
	if err != nil {
		t.Fatal(err)
	}
	pids, err := s.Signal(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(pids, []int32{int32(cmd.Process.Pid)}) {
		t.Fatalf("expected only pid %d signalled, but got: %v", cmd.Process.Pid, pids)
	}

	select {
	case err := <-done:
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			t.Fatalf("expected the process to be terminated by SIGHUP, got: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("process did not exit after SIGHUP")
	}
}
