package apiclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vitistack/dnsmasq-hosts/internal/api"
	"github.com/vitistack/dnsmasq-hosts/internal/api/handlers/hosts"
	"github.com/vitistack/dnsmasq-hosts/internal/reload"
	"github.com/vitistack/dnsmasq-hosts/internal/repositories/host"
	"github.com/vitistack/dnsmasq-hosts/pkg/persistence/store/file"
	"github.com/vitistack/dnsmasq-hosts/pkg/rest/request/client"
)

func newTestClient(t *testing.T, content string) *Client {
	t.Helper()
	dir := t.TempDir()
	hostsFile := filepath.Join(dir, "example.hosts")
	if err := os.WriteFile(hostsFile, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	hs := hosts.NewHostsService(host.NewRepository(file.NewStore(hostsFile)), reload.Disabled{}, filepath.Join(dir, "index.html"))
	srv := httptest.NewServer(api.NewServer("127.0.0.1:0", hs).Handler())
	t.Cleanup(srv.Close)

	httpClient, err := client.NewClient(5*time.Second, client.WithRetry(1))
	if err != nil {
		t.Fatal(err)
	}
	return New(srv.URL, httpClient)
}

func TestClientRoundTrip(t *testing.T) {
	c := newTestClient(t, "10.0.0.1 foo\n")
	ctx := context.Background()

	msg, err := c.Add(ctx, "10.0.0.2", "bar")
	if err != nil || msg != "Host added successfully" {
		t.Fatalf("add: %q, %v", msg, err)
	}
	if _, err := c.Edit(ctx, 0, "10.0.0.9", "foo"); err != nil {
		t.Fatalf("edit: %v", err)
	}
	if _, err := c.Delete(ctx, 1); err != nil {
		t.Fatalf("delete: %v", err)
	}

	entries, err := c.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].IP != "10.0.0.9" || entries[0].Hostname != "foo" {
		t.Fatalf("unexpected entries: %v", entries)
	}
}

func TestClientInvalidID(t *testing.T) {
	c := newTestClient(t, "10.0.0.1 foo\n")

	_, err := c.Delete(context.Background(), 5)
	if !errors.Is(err, ErrInvalidID) {
		t.Fatalf("expected %v, but got: %v", ErrInvalidID, err)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected a 400 APIError, but got: %v", err)
	}
}

func TestClientServerError(t *testing.T) {
	c := newTestClient(t, "")
	c.baseURL += "/missing" // unknown route

	_, err := c.List(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusNotFound {
		t.Fatalf("expected a 404 APIError, but got: %v", err)
	}
}

func TestClientDoesNotRepeatSlowMutation(t *testing.T) {
	dir := t.TempDir()
	hostsFile := filepath.Join(dir, "example.hosts")
	if err := os.WriteFile(hostsFile, []byte("10.0.0.1 foo\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	hs := hosts.NewHostsService(host.NewRepository(file.NewStore(hostsFile)), reload.Disabled{}, filepath.Join(dir, "index.html"))
	h := api.NewServer("127.0.0.1:0", hs).Handler()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.ServeHTTP(w, r)
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	httpClient, err := client.NewClient(100*time.Millisecond, client.WithRetry(2))
	if err != nil {
		t.Fatal(err)
	}
	c := New(srv.URL, httpClient, WithListClient(httpClient))

	if _, err := c.Add(context.Background(), "10.0.0.3", "baz"); err == nil {
		t.Fatal("expected the request to time out")
	}

	got, err := os.ReadFile(hostsFile)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "10.0.0.1 foo\n10.0.0.3 baz\n" {
		t.Errorf("expected a single appended entry, but got: %q", got)
	}
}
