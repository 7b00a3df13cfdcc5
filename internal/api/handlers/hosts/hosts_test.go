package hosts

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vitistack/dnsmasq-hosts/internal/model"
	"github.com/vitistack/dnsmasq-hosts/internal/repositories/host"
	"github.com/vitistack/dnsmasq-hosts/pkg/persistence/store/memory"
	"github.com/vitistack/dnsmasq-hosts/pkg/rest/middleware"
	"github.com/vitistack/dnsmasq-hosts/pkg/rest/response"
)

type recordingNotifier struct {
	calls   int
	changed []model.HostEntry
}

func (n *recordingNotifier) Notify(changed ...model.HostEntry) {
	n.calls++
	n.changed = append(n.changed, changed...)
}

func newTestService(t *testing.T, content string) (*HostsService, *memory.Store, *recordingNotifier) {
	t.Helper()
	store := memory.NewStore(content)
	notifier := &recordingNotifier{}
	page := filepath.Join(t.TempDir(), "index.html")
	if err := os.WriteFile(page, []byte("<html>hosts</html>"), 0o644); err != nil {
		t.Fatal(err)
	}
	return NewHostsService(host.NewRepository(store), notifier, page), store, notifier
}

func do(h middleware.HandlerFunc, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	middleware.WithErrorHandling(h)(rec, req)
	return rec
}

func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body response.Message
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("could not decode response: %v", err)
	}
	return body.Message
}

func TestIndex(t *testing.T) {
	hs, _, _ := newTestService(t, "")
	rec := do(hs.Index, http.MethodGet, "/", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, but got: %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("expected text/html, but got: %q", ct)
	}
	if rec.Body.String() != "<html>hosts</html>" {
		t.Errorf("unexpected page: %q", rec.Body.String())
	}
}

func TestIndexMissingPage(t *testing.T) {
	hs, _, _ := newTestService(t, "")
	hs.IndexPage = filepath.Join(t.TempDir(), "missing.html")

	rec := do(hs.Index, http.MethodGet, "/", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, but got: %d", rec.Code)
	}
}

func TestGetHosts(t *testing.T) {
	hs, _, _ := newTestService(t, "10.0.0.1 foo\n\n10.0.0.2 bar\n")
	rec := do(hs.GetHosts, http.MethodPost, "/get-hosts", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, but got: %d", rec.Code)
	}
	var body response.Data[[]model.HostEntry]
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	want := []model.HostEntry{{ID: 0, IP: "10.0.0.1", Hostname: "foo"}, {ID: 1, IP: "10.0.0.2", Hostname: "bar"}}
	if len(body.Data) != len(want) {
		t.Fatalf("expected %v, but got: %v", want, body.Data)
	}
	for i := range want {
		if body.Data[i] != want[i] {
			t.Errorf("entry %d: expected %v, but got: %v", i, want[i], body.Data[i])
		}
	}
}

func TestGetHostsEmptyIsArray(t *testing.T) {
	hs, _, _ := newTestService(t, "")
	rec := do(hs.GetHosts, http.MethodPost, "/get-hosts", "")

	if got := strings.TrimSpace(rec.Body.String()); got != `{"data":[]}` {
		t.Fatalf("expected empty data array, but got: %s", got)
	}
}

func TestGetHostsReadFailure(t *testing.T) {
	hs, store, _ := newTestService(t, "10.0.0.1 foo\n")
	store.FailWith(errors.New("permission denied"))

	rec := do(hs.GetHosts, http.MethodPost, "/get-hosts", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, but got: %d", rec.Code)
	}
	var body response.ErrorBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.StatusCode != 500 || body.Error != "Internal Server Error" || body.Message == "" {
		t.Errorf("unexpected error body: %+v", body)
	}
}

func TestAddHost(t *testing.T) {
	hs, store, notifier := newTestService(t, "10.0.0.1 foo\n")
	rec := do(hs.AddHost, http.MethodPost, "/add-host", `{"ip":"10.0.0.3","hostname":"baz"}`)

	if rec.Code != http.StatusOK || message(t, rec) != MsgAdded {
		t.Fatalf("unexpected response %d", rec.Code)
	}
	if got := store.Content(); got != "10.0.0.1 foo\n10.0.0.3 baz\n" {
		t.Errorf("unexpected file content: %q", got)
	}
	if notifier.calls != 1 {
		t.Errorf("expected one reload, but got: %d", notifier.calls)
	}
	if len(notifier.changed) != 1 || notifier.changed[0].Hostname != "baz" {
		t.Errorf("expected the new entry to be passed on, but got: %v", notifier.changed)
	}
}

func TestAddHostMalformedBody(t *testing.T) {
	hs, store, notifier := newTestService(t, "10.0.0.1 foo\n")
	rec := do(hs.AddHost, http.MethodPost, "/add-host", `{"ip":`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, but got: %d", rec.Code)
	}
	if store.Content() != "10.0.0.1 foo\n" || notifier.calls != 0 {
		t.Error("a rejected request must not touch the file or reload")
	}
}

func TestAddHostWriteFailure(t *testing.T) {
	hs, store, notifier := newTestService(t, "")
	store.FailWith(errors.New("read-only file system"))

	rec := do(hs.AddHost, http.MethodPost, "/add-host", `{"ip":"10.0.0.3","hostname":"baz"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, but got: %d", rec.Code)
	}
	if notifier.calls != 0 {
		t.Error("no reload after a failed write")
	}
}

func TestDeleteHost(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantCode    int
		wantMessage string
		wantContent string
	}{
		{name: "valid", body: `{"id":0}`, wantCode: 200, wantMessage: MsgDeleted, wantContent: "10.0.0.2 bar\n"},
		{name: "numeric string", body: `{"id":"1"}`, wantCode: 200, wantMessage: MsgDeleted, wantContent: "10.0.0.1 foo\n"},
		{name: "out of range", body: `{"id":2}`, wantCode: 400, wantMessage: MsgInvalidID, wantContent: "10.0.0.1 foo\n10.0.0.2 bar\n"},
		{name: "negative", body: `{"id":-1}`, wantCode: 400, wantMessage: MsgInvalidID, wantContent: "10.0.0.1 foo\n10.0.0.2 bar\n"},
		{name: "missing id", body: `{}`, wantCode: 400, wantMessage: MsgInvalidID, wantContent: "10.0.0.1 foo\n10.0.0.2 bar\n"},
		{name: "empty body", body: ``, wantCode: 400, wantMessage: MsgInvalidID, wantContent: "10.0.0.1 foo\n10.0.0.2 bar\n"},
		{name: "not a number", body: `{"id":"abc"}`, wantCode: 400, wantMessage: MsgInvalidID, wantContent: "10.0.0.1 foo\n10.0.0.2 bar\n"},
		{name: "fraction", body: `{"id":0.5}`, wantCode: 400, wantMessage: MsgInvalidID, wantContent: "10.0.0.1 foo\n10.0.0.2 bar\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hs, store, notifier := newTestService(t, "10.0.0.1 foo\n10.0.0.2 bar\n")
			rec := do(hs.DeleteHost, http.MethodPost, "/delete-host", tt.body)

			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, but got: %d", tt.wantCode, rec.Code)
			}
			if got := message(t, rec); got != tt.wantMessage {
				t.Errorf("expected message %q, but got: %q", tt.wantMessage, got)
			}
			if got := store.Content(); got != tt.wantContent {
				t.Errorf("expected content %q, but got: %q", tt.wantContent, got)
			}
			wantCalls := 0
			if tt.wantCode == 200 {
				wantCalls = 1
			}
			if notifier.calls != wantCalls {
				t.Errorf("expected %d reloads, but got: %d", wantCalls, notifier.calls)
			}
		})
	}
}

func TestEditHost(t *testing.T) {
	hs, store, notifier := newTestService(t, "10.0.0.1 foo\n10.0.0.2 bar\n")
	rec := do(hs.EditHost, http.MethodPost, "/edit-host", `{"id":1,"ip":"10.0.0.9","hostname":"qux"}`)

	if rec.Code != http.StatusOK || message(t, rec) != MsgEdited {
		t.Fatalf("unexpected response %d", rec.Code)
	}
	if got := store.Content(); got != "10.0.0.1 foo\n10.0.0.9 qux\n" {
		t.Errorf("unexpected file content: %q", got)
	}
	if notifier.calls != 1 || len(notifier.changed) != 1 || notifier.changed[0].IP != "10.0.0.9" {
		t.Errorf("expected the edited entry to be passed on, but got: %v", notifier.changed)
	}
}

func TestEditHostInvalidID(t *testing.T) {
	hs, store, notifier := newTestService(t, "10.0.0.1 foo\n")
	rec := do(hs.EditHost, http.MethodPost, "/edit-host", `{"id":1,"ip":"10.0.0.9","hostname":"qux"}`)

	if rec.Code != http.StatusBadRequest || message(t, rec) != MsgInvalidID {
		t.Fatalf("expected 400 Invalid ID, but got: %d", rec.Code)
	}
	if store.Content() != "10.0.0.1 foo\n" || notifier.calls != 0 {
		t.Error("file must be unchanged and no reload triggered")
	}
}

func TestEditHostWriteFailure(t *testing.T) {
	hs, store, _ := newTestService(t, "10.0.0.1 foo\n")
	store.FailWith(errors.New("disk full"))

	rec := do(hs.EditHost, http.MethodPost, "/edit-host", `{"id":0,"ip":"10.0.0.9","hostname":"qux"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, but got: %d", rec.Code)
	}
}
