package hosts

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/vitistack/dnsmasq-hosts/internal/metrics"
	"github.com/vitistack/dnsmasq-hosts/internal/model"
	"github.com/vitistack/dnsmasq-hosts/internal/repositories/host"
	"github.com/vitistack/dnsmasq-hosts/pkg/bslog"
	"github.com/vitistack/dnsmasq-hosts/pkg/rest"
	"github.com/vitistack/dnsmasq-hosts/pkg/rest/middleware"
	"github.com/vitistack/dnsmasq-hosts/pkg/rest/request"
	"github.com/vitistack/dnsmasq-hosts/pkg/rest/response"
)

// Index serves the static page from disk
func (hs *HostsService) Index(w http.ResponseWriter, r *http.Request) error {
	page, err := os.ReadFile(hs.IndexPage)
	if err != nil {
		return fmt.Errorf("unable to read index page: %w", err)
	}

	w.Header().Set("Content-Type", rest.ContentTypeHTML)
	w.WriteHeader(http.StatusOK)
	_, err = w.Write(page)
	return err
}

func (hs *HostsService) GetHosts(w http.ResponseWriter, r *http.Request) error {
	entries, err := hs.HostRepo.List()
	if err != nil {
		return fmt.Errorf("unable to fetch hosts: %w", err)
	}
	return response.JSON(w, http.StatusOK, response.Data[[]model.HostEntry]{Data: entries})
}

func (hs *HostsService) AddHost(w http.ResponseWriter, r *http.Request) error {
	var body addHostRequest
	if err := request.JSONDECODE(r.Body, &body); err != nil {
		return response.NewError(http.StatusBadRequest, err)
	}

	err := hs.HostRepo.Add(body.IP, body.Hostname)
	metrics.IncHostMutation("add", err)
	if err != nil {
		return fmt.Errorf("unable to add host: %w", err)
	}

	logger(r).Info("host added", slog.String("ip", body.IP), slog.String("hostname", body.Hostname))
	hs.Notifier.Notify(model.HostEntry{IP: body.IP, Hostname: body.Hostname})
	return response.Msg(w, http.StatusOK, MsgAdded)
}

func (hs *HostsService) DeleteHost(w http.ResponseWriter, r *http.Request) error {
	var body deleteHostRequest
	if err := request.JSONDECODE(r.Body, &body); err != nil {
		return response.NewError(http.StatusBadRequest, err)
	}
	if !body.ID.valid {
		return invalidID(w, r, "missing or non integer id")
	}

	err := hs.HostRepo.Delete(body.ID.value)
	metrics.IncHostMutation("delete", err)
	if errors.Is(err, host.ErrInvalidIndex) {
		return invalidID(w, r, err.Error())
	}
	if err != nil {
		return fmt.Errorf("unable to delete host: %w", err)
	}

	logger(r).Info("host deleted", slog.Int("id", body.ID.value))
	hs.Notifier.Notify()
	return response.Msg(w, http.StatusOK, MsgDeleted)
}

func (hs *HostsService) EditHost(w http.ResponseWriter, r *http.Request) error {
	var body editHostRequest
	if err := request.JSONDECODE(r.Body, &body); err != nil {
		return response.NewError(http.StatusBadRequest, err)
	}
	if !body.ID.valid {
		return invalidID(w, r, "missing or non integer id")
	}

	err := hs.HostRepo.Edit(body.ID.value, body.IP, body.Hostname)
	metrics.IncHostMutation("edit", err)
	if errors.Is(err, host.ErrInvalidIndex) {
		return invalidID(w, r, err.Error())
	}
	if err != nil {
		return fmt.Errorf("unable to edit host: %w", err)
	}

	logger(r).Info("host edited",
		slog.Int("id", body.ID.value),
		slog.String("ip", body.IP),
		slog.String("hostname", body.Hostname),
	)
	hs.Notifier.Notify(model.HostEntry{ID: body.ID.value, IP: body.IP, Hostname: body.Hostname})
	return response.Msg(w, http.StatusOK, MsgEdited)
}

func invalidID(w http.ResponseWriter, r *http.Request, reason string) error {
	logger(r).Warn("rejected host id", slog.String("reason", reason))
	return response.Msg(w, http.StatusBadRequest, MsgInvalidID)
}

func logger(r *http.Request) *bslog.Logger {
	return bslog.With(slog.String("request_id", middleware.RequestID(r.Context())))
}
