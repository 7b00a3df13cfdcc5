package hosts

import (
	"github.com/vitistack/dnsmasq-hosts/internal/reload"
	"github.com/vitistack/dnsmasq-hosts/internal/repositories/host"
)

const (
	MsgAdded     = "Host added successfully"
	MsgDeleted   = "Host deleted successfully"
	MsgEdited    = "Host edited successfully"
	MsgInvalidID = "Invalid ID"
)

type HostsService struct {
	HostRepo  host.Store
	Notifier  reload.Notifier
	IndexPage string // path of the static page, read on every request
}

func NewHostsService(repo host.Store, notifier reload.Notifier, indexPage string) *HostsService {
	return &HostsService{
		HostRepo:  repo,
		Notifier:  notifier,
		IndexPage: indexPage,
	}
}
