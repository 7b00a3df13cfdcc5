package reload

import (
	"context"
	"log/slog"
	"time"

	"github.com/vitistack/dnsmasq-hosts/internal/metrics"
	"github.com/vitistack/dnsmasq-hosts/internal/model"
	"github.com/vitistack/dnsmasq-hosts/pkg/bslog"
)

// Job signals dnsmasq once and, when configured, checks that the changed
// entries resolve afterwards.
type Job struct {
	signaller Signaller
	verifier  Verifier
	timeout   time.Duration
	changed   []model.HostEntry
	pids      []int32
}

func (j *Job) Execute() error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	pids, err := j.signaller.Signal(ctx)
	j.pids = pids
	return err
}

func (j *Job) OnFailure(err error) {
	metrics.IncReload(metrics.OutcomeFailure)
	bslog.Error("Error reloading dnsmasq", slog.String("reason", err.Error()), slog.Any("pids", j.pids))
}

func (j *Job) OnSuccess() {
	metrics.IncReload(metrics.OutcomeSuccess)
	bslog.Info("dnsmasq reloaded", slog.Any("pids", j.pids))

	if j.verifier == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()
	for _, entry := range j.changed {
		logger := bslog.With(slog.String("hostname", entry.Hostname), slog.String("ip", entry.IP))
		err := j.verifier.Verify(ctx, entry)
		metrics.IncReloadVerification(err)
		if err != nil {
			logger.Warn("dnsmasq does not answer with the new mapping", slog.String("reason", err.Error()))
			continue
		}
		logger.Debug("dnsmasq answers with the new mapping")
	}
}
