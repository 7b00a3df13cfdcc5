package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vitistack/dnsmasq-hosts/internal/api"
	"github.com/vitistack/dnsmasq-hosts/internal/api/handlers/hosts"
	"github.com/vitistack/dnsmasq-hosts/internal/config"
	"github.com/vitistack/dnsmasq-hosts/internal/reload"
	"github.com/vitistack/dnsmasq-hosts/internal/repositories/host"
	"github.com/vitistack/dnsmasq-hosts/pkg/bslog"
	"github.com/vitistack/dnsmasq-hosts/pkg/persistence/store/file"
	"github.com/vitistack/dnsmasq-hosts/pkg/pool"
	"github.com/vitistack/dnsmasq-hosts/pkg/process"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// logger not set up yet
		log.Fatalf("unable to load config: %s", err.Error())
	}
	setupLogging(cfg.Server())

	var storeOpts []file.StoreOption
	if cfg.Hosts().AtomicWrites {
		storeOpts = append(storeOpts, file.WithAtomicWrites())
	}
	if cfg.Hosts().LockFile != "" {
		storeOpts = append(storeOpts, file.WithFileLock(cfg.Hosts().LockFile))
	}
	repo := host.NewRepository(file.NewStore(cfg.Hosts().File, storeOpts...))

	var notifier reload.Notifier = reload.Disabled{}
	var workers *pool.WorkerPool
	if cfg.Reload().Enabled {
		workers = pool.NewWorkerPool(cfg.Reload().Workers, cfg.Reload().Buffer)
		notifier, err = newTrigger(cfg.Reload(), workers)
		if err != nil {
			bslog.Fatal("unable to set up dnsmasq reload", slog.String("reason", err.Error()))
		}
		workers.Start()
	} else {
		bslog.Warn("dnsmasq reload is disabled")
	}

	hs := hosts.NewHostsService(repo, notifier, cfg.Hosts().IndexPage)
	server := api.NewServer(cfg.API().Addr(), hs)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Listen(); err != nil {
		bslog.Fatal("unable to start server", slog.String("reason", err.Error()))
	}
	bslog.Info("serving hosts file", slog.String("file", cfg.Hosts().File), slog.String("index_page", cfg.Hosts().IndexPage))

	if err := server.Serve(ctx); err != nil {
		bslog.Error("server stopped", slog.String("reason", err.Error()))
	}
	if workers != nil {
		workers.Stop()
	}
	bslog.Info("shutdown complete")
}

func setupLogging(cfg *config.Server) {
	opts := &slog.HandlerOptions{
		Level:       bslog.ParseLevel(cfg.LogLevel),
		ReplaceAttr: bslog.BaseReplaceAttr,
	}

	if cfg.IsDev() {
		opts.AddSource = true
		bslog.SetDefault(bslog.NewHandler(slog.NewTextHandler(os.Stdout, opts), bslog.InDevMode()))
		return
	}
	bslog.SetDefault(bslog.NewHandler(slog.NewJSONHandler(os.Stdout, opts)))
}

func newTrigger(cfg *config.Reload, workers *pool.WorkerPool) (*reload.Trigger, error) {
	sig, err := process.ParseSignal(cfg.Signal)
	if err != nil {
		return nil, err
	}
	signaller, err := process.NewSignaller(cfg.Pattern, sig)
	if err != nil {
		return nil, err
	}

	opts := []reload.Option{reload.WithTimeout(time.Duration(cfg.Timeout))}
	if cfg.VerifyAddr != "" {
		opts = append(opts, reload.WithVerifier(reload.NewDNSVerifier(cfg.VerifyAddr, time.Duration(cfg.VerifySettle))))
	}
	bslog.Info("dnsmasq reload enabled",
		slog.String("pattern", signaller.Pattern()),
		slog.String("signal", sig.String()),
		slog.String("verify_addr", cfg.VerifyAddr),
	)
	return reload.NewTrigger(workers, signaller, opts...), nil
}
