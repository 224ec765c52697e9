package main

import (
	"context"
	"errors"
	"flag"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	log "github.com/sirupsen/logrus"

	"vagas-dashboard/internal/apiclient"
	"vagas-dashboard/internal/app"
	"vagas-dashboard/internal/bootstrap"
	"vagas-dashboard/internal/config"
	"vagas-dashboard/internal/dashboard"
	"vagas-dashboard/internal/events"
	"vagas-dashboard/internal/httpapi"
	"vagas-dashboard/internal/logging"
)

const lockName = "vagas-dashboard.lock"

func main() {
	addrFlag := flag.String("addr", "", "listen address (overrides app.addr)")
	flag.Parse()

	if err := config.LoadDotEnv("."); err != nil {
		log.Fatalf("load .env: %v", err)
	}

	dataDir := config.DataDir()
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatal(err)
	}

	userCfgPath, err := config.EnsureUserConfig(dataDir)
	if err != nil {
		log.Fatalf("config bootstrap failed: %v", err)
	}
	cfg, err := config.Load(userCfgPath)
	if err != nil {
		log.Fatalf("config load failed (%s): %v", userCfgPath, err)
	}
	config.OverlayEnv(&cfg)
	if *addrFlag != "" {
		cfg.App.Addr = *addrFlag
	}
	cfg, vr := config.NormalizeAndValidate(cfg)
	if err := vr.Err(); err != nil {
		log.Fatalf("invalid config (%s): %v", userCfgPath, err)
	}

	if err := logging.Setup(cfg.Log.Level, cfg.Log.Format); err != nil {
		log.Fatal(err)
	}
	for _, w := range vr.Warnings {
		log.WithField("path", userCfgPath).Warn(w)
	}

	var cfgVal atomic.Value // stores config.Config
	cfgVal.Store(cfg)

	// One dashboard per data dir.
	lock := flock.New(filepath.Join(dataDir, lockName))
	locked, err := lock.TryLock()
	if err != nil {
		log.Fatalf("lock %s: %v", lock.Path(), err)
	}
	if !locked {
		log.Fatalf("another dashboard is already running on %s", dataDir)
	}
	defer func() { _ = lock.Unlock() }()

	client, err := apiclient.New(cfg.API.BaseURL, apiclient.WithRateLimit(cfg.API.MaxRPS, cfg.API.Burst))
	if err != nil {
		log.Fatalf("api client: %v", err)
	}

	hub := events.NewHub()
	dash := dashboard.New(client, dashboard.Options{
		MessageTTL: cfg.MessageTTL(),
		Notifier:   hub,
	})
	root := app.New(client, dash, bootstrap.Options{
		StepPause:  cfg.StepPause(),
		FinalPause: cfg.FinalPause(),
		Publisher:  hub,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	handler, err := httpapi.NewRouter(httpapi.Deps{
		Root:        root,
		Hub:         hub,
		CfgVal:      &cfgVal,
		UserCfgPath: userCfgPath,
		APIBaseURL:  client.BaseURL(),
	})
	if err != nil {
		log.Fatal(err)
	}

	ln, err := net.Listen("tcp", cfg.App.Addr)
	if err != nil {
		log.Fatal(err)
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// A launcher can stop us over HTTP when it passes a token.
	if token := os.Getenv(envShutdownToken); token != "" {
		mux := http.NewServeMux()
		mux.Handle("/", handler)
		mux.HandleFunc("/shutdown", shutdownHandler(token, stop))
		srv.Handler = mux
	}

	root.Start(ctx)

	log.WithFields(log.Fields{
		"addr":   "http://" + ln.Addr().String(),
		"api":    client.BaseURL(),
		"config": userCfgPath,
	}).Info("dashboard listening")

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	select {
	case <-ctx.Done():
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("server stopped")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("shutdown")
	}
	root.Wait()
	log.Info("dashboard stopped")
}
