// Command devapi serves the listings REST API from a local sqlite file.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"vagas-dashboard/internal/collect"
	"vagas-dashboard/internal/config"
	"vagas-dashboard/internal/devapi"
	"vagas-dashboard/internal/domain"
	"vagas-dashboard/internal/logging"
	"vagas-dashboard/internal/scheduler"
	"vagas-dashboard/internal/store"
)

func main() {
	if err := config.LoadDotEnv("."); err != nil {
		log.Fatalf("load .env: %v", err)
	}

	addr := flag.String("addr", envOr("VAGAS_DEVAPI_ADDR", "127.0.0.1:8000"), "listen address")
	dbPath := flag.String("db", envOr("VAGAS_DEVAPI_DB", filepath.Join(config.DataDir(), "vagas.db")), "sqlite database file")
	level := flag.String("log-level", envOr("VAGAS_LOG_LEVEL", "info"), "log level")
	indeedURL := flag.String("indeed-url", os.Getenv("VAGAS_DEVAPI_INDEED_URL"), "collect Indeed from this search page instead of the sample batch")
	collectAt := flag.String("collect-at", os.Getenv("VAGAS_DEVAPI_COLLECT_AT"), "run a full collection every day at HH:MM")
	flag.Parse()

	if err := logging.Setup(*level, "text"); err != nil {
		log.Fatal(err)
	}

	if err := os.MkdirAll(filepath.Dir(*dbPath), 0o755); err != nil {
		log.Fatal(err)
	}
	db, err := store.Open(*dbPath)
	if err != nil {
		log.Fatalf("open %s: %v", *dbPath, err)
	}
	defer db.Close()

	api := devapi.New(db)
	if *indeedURL != "" {
		api.Collectors[domain.SourceIndeed] = collect.NewIndeed(*indeedURL).Fetch
	}

	srv := &http.Server{
		Addr:              *addr,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *collectAt != "" {
		at, err := scheduler.ParseClock(*collectAt)
		if err != nil {
			log.Fatal(err)
		}
		go scheduler.Daily(ctx, at, "collect", func(ctx context.Context) error {
			res := api.CollectAll(ctx)
			log.WithField("total_novas", res.TotalNew).Info("scheduled collection done")
			return nil
		})
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	log.WithFields(log.Fields{"addr": "http://" + *addr + "/api", "db": *dbPath}).Info("devapi listening")

	select {
	case <-ctx.Done():
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server stopped")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("shutdown")
	}
	if err := db.Checkpoint(shutdownCtx); err != nil {
		log.WithError(err).Debug("checkpoint on exit")
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
