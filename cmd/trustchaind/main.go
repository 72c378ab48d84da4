// Command trustchaind runs the trust engine behind an HTTP façade:
// sealed keypair storage, the enclave key manager, the repository
// registry, the command handlers, and the JSON API described in
// internal/httpapi, wired together the way empower1d wired its node
// components in runNode.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/empower1/trustchain/internal/engine"
	"github.com/empower1/trustchain/internal/httpapi"
	tclog "github.com/empower1/trustchain/internal/log"
	"github.com/empower1/trustchain/internal/keymanager"
	"github.com/empower1/trustchain/internal/registry"
	"github.com/empower1/trustchain/internal/sealedstore"
)

func runServer(cfg *config) (*http.Server, error) {
	log := tclog.Subsystem("ENGN")
	log.Info("initializing trust engine components...")

	store, err := sealedstore.Open(cfg.SealedDir)
	if err != nil {
		return nil, fmt.Errorf("open sealed store: %w", err)
	}
	log.Infof("sealed store opened at %s", cfg.SealedDir)

	km, err := keymanager.New(store)
	if err != nil {
		return nil, fmt.Errorf("load enclave keypair: %w", err)
	}
	log.Info("enclave keypair ready")

	reg := registry.New(cfg.MaxRepoID)
	eng := engine.New(km, reg, tclog.Subsystem("ENGN"))
	log.Infof("repository registry ready, capacity=%d", cfg.MaxRepoID)

	handler := httpapi.New(eng, tclog.Subsystem("HTTP"))
	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv, nil
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "trustchaind: %v\n", err)
		os.Exit(1)
	}

	if err := tclog.InitRotator(cfg.logFilePath(), 3); err != nil {
		fmt.Fprintf(os.Stderr, "trustchaind: init log rotator: %v\n", err)
		os.Exit(1)
	}
	defer tclog.CloseRotator()
	tclog.SetLevel("ENGN", tclog.ParseLevel(cfg.DebugLevel))
	tclog.SetLevel("HTTP", tclog.ParseLevel(cfg.DebugLevel))

	log := tclog.Subsystem("ENGN")
	log.Infof("starting trustchaind, listening on %s", cfg.ListenAddr)

	srv, err := runServer(cfg)
	if err != nil {
		log.Criticalf("node initialization failed: %v", err)
		os.Exit(1)
	}

	serveErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErrCh <- err
		}
	}()

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-shutdownCh:
		log.Infof("caught signal %v, starting graceful shutdown...", sig)
	case err := <-serveErrCh:
		log.Criticalf("HTTP server failed: %v", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warnf("graceful shutdown failed: %v", err)
	}
	log.Info("trustchaind shut down gracefully.")
}
