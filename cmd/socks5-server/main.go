// Package main is the entry point for the reference SOCKS5 server.
package main

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/loncothad/socker/internal/config"
	"github.com/loncothad/socker/internal/logger"
	"github.com/loncothad/socker/internal/metrics"
	"github.com/loncothad/socker/server"
)

func main() {
	log := logger.Default()

	cfg, err := config.LoadServerConfig(cfgPathFlag)
	if err != nil {
		log.Errorf("invalid config file: %v", err)
		return
	}

	store := server.NewCredentialStore()
	for _, acc := range cfg.Accounts {
		if err := store.AddUser(acc.Username, acc.Password); err != nil {
			log.Errorf("registering account %q: %v", acc.Username, err)
			return
		}
	}

	var recorder *metrics.Recorder
	if cfg.MetricsAddress != "" {
		reg := prometheus.NewRegistry()
		recorder = metrics.NewRecorder(reg)
		go serveMetrics(cfg.MetricsAddress, reg, log)
	}

	ln, err := net.Listen("tcp", cfg.ListenAddress)
	if err != nil {
		log.Errorf("listen on %s: %v", cfg.ListenAddress, err)
		return
	}
	log.Debugf("server listening on %s", cfg.ListenAddress)

	dialer := &net.Dialer{Timeout: cfg.DialTimeout()}

	var listenerRecorder server.SessionRecorder
	if recorder != nil {
		listenerRecorder = recorder
	}
	listener := server.NewListener(ln, store, dialer, log, listenerRecorder)

	if err := listener.Run(context.Background()); err != nil {
		log.Errorf("listener stopped: %v", err)
	}
}

func serveMetrics(addr string, reg *prometheus.Registry, log *logger.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	if err := http.ListenAndServe(addr, mux); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Errorf("metrics server stopped: %v", err)
	}
}
