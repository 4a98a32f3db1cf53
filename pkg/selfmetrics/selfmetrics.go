/*
Copyright 2026 The k8s-zabbix-agent Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package selfmetrics exposes the agent's own health as Prometheus
// metrics and a /healthz endpoint, the same self-observability surface
// other Kubernetes controllers expose for their own telemetry.
package selfmetrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"k8s.io/klog/v2"
)

// Registry holds every self-metric the agent exposes on its telemetry
// port.
type Registry struct {
	reg *prometheus.Registry

	StoreSize         *prometheus.GaugeVec
	WatcherRestarts   *prometheus.CounterVec
	SinkProcessed     *prometheus.CounterVec
	SinkFailed        *prometheus.CounterVec
	DiscoverySentTime *prometheus.GaugeVec
}

// New builds a Registry with every metric registered.
func New() *Registry {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Registry{
		reg: reg,
		StoreSize: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "k8s_zabbix_store_size",
			Help: "Number of objects currently held in a kind's resource store.",
		}, []string{"kind"}),
		WatcherRestarts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "k8s_zabbix_watcher_restarts_total",
			Help: "Number of times a kind's watcher has had to restart.",
		}, []string{"kind"}),
		SinkProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "k8s_zabbix_sink_processed_total",
			Help: "Number of items successfully processed by a sink.",
		}, []string{"sink"}),
		SinkFailed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "k8s_zabbix_sink_failed_total",
			Help: "Number of items a sink failed to process.",
		}, []string{"sink"}),
		DiscoverySentTime: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "k8s_zabbix_discovery_sent_timestamp_seconds",
			Help: "Unix timestamp of the last successful discovery send for a kind.",
		}, []string{"kind"}),
	}
}

// Server serves /metrics and /healthz on addr until ctx is cancelled.
type Server struct {
	httpServer *http.Server
}

// NewServer builds the self-metrics HTTP server.
func NewServer(addr string, reg *Registry, healthy func() bool) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg.reg, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if healthy == nil || healthy() {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("not ready"))
	})

	return &Server{httpServer: &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}}
}

// Run starts serving and blocks until ctx is cancelled or the server
// fails to start.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			klog.ErrorS(err, "self-metrics server shutdown error")
		}
		return nil
	case err := <-errCh:
		return err
	}
}
