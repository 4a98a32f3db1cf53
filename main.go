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

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	clientset "k8s.io/client-go/kubernetes"
	"k8s.io/klog/v2"

	"github.com/k8s-zabbix/k8s-zabbix-agent/internal/k8sclient"
	"github.com/k8s-zabbix/k8s-zabbix-agent/pkg/coordinator"
	"github.com/k8s-zabbix/k8s-zabbix-agent/pkg/k8sobject"
	"github.com/k8s-zabbix/k8s-zabbix-agent/pkg/options"
	"github.com/k8s-zabbix/k8s-zabbix-agent/pkg/scheduler"
	"github.com/k8s-zabbix/k8s-zabbix-agent/pkg/selfmetrics"
	"github.com/k8s-zabbix/k8s-zabbix-agent/pkg/sink/webapi"
	"github.com/k8s-zabbix/k8s-zabbix-agent/pkg/sink/zabbix"
	"github.com/k8s-zabbix/k8s-zabbix-agent/pkg/watch"
)

func main() {
	opts := options.NewOptions()

	cmd := &cobra.Command{
		Use:   "k8s-zabbix-agent",
		Short: "Watches Kubernetes cluster resources and publishes health/capacity signals to Zabbix and a web API.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts)
		},
	}
	opts.AddFlags(cmd)

	klogFlags := flag.NewFlagSet("klog", flag.ExitOnError)
	klog.InitFlags(klogFlags)
	cmd.Flags().AddGoFlagSet(klogFlags)
	_ = cmd.Flags().Lookup("logtostderr").Value.Set("true")

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()
	cmd.SetContext(ctx)

	if err := cmd.Execute(); err != nil {
		klog.ErrorS(err, "agent exited with error")
		os.Exit(1)
	}
}

func run(ctx context.Context, opts *options.Options) error {
	if err := opts.Load(); err != nil {
		return err
	}
	if err := opts.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	kinds := parseKinds(opts.Resources)

	client, err := k8sclient.NewClient(k8sclient.Config{
		Mode:       k8sclient.AccessMode(opts.KubeAccessMode),
		Kubeconfig: opts.Kubeconfig,
		APIServer:  opts.APIServer,
		APIToken:   opts.APIToken,
	})
	if err != nil {
		return err
	}

	zabbixSink := zabbix.New(zabbix.Config{
		ServerAddr: fmt.Sprintf("%s:%d", opts.ZabbixServer, opts.ZabbixPort),
		Timeout:    opts.ZabbixTimeout,
		DryRun:     opts.ZabbixDryRun,
		SingleSend: opts.ZabbixDebug,
	})
	webSink := webapi.New(webapi.Config{
		BaseURL:   opts.WebAPIBaseURL,
		Token:     opts.WebAPIToken,
		Cluster:   opts.Cluster,
		VerifyTLS: opts.WebAPIVerifyTLS,
	})

	allowAll := map[k8sobject.Kind]bool{}
	for _, k := range kinds {
		allowAll[k] = true
	}

	coord := coordinator.New(coordinator.Config{
		ZabbixHost:         opts.ZabbixHost,
		Cluster:            opts.Cluster,
		RateLimit:          opts.RateLimitSeconds,
		DataResendInterval: opts.ResendInterval,
		ZabbixAllowedKinds: allowAll,
		WebAllowedKinds:    allowAll,
		WebAPIEnabled:      opts.WebAPIEnabled,
	}, kinds, zabbixSink, webSink)

	registry := selfmetrics.New()
	metricsServer := selfmetrics.NewServer(fmt.Sprintf(":%d", opts.MetricsPort), registry, func() bool { return true })

	var pvcCollector coordinator.PVCLister
	if opts.PVCEnabled {
		pvcCollector = &k8sclient.PVCUsageCollector{Client: client, Timeout: opts.ZabbixTimeout}
	}

	sched := scheduler.New(scheduler.Config{
		DiscoveryDelay:    opts.DiscoveryDelay,
		DiscoveryInterval: opts.DiscoveryInterval,
		ResendDelay:       opts.ResendDelay,
		ResendInterval:    opts.ResendInterval,
		AggregateDelay:    opts.AggregateDelay,
		AggregateInterval: opts.AggregateInterval,
		HeartbeatInterval: opts.HeartbeatInterval,
		PVCDelay:          opts.PVCDelay,
		PVCInterval:       opts.PVCInterval,
		ShutdownTimeout:   opts.ShutdownJoinTimeout,
	}, coord, kinds, pvcCollector)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go metricsRun(runCtx, metricsServer)
	go handleDumpSignals(runCtx, coord)
	startWatchers(runCtx, client, coord, kinds)
	sched.Start(runCtx)

	<-ctx.Done()
	klog.InfoS("shutdown signal received, stopping scheduler")
	sched.Stop()
	return nil
}

func metricsRun(ctx context.Context, server *selfmetrics.Server) {
	if err := server.Run(ctx); err != nil {
		klog.ErrorS(err, "self-metrics server failed")
	}
}

// startWatchers launches one restartable watcher goroutine per watched
// kind, and the timer-based poller for ComponentStatus, which has no
// watch support on the cluster API.
func startWatchers(ctx context.Context, client clientset.Interface, coord *coordinator.Coordinator, kinds []k8sobject.Kind) {
	for _, kind := range kinds {
		if kind == k8sobject.KindComponent {
			lister, err := k8sclient.Lister(client, kind)
			if err != nil {
				klog.ErrorS(err, "failed to build lister", "kind", kind)
				continue
			}
			poller := &watch.ComponentsPoller{Lister: lister, Sink: coord, Interval: 5 * time.Minute}
			go poller.Run(ctx)
			continue
		}

		source, err := k8sclient.SourceFor(client, kind, "")
		if err != nil {
			// pods/pvcs have no watch source - pvcs are synthesized by the
			// scheduler's PVC resend job, and containers are derived from
			// the pods store by the scheduler's aggregate job.
			if kind != k8sobject.KindPVC && kind != k8sobject.KindContainer {
				klog.ErrorS(err, "failed to build watch source", "kind", kind)
			}
			continue
		}
		go runWatcherWithRestart(ctx, kind, source, coord)
	}
}

// runWatcherWithRestart respawns a Watcher whenever Run returns a
// restart-needed error, with a short backoff to avoid hammering the API
// server on a persistent failure.
func runWatcherWithRestart(ctx context.Context, kind k8sobject.Kind, source watch.Source, sink watch.Sink) {
	backoff := time.Second
	const maxBackoff = 30 * time.Second

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		w := watch.NewWatcher(kind, source, sink)
		err := w.Run(ctx)
		if ctx.Err() != nil {
			return
		}
		if err == nil {
			continue
		}

		klog.InfoS("restarting watcher after backoff", "kind", kind, "backoff", backoff)
		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
}

func parseKinds(names []string) []k8sobject.Kind {
	out := make([]k8sobject.Kind, 0, len(names))
	for _, n := range names {
		k := k8sobject.Kind(n)
		if k.Valid() {
			out = append(out, k)
		} else {
			klog.ErrorS(nil, "ignoring unknown resource kind", "kind", n)
		}
	}
	return out
}

// handleDumpSignals wires SIGUSR1 -> DumpSummary and SIGUSR2 -> DumpFull.
func handleDumpSignals(ctx context.Context, coord *coordinator.Coordinator) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGUSR1, syscall.SIGUSR2)
	defer signal.Stop(sigCh)

	for {
		select {
		case <-ctx.Done():
			return
		case sig := <-sigCh:
			switch sig {
			case syscall.SIGUSR1:
				coord.DumpSummary()
			case syscall.SIGUSR2:
				coord.DumpFull()
			}
		}
	}
}
