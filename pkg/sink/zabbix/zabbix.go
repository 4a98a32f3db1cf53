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

// Package zabbix implements the coordinator.ZabbixSink interface over
// internal/zabbixproto, wrapped in a github.com/sony/gobreaker circuit
// breaker so a down/unreachable Zabbix server stops being hammered.
package zabbix

import (
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"k8s.io/klog/v2"

	"github.com/k8s-zabbix/k8s-zabbix-agent/internal/zabbixproto"
	"github.com/k8s-zabbix/k8s-zabbix-agent/pkg/k8sobject"
)

// Config configures the Zabbix trapper sink.
type Config struct {
	ServerAddr   string // "host:port"
	Timeout      time.Duration
	DryRun       bool // log items instead of sending them
	SingleSend   bool // one connection per item, for --debug
}

// Sink sends k8sobject.ZabbixMetric batches to a Zabbix trapper.
type Sink struct {
	cfg     Config
	client  *zabbixproto.Client
	breaker *gobreaker.CircuitBreaker
}

// New builds a Sink, or a no-op dry-run Sink if cfg.DryRun is set.
func New(cfg Config) *Sink {
	client := zabbixproto.NewClient(cfg.ServerAddr, cfg.Timeout)
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "zabbix-trapper",
		MaxRequests: 1,
		Interval:    0,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			klog.InfoS("circuit breaker state change", "breaker", name, "from", from, "to", to)
		},
	})
	return &Sink{cfg: cfg, client: client, breaker: breaker}
}

// Send implements coordinator.ZabbixSink.
func (s *Sink) Send(metrics []k8sobject.ZabbixMetric) (processed, failed int, err error) {
	if len(metrics) == 0 {
		return 0, 0, nil
	}

	if s.cfg.DryRun {
		for _, m := range metrics {
			klog.InfoS("dry-run: would send to zabbix", "host", m.Host, "key", m.Key, "value", m.Value)
		}
		return len(metrics), 0, nil
	}

	items := make([]zabbixproto.Item, len(metrics))
	for i, m := range metrics {
		items[i] = zabbixproto.Item{Host: m.Host, Key: m.Key, Value: m.Value}
	}

	if s.cfg.SingleSend {
		return s.sendOneByOne(items)
	}

	result, err := s.breaker.Execute(func() (interface{}, error) {
		return s.client.Send(items)
	})
	if err != nil {
		return 0, len(items), fmt.Errorf("zabbix: send batch: %w", err)
	}

	resp := result.(zabbixproto.Response)
	processed, failed, _ = resp.Summary()
	if failed > 0 {
		return processed, failed, fmt.Errorf("zabbix: server reported %d failed items: %s", failed, resp.Info)
	}
	return processed, failed, nil
}

// sendOneByOne sends each item in its own request, for --debug
// troubleshooting of which specific item the server is rejecting.
func (s *Sink) sendOneByOne(items []zabbixproto.Item) (processed, failed int, err error) {
	for _, item := range items {
		result, sendErr := s.breaker.Execute(func() (interface{}, error) {
			return s.client.Send([]zabbixproto.Item{item})
		})
		if sendErr != nil {
			failed++
			klog.ErrorS(sendErr, "failed to send single item", "host", item.Host, "key", item.Key)
			continue
		}
		resp := result.(zabbixproto.Response)
		p, f, _ := resp.Summary()
		processed += p
		failed += f
	}
	if failed > 0 {
		return processed, failed, fmt.Errorf("zabbix: %d of %d items failed", failed, len(items))
	}
	return processed, failed, nil
}
