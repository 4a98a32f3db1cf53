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

package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"k8s.io/klog/v2"

	"github.com/k8s-zabbix/k8s-zabbix-agent/pkg/coordinator"
	"github.com/k8s-zabbix/k8s-zabbix-agent/pkg/k8sobject"
)

// Jobs is the surface the scheduler drives; the coordinator implements
// it (pkg/coordinator/jobs.go).
type Jobs interface {
	SendDiscovery(kind k8sobject.Kind)
	ResendZabbix(kind k8sobject.Kind)
	ResendWeb(kind k8sobject.Kind)
	AggregateServices()
	AggregateContainers()
	Heartbeat()
	ResendPVCs(ctx context.Context, lister coordinator.PVCLister)
}

// Config holds every interval the scheduler needs.
type Config struct {
	DiscoveryDelay    time.Duration
	DiscoveryInterval time.Duration
	ResendDelay       time.Duration
	ResendInterval    time.Duration
	AggregateDelay    time.Duration
	AggregateInterval time.Duration
	HeartbeatInterval time.Duration
	PVCDelay          time.Duration
	PVCInterval       time.Duration
	ShutdownTimeout   time.Duration // default 3s
}

// Scheduler wraps a robfig/cron/v3 engine configured with delayedInterval
// schedules.
type Scheduler struct {
	cfg     Config
	cron    *cron.Cron
	jobs    Jobs
	kinds   []k8sobject.Kind
	pvc     coordinator.PVCLister
	hasPods bool
}

// New builds a Scheduler for the given enabled kinds. pvc may be nil if
// PVC node-proxy collection isn't configured.
func New(cfg Config, jobs Jobs, kinds []k8sobject.Kind, pvc coordinator.PVCLister) *Scheduler {
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 3 * time.Second
	}
	hasPods := false
	for _, k := range kinds {
		if k == k8sobject.KindPod {
			hasPods = true
		}
	}
	return &Scheduler{
		cfg:     cfg,
		cron:    cron.New(),
		jobs:    jobs,
		kinds:   kinds,
		pvc:     pvc,
		hasPods: hasPods,
	}
}

// Start registers every job on its own delayedInterval schedule and
// starts the cron engine's own goroutine.
func (s *Scheduler) Start(ctx context.Context) {
	for _, kind := range s.kinds {
		kind := kind
		s.schedule(s.cfg.DiscoveryDelay, s.cfg.DiscoveryInterval, func() {
			s.jobs.SendDiscovery(kind)
		})
		s.schedule(s.cfg.ResendDelay, s.cfg.ResendInterval, func() {
			s.jobs.ResendZabbix(kind)
			s.jobs.ResendWeb(kind)
		})
	}

	s.schedule(s.cfg.AggregateDelay, s.cfg.AggregateInterval, s.jobs.AggregateServices)
	if s.hasPods {
		s.schedule(s.cfg.AggregateDelay, s.cfg.AggregateInterval, s.jobs.AggregateContainers)
	}
	if s.cfg.HeartbeatInterval > 0 {
		s.schedule(0, s.cfg.HeartbeatInterval, s.jobs.Heartbeat)
	}
	if s.pvc != nil {
		s.schedule(s.cfg.PVCDelay, s.cfg.PVCInterval, func() {
			s.jobs.ResendPVCs(ctx, s.pvc)
		})
	}

	s.cron.Start()
}

func (s *Scheduler) schedule(delay, interval time.Duration, fn func()) {
	s.cron.Schedule(NewDelayedInterval(delay, interval), cron.FuncJob(func() {
		defer func() {
			if r := recover(); r != nil {
				klog.ErrorS(nil, "scheduled job panicked", "recovered", r)
			}
		}()
		fn()
	}))
}

// Stop asks the cron engine to finish any in-flight job and waits up to
// ShutdownTimeout for it.
func (s *Scheduler) Stop() {
	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(s.cfg.ShutdownTimeout):
		klog.InfoS("scheduler shutdown timed out, proceeding anyway", "timeout", s.cfg.ShutdownTimeout)
	}
}
