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

// Package coordinator wires the store, watcher and scheduler packages
// together, owns the single process-wide lock, and enforces the
// "discovery must precede data" ordering guarantee.
package coordinator

import (
	"encoding/json"
	"sync"
	"time"

	"k8s.io/klog/v2"

	"github.com/k8s-zabbix/k8s-zabbix-agent/pkg/k8sobject"
	"github.com/k8s-zabbix/k8s-zabbix-agent/pkg/store"
	"github.com/k8s-zabbix/k8s-zabbix-agent/pkg/watch"
)

// ZabbixSink is the minimal surface the coordinator needs from the
// Zabbix trapper sink (pkg/sink/zabbix implements it in production).
type ZabbixSink interface {
	Send(metrics []k8sobject.ZabbixMetric) (processed, failed int, err error)
}

// WebSink is the minimal surface the coordinator needs from the web API
// sink (pkg/sink/webapi implements it in production). payload is nil for
// a Deleted action, which the sink sends as an empty body.
type WebSink interface {
	Send(kind k8sobject.Kind, action watch.EventType, namespace, name string, payload map[string]interface{}) error
}

// Clock lets tests substitute a fake time source; production code uses
// realClock (time.Now).
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Config carries the coordinator's tunables.
type Config struct {
	ZabbixHost          string
	Cluster             string
	RateLimit           time.Duration // default 30s
	DataResendInterval  time.Duration
	ZabbixAllowedKinds  map[k8sobject.Kind]bool
	WebAllowedKinds     map[k8sobject.Kind]bool
	WebAPIEnabled       bool
}

// Coordinator owns the per-kind stores, the discovery-sent bookkeeping,
// and the single re-entrant lock guarding all of it.
//
// Go's sync.Mutex is not re-entrant. Rather than hand-roll a goroutine-ID
// based re-entrant lock (an anti-pattern in Go - see DESIGN.md), every
// method that needs the lock acquires it exactly once at its own entry
// point and calls unexported "Locked"-suffixed helpers for any nested
// work; no code path here ever attempts to acquire mu twice on the same
// goroutine, so the documented "lock must be re-entrant, discovery
// dispatch re-enters during snapshot" requirement is satisfied by
// construction instead of by a literal re-entrant primitive.
type Coordinator struct {
	cfg   Config
	clock Clock

	mu              sync.Mutex
	stores          map[k8sobject.Kind]*store.Store
	discoverySentAt map[k8sobject.Kind]time.Time

	zabbix ZabbixSink
	web    WebSink
}

// New builds a Coordinator with one store per kind in kinds (plus an
// implicit "containers" store when "pods" is present).
func New(cfg Config, kinds []k8sobject.Kind, zabbix ZabbixSink, web WebSink) *Coordinator {
	if cfg.RateLimit == 0 {
		cfg.RateLimit = 30 * time.Second
	}
	c := &Coordinator{
		cfg:             cfg,
		clock:           realClock{},
		stores:          map[k8sobject.Kind]*store.Store{},
		discoverySentAt: map[k8sobject.Kind]time.Time{},
		zabbix:          zabbix,
		web:             web,
	}
	hasPods := false
	for _, k := range kinds {
		c.stores[k] = store.New(k)
		if k == k8sobject.KindPod {
			hasPods = true
		}
	}
	if hasPods {
		if _, ok := c.stores[k8sobject.KindContainer]; !ok {
			c.stores[k8sobject.KindContainer] = store.New(k8sobject.KindContainer)
		}
	}
	return c
}

// WithClock overrides the coordinator's time source, for tests.
func (c *Coordinator) WithClock(clock Clock) *Coordinator {
	c.clock = clock
	return c
}

// Store returns the store for kind, or nil if that kind isn't enabled.
func (c *Coordinator) Store(kind k8sobject.Kind) *store.Store {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stores[kind]
}

// Kinds returns the set of enabled kinds (stable order), for scheduler
// wiring.
func (c *Coordinator) Kinds() []k8sobject.Kind {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]k8sobject.Kind, 0, len(c.stores))
	for _, k := range k8sobject.AllKinds {
		if _, ok := c.stores[k]; ok {
			out = append(out, k)
		}
	}
	return out
}

// DiscoverySentAt returns when discovery was last sent for kind, or the
// zero Time if it never has been.
func (c *Coordinator) DiscoverySentAt(kind k8sobject.Kind) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.discoverySentAt[kind]
}

// Dispatch implements watch.Sink: it is the single entry point by which a
// watcher (or the components poller) feeds a cluster event into the
// coordinator.
func (c *Coordinator) Dispatch(kind k8sobject.Kind, eventType watch.EventType, raw map[string]interface{}) {
	switch eventType {
	case watch.Added, watch.Modified:
		c.handleUpsert(kind, eventType, raw)
	case watch.Deleted:
		c.handleDelete(kind, raw)
	default:
		klog.InfoS("event type not watched", "kind", kind, "type", eventType)
	}
}

type pendingZabbix struct {
	obj     *k8sobject.Object
	metrics []k8sobject.ZabbixMetric
}

type pendingWeb struct {
	obj     *k8sobject.Object
	action  watch.EventType
	payload map[string]interface{}
}

func (c *Coordinator) handleUpsert(kind k8sobject.Kind, eventType watch.EventType, raw map[string]interface{}) {
	c.mu.Lock()
	s := c.stores[kind]
	if s == nil {
		c.mu.Unlock()
		klog.ErrorS(nil, "no store for kind", "kind", kind)
		return
	}
	obj, classification, err := s.AddRaw(raw)
	if err != nil {
		c.mu.Unlock()
		klog.ErrorS(err, "malformed object, skipping", "kind", kind)
		return
	}

	var pz *pendingZabbix
	var pw *pendingWeb
	if classification == store.New || classification == store.Updated {
		pz, pw = c.prepareImmediateSendLocked(kind, obj)
	}
	c.mu.Unlock()

	c.flush(kind, pz, pw)
}

func (c *Coordinator) handleDelete(kind k8sobject.Kind, raw map[string]interface{}) {
	c.mu.Lock()
	s := c.stores[kind]
	if s == nil {
		c.mu.Unlock()
		klog.ErrorS(nil, "no store for kind", "kind", kind)
		return
	}
	obj, err := s.DeleteRaw(raw)
	c.mu.Unlock()
	if err != nil {
		klog.ErrorS(err, "malformed delete event, skipping", "kind", kind)
		return
	}
	if obj == nil {
		return
	}

	// Whether DELETED events propagate to Zabbix was left open by the
	// upstream source (it leaves this as a stub); here we only propagate
	// to the web sink, which has a well-defined delete verb/path, and
	// leave Zabbix untouched (see DESIGN.md).
	if c.cfg.WebAPIEnabled && c.cfg.WebAllowedKinds[kind] {
		if err := c.web.Send(kind, watch.Deleted, obj.Namespace, obj.Name, nil); err != nil {
			klog.ErrorS(err, "failed to send delete to web API", "kind", kind, "uid", obj.UID)
		}
	}
}

// prepareImmediateSendLocked decides, under c.mu, what (if anything)
// should be sent immediately for obj, applying the per-object per-sink
// rate limit and the "discovery precedes data" ordering guarantee. It
// optimistically advances LastSent* so that two immediate sends for the
// same uid/sink can never straddle less than RateLimit apart, and leaves
// Dirty* set until commitLocked clears it on success.
func (c *Coordinator) prepareImmediateSendLocked(kind k8sobject.Kind, obj *k8sobject.Object) (*pendingZabbix, *pendingWeb) {
	now := c.clock.Now()
	var pz *pendingZabbix
	var pw *pendingWeb

	if obj.DirtyZabbix && c.cfg.ZabbixAllowedKinds[kind] && !c.discoverySentAt[kind].IsZero() {
		if obj.IsUnsubmittedZabbix() || now.Sub(obj.LastSentZabbix) >= c.cfg.RateLimit {
			transform, _ := k8sobject.TransformFor(kind)
			metrics := transform.ZabbixMetrics(c.cfg.ZabbixHost, obj.Namespace, obj.Name, obj.Raw)
			obj.LastSentZabbix = now
			if len(metrics) > 0 {
				pz = &pendingZabbix{obj: obj, metrics: metrics}
			} else {
				obj.DirtyZabbix = false
			}
		}
	}

	if obj.DirtyWeb && c.cfg.WebAPIEnabled && c.cfg.WebAllowedKinds[kind] {
		if obj.IsUnsubmittedWeb() || now.Sub(obj.LastSentWeb) >= c.cfg.RateLimit {
			action := watch.Modified
			if obj.IsUnsubmittedWeb() {
				action = watch.Added
			}
			transform, _ := k8sobject.TransformFor(kind)
			payload := transform.Canonical(obj.Raw)
			obj.LastSentWeb = now
			pw = &pendingWeb{obj: obj, action: action, payload: payload}
		}
	}

	return pz, pw
}

// flush performs the sink network I/O outside the lock, then re-acquires
// it briefly to commit (clear Dirty* on success, leave it set on
// failure so the next pass retries it).
func (c *Coordinator) flush(kind k8sobject.Kind, pz *pendingZabbix, pw *pendingWeb) {
	if pz != nil {
		_, failed, err := c.zabbix.Send(pz.metrics)
		ok := err == nil && failed == 0
		c.mu.Lock()
		if ok {
			pz.obj.DirtyZabbix = false
		} else {
			pz.obj.DirtyZabbix = true
			klog.ErrorS(err, "failed to send data to zabbix", "kind", kind, "uid", pz.obj.UID)
		}
		c.mu.Unlock()
	}
	if pw != nil {
		err := c.web.Send(kind, pw.action, pw.obj.Namespace, pw.obj.Name, pw.payload)
		c.mu.Lock()
		if err == nil {
			pw.obj.DirtyWeb = false
		} else {
			pw.obj.DirtyWeb = true
			klog.ErrorS(err, "failed to send data to web API", "kind", kind, "uid", pw.obj.UID)
		}
		c.mu.Unlock()
	}
}

// DumpSummary implements the SIGUSR1 handler: a compact per-object state
// summary.
func (c *Coordinator) DumpSummary() {
	c.mu.Lock()
	defer c.mu.Unlock()

	klog.Info("=== per-object send-state summary ===")
	for _, kind := range k8sobject.AllKinds {
		s, ok := c.stores[kind]
		if !ok {
			continue
		}
		for _, obj := range s.Snapshot() {
			klog.InfoS("object state",
				"uid", obj.UID,
				"lastSentZabbix", obj.LastSentZabbix,
				"lastSentWeb", obj.LastSentWeb,
				"dirtyZabbix", obj.DirtyZabbix,
				"dirtyWeb", obj.DirtyWeb,
			)
		}
	}
}

// DumpFull implements the SIGUSR2 handler: the full per-object raw
// snapshot.
func (c *Coordinator) DumpFull() {
	c.mu.Lock()
	defer c.mu.Unlock()

	klog.Info("=== full per-object raw snapshot ===")
	for _, kind := range k8sobject.AllKinds {
		s, ok := c.stores[kind]
		if !ok {
			continue
		}
		for _, obj := range s.Snapshot() {
			b, err := json.Marshal(obj.Raw)
			if err != nil {
				klog.ErrorS(err, "failed to marshal object for dump", "uid", obj.UID)
				continue
			}
			klog.InfoS("object raw", "uid", obj.UID, "raw", string(b))
		}
	}
}
