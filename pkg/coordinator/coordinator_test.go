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

package coordinator

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/k8s-zabbix/k8s-zabbix-agent/pkg/k8sobject"
	"github.com/k8s-zabbix/k8s-zabbix-agent/pkg/watch"
)

type fakeZabbixSink struct {
	mu    sync.Mutex
	sent  [][]k8sobject.ZabbixMetric
	fail  bool
}

func (f *fakeZabbixSink) Send(metrics []k8sobject.ZabbixMetric) (int, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return 0, len(metrics), assert.AnError
	}
	f.sent = append(f.sent, metrics)
	return len(metrics), 0, nil
}

func (f *fakeZabbixSink) batchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

type webCall struct {
	Kind      k8sobject.Kind
	Action    watch.EventType
	Namespace string
	Name      string
	Payload   map[string]interface{}
}

type fakeWebSink struct {
	mu    sync.Mutex
	calls []webCall
	fail  bool
}

func (f *fakeWebSink) Send(kind k8sobject.Kind, action watch.EventType, namespace, name string, payload map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return assert.AnError
	}
	f.calls = append(f.calls, webCall{kind, action, namespace, name, payload})
	return nil
}

func (f *fakeWebSink) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(start time.Time) *fakeClock { return &fakeClock{now: start} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func podRawFor(name string, phase string) map[string]interface{} {
	return map[string]interface{}{
		"metadata": map[string]interface{}{"name": name, "namespace": "ns"},
		"spec": map[string]interface{}{
			"containers": []interface{}{map[string]interface{}{"name": "app"}},
		},
		"status": map[string]interface{}{
			"container_statuses": []interface{}{
				map[string]interface{}{"name": "app", "ready": true, "state": map[string]interface{}{"running": map[string]interface{}{}}},
			},
			"phase": phase,
		},
	}
}

func newTestCoordinator(zabbix *fakeZabbixSink, web *fakeWebSink, clock *fakeClock) *Coordinator {
	cfg := Config{
		ZabbixHost:         "agent-host",
		Cluster:            "prod",
		RateLimit:          30 * time.Second,
		DataResendInterval: time.Hour,
		ZabbixAllowedKinds: map[k8sobject.Kind]bool{k8sobject.KindPod: true},
		WebAllowedKinds:    map[k8sobject.Kind]bool{k8sobject.KindPod: true},
		WebAPIEnabled:      true,
	}
	c := New(cfg, []k8sobject.Kind{k8sobject.KindPod}, zabbix, web)
	return c.WithClock(clock)
}

// TestDataWaitsForDiscovery covers the "discovery precedes data" ordering
// invariant: a MODIFIED event arriving before SendDiscovery has ever run
// for that kind must not reach Zabbix.
func TestDataWaitsForDiscovery(t *testing.T) {
	zabbix := &fakeZabbixSink{}
	web := &fakeWebSink{}
	clock := newFakeClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	c := newTestCoordinator(zabbix, web, clock)

	c.Dispatch(k8sobject.KindPod, watch.Added, podRawFor("app-1", "Running"))
	assert.Equal(t, 0, zabbix.batchCount())
	assert.Equal(t, 1, web.callCount(), "web sink has no discovery gate")

	c.mu.Lock()
	c.discoverySentAt[k8sobject.KindPod] = clock.Now()
	c.mu.Unlock()

	c.Dispatch(k8sobject.KindPod, watch.Modified, podRawFor("app-1", "Pending"))
	assert.Equal(t, 1, zabbix.batchCount())
}

// TestRateLimitSuppressesSecondImmediateSend: two MODIFIED events for the
// same pod inside the rate limit window result
// in exactly one immediate Zabbix send; the object is left dirty so a
// resend pass will pick it up later.
func TestRateLimitSuppressesSecondImmediateSend(t *testing.T) {
	zabbix := &fakeZabbixSink{}
	web := &fakeWebSink{}
	clock := newFakeClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	c := newTestCoordinator(zabbix, web, clock)
	c.mu.Lock()
	c.discoverySentAt[k8sobject.KindPod] = clock.Now()
	c.mu.Unlock()

	c.Dispatch(k8sobject.KindPod, watch.Added, podRawFor("app-1", "Running"))
	assert.Equal(t, 1, zabbix.batchCount())

	clock.Advance(5 * time.Second)
	c.Dispatch(k8sobject.KindPod, watch.Modified, podRawFor("app-1", "CrashLoopBackOff"))
	assert.Equal(t, 1, zabbix.batchCount(), "second send within the rate limit window must be suppressed")

	obj := c.Store(k8sobject.KindPod).Get(k8sobject.UID(k8sobject.KindPod, "ns", "app-1"))
	require.NotNil(t, obj)
	assert.True(t, obj.DirtyZabbix, "object must stay dirty so a resend pass flushes it later")

	clock.Advance(30 * time.Second)
	c.ResendZabbix(k8sobject.KindPod)
	assert.Equal(t, 2, zabbix.batchCount())
}

// TestIdempotentDuplicateEventSendsAtMostOnce mirrors the same watch event
// delivered twice (e.g. after a watch restart/relist): the store
// classifies the second delivery as Unchanged, so no second send happens.
func TestIdempotentDuplicateEventSendsAtMostOnce(t *testing.T) {
	zabbix := &fakeZabbixSink{}
	web := &fakeWebSink{}
	clock := newFakeClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	c := newTestCoordinator(zabbix, web, clock)
	c.mu.Lock()
	c.discoverySentAt[k8sobject.KindPod] = clock.Now()
	c.mu.Unlock()

	raw := podRawFor("app-1", "Running")
	c.Dispatch(k8sobject.KindPod, watch.Added, raw)
	c.Dispatch(k8sobject.KindPod, watch.Added, raw)

	assert.Equal(t, 1, zabbix.batchCount())
	assert.Equal(t, 1, c.Store(k8sobject.KindPod).Len())
}

func TestHandleDeletePropagatesOnlyToWebSink(t *testing.T) {
	zabbix := &fakeZabbixSink{}
	web := &fakeWebSink{}
	clock := newFakeClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	c := newTestCoordinator(zabbix, web, clock)
	c.mu.Lock()
	c.discoverySentAt[k8sobject.KindPod] = clock.Now()
	c.mu.Unlock()

	c.Dispatch(k8sobject.KindPod, watch.Added, podRawFor("app-1", "Running"))
	zabbixBefore := zabbix.batchCount()

	c.Dispatch(k8sobject.KindPod, watch.Deleted, map[string]interface{}{
		"metadata": map[string]interface{}{"name": "app-1", "namespace": "ns"},
	})

	assert.Equal(t, zabbixBefore, zabbix.batchCount(), "delete must not be sent to zabbix")
	assert.Equal(t, 0, c.Store(k8sobject.KindPod).Len())

	web.mu.Lock()
	defer web.mu.Unlock()
	last := web.calls[len(web.calls)-1]
	assert.Equal(t, watch.Deleted, last.Action)
	assert.Nil(t, last.Payload)
}

func TestFailedSendLeavesObjectDirtyForResend(t *testing.T) {
	zabbix := &fakeZabbixSink{fail: true}
	web := &fakeWebSink{}
	clock := newFakeClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	c := newTestCoordinator(zabbix, web, clock)
	c.mu.Lock()
	c.discoverySentAt[k8sobject.KindPod] = clock.Now()
	c.mu.Unlock()

	c.Dispatch(k8sobject.KindPod, watch.Added, podRawFor("app-1", "Running"))

	obj := c.Store(k8sobject.KindPod).Get(k8sobject.UID(k8sobject.KindPod, "ns", "app-1"))
	require.NotNil(t, obj)
	assert.True(t, obj.DirtyZabbix)
}
