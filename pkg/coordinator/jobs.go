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
	"context"
	"encoding/json"

	"k8s.io/klog/v2"

	"github.com/k8s-zabbix/k8s-zabbix-agent/pkg/k8sobject"
	"github.com/k8s-zabbix/k8s-zabbix-agent/pkg/store"
	"github.com/k8s-zabbix/k8s-zabbix-agent/pkg/watch"
)

// The methods in this file implement scheduler.Jobs: each is invoked on
// its own robfig/cron/v3 schedule and is responsible for taking the
// coordinator's lock itself; none of them is ever called while mu is
// already held.

// SendDiscovery announces the current member set of kind via a single
// Zabbix low-level-discovery item, then records when it did so - every
// per-object immediate/resend send for kind is gated on this having
// happened at least once.
func (c *Coordinator) SendDiscovery(kind k8sobject.Kind) {
	if !c.cfg.ZabbixAllowedKinds[kind] {
		return
	}
	transform, ok := k8sobject.TransformFor(kind)
	if !ok {
		return
	}

	c.mu.Lock()
	s := c.stores[kind]
	if s == nil {
		c.mu.Unlock()
		return
	}
	var tuples []k8sobject.DiscoveryTuple
	for _, obj := range s.Snapshot() {
		tuples = append(tuples, transform.DiscoveryTuples(obj.Namespace, obj.Name, obj.Raw)...)
	}
	c.mu.Unlock()

	value, err := discoveryJSON(tuples)
	if err != nil {
		klog.ErrorS(err, "failed to encode discovery payload", "kind", kind)
		return
	}
	metric := k8sobject.ZabbixMetric{
		Host:  c.cfg.ZabbixHost,
		Key:   "check_kubernetesd[discover," + string(kind) + "]",
		Value: value,
	}
	_, failed, err := c.zabbix.Send([]k8sobject.ZabbixMetric{metric})
	if err != nil || failed != 0 {
		klog.ErrorS(err, "failed to send discovery", "kind", kind, "failed", failed)
		return
	}

	now := c.clock.Now()
	c.mu.Lock()
	c.discoverySentAt[kind] = now
	c.mu.Unlock()
}

// discoveryJSON encodes tuples as the LLD payload string Zabbix expects
// for a discovery item's value: {"data":[...]}, not a native object.
func discoveryJSON(tuples []k8sobject.DiscoveryTuple) (string, error) {
	data := make([]map[string]interface{}, len(tuples))
	for i, t := range tuples {
		data[i] = t
	}
	b, err := json.Marshal(map[string]interface{}{"data": data})
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ResendZabbix walks kind's store and (re-)sends every object whose
// Zabbix data is dirty or is older than the configured resend interval.
func (c *Coordinator) ResendZabbix(kind k8sobject.Kind) {
	if !c.cfg.ZabbixAllowedKinds[kind] || c.DiscoverySentAt(kind).IsZero() {
		return
	}
	transform, ok := k8sobject.TransformFor(kind)
	if !ok {
		return
	}

	now := c.clock.Now()
	c.mu.Lock()
	s := c.stores[kind]
	if s == nil {
		c.mu.Unlock()
		return
	}
	var batch []pendingZabbix
	for _, obj := range s.Snapshot() {
		if !obj.DirtyZabbix && now.Sub(obj.LastSentZabbix) < c.cfg.DataResendInterval {
			continue
		}
		metrics := transform.ZabbixMetrics(c.cfg.ZabbixHost, obj.Namespace, obj.Name, obj.Raw)
		if len(metrics) == 0 {
			continue
		}
		obj.LastSentZabbix = now
		batch = append(batch, pendingZabbix{obj: obj, metrics: metrics})
	}
	c.mu.Unlock()

	for _, item := range batch {
		_, failed, err := c.zabbix.Send(item.metrics)
		ok := err == nil && failed == 0
		c.mu.Lock()
		item.obj.DirtyZabbix = !ok
		c.mu.Unlock()
		if !ok {
			klog.ErrorS(err, "failed to resend data to zabbix", "kind", kind, "uid", item.obj.UID)
		}
	}
}

// ResendWeb walks kind's store and (re-)sends every object whose web
// payload is dirty or has never been submitted.
func (c *Coordinator) ResendWeb(kind k8sobject.Kind) {
	if !c.cfg.WebAPIEnabled || !c.cfg.WebAllowedKinds[kind] {
		return
	}
	transform, ok := k8sobject.TransformFor(kind)
	if !ok {
		return
	}

	now := c.clock.Now()
	c.mu.Lock()
	s := c.stores[kind]
	if s == nil {
		c.mu.Unlock()
		return
	}
	var batch []pendingWeb
	for _, obj := range s.Snapshot() {
		if !obj.DirtyWeb && !obj.IsUnsubmittedWeb() {
			continue
		}
		action := watch.Modified
		if obj.IsUnsubmittedWeb() {
			action = watch.Added
		}
		payload := transform.Canonical(obj.Raw)
		obj.LastSentWeb = now
		batch = append(batch, pendingWeb{obj: obj, action: action, payload: payload})
	}
	c.mu.Unlock()

	for _, item := range batch {
		err := c.web.Send(kind, item.action, item.obj.Namespace, item.obj.Name, item.payload)
		c.mu.Lock()
		item.obj.DirtyWeb = err != nil
		c.mu.Unlock()
		if err != nil {
			klog.ErrorS(err, "failed to resend data to web API", "kind", kind, "uid", item.obj.UID)
		}
	}
}

// AggregateServices rebuilds the "services" global rollup item: the
// count of ingress-backed vs plain services.
func (c *Coordinator) AggregateServices() {
	if !c.cfg.ZabbixAllowedKinds[k8sobject.KindService] {
		return
	}
	c.mu.Lock()
	s := c.stores[k8sobject.KindService]
	if s == nil {
		c.mu.Unlock()
		return
	}
	var total, ingress int
	for _, obj := range s.Snapshot() {
		total++
		if k8sobject.IsIngress(obj.Raw) {
			ingress++
		}
	}
	c.mu.Unlock()

	metrics := []k8sobject.ZabbixMetric{
		{Host: c.cfg.ZabbixHost, Key: "check_kubernetes[get,services,num_services]", Value: total},
		{Host: c.cfg.ZabbixHost, Key: "check_kubernetes[get,services,num_ingress_services]", Value: ingress},
	}
	if _, failed, err := c.zabbix.Send(metrics); err != nil || failed != 0 {
		klog.ErrorS(err, "failed to send services aggregate", "failed", failed)
	}
}

// AggregateContainers recomputes the derived "containers" store by
// rolling up every live pod's per-container status into one
// ContainerRollup per (namespace, pod base name, container name) group,
// then feeding each group through the container store exactly like a
// watched object.
func (c *Coordinator) AggregateContainers() {
	c.mu.Lock()
	pods := c.stores[k8sobject.KindPod]
	containers := c.stores[k8sobject.KindContainer]
	if pods == nil || containers == nil {
		c.mu.Unlock()
		return
	}

	type groupKey struct{ namespace, baseName, container string }
	groups := map[groupKey]*k8sobject.ContainerRollup{}
	order := []groupKey{}
	for _, pod := range pods.Snapshot() {
		baseName := k8sobject.BaseName(pod.Name, pod.Raw)
		statuses := k8sobject.ContainerStatuses(pod.Raw)
		for name, cs := range statuses {
			key := groupKey{namespace: pod.Namespace, baseName: baseName, container: name}
			rollup, ok := groups[key]
			if !ok {
				rollup = &k8sobject.ContainerRollup{}
				groups[key] = rollup
				order = append(order, key)
			}
			rollup.Add(cs)
		}
	}

	for _, key := range order {
		raw := k8sobject.NewContainerRaw(key.namespace, key.baseName, key.container, *groups[key])
		containerName := key.baseName + "/" + key.container
		obj, classification, err := containers.Add(key.namespace, containerName, raw)
		if err != nil {
			klog.ErrorS(err, "failed to add rolled-up container", "container", containerName)
			continue
		}
		if classification == store.Updated {
			obj.DirtyZabbix = true
			obj.DirtyWeb = true
		}
	}
	c.mu.Unlock()
}

// Heartbeat sends a single liveness data item so the Zabbix template's
// nodata() trigger can detect a wedged or disconnected agent.
func (c *Coordinator) Heartbeat() {
	metric := k8sobject.ZabbixMetric{
		Host:  c.cfg.ZabbixHost,
		Key:   "check_kubernetesd[discover,api]",
		Value: c.clock.Now().Unix(),
	}
	if _, failed, err := c.zabbix.Send([]k8sobject.ZabbixMetric{metric}); err != nil || failed != 0 {
		klog.ErrorS(err, "failed to send heartbeat", "failed", failed)
	}
}

// PVCLister fetches the current PVC usage snapshot, e.g. by asking each
// node's kubelet read-only /stats/summary endpoint and matching volumes
// back to PVCs.
type PVCLister interface {
	ListPVCUsage(ctx context.Context) (map[string]map[string]interface{}, error)
}

// ResendPVCs refreshes the synthetic "pvcs" store from lister and resends
// whatever came out dirty, reusing the same store/checksum machinery a
// watched kind uses.
func (c *Coordinator) ResendPVCs(ctx context.Context, lister PVCLister) {
	items, err := lister.ListPVCUsage(ctx)
	if err != nil {
		klog.ErrorS(err, "failed to list PVC usage")
		return
	}

	c.mu.Lock()
	s := c.stores[k8sobject.KindPVC]
	if s == nil {
		c.mu.Unlock()
		return
	}
	for uidKey, item := range items {
		namespace, name := splitNamespacedName(uidKey)
		raw := k8sobject.NewPVCRaw(namespace, name, item)
		obj, classification, err := s.Add(namespace, name, raw)
		if err != nil {
			klog.ErrorS(err, "failed to add pvc usage", "pvc", uidKey)
			continue
		}
		if classification != store.Unchanged {
			_ = obj // dirty flags already set by Store.Add
		}
	}
	c.mu.Unlock()

	c.ResendZabbix(k8sobject.KindPVC)
	c.ResendWeb(k8sobject.KindPVC)
}

func splitNamespacedName(key string) (namespace, name string) {
	for i := 0; i < len(key); i++ {
		if key[i] == '/' {
			return key[:i], key[i+1:]
		}
	}
	return "", key
}
