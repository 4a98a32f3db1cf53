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

package k8sobject

import "sort"

// NewPVCRaw builds the synthetic raw object for one PVC, populated from a
// node-proxy stats/summary collection rather than a watch event.
func NewPVCRaw(namespace, name string, item map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"metadata": map[string]interface{}{
			"name":      name,
			"namespace": namespace,
		},
		"item": item,
	}
}

type pvcTransform struct{}

func (pvcTransform) Canonical(raw map[string]interface{}) map[string]interface{} {
	item := asMap(raw["item"])
	out := make(map[string]interface{}, len(item))
	for k, v := range item {
		out[k] = v
	}
	return out
}

func (t pvcTransform) ZabbixMetrics(host, namespace, name string, raw map[string]interface{}) []ZabbixMetric {
	item := t.Canonical(raw)
	keys := make([]string, 0, len(item))
	for k := range item {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	metrics := make([]ZabbixMetric, 0, len(keys))
	for _, k := range keys {
		metrics = append(metrics, ZabbixMetric{
			Host:  host,
			Key:   "check_kubernetesd[get,pvcs," + namespace + "," + name + "," + k + "]",
			Value: item[k],
		})
	}
	return metrics
}

func (pvcTransform) DiscoveryTuples(namespace, name string, raw map[string]interface{}) []DiscoveryTuple {
	return []DiscoveryTuple{standardDiscoveryTuple(namespace, name)}
}
