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

import "fmt"

// ContainerRollup is the per-(namespace, pod-base-name, container-name)
// aggregate computed by summing each matching pod's ContainerStatus:
// integer counters are summed, and any status beginning with "ERROR" is
// promoted into the group status.
type ContainerRollup struct {
	Ready        int
	NotReady     int
	RestartCount int
	Status       string
}

// Add folds one pod's ContainerStatus into the rollup.
func (r *ContainerRollup) Add(cs ContainerStatus) {
	if cs.Ready {
		r.Ready++
	}
	if cs.NotReady {
		r.NotReady++
	}
	r.RestartCount += cs.RestartCount
	if r.Status == "" {
		r.Status = "OK"
	}
	if len(cs.Status) >= 5 && cs.Status[:5] == "ERROR" {
		r.Status = cs.Status
	}
}

// NewContainerRaw builds the synthetic raw object for one
// (namespace, pod_base_name, container_name) rollup group, aggregated by
// the scheduler's containers job from the pods store. It carries its own
// identity fields rather than splitting a composite name,
// since the Zabbix key format addresses namespace/pod-base-name/container
// as three separate path segments.
func NewContainerRaw(namespace, podBaseName, containerName string, rollup ContainerRollup) map[string]interface{} {
	return map[string]interface{}{
		"metadata": map[string]interface{}{
			"name":      podBaseName + "/" + containerName,
			"namespace": namespace,
		},
		"pod_base_name":  podBaseName,
		"container_name": containerName,
		"status": map[string]interface{}{
			"ready":         rollup.Ready,
			"not_ready":     rollup.NotReady,
			"restart_count": rollup.RestartCount,
			"status":        rollup.Status,
		},
	}
}

type containerTransform struct{}

func (containerTransform) Canonical(raw map[string]interface{}) map[string]interface{} {
	return asMap(raw["status"])
}

func (containerTransform) ZabbixMetrics(host, namespace, name string, raw map[string]interface{}) []ZabbixMetric {
	podBaseName := asString(raw["pod_base_name"])
	containerName := asString(raw["container_name"])
	status := asMap(raw["status"])

	prefix := fmt.Sprintf("check_kubernetesd[get,containers,%s,%s,%s,", namespace, podBaseName, containerName)
	return []ZabbixMetric{
		{Host: host, Key: prefix + "ready]", Value: status["ready"]},
		{Host: host, Key: prefix + "not_ready]", Value: status["not_ready"]},
		{Host: host, Key: prefix + "restart_count]", Value: status["restart_count"]},
		{Host: host, Key: prefix + "status]", Value: status["status"]},
	}
}

func (containerTransform) DiscoveryTuples(namespace, name string, raw map[string]interface{}) []DiscoveryTuple {
	return []DiscoveryTuple{standardDiscoveryTuple(namespace, name)}
}
