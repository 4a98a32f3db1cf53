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

import "strings"

// ContainerStatus is the per-container piece of a pod's rollup data.
type ContainerStatus struct {
	RestartCount int
	Ready        bool
	NotReady     bool
	Status       string // "OK" or "ERROR: <comma-joined non-running state keys>"
}

type podTransform struct{}

// containerNames returns the pod's spec container names in declaration
// order, used both for the containers multiset and for BaseName.
func containerNames(raw map[string]interface{}) []string {
	spec := asMap(raw["spec"])
	var names []string
	for _, c := range asSlice(spec["containers"]) {
		if n := asString(asMap(c)["name"]); n != "" {
			names = append(names, n)
		}
	}
	return names
}

// BaseName returns the first container name that appears as a substring
// of the pod name, or the pod name itself if none match.
func BaseName(podName string, raw map[string]interface{}) string {
	for _, c := range containerNames(raw) {
		if strings.Contains(podName, c) {
			return c
		}
	}
	return podName
}

// ContainerStatuses computes per-container rollup data from
// status.container_statuses.
func ContainerStatuses(raw map[string]interface{}) map[string]ContainerStatus {
	result := map[string]ContainerStatus{}
	status := asMap(raw["status"])
	for _, cs := range asSlice(status["container_statuses"]) {
		c := asMap(cs)
		name := asString(c["name"])
		if name == "" {
			continue
		}

		restartCount := 0
		switch rc := c["restart_count"].(type) {
		case float64:
			restartCount = int(rc)
		case int:
			restartCount = rc
		}

		cstatus := ContainerStatus{RestartCount: restartCount, Status: "OK"}
		if ready, _ := c["ready"].(bool); ready {
			cstatus.Ready = true
		} else {
			cstatus.NotReady = true
		}

		var errorStates []string
		for stateKey, stateVal := range asMap(c["state"]) {
			if stateKey == "running" {
				continue
			}
			if truthy(stateVal) {
				errorStates = append(errorStates, stateKey)
			}
		}
		if len(errorStates) > 0 {
			cstatus.Status = "ERROR: " + joinStrings(sortedCopy(errorStates))
		}

		result[name] = cstatus
	}
	return result
}

func truthy(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case map[string]interface{}:
		return len(val) > 0
	case string:
		return val != ""
	default:
		return true
	}
}

func sortedCopy(ss []string) []string {
	out := make([]string, len(ss))
	copy(out, ss)
	// The original state map normally has at most one non-running entry
	// ("waiting" xor "terminated"); sort for determinism in the rare case
	// both are present.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

func (podTransform) Canonical(raw map[string]interface{}) map[string]interface{} {
	containers := map[string]int{}
	for _, c := range containerNames(raw) {
		containers[c]++
	}

	statuses := ContainerStatuses(raw)
	ready := true
	for _, cs := range statuses {
		if strings.HasPrefix(cs.Status, "ERROR") {
			ready = false
		}
	}

	return map[string]interface{}{
		"containers":       containers,
		"container_status": statuses,
		"ready":            ready,
	}
}

// ZabbixMetrics: pods do not emit per-pod data items to Zabbix directly -
// they contribute to the containers rollup instead.
func (podTransform) ZabbixMetrics(host, namespace, name string, raw map[string]interface{}) []ZabbixMetric {
	return nil
}

func (podTransform) DiscoveryTuples(namespace, name string, raw map[string]interface{}) []DiscoveryTuple {
	names := containerNames(raw)
	if len(names) == 0 {
		return []DiscoveryTuple{}
	}
	tuples := make([]DiscoveryTuple, 0, len(names))
	for _, c := range names {
		tuple := standardDiscoveryTuple(namespace, name)
		tuple["{#CONTAINER}"] = c
		tuples = append(tuples, tuple)
	}
	return tuples
}
