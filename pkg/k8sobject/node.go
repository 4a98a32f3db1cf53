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

// nodeMonitorValues is the fixed list of capacity/allocatable paths the
// node transform reports.
var nodeMonitorValues = []string{
	"allocatable.cpu",
	"allocatable.ephemeral-storage",
	"allocatable.memory",
	"allocatable.pods",
	"capacity.cpu",
	"capacity.ephemeral-storage",
	"capacity.memory",
	"capacity.pods",
}

type nodeTransform struct{}

func (nodeTransform) Canonical(raw map[string]interface{}) map[string]interface{} {
	status := asMap(raw["status"])
	ready := false
	var failed []string
	for _, c := range asSlice(status["conditions"]) {
		cond := asMap(c)
		typ := asString(cond["type"])
		st := asString(cond["status"])
		if strings.EqualFold(typ, "ready") && st == "True" {
			ready = true
		} else if st == "True" {
			failed = append(failed, typ)
		}
	}

	data := map[string]interface{}{
		"condition_ready": ready,
		"failed_conds":    failed,
	}
	for _, mv := range nodeMonitorValues {
		data[mv] = TransformValue(lookupPath(status, mv))
	}
	return data
}

func (t nodeTransform) ZabbixMetrics(host, namespace, name string, raw map[string]interface{}) []ZabbixMetric {
	data := t.Canonical(raw)

	availableStatus := "not available"
	if data["condition_ready"] == true {
		availableStatus = "OK"
	}

	failed := data["failed_conds"].([]string)
	conditionStatusFailed := "OK"
	if len(failed) > 0 {
		conditionStatusFailed = joinStrings(failed)
	}

	metrics := []ZabbixMetric{
		{Host: host, Key: "check_kubernetesd[get,nodes," + name + ",available_status]", Value: availableStatus},
		{Host: host, Key: "check_kubernetesd[get,nodes," + name + ",condition_status_failed]", Value: conditionStatusFailed},
	}
	for _, mv := range nodeMonitorValues {
		metrics = append(metrics, ZabbixMetric{
			Host:  host,
			Key:   "check_kubernetesd[get,nodes," + name + "," + mv + "]",
			Value: TransformValue(data[mv]),
		})
	}
	return metrics
}

func (nodeTransform) DiscoveryTuples(namespace, name string, raw map[string]interface{}) []DiscoveryTuple {
	return []DiscoveryTuple{standardDiscoveryTuple("", name)}
}
