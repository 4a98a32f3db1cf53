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

import (
	"sort"
	"strings"
)

type deploymentTransform struct{}

func (deploymentTransform) Canonical(raw map[string]interface{}) map[string]interface{} {
	status := asMap(raw["status"])
	data := map[string]interface{}{}

	for key, value := range status {
		if key == "conditions" {
			continue
		}
		data[key] = TransformValue(value)
	}

	var failed []string
	for _, c := range asSlice(status["conditions"]) {
		cond := asMap(c)
		if !strings.EqualFold(asString(cond["type"]), "available") {
			continue
		}
		if asString(cond["status"]) != "True" {
			failed = append(failed, asString(cond["type"]))
		}
	}

	if len(failed) > 0 {
		data["status"] = "ERROR: " + joinStrings(failed)
	} else {
		data["status"] = "OK"
	}
	return data
}

func (t deploymentTransform) ZabbixMetrics(host, namespace, name string, raw map[string]interface{}) []ZabbixMetric {
	status := asMap(raw["status"])
	data := t.Canonical(raw)

	keys := make([]string, 0, len(status))
	for key := range status {
		if key == "conditions" {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var metrics []ZabbixMetric
	for _, key := range keys {
		metrics = append(metrics, ZabbixMetric{
			Host:  host,
			Key:   "check_kubernetesd[get,deployments," + namespace + "," + name + "," + key + "]",
			Value: TransformValue(status[key]),
		})
	}
	metrics = append(metrics, ZabbixMetric{
		Host:  host,
		Key:   "check_kubernetesd[get,deployments," + namespace + "," + name + ",available_status]",
		Value: data["status"],
	})
	return metrics
}

func (deploymentTransform) DiscoveryTuples(namespace, name string, raw map[string]interface{}) []DiscoveryTuple {
	return []DiscoveryTuple{standardDiscoveryTuple(namespace, name)}
}
