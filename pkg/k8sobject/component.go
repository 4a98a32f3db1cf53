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

// componentTransform handles ComponentStatus objects, which carry
// conditions directly at the top level (no "status" wrapper), unlike most
// other kinds.
type componentTransform struct{}

func (componentTransform) Canonical(raw map[string]interface{}) map[string]interface{} {
	var failed []string
	for _, c := range asSlice(raw["conditions"]) {
		cond := asMap(c)
		if cond["type"] == nil {
			continue
		}
		typ := asString(cond["type"])
		if len(typ) == 0 {
			continue
		}
		if !strings.EqualFold(typ, "healthy") {
			continue
		}
		if asString(cond["status"]) != "True" {
			failed = append(failed, typ)
		}
	}

	healthy := "OK"
	if len(failed) > 0 {
		healthy = "ERROR: " + joinStrings(failed)
	}
	return map[string]interface{}{
		"failed_conds": failed,
		"healthy":      healthy,
	}
}

func (t componentTransform) ZabbixMetrics(host, namespace, name string, raw map[string]interface{}) []ZabbixMetric {
	data := t.Canonical(raw)
	return []ZabbixMetric{
		{Host: host, Key: "check_kubernetesd[get,components," + name + ",available_status]", Value: data["healthy"]},
	}
}

func (componentTransform) DiscoveryTuples(namespace, name string, raw map[string]interface{}) []DiscoveryTuple {
	return []DiscoveryTuple{standardDiscoveryTuple("", name)}
}
