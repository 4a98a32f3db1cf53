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

type serviceTransform struct{}

func (serviceTransform) Canonical(raw map[string]interface{}) map[string]interface{} {
	status := asMap(raw["status"])
	lb := asMap(status["load_balancer"])
	return map[string]interface{}{
		"is_ingress": lb["ingress"] != nil,
	}
}

// IsIngress reports whether a service's load balancer has ingress points
// assigned, for the services global aggregate.
func IsIngress(raw map[string]interface{}) bool {
	return serviceTransform{}.Canonical(raw)["is_ingress"] == true
}

func (serviceTransform) ZabbixMetrics(host, namespace, name string, raw map[string]interface{}) []ZabbixMetric {
	// Individual services emit no per-object items; only the global
	// rollup computed by the scheduler.
	return nil
}

func (serviceTransform) DiscoveryTuples(namespace, name string, raw map[string]interface{}) []DiscoveryTuple {
	return []DiscoveryTuple{standardDiscoveryTuple(namespace, name)}
}
