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
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestDeploymentDegradation: an unavailable condition must surface as an
// ERROR-prefixed status value.
func TestDeploymentDegradation(t *testing.T) {
	raw := map[string]interface{}{
		"status": map[string]interface{}{
			"replicas": float64(3),
			"conditions": []interface{}{
				map[string]interface{}{"type": "Available", "status": "False"},
			},
		},
	}

	metrics := deploymentTransform{}.ZabbixMetrics("h", "ns1", "app", raw)
	var status interface{}
	for _, m := range metrics {
		if m.Key == "check_kubernetesd[get,deployments,ns1,app,available_status]" {
			status = m.Value
		}
	}
	assert.Equal(t, "ERROR: Available", status)
}

func TestDeploymentMetricsAreOrdered(t *testing.T) {
	raw := map[string]interface{}{
		"status": map[string]interface{}{
			"replicas":          float64(3),
			"readyReplicas":     float64(2),
			"availableReplicas": float64(2),
		},
	}
	metrics := deploymentTransform{}.ZabbixMetrics("h", "ns", "app", raw)
	var keys []string
	for _, m := range metrics {
		keys = append(keys, m.Key)
	}
	// sorted field keys should precede the synthesized available_status key
	assert.Equal(t, "check_kubernetesd[get,deployments,ns,app,availableReplicas]", keys[0])
	assert.Equal(t, "check_kubernetesd[get,deployments,ns,app,readyReplicas]", keys[1])
	assert.Equal(t, "check_kubernetesd[get,deployments,ns,app,replicas]", keys[2])
	assert.Equal(t, "check_kubernetesd[get,deployments,ns,app,available_status]", keys[3])
}
