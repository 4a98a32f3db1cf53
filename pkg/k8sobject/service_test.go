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

func TestIsIngressTrueWhenLoadBalancerHasIngress(t *testing.T) {
	raw := map[string]interface{}{
		"status": map[string]interface{}{
			"load_balancer": map[string]interface{}{
				"ingress": []interface{}{map[string]interface{}{"ip": "10.0.0.1"}},
			},
		},
	}
	assert.True(t, IsIngress(raw))
}

func TestIsIngressFalseWithoutLoadBalancer(t *testing.T) {
	assert.False(t, IsIngress(map[string]interface{}{}))
}

func TestServiceEmitsNoPerObjectMetrics(t *testing.T) {
	assert.Nil(t, serviceTransform{}.ZabbixMetrics("h", "ns", "svc", map[string]interface{}{}))
}

func TestServiceDiscoveryTupleHasSlug(t *testing.T) {
	tuples := serviceTransform{}.DiscoveryTuples("ns", "svc", map[string]interface{}{})
	assert.Len(t, tuples, 1)
	assert.Equal(t, "ns", tuples[0]["{#NAMESPACE}"])
	assert.Equal(t, "svc", tuples[0]["{#NAME}"])
}
