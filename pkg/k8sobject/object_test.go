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

func TestUID(t *testing.T) {
	assert.Equal(t, "nodes_worker-1", UID(KindNode, "", "worker-1"))
	assert.Equal(t, "pods_default_nginx", UID(KindPod, "default", "nginx"))
}

func TestChecksumStableAcrossKeyOrder(t *testing.T) {
	a := map[string]interface{}{"b": 1, "a": 2}
	b := map[string]interface{}{"a": 2, "b": 1}
	assert.Equal(t, Checksum(a), Checksum(b))
}

func TestChecksumChangesWithValue(t *testing.T) {
	a := map[string]interface{}{"a": 1}
	b := map[string]interface{}{"a": 2}
	assert.NotEqual(t, Checksum(a), Checksum(b))
}

func TestIsUnsubmitted(t *testing.T) {
	o := &Object{}
	assert.True(t, o.IsUnsubmittedZabbix())
	assert.True(t, o.IsUnsubmittedWeb())
	assert.True(t, o.IsUnsubmittedZabbixDiscovery())
}
