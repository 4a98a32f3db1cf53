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

package k8sclient

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeVolumeComputesPercentagesAndStripsForwardedFields(t *testing.T) {
	volume := map[string]interface{}{
		"name":          "data",
		"pvcRef":        map[string]interface{}{"namespace": "ns", "name": "data-0"},
		"time":          "2026-01-01T00:00:00Z",
		"capacityBytes": float64(1000),
		"usedBytes":     float64(250),
		"availableBytes": float64(750),
		"inodesBytes":   float64(100),
		"inodesUsed":    float64(10),
		"inodesFree":    float64(90),
	}

	got := normalizeVolume(volume, "node-1")
	want := map[string]interface{}{
		"capacityBytes":        float64(1000),
		"usedBytes":            float64(250),
		"inodesBytes":          float64(100),
		"inodesUsed":           float64(10),
		"nodename":             "node-1",
		"usedBytesPercentage":  25.0,
		"inodesUsedPercentage": 10.0,
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("normalizeVolume() mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeVolumeSkipsPercentageWhenCapacityMissing(t *testing.T) {
	volume := map[string]interface{}{"usedBytes": float64(250)}
	got := normalizeVolume(volume, "node-1")
	assert.NotContains(t, got, "usedBytesPercentage")
}

func TestAsFloatAcceptsNumericKinds(t *testing.T) {
	v, ok := asFloat(float64(3.5))
	assert.True(t, ok)
	assert.Equal(t, 3.5, v)

	v, ok = asFloat(int(4))
	assert.True(t, ok)
	assert.Equal(t, 4.0, v)

	v, ok = asFloat(int64(5))
	assert.True(t, ok)
	assert.Equal(t, 5.0, v)

	_, ok = asFloat("not a number")
	assert.False(t, ok)
}
