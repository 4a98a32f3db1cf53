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

func TestComponentHealthyWhenConditionTrue(t *testing.T) {
	raw := map[string]interface{}{
		"conditions": []interface{}{
			map[string]interface{}{"type": "Healthy", "status": "True"},
		},
	}
	canon := componentTransform{}.Canonical(raw)
	assert.Equal(t, "OK", canon["healthy"])
}

func TestComponentUnhealthyReportsFailedType(t *testing.T) {
	raw := map[string]interface{}{
		"conditions": []interface{}{
			map[string]interface{}{"type": "Healthy", "status": "False"},
		},
	}
	canon := componentTransform{}.Canonical(raw)
	assert.Equal(t, "ERROR: Healthy", canon["healthy"])
}

func TestComponentKindIsNotMislabeledAsService(t *testing.T) {
	// KindComponent is tagged "component", not "service" (see DESIGN.md).
	assert.Equal(t, "component", KindComponent.Singular())
}
