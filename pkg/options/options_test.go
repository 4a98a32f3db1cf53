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

package options

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOptionsDefaultsValidate(t *testing.T) {
	o := NewOptions()
	assert.NoError(t, o.Validate())
}

func TestValidateRejectsUnknownAccessMode(t *testing.T) {
	o := NewOptions()
	o.KubeAccessMode = "bogus"
	assert.Error(t, o.Validate())
}

func TestValidateRequiresAtLeastOneResource(t *testing.T) {
	o := NewOptions()
	o.Resources = nil
	assert.Error(t, o.Validate())
}

func TestValidateRequiresZabbixHostWhenEnabled(t *testing.T) {
	o := NewOptions()
	o.ZabbixEnabled = true
	o.ZabbixHost = ""
	assert.Error(t, o.Validate())
}

func TestValidateRequiresWebAPIBaseURLWhenEnabled(t *testing.T) {
	o := NewOptions()
	o.WebAPIEnabled = true
	o.Cluster = "prod"
	o.WebAPIBaseURL = ""
	assert.Error(t, o.Validate())
}

func TestValidateAggregatesMultipleErrors(t *testing.T) {
	o := NewOptions()
	o.KubeAccessMode = "bogus"
	o.Resources = nil

	err := o.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KubeAccessMode")
	assert.Contains(t, err.Error(), "Resources")
}

func TestValidatePassesWhenWebAPIDisabledEvenWithoutBaseURL(t *testing.T) {
	o := NewOptions()
	o.WebAPIEnabled = false
	o.WebAPIBaseURL = ""
	assert.NoError(t, o.Validate())
}
