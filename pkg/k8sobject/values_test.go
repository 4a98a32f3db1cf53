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

func TestTransformValue(t *testing.T) {
	assert.Equal(t, 0, TransformValue(nil))
	assert.Equal(t, 4096, TransformValue("4Ki"))
	assert.InDelta(t, 0.25, TransformValue("250m"), 0.0001)
	assert.Equal(t, "bare", TransformValue("bare"))
	assert.Equal(t, true, TransformValue(true))
}

func TestSlugShort(t *testing.T) {
	assert.Equal(t, "default/nginx", Slug("default", "nginx", 40))
	assert.Equal(t, "worker-1", Slug("", "worker-1", 40))
}

func TestSlugTruncatesLong(t *testing.T) {
	long := "a-very-long-namespace-name-indeed-really"
	name := "a-very-long-deployment-name-also-quite-long"
	slug := Slug(long, name, 40)
	assert.LessOrEqual(t, len(slug), 40)
	assert.Contains(t, slug, "~")
}

func TestSlugIdempotentOnShortInput(t *testing.T) {
	short := Slug("ns", "name", 40)
	assert.Equal(t, short, Slug("ns", "name", 40))
}

func TestLookupPath(t *testing.T) {
	m := map[string]interface{}{
		"allocatable": map[string]interface{}{"cpu": "4"},
	}
	assert.Equal(t, "4", lookupPath(m, "allocatable.cpu"))
	assert.Nil(t, lookupPath(m, "allocatable.memory"))
	assert.Nil(t, lookupPath(m, "missing.cpu"))
}
