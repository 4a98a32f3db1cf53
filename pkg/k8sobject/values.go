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
	"regexp"
	"strconv"
	"strings"
)

var (
	reKibi  = regexp.MustCompile(`^(\d+)Ki$`)
	reMilli = regexp.MustCompile(`^(\d+)m$`)
)

// TransformValue normalizes one raw field value for a Zabbix item: nil
// becomes 0, a "<n>Ki" string becomes the integer n*1024, a "<n>m"
// string becomes the float n/1000, everything else passes through
// unchanged.
func TransformValue(v interface{}) interface{} {
	if v == nil {
		return 0
	}
	s, ok := v.(string)
	if !ok {
		return v
	}
	if m := reKibi.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil {
			return n * 1024
		}
	}
	if m := reMilli.FindStringSubmatch(s); m != nil {
		n, err := strconv.ParseFloat(m[1], 64)
		if err == nil {
			return n / 1000
		}
	}
	return v
}

// Slug shortens "namespace/name" (or just "name" for cluster-scoped kinds)
// to at most maxlen characters by replacing the middle with "~". It is
// idempotent: applying it again to an already-short or already-truncated
// string of length <= maxlen returns it unchanged.
func Slug(namespace, name string, maxlen int) string {
	slug := name
	if namespace != "" {
		slug = namespace + "/" + name
	}
	if len(slug) <= maxlen {
		return slug
	}
	prefixPos := maxlen/2 - 1
	suffixPos := len(slug) - maxlen/2 - 2
	return slug[:prefixPos] + "~" + slug[suffixPos:]
}

// lookupPath walks a dotted path (e.g. "allocatable.cpu") into nested
// map[string]interface{} values, returning nil if any segment is absent or
// not itself a map.
func lookupPath(m map[string]interface{}, path string) interface{} {
	var cur interface{} = m
	for _, key := range strings.Split(path, ".") {
		asMap, ok := cur.(map[string]interface{})
		if !ok {
			return nil
		}
		cur = asMap[key]
	}
	return cur
}

// asMap type-asserts v to map[string]interface{}, returning an empty map
// (not nil) when v isn't one, so callers can always safely index it.
func asMap(v interface{}) map[string]interface{} {
	if m, ok := v.(map[string]interface{}); ok {
		return m
	}
	return map[string]interface{}{}
}

// asSlice type-asserts v to []interface{}, returning nil when v isn't one.
func asSlice(v interface{}) []interface{} {
	s, _ := v.([]interface{})
	return s
}

// asString type-asserts v to string, returning "" when v isn't one.
func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

// joinStrings joins a []string with ",", matching the comma-join idiom
// used throughout the original failed-condition reporting.
func joinStrings(ss []string) string {
	return strings.Join(ss, ",")
}
