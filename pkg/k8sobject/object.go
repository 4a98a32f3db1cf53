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
	"crypto/md5" //nolint:gosec // checksum is a change-detector, not a security boundary
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Object is one live cluster item mirrored by a resource store.
//
// Raw is the full cluster object decoded into plain JSON-ish data
// (map[string]interface{} / []interface{} / string / float64 / bool / nil),
// matching the "opaque object payloads" contract: most code indexes into it
// by known paths rather than a typed Kubernetes API struct.
type Object struct {
	Kind      Kind
	Name      string
	Namespace string
	UID       string
	Raw       map[string]interface{}
	Checksum  string

	LastSentZabbix          time.Time
	LastSentWeb             time.Time
	LastSentZabbixDiscovery time.Time

	DirtyZabbix bool
	DirtyWeb    bool
}

// UID builds the stable per-kind identity key: kind + "_" + (namespace +
// "_" | "") + name.
func UID(kind Kind, namespace, name string) string {
	if namespace != "" {
		return fmt.Sprintf("%s_%s_%s", kind, namespace, name)
	}
	return fmt.Sprintf("%s_%s", kind, name)
}

// Checksum computes the MD5 hex digest of raw serialized with sorted
// keys and dates as ISO-8601, so two decodes of the same cluster state
// always hash identically. encoding/json already emits object keys in
// sorted order, and Kubernetes timestamps decode from API JSON as
// RFC3339 (a profile of ISO-8601) strings, so no extra date handling is
// needed here.
func Checksum(raw map[string]interface{}) string {
	b, err := json.Marshal(raw)
	if err != nil {
		// raw originates from json.Unmarshal of a cluster object, so it can
		// only contain JSON-representable values; a marshal failure here
		// means a caller handed us something that was never decoded JSON.
		panic(fmt.Sprintf("k8sobject: raw object is not JSON-marshalable: %v", err))
	}
	sum := md5.Sum(b) //nolint:gosec
	return hex.EncodeToString(sum[:])
}

// IsUnsubmittedZabbix reports whether o has never been sent to the
// Zabbix sink.
func (o *Object) IsUnsubmittedZabbix() bool { return o.LastSentZabbix.IsZero() }

// IsUnsubmittedWeb reports whether o has never been sent to the web sink.
func (o *Object) IsUnsubmittedWeb() bool { return o.LastSentWeb.IsZero() }

// IsUnsubmittedZabbixDiscovery reports whether discovery has never been
// sent for o's kind on o's behalf.
func (o *Object) IsUnsubmittedZabbixDiscovery() bool { return o.LastSentZabbixDiscovery.IsZero() }
