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

// ZabbixMetric is one (host, key, value) tuple destined for the Zabbix
// trapper sink.
type ZabbixMetric struct {
	Host  string
	Key   string
	Value interface{}
}

// DiscoveryTuple is one low-level-discovery entry: a mapping with macro
// keys {#NAME}, {#NAMESPACE}, {#SLUG} and, for pods, {#CONTAINER}.
type DiscoveryTuple map[string]interface{}

// Transform is the per-kind strategy object exposing the three pure
// functions every resource kind implements; dispatch is by kind value,
// not by subclass reflection.
//
// Canonical and the checksum (computed separately over Raw, see
// object.go's Checksum) never observe the wall clock; ZabbixMetrics and
// DiscoveryTuples are given namespace/name explicitly rather than
// deriving them from a stored back-reference, keeping ownership
// cycle-free.
type Transform interface {
	// Canonical returns the derived-fields mapping for raw. Used as the
	// basis of the web sink payload (plus "cluster", added by the sink).
	Canonical(raw map[string]interface{}) map[string]interface{}

	// ZabbixMetrics returns the ordered Zabbix data items for this object.
	ZabbixMetrics(host, namespace, name string, raw map[string]interface{}) []ZabbixMetric

	// DiscoveryTuples returns the ordered discovery entries for this
	// object (zero or more - e.g. zero for a TLS secret without a
	// certificate, one per container for a pod, one otherwise).
	DiscoveryTuples(namespace, name string, raw map[string]interface{}) []DiscoveryTuple
}

// transforms is the kind -> strategy dispatch table.
var transforms = map[Kind]Transform{
	KindNode:        nodeTransform{},
	KindComponent:   componentTransform{},
	KindService:     serviceTransform{},
	KindDeployment:  deploymentTransform{},
	KindStatefulSet: identityTransform{kind: KindStatefulSet},
	KindDaemonSet:   identityTransform{kind: KindDaemonSet},
	KindPod:         podTransform{},
	KindContainer:   containerTransform{},
	KindIngress:     identityTransform{kind: KindIngress},
	KindTLS:         tlsTransform{},
	KindPVC:         pvcTransform{},
}

// TransformFor returns the Transform strategy for kind, and false if kind
// is not one of the closed set of known kinds.
func TransformFor(kind Kind) (Transform, bool) {
	t, ok := transforms[kind]
	return t, ok
}

// standardDiscoveryTuple builds the common {#NAME}/{#NAMESPACE}/{#SLUG}
// discovery entry shared by every kind except pods (which additionally set
// {#CONTAINER}) and TLS secrets without a certificate (which emit none).
func standardDiscoveryTuple(namespace, name string) DiscoveryTuple {
	var ns interface{}
	if namespace != "" {
		ns = namespace
	}
	return DiscoveryTuple{
		"{#NAME}":      name,
		"{#NAMESPACE}": ns,
		"{#SLUG}":      Slug(namespace, name, 40),
	}
}

// identityTransform is used by kinds that are watched for discovery
// purposes only and emit no Zabbix data items (ingresses, statefulsets,
// daemonsets).
type identityTransform struct{ kind Kind }

func (t identityTransform) Canonical(raw map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{}
}

func (t identityTransform) ZabbixMetrics(host, namespace, name string, raw map[string]interface{}) []ZabbixMetric {
	return nil
}

func (t identityTransform) DiscoveryTuples(namespace, name string, raw map[string]interface{}) []DiscoveryTuple {
	return []DiscoveryTuple{standardDiscoveryTuple(namespace, name)}
}
