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

// Kind is one of the closed set of resource kinds this agent understands.
type Kind string

// The closed enumeration of monitored resource kinds.
const (
	KindNode         Kind = "nodes"
	KindComponent    Kind = "components"
	KindService      Kind = "services"
	KindDeployment   Kind = "deployments"
	KindStatefulSet  Kind = "statefulsets"
	KindDaemonSet    Kind = "daemonsets"
	KindPod          Kind = "pods"
	KindContainer    Kind = "containers"
	KindIngress      Kind = "ingresses"
	KindTLS          Kind = "tls"
	KindPVC          Kind = "pvcs"
)

// AllKinds is every kind the agent can be configured to watch, in a stable
// order used for iteration (discovery/resend loop setup, signal dumps).
var AllKinds = []Kind{
	KindNode,
	KindComponent,
	KindService,
	KindDeployment,
	KindStatefulSet,
	KindDaemonSet,
	KindPod,
	KindContainer,
	KindIngress,
	KindTLS,
	KindPVC,
}

// singular maps a kind to the identifier used as a URL path element and
// class tag (web API singular resource name, Zabbix class tag).
var singular = map[Kind]string{
	KindNode:        "node",
	KindComponent:   "component",
	KindService:     "service",
	KindDeployment:  "deployment",
	KindStatefulSet: "statefulset",
	KindDaemonSet:   "daemonset",
	KindPod:         "pod",
	KindContainer:   "container",
	KindIngress:     "ingress",
	KindTLS:         "tls",
	KindPVC:         "pvc",
}

// Singular returns the singular identifier for a kind, used as a URL path
// element (web sink) and class tag. Falls back to the kind string itself
// for unknown kinds.
func (k Kind) Singular() string {
	if s, ok := singular[k]; ok {
		return s
	}
	return string(k)
}

// ClusterScoped reports whether objects of this kind have no namespace
// (nodes and components).
func (k Kind) ClusterScoped() bool {
	return k == KindNode || k == KindComponent
}

// Valid reports whether k is one of the closed set of known kinds.
func (k Kind) Valid() bool {
	_, ok := singular[k]
	return ok
}
