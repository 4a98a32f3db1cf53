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
	"context"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	apiwatch "k8s.io/apimachinery/pkg/watch"
	clientset "k8s.io/client-go/kubernetes"

	"github.com/k8s-zabbix/k8s-zabbix-agent/pkg/k8sobject"
	agentwatch "github.com/k8s-zabbix/k8s-zabbix-agent/pkg/watch"
)

// SourceFor builds the production agentwatch.Source (and, where
// supported, agentwatch.Lister) for kind against client, with namespace ""
// meaning "all namespaces".
func SourceFor(client clientset.Interface, kind k8sobject.Kind, namespace string) (*genericSource, error) {
	switch kind {
	case k8sobject.KindNode:
		return &genericSource{kind: kind,
			watch: func(ctx context.Context, o metav1.ListOptions) (apiwatch.Interface, error) {
				return client.CoreV1().Nodes().Watch(ctx, o)
			},
			list: func(ctx context.Context, o metav1.ListOptions) (runtime.Object, error) {
				return client.CoreV1().Nodes().List(ctx, o)
			},
		}, nil

	case k8sobject.KindComponent:
		return &genericSource{kind: kind,
			list: func(ctx context.Context, o metav1.ListOptions) (runtime.Object, error) {
				return client.CoreV1().ComponentStatuses().List(ctx, o)
			},
		}, nil

	case k8sobject.KindService:
		return &genericSource{kind: kind,
			watch: func(ctx context.Context, o metav1.ListOptions) (apiwatch.Interface, error) {
				return client.CoreV1().Services(namespace).Watch(ctx, o)
			},
			list: func(ctx context.Context, o metav1.ListOptions) (runtime.Object, error) {
				return client.CoreV1().Services(namespace).List(ctx, o)
			},
		}, nil

	case k8sobject.KindDeployment:
		return &genericSource{kind: kind,
			watch: func(ctx context.Context, o metav1.ListOptions) (apiwatch.Interface, error) {
				return client.AppsV1().Deployments(namespace).Watch(ctx, o)
			},
			list: func(ctx context.Context, o metav1.ListOptions) (runtime.Object, error) {
				return client.AppsV1().Deployments(namespace).List(ctx, o)
			},
		}, nil

	case k8sobject.KindStatefulSet:
		return &genericSource{kind: kind,
			watch: func(ctx context.Context, o metav1.ListOptions) (apiwatch.Interface, error) {
				return client.AppsV1().StatefulSets(namespace).Watch(ctx, o)
			},
			list: func(ctx context.Context, o metav1.ListOptions) (runtime.Object, error) {
				return client.AppsV1().StatefulSets(namespace).List(ctx, o)
			},
		}, nil

	case k8sobject.KindDaemonSet:
		return &genericSource{kind: kind,
			watch: func(ctx context.Context, o metav1.ListOptions) (apiwatch.Interface, error) {
				return client.AppsV1().DaemonSets(namespace).Watch(ctx, o)
			},
			list: func(ctx context.Context, o metav1.ListOptions) (runtime.Object, error) {
				return client.AppsV1().DaemonSets(namespace).List(ctx, o)
			},
		}, nil

	case k8sobject.KindPod:
		return &genericSource{kind: kind,
			watch: func(ctx context.Context, o metav1.ListOptions) (apiwatch.Interface, error) {
				return client.CoreV1().Pods(namespace).Watch(ctx, o)
			},
			list: func(ctx context.Context, o metav1.ListOptions) (runtime.Object, error) {
				return client.CoreV1().Pods(namespace).List(ctx, o)
			},
		}, nil

	case k8sobject.KindIngress:
		return &genericSource{kind: kind,
			watch: func(ctx context.Context, o metav1.ListOptions) (apiwatch.Interface, error) {
				return client.NetworkingV1().Ingresses(namespace).Watch(ctx, o)
			},
			list: func(ctx context.Context, o metav1.ListOptions) (runtime.Object, error) {
				return client.NetworkingV1().Ingresses(namespace).List(ctx, o)
			},
		}, nil

	case k8sobject.KindTLS:
		// TLS secrets are watched with a field selector restricting to
		// type=kubernetes.io/tls, so the agent never decodes unrelated
		// Secret data.
		return &genericSource{kind: kind,
			watch: func(ctx context.Context, o metav1.ListOptions) (apiwatch.Interface, error) {
				o.FieldSelector = "type=kubernetes.io/tls"
				return client.CoreV1().Secrets(namespace).Watch(ctx, o)
			},
			list: func(ctx context.Context, o metav1.ListOptions) (runtime.Object, error) {
				o.FieldSelector = "type=kubernetes.io/tls"
				return client.CoreV1().Secrets(namespace).List(ctx, o)
			},
		}, nil

	default:
		return nil, unsupportedKindError(kind)
	}
}

// Lister returns kind's genericSource as an agentwatch.Lister, used by
// the components poller.
func Lister(client clientset.Interface, kind k8sobject.Kind) (agentwatch.Lister, error) {
	return SourceFor(client, kind, "")
}
