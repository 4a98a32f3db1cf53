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
	"fmt"
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	apiwatch "k8s.io/apimachinery/pkg/watch"
	"k8s.io/klog/v2"

	"github.com/k8s-zabbix/k8s-zabbix-agent/pkg/k8sobject"
	agentwatch "github.com/k8s-zabbix/k8s-zabbix-agent/pkg/watch"
)

// watchFunc opens a streaming watch for one resource kind.
type watchFunc func(ctx context.Context, opts metav1.ListOptions) (apiwatch.Interface, error)

// listFunc lists every live object of one resource kind.
type listFunc func(ctx context.Context, opts metav1.ListOptions) (runtime.Object, error)

// genericSource adapts a typed clientset's Watch/List calls for one kind
// to agentwatch.Source/agentwatch.Lister, decoding each runtime.Object
// into the opaque map[string]interface{} shape the rest of the agent
// operates on.
type genericSource struct {
	kind  k8sobject.Kind
	watch watchFunc
	list  listFunc
}

// Watch implements agentwatch.Source.
func (s *genericSource) Watch(ctx context.Context, timeout time.Duration) (<-chan agentwatch.Event, <-chan error, error) {
	if s.watch == nil {
		return nil, nil, fmt.Errorf("k8sclient: %s does not support watch", s.kind)
	}

	opts := metav1.ListOptions{}
	if timeout > 0 {
		seconds := int64(timeout.Seconds())
		opts.TimeoutSeconds = &seconds
	}

	iface, err := s.watch(ctx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("k8sclient: watch %s: %w", s.kind, err)
	}

	events := make(chan agentwatch.Event)
	errs := make(chan error, 1)

	go func() {
		defer close(events)
		defer close(errs)
		defer iface.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-iface.ResultChan():
				if !ok {
					return
				}
				if ev.Type == apiwatch.Error {
					errs <- fmt.Errorf("k8sclient: watch error event for %s: %v", s.kind, ev.Object)
					return
				}
				raw, err := toRaw(ev.Object)
				if err != nil {
					klog.ErrorS(err, "failed to decode watch event", "kind", s.kind)
					continue
				}
				events <- agentwatch.Event{Type: agentwatch.EventType(ev.Type), Raw: raw}
			}
		}
	}()

	return events, errs, nil
}

// List implements agentwatch.Lister, used by the components poller.
func (s *genericSource) List(ctx context.Context) ([]map[string]interface{}, error) {
	if s.list == nil {
		return nil, fmt.Errorf("k8sclient: %s does not support list", s.kind)
	}
	obj, err := s.list(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("k8sclient: list %s: %w", s.kind, err)
	}
	return toRawItems(obj)
}

// toRaw converts a single runtime.Object into its unstructured map form.
func toRaw(obj runtime.Object) (map[string]interface{}, error) {
	m, err := runtime.DefaultUnstructuredConverter.ToUnstructured(obj)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// toRawItems converts a typed *Xxx List object's .Items into a slice of
// unstructured maps via the same converter, by round-tripping the whole
// list object and reading back its "items" field - this avoids a
// reflection-based per-kind items extractor.
func toRawItems(list runtime.Object) ([]map[string]interface{}, error) {
	m, err := runtime.DefaultUnstructuredConverter.ToUnstructured(list)
	if err != nil {
		return nil, err
	}
	rawItems, _ := m["items"].([]interface{})
	out := make([]map[string]interface{}, 0, len(rawItems))
	for _, item := range rawItems {
		if im, ok := item.(map[string]interface{}); ok {
			out = append(out, im)
		}
	}
	return out, nil
}
