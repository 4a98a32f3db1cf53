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

package watch

import (
	"context"
	"time"

	"k8s.io/klog/v2"

	"github.com/k8s-zabbix/k8s-zabbix-agent/pkg/k8sobject"
)

// DefaultTimeout is the per-attempt watch timeout; 0 means no timeout.
const DefaultTimeout = 240 * time.Second

// Watcher is the restartable, finite-sequence watch loop for one kind.
// Restart is orchestrated by this loop rather than by resuming a
// generator.
type Watcher struct {
	Kind    k8sobject.Kind
	Source  Source
	Sink    Sink
	Timeout time.Duration
}

// NewWatcher constructs a Watcher with the default per-attempt timeout.
func NewWatcher(kind k8sobject.Kind, source Source, sink Sink) *Watcher {
	return &Watcher{Kind: kind, Source: source, Sink: sink, Timeout: DefaultTimeout}
}

// Run loops: open a watch, stream events into Sink.Dispatch, and reopen
// whenever the stream ends, until ctx is cancelled. It returns a non-nil
// error only on a protocol/connection error that the caller should treat
// as restart-needed - the caller (the coordinator) is expected to
// respawn the watcher, typically after constructing a fresh
// Watcher/Source pair.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		events, errs, err := w.Source.Watch(ctx, w.Timeout)
		if err != nil {
			klog.ErrorS(err, "failed to open watch", "kind", w.Kind)
			return err
		}

		streamErr := w.drain(ctx, events, errs)
		if streamErr != nil {
			klog.ErrorS(streamErr, "watch stream failed, restart needed", "kind", w.Kind)
			return streamErr
		}

		klog.V(4).InfoS("watch/fetch completed, restarting", "kind", w.Kind)
	}
}

// drain consumes one watch attempt's events until it ends (channel
// closed, i.e. timeout or EOF) or until it errors or ctx is cancelled.
func (w *Watcher) drain(ctx context.Context, events <-chan Event, errs <-chan error) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-errs:
			if !ok {
				return nil
			}
			return err
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			w.Sink.Dispatch(w.Kind, ev.Type, ev.Raw)
		}
	}
}
