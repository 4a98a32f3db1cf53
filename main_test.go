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

package main

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/k8s-zabbix/k8s-zabbix-agent/pkg/k8sobject"
	"github.com/k8s-zabbix/k8s-zabbix-agent/pkg/watch"
)

func TestParseKindsDropsUnknownNames(t *testing.T) {
	kinds := parseKinds([]string{"pods", "bogus", "nodes"})
	assert.Equal(t, []k8sobject.Kind{k8sobject.KindPod, k8sobject.KindNode}, kinds)
}

func TestParseKindsEmptyInputYieldsEmptySlice(t *testing.T) {
	kinds := parseKinds(nil)
	assert.Empty(t, kinds)
}

type flakySource struct {
	attempts int32
	failFor  int32
}

func (f *flakySource) Watch(ctx context.Context, timeout time.Duration) (<-chan watch.Event, <-chan error, error) {
	n := atomic.AddInt32(&f.attempts, 1)
	events := make(chan watch.Event)
	errs := make(chan error, 1)
	close(events)
	if n <= f.failFor {
		errs <- errors.New("transient failure")
	}
	close(errs)
	return events, errs, nil
}

type noopSink struct{}

func (noopSink) Dispatch(kind k8sobject.Kind, eventType watch.EventType, raw map[string]interface{}) {}

func TestRunWatcherWithRestartRetriesAfterError(t *testing.T) {
	src := &flakySource{failFor: 2}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	done := make(chan struct{})
	go func() {
		runWatcherWithRestart(ctx, k8sobject.KindPod, src, noopSink{})
		close(done)
	}()

	deadline := time.After(2500 * time.Millisecond)
	for atomic.LoadInt32(&src.attempts) < 3 {
		select {
		case <-deadline:
			t.Fatalf("watcher did not retry enough times, attempts=%d", atomic.LoadInt32(&src.attempts))
		case <-time.After(10 * time.Millisecond):
		}
	}
	cancel()
	<-done
}

func TestRunWatcherWithRestartExitsOnContextCancel(t *testing.T) {
	src := &flakySource{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		runWatcherWithRestart(ctx, k8sobject.KindPod, src, noopSink{})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("runWatcherWithRestart did not exit promptly on cancelled context")
	}
}
