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

// Package watch runs the long-lived streaming watch, one per enabled
// kind, that mirrors cluster events into the resource store.
package watch

import (
	"context"
	"time"

	"github.com/k8s-zabbix/k8s-zabbix-agent/pkg/k8sobject"
)

// EventType is one of the three event types the watcher engine acts on;
// any other type is logged and ignored by the caller.
type EventType string

const (
	Added    EventType = "ADDED"
	Modified EventType = "MODIFIED"
	Deleted  EventType = "DELETED"
)

// Event is one streamed watch event, decoded into the opaque raw shape
// the rest of the agent operates on.
type Event struct {
	Type EventType
	Raw  map[string]interface{}
}

// Source opens one streaming watch attempt for a kind. Implementations
// must close the returned channel (or the error channel) when the
// underlying stream ends, so the caller can reopen it. Production code
// backs this with client-go; tests back it with a fake that replays a
// canned event sequence.
type Source interface {
	Watch(ctx context.Context, timeout time.Duration) (<-chan Event, <-chan error, error)
}

// Lister is used by the components poller, which has no watch support on
// the cluster API and instead lists on every tick.
type Lister interface {
	List(ctx context.Context) ([]map[string]interface{}, error)
}

// Sink is how a watcher reports decoded events back into the store and
// the rest of the agent, implemented by the coordinator.
type Sink interface {
	// Dispatch handles one watch event for kind: store.Add/Delete plus
	// whatever immediate-send/rate-limit logic the coordinator owns.
	Dispatch(kind k8sobject.Kind, eventType EventType, raw map[string]interface{})
}
