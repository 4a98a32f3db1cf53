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

// ComponentsPoller polls ComponentStatus on a timer instead of watching,
// since the cluster API does not support watch on it. No delete events
// are synthesized - a component that disappears from the list is simply
// never updated again.
type ComponentsPoller struct {
	Lister   Lister
	Sink     Sink
	Interval time.Duration
}

// Run polls every interval until ctx is cancelled.
func (p *ComponentsPoller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()

	p.pollOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.pollOnce(ctx)
		}
	}
}

func (p *ComponentsPoller) pollOnce(ctx context.Context) {
	items, err := p.Lister.List(ctx)
	if err != nil {
		klog.ErrorS(err, "failed to list components")
		return
	}
	for _, item := range items {
		p.Sink.Dispatch(k8sobject.KindComponent, Added, item)
	}
}
