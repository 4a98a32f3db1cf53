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

// Package scheduler runs the periodic jobs (discovery announcement,
// resend passes, global aggregates, heartbeat) on top of
// github.com/robfig/cron/v3.
package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"
)

// delayedInterval is a cron.Schedule that fires once after Delay, then
// every Interval thereafter: sleep delay_first_run, run immediately,
// then every interval. cron/v3 only calls Next once per firing and
// persists no state of its own, so delayedInterval tracks whether the
// initial delay has elapsed using its own "armed" flag.
type delayedInterval struct {
	delay    time.Duration
	interval time.Duration
	armed    bool
}

// NewDelayedInterval builds a cron.Schedule firing once after delay, then
// every interval.
func NewDelayedInterval(delay, interval time.Duration) cron.Schedule {
	return &delayedInterval{delay: delay, interval: interval}
}

// Next implements cron.Schedule. It is called by cron/v3's internal
// scheduling loop with the last computed/actual fire time; the entry's
// very first call receives the cron engine's start time.
func (d *delayedInterval) Next(t time.Time) time.Time {
	if !d.armed {
		d.armed = true
		return t.Add(d.delay)
	}
	return t.Add(d.interval)
}
