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

package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDelayedIntervalFirstCallUsesDelay(t *testing.T) {
	sched := NewDelayedInterval(10*time.Second, 5*time.Minute)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	first := sched.Next(start)
	assert.Equal(t, start.Add(10*time.Second), first)
}

func TestDelayedIntervalSubsequentCallsUseInterval(t *testing.T) {
	sched := NewDelayedInterval(10*time.Second, 5*time.Minute)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	first := sched.Next(start)
	second := sched.Next(first)
	third := sched.Next(second)

	assert.Equal(t, first.Add(5*time.Minute), second)
	assert.Equal(t, second.Add(5*time.Minute), third)
}

func TestDelayedIntervalZeroDelayFiresImmediatelyOnFirstCall(t *testing.T) {
	sched := NewDelayedInterval(0, time.Minute)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	first := sched.Next(start)
	assert.Equal(t, start, first)
}
