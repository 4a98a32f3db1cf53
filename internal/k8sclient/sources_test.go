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
	"testing"
	"time"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/k8s-zabbix/k8s-zabbix-agent/pkg/k8sobject"
)

func TestSourceForUnknownKindReturnsUnsupportedError(t *testing.T) {
	client := fake.NewSimpleClientset()
	_, err := SourceFor(client, k8sobject.KindPVC, "")
	assert.Error(t, err)

	_, err = SourceFor(client, k8sobject.KindContainer, "")
	assert.Error(t, err)
}

func TestSourceForNodeListsSeededObjects(t *testing.T) {
	client := fake.NewSimpleClientset(&corev1.Node{
		ObjectMeta: metav1.ObjectMeta{Name: "node-1"},
	})
	src, err := SourceFor(client, k8sobject.KindNode, "")
	require.NoError(t, err)

	items, err := src.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)

	metadata, _ := items[0]["metadata"].(map[string]interface{})
	assert.Equal(t, "node-1", metadata["name"])
}

func TestSourceForPodWatchDecodesAddedEvent(t *testing.T) {
	client := fake.NewSimpleClientset()
	src, err := SourceFor(client, k8sobject.KindPod, "ns")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	events, errs, err := src.Watch(ctx, 0)
	require.NoError(t, err)

	_, err = client.CoreV1().Pods("ns").Create(ctx, &corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{Name: "pod-a", Namespace: "ns"},
	}, metav1.CreateOptions{})
	require.NoError(t, err)

	select {
	case ev := <-events:
		assert.Equal(t, "ADDED", string(ev.Type))
		metadata, _ := ev.Raw["metadata"].(map[string]interface{})
		assert.Equal(t, "pod-a", metadata["name"])
	case err := <-errs:
		t.Fatalf("unexpected error from watch: %v", err)
	case <-ctx.Done():
		t.Fatal("timed out waiting for watch event")
	}
}

func TestComponentSourceHasNoWatchSupport(t *testing.T) {
	client := fake.NewSimpleClientset()
	src, err := SourceFor(client, k8sobject.KindComponent, "")
	require.NoError(t, err)

	_, _, err = src.Watch(context.Background(), 0)
	assert.Error(t, err)
}

func TestListerWrapsSourceFor(t *testing.T) {
	client := fake.NewSimpleClientset(&corev1.Service{
		ObjectMeta: metav1.ObjectMeta{Name: "svc-a", Namespace: "ns"},
	})
	lister, err := Lister(client, k8sobject.KindService)
	require.NoError(t, err)

	items, err := lister.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, items, 1)
}
