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
	"encoding/json"
	"fmt"
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	clientset "k8s.io/client-go/kubernetes"
	"k8s.io/klog/v2"
)

// PVCUsageCollector lists PVC usage by querying every node's read-only
// kubelet proxy endpoint /stats/summary and matching reported volumes
// back to their owning PersistentVolumeClaim. It implements
// pkg/coordinator.PVCLister.
type PVCUsageCollector struct {
	Client  clientset.Interface
	Timeout time.Duration
}

// statsSummary is the subset of the kubelet /stats/summary response the
// agent cares about.
type statsSummary struct {
	Pods []struct {
		Volume []map[string]interface{} `json:"volume"`
	} `json:"pods"`
}

// ListPVCUsage implements pkg/coordinator.PVCLister.
func (c *PVCUsageCollector) ListPVCUsage(ctx context.Context) (map[string]map[string]interface{}, error) {
	nodes, err := c.Client.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("k8sclient: list nodes for pvc usage: %w", err)
	}

	result := map[string]map[string]interface{}{}
	for _, node := range nodes.Items {
		summary, err := c.fetchSummary(ctx, node.Name)
		if err != nil {
			klog.ErrorS(err, "failed to fetch node stats summary", "node", node.Name)
			continue
		}
		for _, pod := range summary.Pods {
			for _, volume := range pod.Volume {
				pvcRef, ok := volume["pvcRef"].(map[string]interface{})
				if !ok {
					continue
				}
				namespace, _ := pvcRef["namespace"].(string)
				name, _ := pvcRef["name"].(string)
				if namespace == "" || name == "" {
					continue
				}

				item := normalizeVolume(volume, node.Name)
				result[namespace+"/"+name] = item
			}
		}
	}
	return result, nil
}

func (c *PVCUsageCollector) fetchSummary(ctx context.Context, node string) (*statsSummary, error) {
	timeout := c.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	raw, err := c.Client.CoreV1().RESTClient().Get().
		Resource("nodes").
		Name(node).
		SubResource("proxy", "stats", "summary").
		DoRaw(reqCtx)
	if err != nil {
		return nil, err
	}

	var summary statsSummary
	if err := json.Unmarshal(raw, &summary); err != nil {
		return nil, fmt.Errorf("unmarshal stats summary: %w", err)
	}
	return &summary, nil
}

// normalizeVolume computes usedBytesPercentage/inodesUsedPercentage and
// drops the raw kubelet fields that are never forwarded to Zabbix.
func normalizeVolume(volume map[string]interface{}, node string) map[string]interface{} {
	item := map[string]interface{}{}
	for k, v := range volume {
		item[k] = v
	}
	item["nodename"] = node

	if used, ok := asFloat(item["usedBytes"]); ok {
		if capacity, ok := asFloat(item["capacityBytes"]); ok && capacity != 0 {
			item["usedBytesPercentage"] = used / capacity * 100
		}
	}
	if inodesUsed, ok := asFloat(item["inodesUsed"]); ok {
		if inodesBytes, ok := asFloat(item["inodesBytes"]); ok && inodesBytes != 0 {
			item["inodesUsedPercentage"] = inodesUsed / inodesBytes * 100
		}
	}

	for _, key := range []string{"name", "pvcRef", "time", "availableBytes", "inodesFree"} {
		delete(item, key)
	}
	return item
}

func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
