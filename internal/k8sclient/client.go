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

// Package k8sclient builds the typed Kubernetes clientset the agent
// watches with, and adapts its Watch/List calls to pkg/watch's
// Source/Lister interfaces.
package k8sclient

import (
	"fmt"
	"runtime"

	"github.com/prometheus/common/version"
	clientset "k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	"k8s.io/klog/v2"
)

// AccessMode selects how the agent authenticates to the API server.
type AccessMode string

const (
	InCluster  AccessMode = "incluster"
	KubeConfig AccessMode = "kubeconfig"
	Token      AccessMode = "token"
)

// Config describes how to reach the cluster API server.
type Config struct {
	Mode       AccessMode
	Kubeconfig string
	APIServer  string
	APIToken   string
}

// NewClient builds a typed clientset per Config, grounded on the
// teacher's own createKubeClient (clientcmd.BuildConfigFromFlags covers
// both the incluster and kubeconfig cases: an empty apiserver/kubeconfig
// pair resolves to in-cluster config).
func NewClient(cfg Config) (clientset.Interface, error) {
	var restCfg *rest.Config
	var err error

	switch cfg.Mode {
	case InCluster:
		restCfg, err = rest.InClusterConfig()
	case KubeConfig:
		restCfg, err = clientcmd.BuildConfigFromFlags(cfg.APIServer, cfg.Kubeconfig)
	case Token:
		restCfg = &rest.Config{
			Host:            cfg.APIServer,
			BearerToken:     cfg.APIToken,
			TLSClientConfig: rest.TLSClientConfig{Insecure: false},
		}
	default:
		return nil, fmt.Errorf("k8sclient: unknown access mode %q", cfg.Mode)
	}
	if err != nil {
		return nil, fmt.Errorf("k8sclient: build rest config: %w", err)
	}

	restCfg.UserAgent = fmt.Sprintf("k8s-zabbix-agent/%s (%s/%s) kubernetes/%s",
		version.Version, runtime.GOOS, runtime.GOARCH, version.Revision)

	client, err := clientset.NewForConfig(restCfg)
	if err != nil {
		return nil, fmt.Errorf("k8sclient: build clientset: %w", err)
	}

	v, err := client.Discovery().ServerVersion()
	if err != nil {
		return nil, fmt.Errorf("k8sclient: communicate with apiserver: %w", err)
	}
	klog.InfoS("connected to cluster", "gitVersion", v.GitVersion, "platform", v.Platform)

	return client, nil
}
