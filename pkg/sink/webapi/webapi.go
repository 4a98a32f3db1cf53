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

// Package webapi implements the coordinator.WebSink interface: a plain
// JSON HTTP sink, wrapped in a github.com/sony/gobreaker circuit breaker
// like the Zabbix sink.
package webapi

import (
	"bytes"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/sony/gobreaker"
	"k8s.io/klog/v2"

	"github.com/k8s-zabbix/k8s-zabbix-agent/pkg/k8sobject"
	"github.com/k8s-zabbix/k8s-zabbix-agent/pkg/watch"
)

const userAgent = "k8s-zabbix agent"

// Config configures the web API sink.
type Config struct {
	BaseURL    string
	Token      string
	Cluster    string
	VerifyTLS  bool
	Timeout    time.Duration
}

// Sink sends canonical object payloads to a generic JSON HTTP API.
type Sink struct {
	cfg     Config
	client  *http.Client
	breaker *gobreaker.CircuitBreaker

	mu       sync.Mutex
	resolved string // base URL after following the one-time HEAD redirect
}

// New builds a Sink.
func New(cfg Config) *Sink {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: !cfg.VerifyTLS}, //nolint:gosec // operator opt-in
	}
	client := &http.Client{Timeout: cfg.Timeout, Transport: transport}
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "webapi-sink",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			klog.InfoS("circuit breaker state change", "breaker", name, "from", from, "to", to)
		},
	})
	return &Sink{cfg: cfg, client: client, breaker: breaker, resolved: cfg.BaseURL}
}

// resolveBaseURL performs the one-time HEAD request used to follow a
// configured base URL to its redirected target (e.g. http -> https),
// caching the result for every subsequent request.
func (s *Sink) resolveBaseURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	resp, err := s.client.Head(s.resolved)
	if err != nil {
		klog.ErrorS(err, "failed to resolve web API base URL, using configured value", "url", s.resolved)
		return s.resolved
	}
	defer resp.Body.Close()

	if final := resp.Request.URL.String(); final != "" {
		s.resolved = strings.TrimSuffix(final, "/")
	}
	return s.resolved
}

// Send implements coordinator.WebSink. payload is nil for action ==
// watch.Deleted, which is sent as an empty body.
func (s *Sink) Send(kind k8sobject.Kind, action watch.EventType, namespace, name string, payload map[string]interface{}) error {
	method, path := s.request(kind, action, namespace, name)
	url := s.resolveBaseURL() + path

	var body []byte
	if payload != nil {
		full := map[string]interface{}{"cluster": s.cfg.Cluster}
		for k, v := range payload {
			full[k] = v
		}
		b, err := json.Marshal(full)
		if err != nil {
			return fmt.Errorf("webapi: marshal payload: %w", err)
		}
		body = b
	}

	_, err := s.breaker.Execute(func() (interface{}, error) {
		return nil, s.do(method, url, body)
	})
	return err
}

func (s *Sink) do(method, url string, body []byte) error {
	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		return fmt.Errorf("webapi: build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	if s.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.cfg.Token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("webapi: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		return fmt.Errorf("webapi: %s %s returned %s", method, url, resp.Status)
	}
	return nil
}

// request maps (kind, action) to an HTTP verb and path: ADDED -> POST,
// MODIFIED -> PUT, DELETED -> DELETE against a path with
// cluster/namespace/name appended.
func (s *Sink) request(kind k8sobject.Kind, action watch.EventType, namespace, name string) (method, path string) {
	base := fmt.Sprintf("/%s/%s", s.cfg.Cluster, kind)
	if namespace != "" {
		base += "/" + namespace
	}
	base += "/" + name

	switch action {
	case watch.Added:
		return http.MethodPost, base
	case watch.Modified:
		return http.MethodPut, base
	case watch.Deleted:
		return http.MethodDelete, base
	default:
		return http.MethodPost, base
	}
}
