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

// Package store holds the per-kind in-memory resource store.
package store

import (
	"errors"
	"fmt"

	"github.com/k8s-zabbix/k8s-zabbix-agent/pkg/k8sobject"
)

// Classification is the outcome of Store.Add.
type Classification int

const (
	// Unchanged means an object with the same uid and checksum already
	// existed; the store was not mutated.
	Unchanged Classification = iota
	// New means no object with this uid existed; it was inserted.
	New
	// Updated means an object with this uid existed with a different
	// checksum; it was replaced, carrying over its send-state timestamps.
	Updated
)

func (c Classification) String() string {
	switch c {
	case New:
		return "new"
	case Updated:
		return "updated"
	default:
		return "unchanged"
	}
}

// ErrNoTransform is returned by Add/Delete when kind has no registered
// Transform.
var ErrNoTransform = errors.New("store: no transform registered for kind")

// Store is a per-kind map from uid to Object. It is NOT internally
// synchronized - correctness depends on the coordinator's locking
// discipline, and all access must happen under the coordinator's lock.
type Store struct {
	kind    k8sobject.Kind
	objects map[string]*k8sobject.Object
}

// New creates an empty store for kind.
func New(kind k8sobject.Kind) *Store {
	return &Store{kind: kind, objects: map[string]*k8sobject.Object{}}
}

// Kind returns the resource kind this store holds.
func (s *Store) Kind() k8sobject.Kind { return s.kind }

// Len returns the number of live objects in the store.
func (s *Store) Len() int { return len(s.objects) }

// Get returns the object for uid, or nil if absent.
func (s *Store) Get(uid string) *k8sobject.Object { return s.objects[uid] }

// Add computes the canonical object for raw and inserts, replaces, or
// leaves the store unchanged:
//
//   - uid absent: insert and return (obj, New)
//   - uid present, same checksum: return (existing obj, Unchanged), no mutation
//   - uid present, different checksum: replace, carrying over last_sent_*
//     from the displaced entry and marking both sinks dirty, return
//     (new obj, Updated)
func (s *Store) Add(namespace, name string, raw map[string]interface{}) (*k8sobject.Object, Classification, error) {
	if !s.kind.Valid() {
		return nil, Unchanged, fmt.Errorf("%w: %s", ErrNoTransform, s.kind)
	}

	uid := k8sobject.UID(s.kind, namespace, name)
	checksum := k8sobject.Checksum(raw)

	existing, ok := s.objects[uid]
	if ok && existing.Checksum == checksum {
		return existing, Unchanged, nil
	}

	obj := &k8sobject.Object{
		Kind:      s.kind,
		Name:      name,
		Namespace: namespace,
		UID:       uid,
		Raw:       raw,
		Checksum:  checksum,
	}

	if ok {
		obj.LastSentZabbix = existing.LastSentZabbix
		obj.LastSentWeb = existing.LastSentWeb
		obj.LastSentZabbixDiscovery = existing.LastSentZabbixDiscovery
		obj.DirtyZabbix = true
		obj.DirtyWeb = true
		s.objects[uid] = obj
		return obj, Updated, nil
	}

	obj.DirtyZabbix = true
	obj.DirtyWeb = true
	s.objects[uid] = obj
	return obj, New, nil
}

// AddRaw extracts namespace/name from raw["metadata"] and delegates to
// Add, for the common case of a genuine Kubernetes object carrying its
// own metadata.
func (s *Store) AddRaw(raw map[string]interface{}) (*k8sobject.Object, Classification, error) {
	namespace, name, err := metadataIdentity(s.kind, raw)
	if err != nil {
		return nil, Unchanged, err
	}
	return s.Add(namespace, name, raw)
}

// DeleteRaw extracts namespace/name from raw["metadata"] and delegates to
// Delete.
func (s *Store) DeleteRaw(raw map[string]interface{}) (*k8sobject.Object, error) {
	namespace, name, err := metadataIdentity(s.kind, raw)
	if err != nil {
		return nil, err
	}
	return s.Delete(namespace, name), nil
}

// metadataIdentity pulls namespace/name out of a raw object's metadata.
// name is always required; namespace is required except for cluster-
// scoped kinds (node, component).
func metadataIdentity(kind k8sobject.Kind, raw map[string]interface{}) (namespace, name string, err error) {
	metadata, _ := raw["metadata"].(map[string]interface{})
	name, _ = metadata["name"].(string)
	if name == "" {
		return "", "", fmt.Errorf("store: could not find name in metadata for kind %s", kind)
	}
	if kind.ClusterScoped() {
		return "", name, nil
	}
	namespace, _ = metadata["namespace"].(string)
	if namespace == "" {
		return "", "", fmt.Errorf("store: could not find namespace for kind %s object %s", kind, name)
	}
	return namespace, name, nil
}

// Delete removes the object identified by (namespace, name) and returns
// it, or nil if it wasn't present.
func (s *Store) Delete(namespace, name string) *k8sobject.Object {
	uid := k8sobject.UID(s.kind, namespace, name)
	obj, ok := s.objects[uid]
	if !ok {
		return nil
	}
	delete(s.objects, uid)
	return obj
}

// Snapshot returns a stable slice of the live objects, safe to iterate
// without holding the store's owner lock for the whole pass (callers
// still must take the coordinator's lock while calling Snapshot itself -
// the values behind the pointers are mutated only under that same lock).
func (s *Store) Snapshot() []*k8sobject.Object {
	out := make([]*k8sobject.Object, 0, len(s.objects))
	for _, obj := range s.objects {
		out = append(out, obj)
	}
	return out
}
