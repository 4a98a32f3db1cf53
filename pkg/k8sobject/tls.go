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

package k8sobject

import (
	"crypto/x509"
	"encoding/base64"
	"time"
)

type tlsTransform struct{}

// certNotAfter decodes data["tls.crt"] (base64, as it arrives in a
// Kubernetes Secret) and parses it as an X.509 certificate, returning
// false if the secret has no "tls.crt" entry or it doesn't parse.
func certNotAfter(raw map[string]interface{}) (time.Time, bool) {
	data := asMap(raw["data"])
	encoded, ok := data["tls.crt"]
	if !ok {
		return time.Time{}, false
	}
	s := asString(encoded)
	if s == "" {
		return time.Time{}, false
	}

	der, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return time.Time{}, false
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		// tls.crt is typically PEM-wrapped; fall back to stripping the
		// PEM armor if DER parsing failed.
		cert, err = parsePEMCertificate(der)
		if err != nil {
			return time.Time{}, false
		}
	}
	return cert.NotAfter, true
}

func (tlsTransform) Canonical(raw map[string]interface{}) map[string]interface{} {
	notAfter, ok := certNotAfter(raw)
	if !ok {
		return map[string]interface{}{}
	}
	days := int(time.Until(notAfter).Hours() / 24)
	return map[string]interface{}{"valid_days": days}
}

func (t tlsTransform) ZabbixMetrics(host, namespace, name string, raw map[string]interface{}) []ZabbixMetric {
	data := t.Canonical(raw)
	validDays, ok := data["valid_days"]
	if !ok {
		return nil
	}
	return []ZabbixMetric{
		{Host: host, Key: "check_kubernetesd[get,tls," + namespace + "," + name + ",valid_days]", Value: validDays},
	}
}

func (tlsTransform) DiscoveryTuples(namespace, name string, raw map[string]interface{}) []DiscoveryTuple {
	if _, ok := certNotAfter(raw); !ok {
		return []DiscoveryTuple{}
	}
	return []DiscoveryTuple{standardDiscoveryTuple(namespace, name)}
}
