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
	"encoding/pem"
	"errors"
)

// parsePEMCertificate decodes the first PEM CERTIFICATE block in der and
// parses it as an X.509 certificate. Kubernetes stores tls.crt base64
// encoded PEM text, so the bytes handed to x509.ParseCertificate are
// usually PEM-armored rather than raw DER.
func parsePEMCertificate(der []byte) (*x509.Certificate, error) {
	block, _ := pem.Decode(der)
	if block == nil {
		return nil, errors.New("k8sobject: no PEM block found in tls.crt")
	}
	return x509.ParseCertificate(block.Bytes)
}
