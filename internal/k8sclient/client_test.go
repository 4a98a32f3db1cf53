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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewClientRejectsUnknownAccessMode(t *testing.T) {
	_, err := NewClient(Config{Mode: AccessMode("bogus")})
	assert.Error(t, err)
}

func TestNewClientTokenModeFailsFastWithoutReachableServer(t *testing.T) {
	_, err := NewClient(Config{Mode: Token, APIServer: "https://127.0.0.1:1", APIToken: "t"})
	assert.Error(t, err, "no server listening on port 1, ServerVersion() must fail")
}
