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
	"fmt"

	"github.com/k8s-zabbix/k8s-zabbix-agent/pkg/k8sobject"
)

func unsupportedKindError(kind k8sobject.Kind) error {
	return fmt.Errorf("k8sclient: no watch/list source for kind %s (pvcs and containers are synthesized by the scheduler, not watched)", kind)
}
