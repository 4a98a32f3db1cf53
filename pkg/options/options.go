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

// Package options defines the agent's configuration surface: an INI
// config file read by github.com/spf13/viper (env vars override file
// values), command-line flags bound with github.com/spf13/cobra, and
// struct-tag validation with github.com/go-playground/validator/v10.
package options

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	multierror "github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Options are the configurable parameters for the agent.
type Options struct {
	cmd *cobra.Command
	v   *viper.Viper

	ConfigFile string

	// cluster access (internal/k8sclient)
	KubeAccessMode string `mapstructure:"kube_access_mode" validate:"oneof=incluster kubeconfig token"`
	Kubeconfig     string `mapstructure:"kubeconfig"`
	APIServer      string `mapstructure:"apiserver"`
	APIToken       string `mapstructure:"api_token"`

	// enabled resource kinds
	Resources []string `mapstructure:"resources" validate:"required,min=1"`

	// Zabbix sink
	ZabbixEnabled bool          `mapstructure:"zabbix_enabled"`
	ZabbixServer  string        `mapstructure:"zabbix_server"`
	ZabbixPort    int           `mapstructure:"zabbix_port" validate:"required_if=ZabbixEnabled true,omitempty,min=1,max=65535"`
	ZabbixHost    string        `mapstructure:"zabbix_host" validate:"required_if=ZabbixEnabled true"`
	ZabbixTimeout time.Duration `mapstructure:"zabbix_timeout"`
	ZabbixDryRun  bool          `mapstructure:"zabbix_dry_run"`
	ZabbixDebug   bool          `mapstructure:"zabbix_debug"`

	// web API sink
	WebAPIEnabled   bool   `mapstructure:"web_api_enabled"`
	WebAPIBaseURL   string `mapstructure:"web_api_base_url" validate:"required_if=WebAPIEnabled true,omitempty,url"`
	WebAPIToken     string `mapstructure:"web_api_token"`
	WebAPIVerifyTLS bool   `mapstructure:"web_api_verify_tls"`
	Cluster         string `mapstructure:"cluster" validate:"required_if=WebAPIEnabled true"`

	// scheduler intervals
	DiscoveryDelay    time.Duration `mapstructure:"discovery_delay"`
	DiscoveryInterval time.Duration `mapstructure:"discovery_interval"`
	ResendDelay       time.Duration `mapstructure:"resend_delay"`
	ResendInterval    time.Duration `mapstructure:"resend_interval"`
	AggregateDelay    time.Duration `mapstructure:"aggregate_delay"`
	AggregateInterval time.Duration `mapstructure:"aggregate_interval"`
	HeartbeatInterval time.Duration `mapstructure:"heartbeat_interval"`
	RateLimitSeconds  time.Duration `mapstructure:"rate_limit_seconds"`

	// PVC node-proxy collection
	PVCEnabled  bool          `mapstructure:"pvc_enabled"`
	PVCDelay    time.Duration `mapstructure:"pvc_delay"`
	PVCInterval time.Duration `mapstructure:"pvc_interval"`

	// self-observability
	MetricsPort int `mapstructure:"metrics_port" validate:"min=0,max=65535"`

	// error reporting
	SentryEnabled bool   `mapstructure:"sentry_enabled"`
	SentryDSN     string `mapstructure:"sentry_dsn" validate:"required_if=SentryEnabled true"`

	// shutdown
	ShutdownJoinTimeout time.Duration `mapstructure:"shutdown_join_timeout"`
}

// NewOptions returns an Options populated with defaults.
func NewOptions() *Options {
	return &Options{
		v:                   viper.New(),
		KubeAccessMode:      "incluster",
		Resources:           []string{"nodes", "services", "deployments", "pods"},
		ZabbixHost:          "kubernetes",
		ZabbixPort:          10051,
		ZabbixTimeout:       10 * time.Second,
		WebAPIVerifyTLS:     true,
		DiscoveryDelay:      30 * time.Second,
		DiscoveryInterval:   1 * time.Hour,
		ResendDelay:         60 * time.Second,
		ResendInterval:      15 * time.Minute,
		AggregateDelay:      45 * time.Second,
		AggregateInterval:   5 * time.Minute,
		HeartbeatInterval:   1 * time.Minute,
		RateLimitSeconds:    30 * time.Second,
		PVCInterval:         5 * time.Minute,
		MetricsPort:         8081,
		ShutdownJoinTimeout: 3 * time.Second,
	}
}

// AddFlags binds cmd's flags to o using a single method that both
// defines and binds every flag.
func (o *Options) AddFlags(cmd *cobra.Command) {
	o.cmd = cmd

	flags := cmd.Flags()
	flags.StringVar(&o.ConfigFile, "config", "", "Path to the INI configuration file.")
	flags.StringVar(&o.KubeAccessMode, "kube-access-mode", o.KubeAccessMode, "One of incluster, kubeconfig, token.")
	flags.StringVar(&o.Kubeconfig, "kubeconfig", o.Kubeconfig, "Path to a kubeconfig file (kube-access-mode=kubeconfig).")
	flags.StringVar(&o.APIServer, "apiserver", o.APIServer, "API server URL (kube-access-mode=token).")
	flags.StringVar(&o.APIToken, "api-token", o.APIToken, "Bearer token (kube-access-mode=token).")
	flags.StringSliceVar(&o.Resources, "resources", o.Resources, "Comma-separated list of resource kinds to watch.")
	flags.BoolVar(&o.ZabbixEnabled, "zabbix-enabled", true, "Enable the Zabbix trapper sink.")
	flags.StringVar(&o.ZabbixServer, "zabbix-server", o.ZabbixServer, "Zabbix server host:port.")
	flags.StringVar(&o.ZabbixHost, "zabbix-host", o.ZabbixHost, "Zabbix host name items are attached to.")
	flags.BoolVar(&o.ZabbixDryRun, "dry-run", false, "Log Zabbix items instead of sending them.")
	flags.BoolVar(&o.ZabbixDebug, "debug", false, "Send Zabbix items one at a time, for troubleshooting.")
	flags.BoolVar(&o.WebAPIEnabled, "web-api-enabled", false, "Enable the generic web API sink.")
	flags.StringVar(&o.WebAPIBaseURL, "web-api-base-url", o.WebAPIBaseURL, "Base URL of the web API sink.")
	flags.StringVar(&o.Cluster, "cluster", o.Cluster, "Cluster label attached to every web API payload.")
	flags.IntVar(&o.MetricsPort, "metrics-port", o.MetricsPort, "Port for the self-metrics and healthz endpoints.")
}

// Load reads the INI config file (if set) via viper, lets environment
// variables override it, then lets already-parsed flags override that.
// Flags are bound last via viper.BindPFlag so cobra's own flag defaults
// don't shadow file/env values that were actually set.
func (o *Options) Load() error {
	o.v.SetEnvPrefix("zabbix")
	o.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	o.v.AutomaticEnv()

	if o.ConfigFile != "" {
		o.v.SetConfigFile(o.ConfigFile)
		o.v.SetConfigType("ini")
		if err := o.v.ReadInConfig(); err != nil {
			return fmt.Errorf("options: read config file %s: %w", o.ConfigFile, err)
		}
	}

	if o.cmd != nil {
		if err := o.v.BindPFlags(o.cmd.Flags()); err != nil {
			return fmt.Errorf("options: bind flags: %w", err)
		}
	}

	if err := o.v.Unmarshal(o); err != nil {
		return fmt.Errorf("options: unmarshal config: %w", err)
	}
	return nil
}

// Validate runs struct-tag validation and collects every violation
// instead of failing fast on the first config error.
func (o *Options) Validate() error {
	validate := validator.New()
	if err := validate.Struct(o); err != nil {
		var result *multierror.Error
		for _, fieldErr := range err.(validator.ValidationErrors) {
			result = multierror.Append(result, fmt.Errorf("%s: failed %q validation", fieldErr.Namespace(), fieldErr.Tag()))
		}
		return result.ErrorOrNil()
	}
	return nil
}
