// Package config wraps Viper with nil-safe accessors and the FullStock
// loading rules: defaults, an optional YAML file and environment overrides.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to environment overrides (FULLSTOCK_SERVER_PORT).
const EnvPrefix = "FULLSTOCK"

// Config is a read-only view over a Viper instance. The zero value and
// configs built from a nil Viper return zero values for every key.
type Config struct {
	v *viper.Viper
}

// New wraps v. A nil v yields an empty config.
func New(v *viper.Viper) *Config {
	if v == nil {
		v = viper.New()
	}
	return &Config{v: v}
}

func (c *Config) viper() *viper.Viper {
	if c == nil || c.v == nil {
		return viper.New()
	}
	return c.v
}

func (c *Config) GetString(key string) string          { return c.viper().GetString(key) }
func (c *Config) GetInt(key string) int                { return c.viper().GetInt(key) }
func (c *Config) GetBool(key string) bool              { return c.viper().GetBool(key) }
func (c *Config) GetFloat64(key string) float64        { return c.viper().GetFloat64(key) }
func (c *Config) GetDuration(key string) time.Duration { return c.viper().GetDuration(key) }
func (c *Config) GetStringSlice(key string) []string   { return c.viper().GetStringSlice(key) }
func (c *Config) IsSet(key string) bool                { return c.viper().IsSet(key) }
func (c *Config) Unmarshal(target any) error           { return c.viper().Unmarshal(target) }
func (c *Config) UnmarshalKey(key string, target any) error {
	return c.viper().UnmarshalKey(key, target)
}

// Sub returns the subtree rooted at key. It never returns nil; a missing
// subtree yields an empty Config.
// Defaults, file values and environment overrides are merged leaf by leaf,
// so a file that sets one key of a subtree keeps the other defaults.
func (c *Config) Sub(key string) *Config {
	node := any(c.viper().AllSettings())
	for _, part := range strings.Split(strings.ToLower(key), ".") {
		m, ok := node.(map[string]any)
		if !ok {
			return New(nil)
		}
		node = m[part]
	}
	m, ok := node.(map[string]any)
	if !ok {
		return New(nil)
	}
	sub := viper.New()
	if err := sub.MergeConfigMap(m); err != nil {
		return New(nil)
	}
	return New(sub)
}

// Set overrides a value. Intended for command-line flags and tests.
func (c *Config) Set(key string, value any) {
	if c != nil && c.v != nil {
		c.v.Set(key, value)
	}
}

// Defaults are applied before the config file and environment.
var Defaults = map[string]any{
	"server.host":                   "0.0.0.0",
	"server.port":                   8080,
	"store.path":                    "fullstock.db",
	"catalog.workbook":              "",
	"modules.catalog.enabled":       true,
	"modules.forecast.enabled":      true,
	"modules.charts.enabled":        true,
	"modules.leads.enabled":         true,
	"modules.leads.base_url":        "https://api.airtable.com",
	"modules.leads.timeout":         "15s",
	"modules.leads.rate_per_minute": 10,
	"modules.leads.burst":           3,
}

// secretBindings maps config keys to the unprefixed environment variables
// used by the deploy build.
var secretBindings = map[string]string{
	"airtable.api_key":  "AIRTABLE_API_KEY",
	"airtable.base_id":  "AIRTABLE_BASE_ID",
	"airtable.table_id": "AIRTABLE_TABLE_ID",
}

// Load reads configuration from path (optional), falling back to
// fullstock.yaml in the working directory or /etc/fullstock when path is
// empty. A missing default file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	for k, val := range Defaults {
		v.SetDefault(k, val)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range secretBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("fullstock")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/fullstock")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	return New(v), nil
}
