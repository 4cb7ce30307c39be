// Package config provides configuration loading, validation, and defaults
// for the scrollkeeper demo binary.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration for the demo binary.
type Config struct {
	Log     LogConfig     `yaml:"log"     json:"log"`
	Server  ServerConfig  `yaml:"server"  json:"server"`
	Restore RestoreConfig `yaml:"restore" json:"restore"`
	Demo    DemoConfig    `yaml:"demo"    json:"demo"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `yaml:"level"  json:"level"  env:"SCROLLKEEPER_LOG_LEVEL"  validate:"omitempty,oneof=trace debug info warn error fatal panic"`
	Format string `yaml:"format" json:"format" env:"SCROLLKEEPER_LOG_FORMAT" validate:"omitempty,oneof=text json"`
}

// ServerConfig holds the operational HTTP server settings.
type ServerConfig struct {
	ListenAddress string `yaml:"listen_address" json:"listen_address" env:"SCROLLKEEPER_LISTEN_ADDRESS" validate:"required"`
	EnablePprof   bool   `yaml:"enable_pprof"   json:"enable_pprof"   env:"SCROLLKEEPER_ENABLE_PPROF"`
}

// RestoreConfig holds the scroll restoration binding settings.
type RestoreConfig struct {
	Identifier     string `yaml:"identifier"  json:"identifier"  env:"SCROLLKEEPER_IDENTIFIER"  validate:"required"`
	Persist        string `yaml:"persist"     json:"persist"     env:"SCROLLKEEPER_PERSIST"     validate:"omitempty,oneof=disabled redis local"`
	RedisURL       string `yaml:"redis_url"   json:"redis_url"   env:"SCROLLKEEPER_REDIS_URL"`
	LocalPath      string `yaml:"local_path"  json:"local_path"  env:"SCROLLKEEPER_LOCAL_PATH"`
	DebounceMillis int    `yaml:"debounce_ms" json:"debounce_ms" env:"SCROLLKEEPER_DEBOUNCE_MS" validate:"omitempty,min=1"`
}

// DebounceTime returns the configured quiet period as a time.Duration.
func (c RestoreConfig) DebounceTime() time.Duration {
	return time.Duration(c.DebounceMillis) * time.Millisecond
}

// DemoConfig holds settings for the simulated scroll traffic.
type DemoConfig struct {
	EventsPerSecond int `yaml:"events_per_second" json:"events_per_second" env:"SCROLLKEEPER_DEMO_EPS"           validate:"omitempty,min=1"`
	BurstSeconds    int `yaml:"burst_seconds"     json:"burst_seconds"     env:"SCROLLKEEPER_DEMO_BURST_SECONDS" validate:"omitempty,min=1"`
	QuietSeconds    int `yaml:"quiet_seconds"     json:"quiet_seconds"     env:"SCROLLKEEPER_DEMO_QUIET_SECONDS" validate:"omitempty,min=1"`
}

// Load reads a YAML configuration file, applies defaults, applies environment
// variable overrides, and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := &Config{}
	ApplyDefaults(cfg)

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnvOverrides walks the config struct and overwrites fields that have
// an "env" tag if the corresponding environment variable is set.
func applyEnvOverrides(cfg *Config) {
	applyEnvOverridesOnValue(reflect.ValueOf(cfg))
}

func applyEnvOverridesOnValue(v reflect.Value) {
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return
	}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldVal := v.Field(i)

		if fieldVal.Kind() == reflect.Struct {
			applyEnvOverridesOnValue(fieldVal.Addr())
			continue
		}

		envKey := field.Tag.Get("env")
		if envKey == "" {
			continue
		}

		envVal, ok := os.LookupEnv(envKey)
		if !ok {
			continue
		}

		setFieldFromString(fieldVal, envVal)
	}
}

// setFieldFromString sets a reflect.Value from a string, supporting the
// string, bool, and int field types used in this config.
func setFieldFromString(field reflect.Value, raw string) {
	if !field.CanSet() {
		return
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)

	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err == nil {
			field.SetBool(b)
		}

	case reflect.Int:
		n, err := strconv.Atoi(raw)
		if err == nil {
			field.SetInt(int64(n))
		}
	}
}

// redactString replaces a secret string with "****" if non-empty.
func redactString(s string) string {
	if s == "" {
		return ""
	}
	return "****"
}

// Redacted returns a copy of the Config with sensitive fields masked. The
// Redis URL may embed credentials.
func (c *Config) Redacted() Config {
	cp := *c
	cp.Restore.RedisURL = redactString(cp.Restore.RedisURL)
	return cp
}

// RedactedJSON returns the config as indented JSON with secrets masked.
func (c *Config) RedactedJSON() ([]byte, error) {
	redacted := c.Redacted()
	data, err := json.MarshalIndent(redacted, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling redacted config: %w", err)
	}
	return data, nil
}
