// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package config loads ownstress settings from defaults, an optional
// config file and OWNSTRESS_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"code.hybscloud.com/own/internal/stress"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "OWNSTRESS"

// Config is the full ownstress configuration.
type Config struct {
	Stress   stress.Config `mapstructure:"stress"`
	LogLevel string        `mapstructure:"log_level"`
}

// New returns a viper instance carrying the defaults and the environment
// bindings. Flags may be bound to it before Load.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("stress.workers", 8)
	v.SetDefault("stress.iterations", 10000)
	v.SetDefault("stress.resources", 4)
	v.SetDefault("stress.array_len", 0)
	v.SetDefault("stress.budget", 0)
	v.SetDefault("log_level", "info")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads file, if not empty, into v and decodes the result.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Stress.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}
