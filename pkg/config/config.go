/*

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

// Package config loads process wide analytics settings.
package config

import (
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v2"

	"github.com/iter8-tools/iter8-analytics/pkg/analytics/weights"
)

const (
	// LogLevelEnv overrides the log level
	LogLevelEnv = "ITER8_ANALYTICS_LOG_LEVEL"

	// ExplorationTrafficPercentageEnv overrides the exploration traffic percentage
	ExplorationTrafficPercentageEnv = "ITER8_ANALYTICS_EXPLORATION_TRAFFIC_PERCENTAGE"

	// DefaultLogLevel is the default log level, which is info
	DefaultLogLevel = "info"
)

// Config holds analytics settings
type Config struct {
	// ExplorationTrafficPercentage is the share of traffic split evenly across versions
	ExplorationTrafficPercentage *float64 `yaml:"explorationTrafficPercentage,omitempty" validate:"omitempty,min=0,max=100"`

	// LogLevel is one of debug, info, warn or error
	LogLevel string `yaml:"logLevel,omitempty" validate:"omitempty,oneof=debug info warn error"`
}

var validate = validator.New()

// Load reads the config file at path, if any, and applies environment overrides
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "cannot read config file %s", path)
		}
		if err := yaml.UnmarshalStrict(b, cfg); err != nil {
			return nil, errors.Wrapf(err, "cannot parse config file %s", path)
		}
	}

	if level := os.Getenv(LogLevelEnv); level != "" {
		cfg.LogLevel = level
	}
	if v := os.Getenv(ExplorationTrafficPercentageEnv); v != "" {
		e, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid %s", ExplorationTrafficPercentageEnv)
		}
		cfg.ExplorationTrafficPercentage = &e
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return cfg, nil
}

// GetExplorationTrafficPercentage returns specified(or default) exploration traffic percentage
func (c *Config) GetExplorationTrafficPercentage() float64 {
	if c.ExplorationTrafficPercentage == nil {
		return weights.DefaultExplorationTrafficPercentage
	}
	return *c.ExplorationTrafficPercentage
}

// GetLogLevel returns specified(or default) log level
func (c *Config) GetLogLevel() zapcore.Level {
	level := c.LogLevel
	if level == "" {
		level = DefaultLogLevel
	}
	l, err := zapcore.ParseLevel(level)
	if err != nil {
		return zapcore.InfoLevel
	}
	return l
}

// WeightsOptions returns the options for weight computation
func (c *Config) WeightsOptions() weights.Options {
	e := c.GetExplorationTrafficPercentage()
	return weights.Options{ExplorationTrafficPercentage: &e}
}
