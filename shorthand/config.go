/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package shorthand

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config controls how compound tokens are split and normalized.
type Config struct {
	Separator       string `yaml:"separator" json:"separator"`
	DistinctPrefix  string `yaml:"distinct_prefix" json:"distinct_prefix"`
	TimestampsToken string `yaml:"timestamps_token" json:"timestamps_token"`
	CreatedAt       string `yaml:"created_at" json:"created_at"`
	UpdatedAt       string `yaml:"updated_at" json:"updated_at"`
	Singularize     bool   `yaml:"singularize" json:"singularize"`
}

// DefaultConfig splits on a double underscore and keeps names as written:
//
//	name__value        // name, value
//	distinct_name      // DISTINCT name
//	name__timestamps   // name, created_at, updated_at
func DefaultConfig() Config {
	return Config{
		Separator:       "__",
		DistinctPrefix:  "distinct_",
		TimestampsToken: "timestamps",
		CreatedAt:       "created_at",
		UpdatedAt:       "updated_at",
	}
}

// AndConfig splits on "_and_" and maps plural names to their singular column,
// so "names_and_values" selects name and value.
func AndConfig() Config {
	cfg := DefaultConfig()
	cfg.Separator = "_and_"
	cfg.Singularize = true
	return cfg
}

// withDefaults fills every empty field from DefaultConfig.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.Separator == "" {
		c.Separator = def.Separator
	}
	if c.DistinctPrefix == "" {
		c.DistinctPrefix = def.DistinctPrefix
	}
	if c.TimestampsToken == "" {
		c.TimestampsToken = def.TimestampsToken
	}
	if c.CreatedAt == "" {
		c.CreatedAt = def.CreatedAt
	}
	if c.UpdatedAt == "" {
		c.UpdatedAt = def.UpdatedAt
	}
	return c
}

// LoadConfig reads a shorthand configuration from a YAML file. Missing keys
// keep their default value.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read shorthand config: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse shorthand config: %w", err)
	}
	return cfg.withDefaults(), nil
}
