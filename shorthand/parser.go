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
	"strings"

	"github.com/boof/column-scope/types"
	"github.com/jinzhu/inflection"
)

// Spec is the parsed form of a shorthand token.
type Spec struct {
	Distinct bool
	Columns  []string
}

// Parser is immutable once built and safe for concurrent use.
type Parser struct {
	cfg Config
}

// NewParser returns a parser for cfg; empty fields fall back to DefaultConfig.
func NewParser(cfg Config) *Parser {
	return &Parser{cfg: cfg.withDefaults()}
}

var defaultParser = NewParser(DefaultConfig())

// Default returns the parser built from DefaultConfig.
func Default() *Parser {
	return defaultParser
}

// Config returns the effective configuration.
func (p *Parser) Config() Config {
	return p.cfg
}

// Parse splits a compound token into its distinct flag and column names.
func (p *Parser) Parse(token string) (Spec, error) {
	raw := strings.Split(token, p.cfg.Separator)

	var spec Spec
	if first := raw[0]; strings.HasPrefix(first, p.cfg.DistinctPrefix) {
		raw[0] = strings.TrimPrefix(first, p.cfg.DistinctPrefix)
		spec.Distinct = true
	}

	columns, err := p.expand(raw)
	if err != nil {
		return Spec{}, fmt.Errorf("%w: %q", err, token)
	}
	spec.Columns = columns
	return spec, nil
}

// ParseNames expands and validates an explicit list of column names. Distinct
// prefixes are not recognized here.
func (p *Parser) ParseNames(names ...string) ([]string, error) {
	columns, err := p.expand(names)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, names)
	}
	return columns, nil
}

func (p *Parser) expand(raw []string) ([]string, error) {
	columns := make([]string, 0, len(raw)+1)
	for _, name := range raw {
		if name == p.cfg.TimestampsToken {
			columns = append(columns, p.cfg.CreatedAt, p.cfg.UpdatedAt)
			continue
		}
		if p.cfg.Singularize {
			name = inflection.Singular(name)
		}
		columns = append(columns, name)
	}
	if err := Validate(columns); err != nil {
		return nil, err
	}
	return columns, nil
}

// Validate checks that columns is a usable column specification: non-empty,
// no empty names and no duplicates.
func Validate(columns []string) error {
	if len(columns) == 0 {
		return fmt.Errorf("%w: no columns", types.ErrInvalidSpecification)
	}
	seen := make(map[string]struct{}, len(columns))
	for i, name := range columns {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%w: empty column name at position %d", types.ErrInvalidSpecification, i)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("%w: duplicate column %q", types.ErrInvalidSpecification, name)
		}
		seen[name] = struct{}{}
	}
	return nil
}
