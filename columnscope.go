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

package columnscope

import (
	"context"

	"github.com/boof/column-scope/database"
	"github.com/boof/column-scope/projection"
	"github.com/boof/column-scope/scope"
	"github.com/boof/column-scope/shorthand"
	"github.com/boof/column-scope/types"
)

// Scope wraps a queryable scope with column selection and the shorthand
// shortcuts.
type Scope struct {
	q      scope.Queryable
	parser *shorthand.Parser
	logger database.Logger
}

type Option func(*Scope)

func WithParser(p *shorthand.Parser) Option {
	return func(s *Scope) {
		if p != nil {
			s.parser = p
		}
	}
}

func WithLogger(l database.Logger) Option {
	return func(s *Scope) {
		if l != nil {
			s.logger = l
		}
	}
}

func New(q scope.Queryable, opts ...Option) *Scope {
	s := &Scope{q: q, parser: shorthand.Default(), logger: database.GetLogger()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Queryable returns the wrapped scope.
func (s *Scope) Queryable() scope.Queryable { return s.q }

func (s *Scope) wrap(q scope.Queryable) *Scope {
	return &Scope{q: q, parser: s.parser, logger: s.logger}
}

// Where derives a scope filtered by query.
func (s *Scope) Where(query string, args ...interface{}) *Scope {
	return s.Filter(types.NewQueryFilter(query, args...))
}

// Filter derives a scope filtered by f.
func (s *Scope) Filter(f *types.QueryFilter) *Scope {
	return s.wrap(s.q.Derive(scope.Options{Where: []*types.QueryFilter{f}}))
}

// Order derives an ordered scope.
func (s *Scope) Order(orders ...string) *Scope {
	return s.wrap(s.q.Derive(scope.Options{Order: orders}))
}

// Select projects the named columns; "timestamps" expands as in shorthand.
func (s *Scope) Select(names ...string) (*projection.Projection, error) {
	columns, err := s.parser.ParseNames(names...)
	if err != nil {
		return nil, err
	}
	return projection.Project(s.q, columns)
}

// Reject projects every column except the named ones.
func (s *Scope) Reject(names ...string) (*projection.Projection, error) {
	columns, err := s.parser.ParseNames(names...)
	if err != nil {
		return nil, err
	}
	return projection.Exclude(s.q, columns)
}

// Values returns an extractor over the projected columns, or over every
// column of the table when the scope is not a projection.
func (s *Scope) Values() (*projection.Extractor, error) {
	if p, ok := s.q.(*projection.Projection); ok {
		return p.Values(), nil
	}
	return projection.Values(s.q)
}

// Project parses spec and builds the matching projection.
func (s *Scope) Project(spec string) (*projection.Projection, error) {
	parsed, err := s.parser.Parse(spec)
	if err != nil {
		return nil, err
	}
	p, err := projection.Project(s.q, parsed.Columns)
	if err != nil {
		return nil, err
	}
	if parsed.Distinct {
		p.Distinct()
	}
	s.logger.Debug("Projected shorthand", "spec", spec, "select", p.SelectClause())
	return p, nil
}

// SelectAll returns the values of spec for every matching record.
func (s *Scope) SelectAll(ctx context.Context, spec string, opts scope.Options) ([]projection.Value, error) {
	p, err := s.Project(spec)
	if err != nil {
		return nil, err
	}
	return p.Values().All(ctx, opts)
}

// SelectFirst returns the values of spec for the first matching record.
func (s *Scope) SelectFirst(ctx context.Context, spec string, opts scope.Options) (projection.Value, bool, error) {
	p, err := s.Project(spec)
	if err != nil {
		return nil, false, err
	}
	return p.Values().First(ctx, opts)
}

// SelectLast returns the values of spec for the last matching record.
func (s *Scope) SelectLast(ctx context.Context, spec string, opts scope.Options) (projection.Value, bool, error) {
	p, err := s.Project(spec)
	if err != nil {
		return nil, false, err
	}
	return p.Values().Last(ctx, opts)
}

// Models hydrates model instances from any scope. For a projection only the
// selected fields are set.
func Models[T any](ctx context.Context, q scope.Queryable, opts scope.Options) ([]*T, error) {
	var models []*T
	if err := q.Scan(ctx, &models, opts); err != nil {
		return nil, err
	}
	return models, nil
}
