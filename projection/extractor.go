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

package projection

import (
	"context"
	"fmt"

	"github.com/boof/column-scope/scope"
	"github.com/boof/column-scope/shorthand"
	"github.com/boof/column-scope/types"
)

// Value is a single column value or, for several columns, a Tuple.
type Value = interface{}

// Tuple holds column values in requested column order.
type Tuple []interface{}

// Extractor fetches records of a scope and reduces them to Values.
type Extractor struct {
	q       scope.Queryable
	columns []string
}

func NewExtractor(q scope.Queryable, columns []string) (*Extractor, error) {
	if err := shorthand.Validate(columns); err != nil {
		return nil, err
	}
	return &Extractor{q: q, columns: append([]string(nil), columns...)}, nil
}

// Values returns an extractor over every column of the table behind q.
func Values(q scope.Queryable) (*Extractor, error) {
	table, err := scope.Root(q)
	if err != nil {
		return nil, err
	}
	return NewExtractor(q, table.ColumnNames())
}

func (e *Extractor) Columns() []string {
	return append([]string(nil), e.columns...)
}

func (e *Extractor) All(ctx context.Context, opts scope.Options) ([]Value, error) {
	records, err := e.q.Find(ctx, opts)
	if err != nil {
		return nil, err
	}
	values := make([]Value, 0, len(records))
	for _, r := range records {
		values = append(values, e.extract(r))
	}
	return values, nil
}

func (e *Extractor) First(ctx context.Context, opts scope.Options) (Value, bool, error) {
	return e.one(e.q.First(ctx, opts))
}

func (e *Extractor) Last(ctx context.Context, opts scope.Options) (Value, bool, error) {
	return e.one(e.q.Last(ctx, opts))
}

// Find is not available on an extractor; use All, First or Last.
func (e *Extractor) Find(ctx context.Context, opts scope.Options) ([]Value, error) {
	return nil, fmt.Errorf("%w: find on a value extractor", types.ErrNotSupported)
}

func (e *Extractor) one(r scope.Record, ok bool, err error) (Value, bool, error) {
	if err != nil || !ok {
		return nil, false, err
	}
	return e.extract(r), true, nil
}

func (e *Extractor) extract(r scope.Record) Value {
	if len(e.columns) == 1 {
		return r[e.columns[0]]
	}
	return Tuple(r.Values(e.columns...))
}
