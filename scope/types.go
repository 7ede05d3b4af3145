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

package scope

import (
	"context"
	"fmt"

	"github.com/boof/column-scope/types"
)

// MaxDepth bounds the walk from a scope to its root table.
const MaxDepth = 64

// Table is the root of a scope chain: a concrete table with its quoting
// rules and its ordered columns.
type Table interface {
	Name() string
	QuotedName() string
	QuoteColumn(name string) string
	ColumnNames() []string
	PrimaryKeys() []string
}

// Queryable is a base table or a filtered, ordered or projected view over
// one. First and Last report ok=false when no record matches.
type Queryable interface {
	// Parent returns the scope this one was derived from, nil for a root.
	Parent() Queryable
	// Table returns the table of a root scope and nil for derived scopes.
	Table() Table
	// Options returns a copy of the scope's own options.
	Options() Options
	SetSelect(clause string)
	Derive(opts Options) Queryable

	Find(ctx context.Context, opts Options) ([]Record, error)
	First(ctx context.Context, opts Options) (Record, bool, error)
	Last(ctx context.Context, opts Options) (Record, bool, error)
	// Scan hydrates dest (a pointer to a model or a slice of models).
	Scan(ctx context.Context, dest interface{}, opts Options) error
}

// Options is the bag of query options carried by a scope or passed to a
// fetch call.
type Options struct {
	Where  []*types.QueryFilter
	Order  []string
	Limit  int
	Offset int
	Select string
}

// Clone returns a deep copy of o.
func (o Options) Clone() Options {
	c := o
	c.Where = append([]*types.QueryFilter(nil), o.Where...)
	c.Order = append([]string(nil), o.Order...)
	return c
}

// OptionsFromPage converts a page request into fetch options.
func OptionsFromPage(page *types.PageRequest) Options {
	if page == nil {
		return Options{}
	}
	opts := Options{
		Order:  append([]string(nil), page.GetOrders()...),
		Limit:  page.GetPageSize(),
		Offset: page.GetOffset(),
	}
	if f := page.GetFilter(); f != nil {
		opts.Where = []*types.QueryFilter{f}
	}
	return opts
}

// Record is a fetched row keyed by column name.
type Record map[string]interface{}

// Get returns the value of column and whether the record has it.
func (r Record) Get(column string) (interface{}, bool) {
	v, ok := r[column]
	return v, ok
}

// Values returns the values of columns in the requested order; absent
// columns yield nil.
func (r Record) Values(columns ...string) []interface{} {
	values := make([]interface{}, len(columns))
	for i, c := range columns {
		values[i] = r[c]
	}
	return values
}

// Root walks the parent chain of q up to the scope that exposes a table.
func Root(q Queryable) (Table, error) {
	for depth := 0; depth <= MaxDepth; depth++ {
		if q == nil {
			return nil, fmt.Errorf("%w: dangling parent at depth %d", types.ErrUnresolvableBaseTable, depth)
		}
		if t := q.Table(); t != nil {
			return t, nil
		}
		q = q.Parent()
	}
	return nil, fmt.Errorf("%w: chain deeper than %d", types.ErrUnresolvableBaseTable, MaxDepth)
}
