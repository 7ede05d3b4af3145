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
	"fmt"
	"strings"

	"github.com/boof/column-scope/scope"
	"github.com/boof/column-scope/shorthand"
	"github.com/boof/column-scope/types"
)

const distinctMarker = "DISTINCT "

// Projection is a scope whose select clause lists a fixed set of columns.
type Projection struct {
	scope.Queryable
	columns []string
}

// Project derives a scope from base that selects columns, table-qualified
// and quoted, in the given order.
func Project(base scope.Queryable, columns []string) (*Projection, error) {
	if err := shorthand.Validate(columns); err != nil {
		return nil, err
	}
	table, err := scope.Root(base)
	if err != nil {
		return nil, err
	}
	cols := append([]string(nil), columns...)
	derived := base.Derive(scope.Options{Select: SelectSQL(table, cols)})
	return &Projection{Queryable: derived, columns: cols}, nil
}

// Exclude projects every column of the base table except columns, keeping
// the table's column order.
func Exclude(base scope.Queryable, columns []string) (*Projection, error) {
	table, err := scope.Root(base)
	if err != nil {
		return nil, err
	}
	excluded := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		excluded[c] = struct{}{}
	}
	var remaining []string
	for _, c := range table.ColumnNames() {
		if _, ok := excluded[c]; !ok {
			remaining = append(remaining, c)
		}
	}
	if len(remaining) == 0 {
		return nil, fmt.Errorf("%w: excluding %v from %s", types.ErrEmptyProjection, columns, table.Name())
	}
	return Project(base, remaining)
}

// SelectSQL joins the qualified, quoted columns with commas.
func SelectSQL(table scope.Table, columns []string) string {
	quoted := table.QuotedName()
	parts := make([]string, len(columns))
	for i, c := range columns {
		parts[i] = quoted + "." + table.QuoteColumn(c)
	}
	return strings.Join(parts, ",")
}

// Distinct marks the select clause DISTINCT. Calling it again is a no-op.
func (p *Projection) Distinct() *Projection {
	if clause := p.SelectClause(); !strings.HasPrefix(clause, distinctMarker) {
		p.SetSelect(distinctMarker + clause)
	}
	return p
}

func (p *Projection) IsDistinct() bool {
	return strings.HasPrefix(p.SelectClause(), distinctMarker)
}

func (p *Projection) SelectClause() string {
	return p.Options().Select
}

// Columns returns a copy of the projected column names.
func (p *Projection) Columns() []string {
	return append([]string(nil), p.columns...)
}

// Values returns an extractor over the projected columns.
func (p *Projection) Values() *Extractor {
	return &Extractor{q: p, columns: p.Columns()}
}
