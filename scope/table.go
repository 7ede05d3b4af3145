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
	"github.com/uptrace/bun/dialect"

	"github.com/boof/column-scope/database"
)

type table struct {
	name    string
	dialect dialect.Name
	columns []database.ColumnInfo
}

// NewTable returns a Table over the given ordered columns, quoting
// identifiers the way the named dialect does.
func NewTable(name string, d dialect.Name, columns []database.ColumnInfo) Table {
	return &table{
		name:    name,
		dialect: d,
		columns: append([]database.ColumnInfo(nil), columns...),
	}
}

func (t *table) Name() string { return t.name }

func (t *table) QuotedName() string { return database.QuoteIdentFor(t.dialect, t.name) }

func (t *table) QuoteColumn(name string) string { return database.QuoteIdentFor(t.dialect, name) }

func (t *table) ColumnNames() []string { return database.ColumnNames(t.columns) }

func (t *table) PrimaryKeys() []string { return database.PrimaryKeys(t.columns) }
