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

package database

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
)

// ColumnInfo is one column of a table in ordinal order.
type ColumnInfo struct {
	Name       string
	PrimaryKey bool
}

// ModelTable is the table behind a bun model as declared by its struct tags.
type ModelTable struct {
	Name    string
	Columns []ColumnInfo
}

// ColumnNames returns the column names in declaration order.
func (t ModelTable) ColumnNames() []string {
	return ColumnNames(t.Columns)
}

// PrimaryKeys returns the primary key column names in declaration order.
func (t ModelTable) PrimaryKeys() []string {
	return PrimaryKeys(t.Columns)
}

// ResolveModelTable reads the table name and the ordered column list of a
// bun model (struct, pointer or slice) from the schema bun builds for it, so
// embedded prefixes, renamed fields and scan-only fields follow bun's rules.
func ResolveModelTable(db bun.IDB, model interface{}) (ModelTable, error) {
	typ := reflect.TypeOf(model)
	for typ != nil && (typ.Kind() == reflect.Ptr || typ.Kind() == reflect.Slice) {
		typ = typ.Elem()
	}
	if typ == nil || typ.Kind() != reflect.Struct {
		return ModelTable{}, fmt.Errorf("model must be a struct, got %T", model)
	}

	t := db.Dialect().Tables().Get(typ)
	table := ModelTable{Name: t.Name, Columns: make([]ColumnInfo, 0, len(t.Fields))}
	for _, f := range t.Fields {
		table.Columns = append(table.Columns, ColumnInfo{Name: f.Name, PrimaryKey: f.IsPK})
	}
	if len(table.Columns) == 0 {
		return ModelTable{}, fmt.Errorf("model %s has no columns", typ.Name())
	}
	return table, nil
}

// ListColumns introspects a live table and returns its columns in ordinal
// order.
func ListColumns(ctx context.Context, db bun.IDB, table string) ([]ColumnInfo, error) {
	var rows *sql.Rows
	var err error
	name := db.Dialect().Name()
	switch name {
	case dialect.PG:
		rows, err = db.QueryContext(ctx, `SELECT c.column_name, tc.constraint_type
FROM information_schema.columns c
LEFT JOIN information_schema.key_column_usage k
  ON k.table_schema = c.table_schema AND k.table_name = c.table_name AND k.column_name = c.column_name
LEFT JOIN information_schema.table_constraints tc
  ON tc.constraint_schema = k.constraint_schema AND tc.constraint_name = k.constraint_name AND tc.constraint_type = 'PRIMARY KEY'
WHERE c.table_schema = current_schema() AND c.table_name = $1
ORDER BY c.ordinal_position`, table)
	case dialect.MySQL:
		rows, err = db.QueryContext(ctx, `SELECT COLUMN_NAME, COLUMN_KEY FROM INFORMATION_SCHEMA.COLUMNS WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ? ORDER BY ORDINAL_POSITION`, table)
	default:
		rows, err = db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", QuoteIdent(db, table)))
	}
	if err != nil {
		return nil, err
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	var cols []ColumnInfo
	index := map[string]int{}
	for rows.Next() {
		var col ColumnInfo
		switch name {
		case dialect.PG:
			var constraint sql.NullString
			if err := rows.Scan(&col.Name, &constraint); err != nil {
				return nil, err
			}
			col.PrimaryKey = constraint.Valid
		case dialect.MySQL:
			var key sql.NullString
			if err := rows.Scan(&col.Name, &key); err != nil {
				return nil, err
			}
			col.PrimaryKey = key.String == "PRI"
		default:
			var cid, notnull, pk int
			var typ string
			var def sql.NullString
			if err := rows.Scan(&cid, &col.Name, &typ, &notnull, &def, &pk); err != nil {
				return nil, err
			}
			col.PrimaryKey = pk > 0
		}
		// A column in several constraints comes back once per constraint.
		if i, seen := index[col.Name]; seen {
			cols[i].PrimaryKey = cols[i].PrimaryKey || col.PrimaryKey
			continue
		}
		index[col.Name] = len(cols)
		cols = append(cols, col)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("no columns found for table %s", table)
	}
	return cols, nil
}

// QuoteIdent quotes an identifier for the dialect of db.
func QuoteIdent(db bun.IDB, s string) string {
	return QuoteIdentFor(db.Dialect().Name(), s)
}

// QuoteIdentFor quotes an identifier for the named dialect.
func QuoteIdentFor(name dialect.Name, s string) string {
	switch name {
	case dialect.MySQL:
		return "`" + strings.ReplaceAll(s, "`", "``") + "`"
	case dialect.MSSQL:
		return "[" + strings.ReplaceAll(s, "]", "]]") + "]"
	default:
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
}

// ColumnNames returns the names of cols in order.
func ColumnNames(cols []ColumnInfo) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names
}

// PrimaryKeys returns the names of the primary key columns of cols in order.
func PrimaryKeys(cols []ColumnInfo) []string {
	var pks []string
	for _, c := range cols {
		if c.PrimaryKey {
			pks = append(pks, c.Name)
		}
	}
	return pks
}

