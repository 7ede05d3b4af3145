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
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
)

type widget struct {
	bun.BaseModel `bun:"table:widgets,alias:w"`

	ID        int64     `bun:"id,pk,autoincrement"`
	Label     string    `bun:"label,notnull"`
	Weight    int64     `bun:",nullzero"`
	Internal  string    `bun:"-"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

type OrderLine struct {
	OrderID int64 `bun:",pk"`
	LineNo  int64 `bun:",pk"`
	SKU     string
}

type BaseRow struct {
	ID int64 `bun:"id,pk,autoincrement"`
}

type audit struct {
	By string
	At time.Time `bun:",nullzero"`
}

type document struct {
	bun.BaseModel `bun:"table:documents"`
	BaseRow

	Audit     audit  `bun:"embed:audit_"`
	Title     string `bun:"title"`
	WordCount int    `bun:",scanonly"`
}

func openMemory(t *testing.T) *bun.DB {
	t.Helper()
	manager := NewDatabaseManager(DefaultConnectionConfig())
	manager.SetLogger(NopLogger{})
	require.NoError(t, manager.Connect(context.Background()))
	t.Cleanup(func() { _ = manager.Disconnect() })
	return manager.GetDB()
}

func TestResolveModelTable(t *testing.T) {
	db := openMemory(t)

	table, err := ResolveModelTable(db, (*widget)(nil))
	require.NoError(t, err)
	assert.Equal(t, "widgets", table.Name)
	assert.Equal(t, []string{"id", "label", "weight", "created_at"}, table.ColumnNames())
	assert.Equal(t, []string{"id"}, table.PrimaryKeys())

	table, err = ResolveModelTable(db, []OrderLine{})
	require.NoError(t, err)
	assert.Equal(t, "order_lines", table.Name)
	assert.Equal(t, []string{"order_id", "line_no", "sku"}, table.ColumnNames())
	assert.Equal(t, []string{"order_id", "line_no"}, table.PrimaryKeys())

	_, err = ResolveModelTable(db, 42)
	assert.Error(t, err)
}

func TestResolveModelTable_EmbedAndScanOnly(t *testing.T) {
	db := openMemory(t)
	ctx := context.Background()

	table, err := ResolveModelTable(db, (*document)(nil))
	require.NoError(t, err)
	assert.Equal(t, "documents", table.Name)
	assert.Equal(t, []string{"id", "audit_by", "audit_at", "title"}, table.ColumnNames())
	assert.Equal(t, []string{"id"}, table.PrimaryKeys())

	require.NoError(t, CreateTables(ctx, db, (*document)(nil)))
	cols, err := ListColumns(ctx, db, "documents")
	require.NoError(t, err)
	assert.Equal(t, table.ColumnNames(), ColumnNames(cols))
}

func TestListColumns_SQLite(t *testing.T) {
	db := openMemory(t)
	ctx := context.Background()
	require.NoError(t, CreateTables(ctx, db, (*widget)(nil)))

	cols, err := ListColumns(ctx, db, "widgets")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "label", "weight", "created_at"}, ColumnNames(cols))
	assert.Equal(t, []string{"id"}, PrimaryKeys(cols))

	_, err = ListColumns(ctx, db, "missing")
	assert.Error(t, err)
}

func TestQuoteIdent(t *testing.T) {
	assert.Equal(t, `"items"`, QuoteIdentFor(dialect.SQLite, "items"))
	assert.Equal(t, `"we""ird"`, QuoteIdentFor(dialect.PG, `we"ird`))
	assert.Equal(t, "`items`", QuoteIdentFor(dialect.MySQL, "items"))
	assert.Equal(t, `"items"`, QuoteIdent(openMemory(t), "items"))
}

func TestSplitSQLStatements(t *testing.T) {
	content := `-- seed
INSERT INTO widgets (label) VALUES ('a;b');
INSERT INTO widgets (label)
  VALUES ('it''s');

;
UPDATE widgets SET weight = 1`
	statements := SplitSQLStatements(content)
	require.Len(t, statements, 3)
	assert.Equal(t, "INSERT INTO widgets (label) VALUES ('a;b')", statements[0])
	assert.Contains(t, statements[1], "VALUES ('it''s')")
	assert.Equal(t, "UPDATE widgets SET weight = 1", statements[2])
}

func TestExecSQLFile(t *testing.T) {
	db := openMemory(t)
	ctx := context.Background()
	require.NoError(t, CreateTables(ctx, db, (*widget)(nil)))

	t.Setenv("WIDGET_LABEL", "from-env")
	path := filepath.Join(t.TempDir(), "seed.sql")
	content := "INSERT INTO widgets (label, weight) VALUES ('{{.WIDGET_LABEL}}', 3);\nINSERT INTO widgets (label, weight) VALUES ('plain', 4);\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	result, err := ExecSQLFile(ctx, db, path)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Statements)
	assert.EqualValues(t, 2, result.RowsAffected)

	var labels []string
	require.NoError(t, db.NewSelect().Table("widgets").Column("label").OrderExpr("id").Scan(ctx, &labels))
	assert.Equal(t, []string{"from-env", "plain"}, labels)

	bad := filepath.Join(t.TempDir(), "bad.sql")
	require.NoError(t, os.WriteFile(bad, []byte("INSERT INTO widgets (label) VALUES ('x');\nINSERT INTO nowhere VALUES (1);"), 0o644))
	_, err = ExecSQLFile(ctx, db, bad)
	require.Error(t, err)

	count, err := db.NewSelect().Table("widgets").Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count, "failed file must roll back")
}

func TestIsSqlError(t *testing.T) {
	db := openMemory(t)
	ctx := context.Background()
	require.NoError(t, CreateTables(ctx, db, (*widget)(nil)))

	_, err := db.QueryContext(ctx, `SELECT "widgets"."nope" FROM "widgets"`)
	is, kind := IsSqlError(err)
	assert.True(t, is)
	assert.Equal(t, NoColumnErr, kind)
	assert.Equal(t, "no such column", kind.String())

	is, kind = IsSqlError(errors.New(`pq: relation "x" does not exist (SQLSTATE 42P01)`))
	assert.True(t, is)
	assert.Equal(t, NoTableErr, kind)

	is, _ = IsSqlError(errors.New("boom"))
	assert.False(t, is)
	is, _ = IsSqlError(nil)
	assert.False(t, is)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "colscope.yaml")
	content := `connection:
  type: postgres
  host: db.local
  port: 5432
  slow_query_time: 500ms
shorthand:
  separator: _and_
  singularize: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("DB_HOST", "override.local")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Connection.Type)
	assert.Equal(t, "override.local", cfg.Connection.Host)
	assert.Equal(t, 5432, cfg.Connection.Port)
	assert.Equal(t, 500*time.Millisecond, cfg.Connection.SlowQueryTime)
	assert.Equal(t, "_and_", cfg.Shorthand.Separator)
	assert.True(t, cfg.Shorthand.Singularize)
	assert.Equal(t, "distinct_", cfg.Shorthand.DistinctPrefix)
}
