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

// Package testutil holds the sqlite fixtures shared by package tests.
package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/boof/column-scope/database"
)

const Lorem = "Lorem ipsum dolor sit amet, consectetur adipisicing elit, sed do " +
	"eiusmod tempor incididunt ut labore et dolore magna aliqua."

// Item is the model every projection test runs against.
type Item struct {
	bun.BaseModel `bun:"table:items"`

	ID        int64     `bun:"id,pk,autoincrement"`
	Name      string    `bun:"name,notnull"`
	Value     int64     `bun:"value"`
	Content   string    `bun:"content"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// ItemColumns is the column order of the items table.
var ItemColumns = []string{"id", "name", "value", "content", "created_at", "updated_at"}

// OpenDB opens a private in-memory sqlite database closed with the test.
func OpenDB(t testing.TB) *bun.DB {
	t.Helper()
	sqldb, err := sql.Open(sqliteshim.ShimName, "file::memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// SeedItems creates the items table and inserts foo/1, bar/2 and baz/3 in
// that order.
func SeedItems(t testing.TB, db *bun.DB) []*Item {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, database.CreateTables(ctx, db, (*Item)(nil)))

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	items := []*Item{
		{Name: "foo", Value: 1, Content: Lorem},
		{Name: "bar", Value: 2, Content: Lorem},
		{Name: "baz", Value: 3, Content: Lorem},
	}
	for i, item := range items {
		item.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		item.UpdatedAt = item.CreatedAt
	}
	_, err := db.NewInsert().Model(&items).Exec(ctx)
	require.NoError(t, err)
	return items
}
