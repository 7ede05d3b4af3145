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

package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"

	"github.com/boof/column-scope/internal/testutil"
	"github.com/boof/column-scope/types"
)

type membership struct {
	bun.BaseModel `bun:"table:memberships"`

	UserID  int64 `bun:"user_id,pk"`
	GroupID int64 `bun:"group_id,pk"`
}

func newItemRepository(t *testing.T) (Repository[testutil.Item], *bun.DB) {
	t.Helper()
	db := testutil.OpenDB(t)
	testutil.SeedItems(t, db)
	repo, err := NewRepository[testutil.Item](db)
	require.NoError(t, err)
	return repo, db
}

func TestRepositoryTable(t *testing.T) {
	repo, _ := newItemRepository(t)

	assert.Equal(t, "items", repo.Table().Name)
	assert.Equal(t, testutil.ItemColumns, repo.Table().ColumnNames())
	assert.Equal(t, dialect.SQLite, repo.Dialect().Name())
}

func TestRepositoryReads(t *testing.T) {
	repo, _ := newItemRepository(t)
	ctx := context.Background()

	item, err := repo.GetOne(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "bar", item.Name)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	list, err := repo.List(ctx, types.NewQueryFilter("value >= ?", 2))
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestRepositoryPage(t *testing.T) {
	repo, _ := newItemRepository(t)

	items, total, err := repo.Page(context.Background(), types.NewPageRequestWithOrders(2, 2, "id ASC"))
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, items, 1)
	assert.Equal(t, "baz", items[0].Name)

	items, total, err = repo.Page(context.Background(),
		types.NewPageRequest(1, 10, types.NewQueryFilter("name = ?", "qux"), nil))
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, items)
}

func TestRepositoryWrites(t *testing.T) {
	repo, db := newItemRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &testutil.Item{Name: "qux", Value: 4}))
	item, err := repo.GetOne(ctx, 4)
	require.NoError(t, err)

	item.Value = 40
	require.NoError(t, repo.Update(ctx, item))
	item, err = repo.GetOne(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(40), item.Value)

	require.NoError(t, repo.Delete(ctx, 4))
	_, err = repo.GetOne(ctx, 4)
	assert.Error(t, err)

	err = db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := repo.CreateWithTx(ctx, tx, &testutil.Item{Name: "quux", Value: 5}); err != nil {
			return err
		}
		return repo.DeleteWithTx(ctx, tx, 1)
	})
	require.NoError(t, err)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestRepositoryCompositeKey(t *testing.T) {
	repo, err := NewRepository[membership](testutil.OpenDB(t))
	require.NoError(t, err)

	_, err = repo.GetOne(context.Background(), 1)
	assert.ErrorIs(t, err, types.ErrNotSupported)
}
