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

package columnscope_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	columnscope "github.com/boof/column-scope"
	"github.com/boof/column-scope/database"
	"github.com/boof/column-scope/internal/testutil"
	"github.com/boof/column-scope/projection"
	"github.com/boof/column-scope/scope"
	"github.com/boof/column-scope/shorthand"
	"github.com/boof/column-scope/types"
)

var inserted = scope.Options{Order: []string{"id"}}

func newService(t *testing.T, opts ...columnscope.Option) *columnscope.Service[testutil.Item] {
	t.Helper()
	db := testutil.OpenDB(t)
	testutil.SeedItems(t, db)
	opts = append([]columnscope.Option{columnscope.WithLogger(database.NopLogger{})}, opts...)
	return columnscope.NewService[testutil.Item](db, opts...)
}

func newScope(t *testing.T) *columnscope.Scope {
	t.Helper()
	sc, err := newService(t).Scope()
	require.NoError(t, err)
	return sc
}

func TestSelectAllSingleColumn(t *testing.T) {
	svc := newService(t)

	names, err := svc.SelectAll(context.Background(), "name", inserted)
	require.NoError(t, err)
	assert.Equal(t, []projection.Value{"foo", "bar", "baz"}, names)
}

func TestSelectLastValue(t *testing.T) {
	svc := newService(t)

	v, ok, err := svc.SelectLast(context.Background(), "value", inserted)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(3), v)
}

func TestSelectFirstTuple(t *testing.T) {
	svc := newService(t)
	baz := scope.Options{Where: []*types.QueryFilter{types.NewQueryFilter("name = ?", "baz")}}

	v, ok, err := svc.SelectFirst(context.Background(), "name__value", baz)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, projection.Tuple{"baz", int64(3)}, v)

	v, ok, err = svc.SelectFirst(context.Background(), "value__name", baz)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, projection.Tuple{int64(3), "baz"}, v)
}

func TestSelectAbsent(t *testing.T) {
	svc := newService(t)
	none := scope.Options{Where: []*types.QueryFilter{types.NewQueryFilter("value > ?", 100)}}

	v, ok, err := svc.SelectFirst(context.Background(), "name", none)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, v)

	_, ok, err = svc.SelectLast(context.Background(), "name", none)
	require.NoError(t, err)
	assert.False(t, ok)

	all, err := svc.SelectAll(context.Background(), "name", none)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSelectDistinct(t *testing.T) {
	svc := newService(t)

	contents, err := svc.SelectAll(context.Background(), "distinct_content", scope.Options{})
	require.NoError(t, err)
	assert.Equal(t, []projection.Value{testutil.Lorem}, contents)

	sc, err := svc.Scope()
	require.NoError(t, err)
	p, err := sc.Project("distinct_name__value")
	require.NoError(t, err)
	assert.Equal(t, `DISTINCT "items"."name","items"."value"`, p.SelectClause())
}

func TestSelectTimestamps(t *testing.T) {
	svc := newService(t)

	stamps, err := svc.SelectAll(context.Background(), "timestamps", inserted)
	require.NoError(t, err)
	require.Len(t, stamps, 3)
	assert.Len(t, stamps[0], 2)
}

func TestSelectInvalidSpec(t *testing.T) {
	svc := newService(t)

	for _, spec := range []string{"", "distinct_", "name____value", "name__name"} {
		_, err := svc.SelectAll(context.Background(), spec, scope.Options{})
		assert.ErrorIs(t, err, types.ErrInvalidSpecification, spec)
	}
}

func TestAndSeparatorParser(t *testing.T) {
	svc := newService(t, columnscope.WithParser(shorthand.NewParser(shorthand.AndConfig())))

	v, ok, err := svc.SelectFirst(context.Background(), "names_and_values", inserted)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, projection.Tuple{"foo", int64(1)}, v)
}

func TestScopeSelectAndReject(t *testing.T) {
	sc := newScope(t)

	p, err := sc.Select("name", "timestamps")
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "created_at", "updated_at"}, p.Columns())

	p, err = sc.Reject("content", "timestamps")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name", "value"}, p.Columns())

	_, err = sc.Reject(testutil.ItemColumns...)
	assert.ErrorIs(t, err, types.ErrEmptyProjection)

	_, err = sc.Select()
	assert.ErrorIs(t, err, types.ErrInvalidSpecification)
}

func TestScopeValues(t *testing.T) {
	sc := newScope(t)
	ctx := context.Background()

	e, err := sc.Values()
	require.NoError(t, err)
	assert.Equal(t, testutil.ItemColumns, e.Columns())

	p, err := sc.Select("value")
	require.NoError(t, err)
	e, err = columnscope.New(p).Values()
	require.NoError(t, err)
	values, err := e.All(ctx, inserted)
	require.NoError(t, err)
	assert.Equal(t, []projection.Value{int64(1), int64(2), int64(3)}, values)
}

func TestScopeWhereOrder(t *testing.T) {
	sc := newScope(t)

	names, err := sc.Where("value < ?", 3).Order("name").SelectAll(context.Background(), "name", scope.Options{})
	require.NoError(t, err)
	assert.Equal(t, []projection.Value{"bar", "foo"}, names)

	names, err = sc.Filter(types.NewQueryFilter("name LIKE ?", "ba%")).
		SelectAll(context.Background(), "name", scope.Options{Order: []string{"value DESC"}})
	require.NoError(t, err)
	assert.Equal(t, []projection.Value{"baz", "bar"}, names)
}

func TestModelsFromProjection(t *testing.T) {
	sc := newScope(t)

	p, err := sc.Select("name")
	require.NoError(t, err)
	items, err := columnscope.Models[testutil.Item](context.Background(), p, inserted)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "foo", items[0].Name)
	assert.Zero(t, items[0].ID)
	assert.Zero(t, items[0].Value)
}

func TestServiceRows(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	require.NoError(t, svc.Save(ctx, &testutil.Item{Name: "qux", Value: 4}))
	all, err := svc.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	page, total, err := svc.Page(ctx, types.NewPageRequestWithOrders(1, 2, "value DESC"))
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	require.Len(t, page, 2)
	assert.Equal(t, "qux", page[0].Name)

	repo, err := svc.Repository()
	require.NoError(t, err)
	assert.Equal(t, "items", repo.Table().Name)
}

func TestServiceWithoutDatabase(t *testing.T) {
	svc := columnscope.NewService[testutil.Item](nil)

	_, err := svc.Scope()
	assert.Error(t, err)
	_, err = svc.SelectAll(context.Background(), "name", scope.Options{})
	assert.Error(t, err)
}

func TestServiceScopesUseSeparateArenas(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	held, err := svc.Scope()
	require.NoError(t, err)
	arena := held.Queryable().(*scope.Scope).Arena()
	require.Equal(t, 1, arena.Len())

	for i := 0; i < 100; i++ {
		_, err := svc.SelectAll(ctx, "name", inserted)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, arena.Len())

	_, err = held.SelectAll(ctx, "name__value", inserted)
	require.NoError(t, err)
	assert.Equal(t, 2, arena.Len())

	fresh, err := svc.Scope()
	require.NoError(t, err)
	freshArena := fresh.Queryable().(*scope.Scope).Arena()
	assert.NotSame(t, arena, freshArena)
	assert.Equal(t, 1, freshArena.Len())
}
