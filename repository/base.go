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
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/schema"

	"github.com/boof/column-scope/database"
	"github.com/boof/column-scope/types"
)

type baseRepositoryImpl[T any] struct {
	db    *bun.DB
	table database.ModelTable
}

// NewRepository returns a generic repository backed by the provided Bun DB.
func NewRepository[T any](db *bun.DB) (Repository[T], error) {
	table, err := database.ResolveModelTable(db, (*T)(nil))
	if err != nil {
		return nil, err
	}
	return &baseRepositoryImpl[T]{db: db, table: table}, nil
}

func (r *baseRepositoryImpl[T]) Table() database.ModelTable { return r.table }

func (r *baseRepositoryImpl[T]) DB() *bun.DB { return r.db }

func (r *baseRepositoryImpl[T]) Dialect() schema.Dialect { return r.db.Dialect() }

func (r *baseRepositoryImpl[T]) NewSelect() *bun.SelectQuery { return r.db.NewSelect() }

// pk returns the single primary key column used by id lookups.
func (r *baseRepositoryImpl[T]) pk() (string, error) {
	keys := r.table.PrimaryKeys()
	if len(keys) != 1 {
		return "", fmt.Errorf("%w: table %s has %d primary keys", types.ErrNotSupported, r.table.Name, len(keys))
	}
	return keys[0], nil
}

func (r *baseRepositoryImpl[T]) GetOne(ctx context.Context, id any) (*T, error) {
	pk, err := r.pk()
	if err != nil {
		return nil, err
	}
	var entity T
	err = r.db.NewSelect().Model(&entity).Where("?TableAlias.? = ?", bun.Ident(pk), id).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

func (r *baseRepositoryImpl[T]) GetAll(ctx context.Context) ([]*T, error) {
	var entities []*T
	err := r.db.NewSelect().Model(&entities).Scan(ctx)
	return entities, err
}

func (r *baseRepositoryImpl[T]) List(ctx context.Context, filter *types.QueryFilter) ([]*T, error) {
	var entities []*T
	query := r.db.NewSelect().Model(&entities)
	if filter != nil {
		query = query.Where(filter.Schema, filter.Args...)
	}
	if err := query.Scan(ctx); err != nil {
		return nil, err
	}
	return entities, nil
}

func (r *baseRepositoryImpl[T]) Page(ctx context.Context, page *types.PageRequest) ([]*T, int, error) {
	var entities []*T
	query := r.db.NewSelect().Model(&entities)
	if f := page.GetFilter(); f != nil {
		query = query.Where(f.Schema, f.Args...)
	}
	total, err := query.Count(ctx)
	if err != nil || total == 0 {
		return nil, total, err
	}
	err = query.
		Offset(page.GetOffset()).
		Limit(page.GetPageSize()).
		Order(page.GetOrders()...).
		Scan(ctx)
	if err != nil {
		return nil, 0, err
	}
	return entities, total, nil
}

func (r *baseRepositoryImpl[T]) Create(ctx context.Context, entity ...*T) error {
	if len(entity) == 0 {
		return nil
	}
	entities := append([]*T(nil), entity...)
	_, err := r.db.NewInsert().Model(&entities).Exec(ctx)
	return err
}

func (r *baseRepositoryImpl[T]) Update(ctx context.Context, entity *T) error {
	_, err := r.db.NewUpdate().Model(entity).WherePK().Exec(ctx)
	return err
}

func (r *baseRepositoryImpl[T]) Delete(ctx context.Context, id any) error {
	return r.delete(ctx, r.db, id)
}

func (r *baseRepositoryImpl[T]) CreateWithTx(ctx context.Context, tx bun.Tx, entity ...*T) error {
	if len(entity) == 0 {
		return nil
	}
	entities := append([]*T(nil), entity...)
	_, err := tx.NewInsert().Model(&entities).Exec(ctx)
	return err
}

func (r *baseRepositoryImpl[T]) DeleteWithTx(ctx context.Context, tx bun.Tx, id any) error {
	return r.delete(ctx, tx, id)
}

func (r *baseRepositoryImpl[T]) delete(ctx context.Context, db bun.IDB, id any) error {
	pk, err := r.pk()
	if err != nil {
		return err
	}
	var entity T
	_, err = db.NewDelete().Model(&entity).Where("? = ?", bun.Ident(pk), id).Exec(ctx)
	return err
}
