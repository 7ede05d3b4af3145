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

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/schema"

	"github.com/boof/column-scope/database"
	"github.com/boof/column-scope/types"
)

// CrudRepository defines basic CRUD operations for a generic entity type.
type CrudRepository[T any] interface {
	GetOne(ctx context.Context, id any) (*T, error)

	GetAll(ctx context.Context) ([]*T, error)

	List(ctx context.Context, filter *types.QueryFilter) ([]*T, error)

	Create(ctx context.Context, entity ...*T) error

	Update(ctx context.Context, entity *T) error

	Delete(ctx context.Context, id any) error
}

// TransactionRepository defines writes executed within a transaction.
type TransactionRepository[T any] interface {
	CreateWithTx(ctx context.Context, tx bun.Tx, entity ...*T) error
	DeleteWithTx(ctx context.Context, tx bun.Tx, id any) error
}

// PageQueryRepository returns one page of entities and the total count.
type PageQueryRepository[T any] interface {
	Page(ctx context.Context, page *types.PageRequest) ([]*T, int, error)
}

// Repository combines CRUD, pagination and transactional writes and exposes
// the model's table and the Bun select builder.
type Repository[T any] interface {
	CrudRepository[T]
	PageQueryRepository[T]
	TransactionRepository[T]
	Table() database.ModelTable
	DB() *bun.DB
	Dialect() schema.Dialect
	NewSelect() *bun.SelectQuery
}
