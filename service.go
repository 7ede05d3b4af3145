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

package columnscope

import (
	"context"
	"errors"
	"sync"

	"github.com/uptrace/bun"

	"github.com/boof/column-scope/database"
	"github.com/boof/column-scope/projection"
	"github.com/boof/column-scope/repository"
	"github.com/boof/column-scope/scope"
	"github.com/boof/column-scope/types"
)

// Service binds the column shortcuts and whole-row access to model T.
type Service[T any] struct {
	db   *bun.DB
	opts []Option

	once   sync.Once
	err    error
	conn   *bun.DB
	logger database.Logger
	repo   repository.Repository[T]
	table  scope.Table
}

// NewService returns a Service over db. A nil db means the global database
// connection, resolved on first use.
func NewService[T any](db *bun.DB, opts ...Option) *Service[T] {
	return &Service[T]{db: db, opts: opts}
}

func (s *Service[T]) init() error {
	s.once.Do(func() {
		db := s.db
		if db == nil {
			db = database.GetDB()
		}
		if db == nil {
			s.err = errors.New("database is not initialized")
			return
		}
		if s.repo, s.err = repository.NewRepository[T](db); s.err != nil {
			return
		}
		mt := s.repo.Table()
		s.conn, s.logger = db, New(nil, s.opts...).logger
		s.table = scope.NewTable(mt.Name, db.Dialect().Name(), mt.Columns)
	})
	return s.err
}

// Repository returns the repository backing the service.
func (s *Service[T]) Repository() (repository.Repository[T], error) {
	if err := s.init(); err != nil {
		return nil, err
	}
	return s.repo, nil
}

// Scope returns a caller scope over the model's table. Every call gets its
// own arena, released with the scopes derived from it.
func (s *Service[T]) Scope() (*Scope, error) {
	if err := s.init(); err != nil {
		return nil, err
	}
	root := scope.NewArena(s.conn, scope.WithLogger(s.logger)).Root(s.table)
	return New(root, s.opts...), nil
}

// Save inserts one or more new entities.
func (s *Service[T]) Save(ctx context.Context, models ...*T) error {
	if err := s.init(); err != nil {
		return err
	}
	return s.repo.Create(ctx, models...)
}

// All returns all entities.
func (s *Service[T]) All(ctx context.Context) ([]*T, error) {
	if err := s.init(); err != nil {
		return nil, err
	}
	return s.repo.GetAll(ctx)
}

// Page returns one page of entities and the total count.
func (s *Service[T]) Page(ctx context.Context, page *types.PageRequest) ([]*T, int, error) {
	if err := s.init(); err != nil {
		return nil, 0, err
	}
	return s.repo.Page(ctx, page)
}

func (s *Service[T]) SelectAll(ctx context.Context, spec string, opts scope.Options) ([]projection.Value, error) {
	sc, err := s.Scope()
	if err != nil {
		return nil, err
	}
	return sc.SelectAll(ctx, spec, opts)
}

func (s *Service[T]) SelectFirst(ctx context.Context, spec string, opts scope.Options) (projection.Value, bool, error) {
	sc, err := s.Scope()
	if err != nil {
		return nil, false, err
	}
	return sc.SelectFirst(ctx, spec, opts)
}

func (s *Service[T]) SelectLast(ctx context.Context, spec string, opts scope.Options) (projection.Value, bool, error) {
	sc, err := s.Scope()
	if err != nil {
		return nil, false, err
	}
	return sc.SelectLast(ctx, spec, opts)
}
