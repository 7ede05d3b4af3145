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
	"fmt"

	"github.com/uptrace/bun"
)

// CreateTables creates the table of every model that does not exist yet.
func CreateTables(ctx context.Context, db bun.IDB, models ...interface{}) error {
	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			name, _ := ResolveModelTable(db, model)
			return fmt.Errorf("failed to create table %s: %w", name.Name, err)
		}
	}
	return nil
}

// CreateRegisteredTables creates the tables of the default registry.
func CreateRegisteredTables(ctx context.Context, db bun.IDB) error {
	return CreateTables(ctx, db, RegisteredModelInstances()...)
}
