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
	"sync"

	"github.com/uptrace/bun"
)

var (
	globalMu      sync.RWMutex
	globalManager AbstractDatabaseManager
	globalConfig  *Config
)

// GetDB returns the global bun database, or nil before InitDB.
func GetDB() *bun.DB {
	globalMu.RLock()
	defer globalMu.RUnlock()
	if globalManager == nil {
		return nil
	}
	return globalManager.GetDB()
}

// GetConfig returns the configuration passed to InitDB.
func GetConfig() *Config {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalConfig
}

// InitDB connects the global database and registers the models added with
// RegisteredModel.
func InitDB(ctx context.Context, cfg *Config) (*bun.DB, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database configuration cannot be empty")
	}

	manager := NewDatabaseManager(&cfg.Connection)
	if err := manager.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	db := manager.GetDB()
	if models := RegisteredModelInstances(); len(models) > 0 {
		db.RegisterModel(models...)
	}

	globalMu.Lock()
	previous := globalManager
	globalManager, globalConfig = manager, cfg
	globalMu.Unlock()

	if previous != nil {
		_ = previous.Disconnect()
	}
	return db, nil
}

// CloseDB closes the global database connection.
func CloseDB() error {
	globalMu.Lock()
	manager := globalManager
	globalManager = nil
	globalMu.Unlock()

	if manager == nil {
		return nil
	}
	return manager.Disconnect()
}
