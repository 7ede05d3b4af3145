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
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/boof/column-scope/shorthand"
	"github.com/boof/column-scope/utils"
	"gopkg.in/yaml.v3"
)

// ConnectionConfig describes how to connect to a database.
type ConnectionConfig struct {
	Type           string        `yaml:"type"` // postgres, mysql, sqlite
	Host           string        `yaml:"host"`
	Port           int           `yaml:"port"`
	Username       string        `yaml:"username"`
	Password       string        `yaml:"password"`
	DBName         string        `yaml:"dbname"`
	SSLMode        string        `yaml:"sslmode"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
	EnableQueryLog bool          `yaml:"enable_query_log"`
	QueryLogFormat string        `yaml:"query_log_format"` // bundebug (default) or color
	SlowQueryTime  time.Duration `yaml:"slow_query_time"`
}

// Config aggregates the connection and shorthand settings.
type Config struct {
	Connection ConnectionConfig `yaml:"connection"`
	Shorthand  shorthand.Config `yaml:"shorthand"`
}

const memoryDSN = "file::memory:"

// DSN returns the database/sql driver name and data source name.
func (c *ConnectionConfig) DSN() (driver, dsn string, err error) {
	switch strings.ToLower(c.Type) {
	case "mysql":
		mc := mysql.NewConfig()
		mc.User, mc.Passwd = c.Username, c.Password
		mc.Net, mc.Addr = "tcp", net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
		mc.DBName = c.DBName
		mc.ParseTime = true
		mc.Loc = time.Local
		mc.Timeout = c.ConnectTimeout
		mc.Params = map[string]string{"charset": "utf8mb4"}
		return "mysql", mc.FormatDSN(), nil
	case "postgres", "postgresql":
		sslMode := c.SSLMode
		if sslMode == "" {
			sslMode = "disable"
		}
		query := url.Values{}
		query.Set("sslmode", sslMode)
		if c.ConnectTimeout > 0 {
			query.Set("connect_timeout", strconv.Itoa(int(c.ConnectTimeout.Seconds())))
		}
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(c.Username, c.Password),
			Host:     net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
			Path:     "/" + c.DBName,
			RawQuery: query.Encode(),
		}
		return "postgres", u.String(), nil
	case "sqlite", "sqlite3":
		dsn = c.DBName
		switch {
		case dsn == "" || dsn == MemoryDBName:
			dsn = memoryDSN
		case filepath.Ext(dsn) == "":
			dsn += ".db"
		}
		return sqliteshim.ShimName, dsn, nil
	default:
		return "", "", fmt.Errorf("unsupported database type: %s", c.Type)
	}
}

// DefaultConnectionConfig returns an in-memory sqlite configuration.
func DefaultConnectionConfig() *ConnectionConfig {
	return &ConnectionConfig{
		Type:           "sqlite",
		DBName:         MemoryDBName,
		ConnectTimeout: time.Second * 10,
		SlowQueryTime:  time.Second * 2,
	}
}

// DefaultConfig returns the default connection with the default shorthand.
func DefaultConfig() *Config {
	return &Config{
		Connection: *DefaultConnectionConfig(),
		Shorthand:  shorthand.DefaultConfig(),
	}
}

// LoadConfig reads a YAML configuration file on top of DefaultConfig and
// applies environment overrides.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}
	OverrideFromEnv(&cfg.Connection)
	return cfg, nil
}

// OverrideFromEnv overrides connection values from DB_* environment variables.
func OverrideFromEnv(cfg *ConnectionConfig) {
	if typ := os.Getenv("DB_TYPE"); typ != "" {
		cfg.Type = typ
	}
	if host := os.Getenv("DB_HOST"); host != "" {
		cfg.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Port = p
		}
	}
	if username := os.Getenv("DB_USERNAME"); username != "" {
		cfg.Username = username
	}
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		cfg.Password = password
	}
	if dbname := os.Getenv("DB_NAME"); dbname != "" {
		cfg.DBName = dbname
	}
	if sslmode := os.Getenv("DB_SSLMODE"); sslmode != "" {
		cfg.SSLMode = sslmode
	}
	cfg.EnableQueryLog = utils.EnvDefaultBool("DB_ENABLE_QUERY_LOG", cfg.EnableQueryLog)
}
