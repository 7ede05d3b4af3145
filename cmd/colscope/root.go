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

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/uptrace/bun"

	columnscope "github.com/boof/column-scope"
	"github.com/boof/column-scope/database"
	"github.com/boof/column-scope/projection"
	"github.com/boof/column-scope/scope"
	"github.com/boof/column-scope/shorthand"
	"github.com/boof/column-scope/utils"
)

// app holds the persistent flags and the connection opened for a command.
type app struct {
	configPath string
	verbose    bool
	logFormat  string
	initSQL    string

	cfg *database.Config
	db  *bun.DB
}

func newRootCmd() *cobra.Command {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:   "colscope",
		Short: "Query selected columns of a table",
		Long: `colscope reads plain column values from a database table.
Columns are given as shorthand specs such as "name__value" or
"distinct_price"; "timestamps" stands for created_at and updated_at.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.open,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return database.CloseDB()
		},
	}
	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "YAML configuration file")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&a.logFormat, "log-format", utils.EnvDefaultString("CONSOLE_LOG_FORMAT", "text"), "Log format: text or json")
	rootCmd.PersistentFlags().StringVar(&a.initSQL, "init-sql", "", "SQL file executed before the command")

	rootCmd.AddCommand(newSelectCmd(a), newRejectCmd(a), newClauseCmd(a))
	return rootCmd
}

func (a *app) open(cmd *cobra.Command, args []string) error {
	utils.ConfigureConsoleLogFormat(a.logFormat)
	if a.verbose {
		utils.ConfigureLogLevel("debug")
	} else {
		utils.ConfigureLogLevel("warn")
	}
	logger := database.GetLogger()

	cfg, err := database.LoadConfig(a.configPath)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	db, err := database.InitDB(ctx, cfg)
	if err != nil {
		return err
	}
	a.cfg, a.db = cfg, db

	if a.initSQL != "" {
		res, err := database.ExecSQLFile(ctx, db, a.initSQL)
		if err != nil {
			return err
		}
		logger.Info("Init SQL executed", "file", res.File, "statements", res.Statements, "duration", res.Duration)
	}
	return nil
}

// tableScope returns a caller scope over table using the configured parser.
func (a *app) tableScope(ctx context.Context, table string) (*columnscope.Scope, error) {
	if table == "" {
		return nil, fmt.Errorf("--table is required")
	}
	root, err := scope.NewArena(a.db).Table(ctx, table)
	if err != nil {
		return nil, err
	}
	parser := shorthand.NewParser(a.cfg.Shorthand)
	return columnscope.New(root, columnscope.WithParser(parser)), nil
}

// printValues writes one JSON document per value.
func printValues(w io.Writer, values ...projection.Value) error {
	enc := json.NewEncoder(w)
	for _, v := range values {
		if err := enc.Encode(jsonValue(v)); err != nil {
			return err
		}
	}
	return nil
}

func jsonValue(v projection.Value) interface{} {
	switch v := v.(type) {
	case []byte:
		return string(v)
	case projection.Tuple:
		out := make([]interface{}, len(v))
		for i, e := range v {
			out[i] = jsonValue(e)
		}
		return out
	default:
		return v
	}
}
