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
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"text/template"
	"time"

	"github.com/uptrace/bun"
)

// ExecutionResult is the outcome of executing one SQL file.
type ExecutionResult struct {
	File         string
	Statements   int
	RowsAffected int64
	Duration     time.Duration
}

// ExecSQLFile runs every statement of a SQL file in one transaction. The file
// is a text/template rendered with the process environment, so {{.DB_NAME}}
// expands to $DB_NAME.
func ExecSQLFile(ctx context.Context, db *bun.DB, path string) (ExecutionResult, error) {
	start := time.Now()
	result := ExecutionResult{File: path}

	content, err := os.ReadFile(path)
	if err != nil {
		return result, fmt.Errorf("failed to read SQL file: %w", err)
	}
	rendered, err := renderEnv(string(content))
	if err != nil {
		return result, fmt.Errorf("failed to render SQL file %s: %w", path, err)
	}

	statements := SplitSQLStatements(rendered)
	err = db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		for _, stmt := range statements {
			res, execErr := tx.ExecContext(ctx, stmt)
			if execErr != nil {
				return fmt.Errorf("failed to execute SQL statement: %s, error: %w", stmt, execErr)
			}
			n, _ := res.RowsAffected()
			result.RowsAffected += n
			result.Statements++
		}
		return nil
	})
	result.Duration = time.Since(start)
	if err != nil {
		return result, err
	}

	GetLogger().Debug("SQL file executed", "file", path, "statements", result.Statements, "rows_affected", result.RowsAffected)
	return result, nil
}

func renderEnv(content string) (string, error) {
	tmpl, err := template.New("sql").Option("missingkey=zero").Parse(content)
	if err != nil {
		return "", err
	}
	env := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, env); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// SplitSQLStatements splits content on semicolons that are not inside
// quotes. Lines starting with "--" are dropped, as are empty statements.
func SplitSQLStatements(content string) []string {
	var statements []string
	var current strings.Builder
	var quote rune

	flush := func() {
		if stmt := strings.TrimSpace(current.String()); stmt != "" {
			statements = append(statements, stmt)
		}
		current.Reset()
	}

	for _, line := range strings.Split(content, "\n") {
		if quote == 0 && strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		for _, c := range line {
			switch {
			case quote != 0:
				if c == quote {
					quote = 0
				}
			case c == '\'' || c == '"' || c == '`':
				quote = c
			case c == ';':
				flush()
				continue
			}
			current.WriteRune(c)
		}
		current.WriteByte('\n')
	}
	flush()
	return statements
}
