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
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boof/column-scope/database"
)

const seedSQL = `
CREATE TABLE items (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	value INTEGER,
	content TEXT,
	created_at TIMESTAMP,
	updated_at TIMESTAMP
);
-- content comes from the environment
INSERT INTO items (name, value, content) VALUES ('foo', 1, '{{.COLSCOPE_CONTENT}}');
INSERT INTO items (name, value, content) VALUES ('bar', 2, '{{.COLSCOPE_CONTENT}}');
INSERT INTO items (name, value, content) VALUES ('baz', 3, 'semi;colon');
`

func seedFile(t *testing.T) string {
	t.Helper()
	t.Setenv("COLSCOPE_CONTENT", "lorem")
	path := filepath.Join(t.TempDir(), "seed.sql")
	require.NoError(t, os.WriteFile(path, []byte(seedSQL), 0o644))
	return path
}

func run(t *testing.T, args ...string) ([]string, error) {
	t.Helper()
	t.Cleanup(func() { _ = database.CloseDB() })

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return strings.Fields(out.String()), err
}

func TestSelectCommand(t *testing.T) {
	seed := seedFile(t)

	lines, err := run(t, "--init-sql", seed, "select", "name", "--table", "items", "--order", "id")
	require.NoError(t, err)
	assert.Equal(t, []string{`"foo"`, `"bar"`, `"baz"`}, lines)

	lines, err = run(t, "--init-sql", seed, "select", "value", "-t", "items", "-o", "id", "--last")
	require.NoError(t, err)
	assert.Equal(t, []string{"3"}, lines)

	lines, err = run(t, "--init-sql", seed, "select", "name__value", "-t", "items",
		"--first", "--where", "name = ?", "--arg", "baz")
	require.NoError(t, err)
	assert.Equal(t, []string{`["baz",3]`}, lines)

	lines, err = run(t, "--init-sql", seed, "select", "distinct_content", "-t", "items", "-o", "content")
	require.NoError(t, err)
	assert.Equal(t, []string{`"lorem"`, `"semi;colon"`}, lines)
}

func TestSelectCommandPaging(t *testing.T) {
	seed := seedFile(t)

	lines, err := run(t, "--init-sql", seed, "select", "name", "-t", "items",
		"--page", "2", "--page-size", "2", "-o", "id")
	require.NoError(t, err)
	assert.Equal(t, []string{`"baz"`}, lines)
}

func TestSelectCommandAbsent(t *testing.T) {
	seed := seedFile(t)

	lines, err := run(t, "--init-sql", seed, "select", "name", "-t", "items",
		"--first", "--where", "value > ?", "--arg", "10")
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestRejectCommand(t *testing.T) {
	seed := seedFile(t)

	lines, err := run(t, "--init-sql", seed, "reject", "content", "timestamps", "-t", "items", "-o", "id")
	require.NoError(t, err)
	assert.Equal(t, []string{`[1,"foo",1]`, `[2,"bar",2]`, `[3,"baz",3]`}, lines)
}

func TestClauseCommand(t *testing.T) {
	seed := seedFile(t)

	lines, err := run(t, "--init-sql", seed, "clause", "distinct_name__value", "-t", "items")
	require.NoError(t, err)
	assert.Equal(t, []string{`DISTINCT`, `"items"."name","items"."value"`}, lines)
}

func TestCommandErrors(t *testing.T) {
	seed := seedFile(t)

	_, err := run(t, "--init-sql", seed, "select", "nope", "-t", "items")
	require.Error(t, err)
	ok, kind := database.IsSqlError(err)
	assert.True(t, ok)
	assert.Equal(t, database.NoColumnErr, kind)

	_, err = run(t, "--init-sql", seed, "select", "name____value", "-t", "items")
	assert.Error(t, err)

	_, err = run(t, "--init-sql", seed, "select", "name", "-t", "missing")
	assert.Error(t, err)

	_, err = run(t, "select", "name")
	assert.Error(t, err)
}
