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
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// SQLError classifies a driver error so callers can report it without
// knowing which dialect produced it.
type SQLError int

const (
	UnknownErr SQLError = iota
	NoColumnErr
	NoTableErr
	SyntaxErr
	AmbiguousColumnErr
	DuplicateKeyErr
	NotNullViolationErr
	ForeignKeyViolationErr
	InvalidTypeCastErr
)

func (e SQLError) String() string {
	switch e {
	case NoColumnErr:
		return "no such column"
	case NoTableErr:
		return "no such table"
	case SyntaxErr:
		return "syntax error"
	case AmbiguousColumnErr:
		return "ambiguous column"
	case DuplicateKeyErr:
		return "duplicate key"
	case NotNullViolationErr:
		return "not null violation"
	case ForeignKeyViolationErr:
		return "foreign key violation"
	case InvalidTypeCastErr:
		return "invalid type cast"
	default:
		return "unknown"
	}
}

var mysqlErrorNumbers = map[uint16]SQLError{
	1054: NoColumnErr,
	1146: NoTableErr,
	1064: SyntaxErr,
	1052: AmbiguousColumnErr,
	1062: DuplicateKeyErr,
	1048: NotNullViolationErr,
	1216: ForeignKeyViolationErr,
	1217: ForeignKeyViolationErr,
}

// Checked in order; the first entry with a matching fragment wins. Postgres
// messages carry their SQLSTATE, sqlite messages are matched by text.
var sqlErrorFragments = []struct {
	kind      SQLError
	fragments []string
}{
	{NoColumnErr, []string{"sqlstate 42703", "undefined column", "no such column"}},
	{NoTableErr, []string{"sqlstate 42p01", "undefined table", "no such table"}},
	{AmbiguousColumnErr, []string{"sqlstate 42702", "ambiguous column"}},
	{SyntaxErr, []string{"sqlstate 42601", "syntax error"}},
	{DuplicateKeyErr, []string{"sqlstate 23505", "duplicate key value", "unique constraint failed"}},
	{NotNullViolationErr, []string{"sqlstate 23502", "not-null constraint", "not null constraint failed"}},
	{ForeignKeyViolationErr, []string{"sqlstate 23503", "foreign key violation", "foreign key constraint failed"}},
	{InvalidTypeCastErr, []string{"sqlstate 42804", "datatype mismatch"}},
}

// IsSqlError reports whether err looks like a database error and which kind.
func IsSqlError(err error) (is bool, sqlErr SQLError) {
	if err == nil {
		return false, UnknownErr
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		if kind, ok := mysqlErrorNumbers[mysqlErr.Number]; ok {
			return true, kind
		}
		return true, UnknownErr
	}
	s := strings.ToLower(err.Error())
	for _, entry := range sqlErrorFragments {
		for _, fragment := range entry.fragments {
			if strings.Contains(s, fragment) {
				return true, entry.kind
			}
		}
	}
	return false, UnknownErr
}
