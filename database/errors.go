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
	"database/sql"
	"errors"
	"regexp"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
)

type SQLError int

const (
	UnknownErr SQLError = iota
	NoRowsErr
	NoTableErr
	ExistTableErr
	NoColumnErr
	DuplicateKeyErr
	NotNullViolationErr
	ForeignKeyViolationErr
	CheckConstraintViolationErr
	DataTruncatedErr
)

// IsSqlError classifies a driver error into a SQLError category. It
// inspects typed MySQL and Postgres driver errors first and falls back to
// SQLSTATE and message matching for the remaining drivers.
func IsSqlError(err error) (is bool, sqlErr SQLError) {
	if err == nil {
		return false, UnknownErr
	}
	if errors.Is(err, sql.ErrNoRows) {
		return true, NoRowsErr
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case 1062:
			return true, DuplicateKeyErr
		case 1048:
			return true, NotNullViolationErr
		case 1216, 1217, 1451, 1452:
			return true, ForeignKeyViolationErr
		case 3819:
			return true, CheckConstraintViolationErr
		case 1265:
			return true, DataTruncatedErr
		case 1054:
			return true, NoColumnErr
		case 1050:
			return true, ExistTableErr
		case 1146:
			return true, NoTableErr
		default:
			return true, UnknownErr
		}
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			return true, DuplicateKeyErr
		case "23502":
			return true, NotNullViolationErr
		case "23503":
			return true, ForeignKeyViolationErr
		case "23514":
			return true, CheckConstraintViolationErr
		case "22001":
			return true, DataTruncatedErr
		case "42P01":
			return true, NoTableErr
		case "42703":
			return true, NoColumnErr
		default:
			return true, UnknownErr
		}
	}

	s := strings.ToLower(err.Error())
	if strings.Contains(s, "duplicate key value") ||
		strings.Contains(s, "unique constraint failed") ||
		strings.Contains(s, "sqlstate 23505") {
		return true, DuplicateKeyErr
	}
	if strings.Contains(s, "not-null constraint") ||
		strings.Contains(s, "not null constraint failed") ||
		strings.Contains(s, "sqlstate 23502") {
		return true, NotNullViolationErr
	}
	if strings.Contains(s, "foreign key violation") ||
		strings.Contains(s, "foreign key constraint failed") ||
		strings.Contains(s, "sqlstate 23503") {
		return true, ForeignKeyViolationErr
	}
	if strings.Contains(s, "check constraint") ||
		strings.Contains(s, "sqlstate 23514") {
		return true, CheckConstraintViolationErr
	}
	if strings.Contains(s, "string data right truncation") ||
		strings.Contains(s, "data truncated") ||
		strings.Contains(s, "sqlstate 22001") {
		return true, DataTruncatedErr
	}
	if strings.Contains(s, "sqlstate 42p01") ||
		strings.Contains(s, "undefined table") ||
		strings.Contains(s, "no such table") {
		return true, NoTableErr
	}
	if strings.Contains(s, "sqlstate 42703") ||
		strings.Contains(s, "undefined column") ||
		strings.Contains(s, "no such column") {
		return true, NoColumnErr
	}
	return false, UnknownErr
}

// IsConstraintViolation reports whether the error is a storage-level
// rejection of a write due to a uniqueness, not-null, foreign-key, or
// check constraint.
func IsConstraintViolation(err error) bool {
	is, kind := IsSqlError(err)
	if !is {
		return false
	}
	switch kind {
	case DuplicateKeyErr, NotNullViolationErr, ForeignKeyViolationErr, CheckConstraintViolationErr:
		return true
	default:
		return false
	}
}

var (
	mysqlKeyPattern      = regexp.MustCompile(`for key '([^']+)'`)
	mysqlFkPattern       = regexp.MustCompile("CONSTRAINT `([^`]+)`")
	mysqlCheckPattern    = regexp.MustCompile(`[Cc]onstraint '([^']+)'`)
	postgresNamePattern  = regexp.MustCompile(`constraint "([^"]+)"`)
	postgresColumn       = regexp.MustCompile(`column "([^"]+)"`)
	sqliteFailedPattern  = regexp.MustCompile(`(?:UNIQUE|NOT NULL|CHECK) constraint failed: ([^\s,]+)`)
	whitespaceCollapsing = strings.NewReplacer("\n", "", "\r", "")
)

// ConstraintName extracts the violated constraint's name from a driver
// error. It reports false for errors that are not constraint violations
// and for violations whose constraint name cannot be determined. Extracted
// driver messages are searched with embedded newlines stripped, since the
// Postgres driver wraps detail lines.
func ConstraintName(err error) (string, bool) {
	if err == nil || !IsConstraintViolation(err) {
		return "", false
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if pqErr.Constraint != "" {
			return pqErr.Constraint, true
		}
		msg := whitespaceCollapsing.Replace(pqErr.Message + " " + pqErr.Detail)
		if m := postgresNamePattern.FindStringSubmatch(msg); m != nil {
			return m[1], true
		}
		if m := postgresColumn.FindStringSubmatch(msg); m != nil {
			return m[1], true
		}
		return "", false
	}

	msg := whitespaceCollapsing.Replace(err.Error())

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		if m := mysqlKeyPattern.FindStringSubmatch(msg); m != nil {
			return m[1], true
		}
		if m := mysqlFkPattern.FindStringSubmatch(msg); m != nil {
			return m[1], true
		}
		if m := mysqlCheckPattern.FindStringSubmatch(msg); m != nil {
			return m[1], true
		}
		return "", false
	}

	if m := sqliteFailedPattern.FindStringSubmatch(msg); m != nil {
		return m[1], true
	}
	if m := postgresNamePattern.FindStringSubmatch(msg); m != nil {
		return m[1], true
	}
	if m := mysqlKeyPattern.FindStringSubmatch(msg); m != nil {
		return m[1], true
	}
	return "", false
}
