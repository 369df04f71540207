// ABOUTME: Parameterized SQL for the SQLite key-value table
// ABOUTME: Validates identifiers and keys so every statement binds user data as parameters

package sqlite

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Logger is the slice of interfaces.Logger this package needs
type Logger interface {
	Warn(msg string, fields map[string]interface{})
}

// QueryBuilder assembles a statement from validated identifiers and bound parameters
type QueryBuilder struct {
	query  string
	params []interface{}
	where  int
}

var (
	safeNamePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)
	maxKeyLength    = 512
	maxValueLength  = 4 * 1024 * 1024

	allowedOperators = map[string]bool{"=": true, "!=": true, ">": true, "<": true, ">=": true, "<=": true}
)

// NewQueryBuilder creates a new query builder instance
func NewQueryBuilder() *QueryBuilder {
	return &QueryBuilder{params: make([]interface{}, 0)}
}

func validateName(name string) error {
	if name == "" {
		return errors.New("name cannot be empty")
	}
	if len(name) > 64 || !safeNamePattern.MatchString(name) {
		return fmt.Errorf("invalid name: %q", name)
	}
	return nil
}

// Select starts a SELECT; invalid column names collapse to *
func (qb *QueryBuilder) Select(columns ...string) *QueryBuilder {
	for _, col := range columns {
		if validateName(col) != nil {
			qb.query = "SELECT * "
			return qb
		}
	}
	if len(columns) == 0 {
		qb.query = "SELECT * "
		return qb
	}
	qb.query = "SELECT " + strings.Join(columns, ", ") + " "
	return qb
}

// From adds the FROM clause
func (qb *QueryBuilder) From(table string) *QueryBuilder {
	if validateName(table) == nil {
		qb.query += "FROM " + table + " "
	}
	return qb
}

// Where ANDs a parameterized condition; unknown operators become =
func (qb *QueryBuilder) Where(column, operator string, value interface{}) *QueryBuilder {
	if validateName(column) != nil {
		return qb
	}
	if !allowedOperators[operator] {
		operator = "="
	}
	if qb.where == 0 {
		qb.query += "WHERE "
	} else {
		qb.query += "AND "
	}
	qb.where++
	qb.query += column + " " + operator + " ? "
	qb.params = append(qb.params, value)
	return qb
}

// OrderBy sorts ascending by column
func (qb *QueryBuilder) OrderBy(column string) *QueryBuilder {
	if validateName(column) == nil {
		qb.query += "ORDER BY " + column + " "
	}
	return qb
}

// InsertOrReplace starts an upsert
func (qb *QueryBuilder) InsertOrReplace(table string) *QueryBuilder {
	if validateName(table) == nil {
		qb.query = "INSERT OR REPLACE INTO " + table + " "
	}
	return qb
}

// Values adds the column list and placeholders
func (qb *QueryBuilder) Values(columns []string, values []interface{}) *QueryBuilder {
	if len(columns) != len(values) || len(columns) == 0 {
		return qb
	}
	for _, col := range columns {
		if validateName(col) != nil {
			return qb
		}
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	qb.query += "(" + strings.Join(columns, ", ") + ") VALUES (" + placeholders + ")"
	qb.params = append(qb.params, values...)
	return qb
}

// Delete starts a DELETE
func (qb *QueryBuilder) Delete(table string) *QueryBuilder {
	if validateName(table) == nil {
		qb.query = "DELETE FROM " + table + " "
	}
	return qb
}

// Count starts a SELECT COUNT(*)
func (qb *QueryBuilder) Count(table string) *QueryBuilder {
	if validateName(table) == nil {
		qb.query = "SELECT COUNT(*) FROM " + table + " "
	}
	return qb
}

// Build returns the statement and its parameters
func (qb *QueryBuilder) Build() (string, []interface{}) {
	return strings.TrimSpace(qb.query), qb.params
}

// ValidateKey rejects unusable keys and warns about ones that look like injection attempts.
// Parameter binding makes the suspicious ones harmless, so they are still accepted.
func ValidateKey(key string, logger Logger) error {
	if key == "" {
		return errors.New("key cannot be empty")
	}
	if len(key) > maxKeyLength {
		return fmt.Errorf("key too long: max %d characters", maxKeyLength)
	}
	if strings.Contains(key, "\x00") {
		return errors.New("key cannot contain null bytes")
	}

	if logger == nil {
		return nil
	}
	for _, pattern := range []string{"--", "/*", ";", "'", "\"", "\\", "\n"} {
		if strings.Contains(key, pattern) {
			logger.Warn("Suspicious pattern detected in cache key", map[string]interface{}{
				"pattern":     pattern,
				"key_length":  len(key),
				"key_preview": truncateKey(key),
			})
		}
	}
	return nil
}

func truncateKey(key string) string {
	const maxPreview = 50
	if len(key) <= maxPreview {
		return key
	}
	return key[:maxPreview] + "..."
}

// ValidateValue rejects empty or oversized values
func ValidateValue(value []byte) error {
	if len(value) == 0 {
		return errors.New("value cannot be empty")
	}
	if len(value) > maxValueLength {
		return fmt.Errorf("value too large: max %d bytes", maxValueLength)
	}
	return nil
}

const tableName = "entries"

// getQuery selects a live value by key
func getQuery(key string, now int64) (string, []interface{}) {
	return NewQueryBuilder().
		Select("value").
		From(tableName).
		Where("key", "=", key).
		Where("expiry", ">", now).
		Build()
}

func setQuery(key string, value []byte, expiry int64) (string, []interface{}) {
	return NewQueryBuilder().
		InsertOrReplace(tableName).
		Values([]string{"key", "value", "expiry"}, []interface{}{key, value, expiry}).
		Build()
}

func deleteQuery(key string) (string, []interface{}) {
	return NewQueryBuilder().Delete(tableName).Where("key", "=", key).Build()
}

func cleanupQuery(now int64) (string, []interface{}) {
	return NewQueryBuilder().Delete(tableName).Where("expiry", "<=", now).Build()
}

// keysQuery selects live keys in [prefix, prefix+0xff) which is exactly the set starting with prefix
func keysQuery(prefix string, now int64) (string, []interface{}) {
	qb := NewQueryBuilder().Select("key").From(tableName).Where("expiry", ">", now)
	if prefix != "" {
		qb.Where("key", ">=", prefix).Where("key", "<", prefix+"\xff")
	}
	return qb.OrderBy("key").Build()
}

func countQuery(now int64) (string, []interface{}) {
	return NewQueryBuilder().Count(tableName).Where("expiry", ">", now).Build()
}
