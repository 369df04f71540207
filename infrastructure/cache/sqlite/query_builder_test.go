package sqlite

import (
	"strings"
	"testing"
)

// MockLogger captures log calls for testing
type MockLogger struct {
	warnings []struct {
		msg    string
		fields map[string]interface{}
	}
}

func (ml *MockLogger) Warn(msg string, fields map[string]interface{}) {
	ml.warnings = append(ml.warnings, struct {
		msg    string
		fields map[string]interface{}
	}{msg: msg, fields: fields})
}

func TestQueryBuilder_Select(t *testing.T) {
	tests := []struct {
		name     string
		columns  []string
		expected string
	}{
		{name: "Select all", columns: []string{}, expected: "SELECT *"},
		{name: "Select specific columns", columns: []string{"value", "expiry"}, expected: "SELECT value, expiry"},
		{name: "Invalid column names", columns: []string{"value; DROP TABLE entries;", "expiry"}, expected: "SELECT *"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, _ := NewQueryBuilder().Select(tt.columns...).Build()
			if !strings.HasPrefix(query, tt.expected) {
				t.Errorf("Expected query to start with %q, got %q", tt.expected, query)
			}
		})
	}
}

func TestQueryBuilder_WhereChainsWithAnd(t *testing.T) {
	query, params := NewQueryBuilder().
		Select("key").
		From("entries").
		Where("expiry", ">", 1).
		Where("key", "LIKE", "a").
		Build()

	want := "SELECT key FROM entries WHERE expiry > ? AND key = ?"
	if query != want {
		t.Errorf("query = %q, want %q", query, want)
	}
	if len(params) != 2 {
		t.Errorf("params = %v, want 2", params)
	}
}

func TestQueryBuilder_RejectsInjectedIdentifiers(t *testing.T) {
	query, params := NewQueryBuilder().Delete("entries; DROP TABLE x").Where("key; --", "=", "v").Build()

	if query != "" {
		t.Errorf("query = %q, want empty for invalid identifiers", query)
	}
	if len(params) != 0 {
		t.Errorf("params = %v, want none", params)
	}
}

func TestKeysQuery(t *testing.T) {
	query, params := keysQuery("http:", 100)
	if !strings.Contains(query, "key >= ? AND key < ?") {
		t.Errorf("prefix query missing range: %q", query)
	}
	if len(params) != 3 || params[1] != "http:" || params[2] != "http:\xff" {
		t.Errorf("params = %v", params)
	}

	query, params = keysQuery("", 100)
	if strings.Contains(query, "key >=") || len(params) != 1 {
		t.Errorf("empty prefix should not filter on key: %q %v", query, params)
	}
}

func TestValidateKey(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		wantErr   bool
		shouldLog bool
	}{
		{name: "plain key", key: "kv:news_favorites", wantErr: false, shouldLog: false},
		{name: "cache signature", key: "http:/posts?_limit=20&_page=1&type=top", wantErr: false, shouldLog: false},
		{name: "empty key", key: "", wantErr: true},
		{name: "null byte", key: "a\x00b", wantErr: true},
		{name: "too long", key: strings.Repeat("k", maxKeyLength+1), wantErr: true},
		{name: "sql comment", key: "key--x", wantErr: false, shouldLog: true},
		{name: "quote and semicolon", key: "x';DROP TABLE entries;--", wantErr: false, shouldLog: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := &MockLogger{}
			err := ValidateKey(tt.key, logger)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateKey() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && (len(logger.warnings) > 0) != tt.shouldLog {
				t.Errorf("logged %d warnings, shouldLog %v", len(logger.warnings), tt.shouldLog)
			}
		})
	}
}

func TestValidateValue(t *testing.T) {
	if err := ValidateValue(nil); err == nil {
		t.Error("empty value should be rejected")
	}
	if err := ValidateValue(make([]byte, maxValueLength+1)); err == nil {
		t.Error("oversized value should be rejected")
	}
	if err := ValidateValue([]byte(`[]`)); err != nil {
		t.Errorf("valid value rejected: %v", err)
	}
}
