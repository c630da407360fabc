package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		sql  string
		want StatementKind
	}{
		{"SELECT 1", KindQuery},
		{"  select * from t", KindQuery},
		{"WITH one AS (SELECT 1) SELECT * FROM one", KindQuery},
		{"(SELECT 1) UNION (SELECT 2)", KindQuery},
		{"-- comment\nSELECT 1", KindQuery},
		{"/* block */ VALUES (1)", KindQuery},
		{"FROM t", KindQuery},
		{"SHOW TABLES", KindUtility},
		{"describe t", KindUtility},
		{"PRAGMA version", KindUtility},
		{"CREATE TABLE t (x INT)", KindCommand},
		{"INSERT INTO t VALUES (1)", KindCommand},
		{"SET threads = 2", KindCommand},
		{"", KindCommand},
		{"-- only a comment", KindCommand},
	}
	for _, tt := range tests {
		t.Run(tt.sql, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.sql))
		})
	}
}

func TestTrimStatement(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want string
	}{
		{"semicolons", "  SELECT 1;;\n", "SELECT 1"},
		{"only semicolon", " ; ", ""},
		{"line comment after semicolon", "SELECT 1; -- note", "SELECT 1"},
		{"line comment without semicolon", "SELECT 1 -- note\n", "SELECT 1"},
		{"block comment before semicolon", "SELECT 1 /* c */ ;", "SELECT 1"},
		{"leading comment kept", "-- head\nSELECT 1;", "-- head\nSELECT 1"},
		{"semicolon inside string", "SELECT ';' ;", "SELECT ';'"},
		{"comment marker inside string", "SELECT '-- x'; -- y", "SELECT '-- x'"},
		{"only comment", "-- nothing here", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TrimStatement(tt.sql))
		})
	}
}

func TestSplitStatements(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   []string
	}{
		{"single", "SELECT 1", []string{"SELECT 1"}},
		{"terminated", "SELECT 1;", []string{"SELECT 1"}},
		{"two", "CREATE TABLE t (x INT);\nINSERT INTO t VALUES (1);", []string{"CREATE TABLE t (x INT)", "INSERT INTO t VALUES (1)"}},
		{"semicolon in string", "SELECT 'a;b'; SELECT 2", []string{"SELECT 'a;b'", "SELECT 2"}},
		{"escaped quote", "SELECT 'it''s;'; SELECT 3", []string{"SELECT 'it''s;'", "SELECT 3"}},
		{"quoted identifier", `SELECT 1 AS "x;y"`, []string{`SELECT 1 AS "x;y"`}},
		{"line comment", "SELECT 1; -- done; really", []string{"SELECT 1"}},
		{"block comment", "/* a; b */ SELECT 1;;", []string{"/* a; b */ SELECT 1"}},
		{"empty", "  ;  ; ", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitStatements(tt.script))
		})
	}
}

func TestIsTerminated(t *testing.T) {
	assert.True(t, IsTerminated("SELECT 1;"))
	assert.True(t, IsTerminated("SELECT 1;  -- trailing\n"))
	assert.False(t, IsTerminated("SELECT 1"))
	assert.False(t, IsTerminated("SELECT ';"))
	assert.False(t, IsTerminated("SELECT 1; SELECT"))
	assert.False(t, IsTerminated(""))
}
