package engine

import (
	"strings"
	"unicode"
)

// StatementKind classifies a SQL text by its leading keyword.
type StatementKind int

const (
	// KindQuery produces a relation and can be wrapped as a subquery.
	KindQuery StatementKind = iota
	// KindUtility produces rows but cannot be wrapped (SHOW, DESCRIBE, PRAGMA, ...).
	KindUtility
	// KindCommand changes state and produces no relation (DDL, DML, SET, ...).
	KindCommand
)

var (
	queryKeywords   = map[string]bool{"SELECT": true, "WITH": true, "VALUES": true, "FROM": true, "TABLE": true}
	utilityKeywords = map[string]bool{"SHOW": true, "DESCRIBE": true, "DESC": true, "SUMMARIZE": true, "PRAGMA": true, "EXPLAIN": true, "CALL": true}
)

// Classify returns the kind of the statement in sqlStr.
func Classify(sqlStr string) StatementKind {
	kw := strings.ToUpper(leadingKeyword(sqlStr))
	switch {
	case queryKeywords[kw]:
		return KindQuery
	case utilityKeywords[kw]:
		return KindUtility
	default:
		return KindCommand
	}
}

// leadingKeyword skips whitespace, comments and opening parentheses and
// returns the first word.
func leadingKeyword(s string) string {
	for {
		s = strings.TrimLeftFunc(s, func(r rune) bool { return unicode.IsSpace(r) || r == '(' })
		var rest string
		switch {
		case strings.HasPrefix(s, "--"):
			i := strings.IndexByte(s, '\n')
			if i < 0 {
				return ""
			}
			rest = s[i+1:]
		case strings.HasPrefix(s, "/*"):
			i := strings.Index(s, "*/")
			if i < 0 {
				return ""
			}
			rest = s[i+2:]
		default:
			end := strings.IndexFunc(s, func(r rune) bool { return !unicode.IsLetter(r) && r != '_' })
			if end < 0 {
				return s
			}
			return s[:end]
		}
		s = rest
	}
}

// TrimStatement removes surrounding whitespace and everything after the last
// token of code, such as trailing semicolons and comments.
func TrimStatement(sqlStr string) string {
	_, _, end := scanScript(sqlStr)
	return strings.TrimSpace(sqlStr[:end])
}

// SplitStatements splits a script on top-level semicolons. Semicolons inside
// quotes and comments are ignored, and pieces holding only whitespace or
// comments are dropped.
func SplitStatements(script string) []string {
	stmts, _, _ := scanScript(script)
	return stmts
}

// IsTerminated reports whether script ends with a top-level semicolon,
// ignoring trailing whitespace and comments.
func IsTerminated(script string) bool {
	_, terminated, _ := scanScript(script)
	return terminated
}

// scanScript also reports the offset just past the last byte of code.
func scanScript(s string) (stmts []string, terminated bool, end int) {
	var (
		start int
		quote byte
		code  bool
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
			end = i + 1
		case c == '\'' || c == '"':
			quote = c
			code = true
			terminated = false
			end = i + 1
		case c == '-' && i+1 < len(s) && s[i+1] == '-':
			j := strings.IndexByte(s[i:], '\n')
			if j < 0 {
				i = len(s)
			} else {
				i += j
			}
		case c == '/' && i+1 < len(s) && s[i+1] == '*':
			j := strings.Index(s[i+2:], "*/")
			if j < 0 {
				i = len(s)
			} else {
				i += j + 3
			}
		case c == ';':
			if code {
				stmts = append(stmts, strings.TrimSpace(s[start:i]))
			}
			start = i + 1
			code = false
			terminated = true
		case !unicode.IsSpace(rune(c)):
			code = true
			terminated = false
			end = i + 1
		}
	}
	if quote != 0 {
		terminated = false
	}
	if code {
		stmts = append(stmts, strings.TrimSpace(s[start:]))
	}
	return stmts, terminated, end
}
