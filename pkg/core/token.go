package core

import (
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
)

// Token is a name for a transient engine artifact. Tokens from one
// TokenSource never repeat.
type Token string

func (t Token) String() string { return string(t) }

// TokenSource issues unique registration tokens. A process-unique prefix
// separates sources sharing a database file; an atomic counter separates
// calls within a source.
type TokenSource struct {
	prefix string
	next   atomic.Uint64
}

// NewTokenSource creates a token source with a fresh random prefix.
func NewTokenSource(kind string) *TokenSource {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return &TokenSource{prefix: kind + "_" + id[:16]}
}

// Next returns a token that this source has never returned before.
func (s *TokenSource) Next() Token {
	n := s.next.Add(1)
	return Token(s.prefix + "_" + strconv.FormatUint(n, 10))
}
