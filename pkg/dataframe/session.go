package dataframe

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/google/uuid"

	"github.com/leapstack-labs/duckframe/pkg/core"
	"github.com/leapstack-labs/duckframe/pkg/rowset"
	"github.com/leapstack-labs/duckframe/pkg/types"
)

// Session is a handle to a connected engine. It is safe for concurrent use.
type Session struct {
	id      string
	appName string
	engine  core.Engine
	owned   bool
	tokens  *core.TokenSource
	logger  *slog.Logger

	mu        sync.Mutex
	stopped   bool
	artifacts map[core.Token]*artifact
}

func newSession(eng core.Engine, owned bool, appName string, logger *slog.Logger) *Session {
	return &Session{
		id:        uuid.NewString(),
		appName:   appName,
		engine:    eng,
		owned:     owned,
		tokens:    core.NewTokenSource("df"),
		logger:    logger,
		artifacts: make(map[core.Token]*artifact),
	}
}

// ID returns the session's unique id.
func (s *Session) ID() string { return s.id }

// AppName returns the configured application name.
func (s *Session) AppName() string { return s.appName }

// Version returns the duckframe API version.
func (s *Session) Version() string { return Version }

// Engine returns the underlying engine.
func (s *Session) Engine() core.Engine { return s.engine }

// Conf returns the runtime configuration interface.
func (s *Session) Conf() *RuntimeConfig { return &RuntimeConfig{session: s} }

// Catalog returns the catalog interface.
func (s *Session) Catalog() *Catalog { return &Catalog{session: s} }

// Read returns a reader for data files.
func (s *Session) Read() *DataFrameReader { return &DataFrameReader{session: s} }

// NewSession returns a session sharing this session's engine with its own
// id and registrations. Stopping it does not close the engine.
func (s *Session) NewSession() *Session {
	return newSession(s.engine, false, s.appName, s.logger)
}

func (s *Session) checkOpen() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return ErrSessionStopped
	}
	return nil
}

// SQL runs a query and returns a DataFrame over its result. Statements that
// produce no relation (DDL, DML, SET) run immediately and return a nil
// DataFrame.
func (s *Session) SQL(ctx context.Context, query string, args ...any) (*DataFrame, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	rel, err := s.engine.Execute(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if rel.Query == "" {
		return nil, nil
	}
	return s.frame(rel, nil), nil
}

// Table returns a DataFrame over a table or view.
func (s *Session) Table(ctx context.Context, name string) (*DataFrame, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	rel, err := s.engine.Table(ctx, name)
	if err != nil {
		return nil, err
	}
	return s.frame(rel, nil), nil
}

// Range returns a DataFrame with a single BIGINT column "id" holding
// start, start+step, ... up to but excluding end.
func (s *Session) Range(ctx context.Context, start, end, step int64) (*DataFrame, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	fn := s.engine.DialectConfig().RangeFunction
	if fn == "" {
		return nil, fmt.Errorf("range: %w", core.ErrUnsupported)
	}
	if step == 0 {
		return nil, fmt.Errorf("range step must not be zero")
	}
	// Table function arguments must be constants, so the bounds are inlined.
	query := fmt.Sprintf("SELECT %s AS id FROM %s(%s, %s, %s)", fn, fn,
		strconv.FormatInt(start, 10), strconv.FormatInt(end, 10), strconv.FormatInt(step, 10))
	return s.SQL(ctx, query)
}

// CreateDataFrame materializes caller-supplied data as a relation.
//
// Columnar input is registered with the engine under a fresh token and
// selected from. Row input is realized, checked for consistent arity and
// submitted as a parameterized VALUES query; an empty row set yields a
// zero-row relation with one placeholder column.
//
// A non-nil schema is then applied: typed fields are cast by position to
// the engine's native types, and every column is renamed by position.
func (s *Session) CreateDataFrame(ctx context.Context, data core.TabularInput, schema *types.StructType) (*DataFrame, error) {
	df, err := s.materialize(ctx, data)
	if err != nil {
		return nil, err
	}
	if schema == nil {
		return df, nil
	}
	out, err := df.applySchema(ctx, schema)
	if err != nil {
		_ = df.Close()
		return nil, err
	}
	return out, nil
}

func (s *Session) materialize(ctx context.Context, data core.TabularInput) (*DataFrame, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}

	switch in := data.(type) {
	case core.Columnar:
		return s.registerColumnar(ctx, in)
	case core.RowIterable:
		rows := rowset.Normalize(in)
		plan, err := rowset.Build(rows, s.engine.DialectConfig())
		if err != nil {
			return nil, err
		}
		rel, err := s.engine.Execute(ctx, plan.Query, plan.Params...)
		if err != nil {
			return nil, fmt.Errorf("failed to materialize rows: %w", err)
		}
		s.logger.Debug("materialized rows",
			slog.String("session", s.id),
			slog.Int("rows", plan.Rows),
			slog.Int("width", plan.Width))
		return s.frame(rel, nil), nil
	default:
		return nil, fmt.Errorf("%w: %T", core.ErrUnsupportedInput, data)
	}
}

func (s *Session) registerColumnar(ctx context.Context, in core.Columnar) (*DataFrame, error) {
	tok := s.tokens.Next()
	release, err := s.engine.Register(ctx, tok, in)
	if err != nil {
		return nil, fmt.Errorf("failed to register columnar data: %w", err)
	}
	art := s.track(tok, release)

	rel, err := s.engine.Table(ctx, tok.String())
	if err != nil {
		_ = art.close()
		return nil, err
	}
	s.logger.Debug("materialized columnar data",
		slog.String("session", s.id),
		slog.String("token", tok.String()),
		slog.Int("width", len(rel.Columns)))
	return s.frame(rel, art), nil
}

// Stop releases every registered artifact and closes the engine if the
// session created it. Stop is idempotent.
func (s *Session) Stop() error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.stopped = true
	arts := make([]*artifact, 0, len(s.artifacts))
	for _, a := range s.artifacts {
		arts = append(arts, a)
	}
	s.mu.Unlock()

	activeMu.Lock()
	if active == s {
		active = nil
	}
	activeMu.Unlock()

	var firstErr error
	for _, a := range arts {
		if err := a.close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if s.owned {
		if err := s.engine.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	s.logger.Debug("session stopped", slog.String("session", s.id))
	return firstErr
}

func (s *Session) frame(rel *core.Relation, art *artifact) *DataFrame {
	return &DataFrame{session: s, rel: rel, art: art}
}

// artifact is an engine object backing one or more DataFrames.
type artifact struct {
	token   core.Token
	session *Session
	once    sync.Once
	release func() error
	err     error
}

func (s *Session) track(tok core.Token, release func() error) *artifact {
	a := &artifact{token: tok, session: s, release: release}
	s.mu.Lock()
	s.artifacts[tok] = a
	s.mu.Unlock()
	return a
}

func (a *artifact) close() error {
	a.once.Do(func() {
		a.err = a.release()
		a.session.mu.Lock()
		delete(a.session.artifacts, a.token)
		a.session.mu.Unlock()
	})
	return a.err
}
