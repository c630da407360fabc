package dataframe

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/leapstack-labs/duckframe/pkg/core"
	"github.com/leapstack-labs/duckframe/pkg/engine"

	// DuckDB is the default engine.
	_ "github.com/leapstack-labs/duckframe/pkg/engines/duckdb"
)

// Builder configures and creates sessions.
type Builder struct {
	cfg      core.EngineConfig
	appName  string
	settings []setting
	logger   *slog.Logger
	eng      core.Engine
}

type setting struct {
	key, value string
}

// NewBuilder returns a builder for an in-memory DuckDB session.
func NewBuilder() *Builder {
	return &Builder{
		cfg:     core.EngineConfig{Type: "duckdb", Path: ":memory:"},
		appName: "duckframe",
	}
}

// Master sets the database path. ":memory:" is an in-memory database.
func (b *Builder) Master(path string) *Builder {
	b.cfg.Path = path
	return b
}

// AppName sets the application name reported by the session.
func (b *Builder) AppName(name string) *Builder {
	b.appName = name
	return b
}

// Remote is accepted for API compatibility and ignored; the engine is embedded.
func (b *Builder) Remote(string) *Builder {
	return b
}

// EnableHiveSupport is accepted for API compatibility and ignored.
func (b *Builder) EnableHiveSupport() *Builder {
	return b
}

// Config records an engine setting applied after connect. Later values for
// the same key win.
func (b *Builder) Config(key, value string) *Builder {
	b.settings = append(b.settings, setting{key, value})
	return b
}

// Engine selects a registered engine type (e.g. "duckdb", "postgres").
func (b *Builder) Engine(typ string) *Builder {
	b.cfg.Type = typ
	return b
}

// EngineConfig replaces the whole engine configuration.
func (b *Builder) EngineConfig(cfg core.EngineConfig) *Builder {
	b.cfg = cfg
	return b
}

// WithEngine uses an already connected engine instead of creating one.
// The session does not close it on Stop.
func (b *Builder) WithEngine(e core.Engine) *Builder {
	b.eng = e
	return b
}

// Logger sets the session logger. Nil uses a discard logger.
func (b *Builder) Logger(l *slog.Logger) *Builder {
	b.logger = l
	return b
}

var (
	activeMu sync.Mutex
	active   *Session
)

// ActiveSession returns the session most recently created by a builder that
// has not been stopped, or nil.
func ActiveSession() *Session {
	activeMu.Lock()
	defer activeMu.Unlock()
	return active
}

// GetOrCreate returns the active session, applying this builder's settings
// to it, or creates a new one.
func (b *Builder) GetOrCreate(ctx context.Context) (*Session, error) {
	if s := ActiveSession(); s != nil {
		if err := b.applySettings(ctx, s.engine); err != nil {
			return nil, err
		}
		return s, nil
	}
	return b.Create(ctx)
}

// Create always connects a new session and makes it the active one.
func (b *Builder) Create(ctx context.Context) (*Session, error) {
	logger := b.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	eng, owned := b.eng, false
	if eng == nil {
		var err error
		eng, err = engine.NewEngine(b.cfg, logger)
		if err != nil {
			return nil, err
		}
		if err := eng.Connect(ctx, b.cfg); err != nil {
			return nil, fmt.Errorf("failed to connect %s engine: %w", b.cfg.Type, err)
		}
		owned = true
	}

	if err := b.applySettings(ctx, eng); err != nil {
		if owned {
			_ = eng.Close()
		}
		return nil, err
	}

	s := newSession(eng, owned, b.appName, logger)
	activeMu.Lock()
	active = s
	activeMu.Unlock()

	logger.Debug("session created",
		slog.String("session", s.id),
		slog.String("engine", eng.DialectConfig().Name),
		slog.String("app", b.appName))
	return s, nil
}

func (b *Builder) applySettings(ctx context.Context, eng core.Engine) error {
	for _, kv := range b.settings {
		if err := eng.SetSetting(ctx, kv.key, kv.value); err != nil {
			return fmt.Errorf("failed to apply setting %s: %w", kv.key, err)
		}
	}
	return nil
}
