package engine_test

import (
	"testing"

	"github.com/leapstack-labs/duckframe/pkg/core"
	"github.com/leapstack-labs/duckframe/pkg/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	// Import engine packages to ensure engines are registered via init()
	_ "github.com/leapstack-labs/duckframe/pkg/engines/duckdb"
	_ "github.com/leapstack-labs/duckframe/pkg/engines/postgres"
)

func TestDuckDBSelfRegistration(t *testing.T) {
	assert.True(t, engine.IsRegistered("duckdb"), "duckdb engine should be auto-registered")
}

func TestListEngines(t *testing.T) {
	engines := engine.ListEngines()

	assert.Contains(t, engines, "duckdb", "duckdb should be in engine list")
	assert.Contains(t, engines, "postgres", "postgres should be in engine list")
}

func TestIsRegistered(t *testing.T) {
	tests := []struct {
		name       string
		engineName string
		expected   bool
	}{
		{"duckdb registered", "duckdb", true},
		{"postgres registered", "postgres", true},
		{"unknown not registered", "unknown_db", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := engine.IsRegistered(tt.engineName)
			assert.Equal(t, tt.expected, got, "IsRegistered(%q)", tt.engineName)
		})
	}
}

func TestGet(t *testing.T) {
	factory, ok := engine.Get("duckdb")
	require.True(t, ok, "Get(duckdb) should return true")
	require.NotNil(t, factory, "Get(duckdb) should return non-nil factory")

	_, ok = engine.Get("nonexistent")
	assert.False(t, ok, "Get(nonexistent) should return false")
}

func TestNewEngine_Success(t *testing.T) {
	cfg := core.EngineConfig{
		Type: "duckdb",
		Path: ":memory:",
	}

	eng, err := engine.NewEngine(cfg, nil)
	require.NoError(t, err, "NewEngine(duckdb) failed")
	require.NotNil(t, eng, "NewEngine(duckdb) returned nil engine")
	assert.Equal(t, "duckdb", eng.DialectConfig().Name)
}

func TestNewEngine_UnknownType(t *testing.T) {
	cfg := core.EngineConfig{
		Type: "unknown_engine",
	}

	_, err := engine.NewEngine(cfg, nil)
	require.Error(t, err, "NewEngine(unknown_engine) should fail")

	var unknownErr *engine.UnknownEngineError
	require.ErrorAs(t, err, &unknownErr)

	assert.Equal(t, "unknown_engine", unknownErr.Type, "error type")
	assert.Contains(t, unknownErr.Available, "duckdb", "Available engines should include duckdb")
}
