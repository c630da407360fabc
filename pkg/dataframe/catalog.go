package dataframe

import (
	"context"
	"errors"
	"strings"

	"github.com/leapstack-labs/duckframe/pkg/core"
	"github.com/leapstack-labs/duckframe/pkg/dialect"
	"github.com/leapstack-labs/duckframe/pkg/engine"
)

// Catalog inspects the tables and views known to the engine.
type Catalog struct {
	session *Session
}

// ListTables lists tables and views in a schema. Empty means the default schema.
func (c *Catalog) ListTables(ctx context.Context, schema string) ([]core.TableInfo, error) {
	if err := c.session.checkOpen(); err != nil {
		return nil, err
	}
	return c.session.engine.ListTables(ctx, schema)
}

// Describe returns the metadata of a table or view, row count included.
// An unquoted name that is not found as written is retried normalized the
// way the dialect folds unquoted identifiers.
func (c *Catalog) Describe(ctx context.Context, table string) (*core.TableMetadata, error) {
	if err := c.session.checkOpen(); err != nil {
		return nil, err
	}
	eng := c.session.engine
	meta, err := eng.GetTableMetadata(ctx, table)
	if err == nil || !errors.Is(err, engine.ErrTableNotFound) || strings.Contains(table, `"`) {
		return meta, err
	}
	d, ok := dialect.Get(eng.DialectConfig().Name)
	if !ok {
		return nil, err
	}
	if folded := d.NormalizeName(table); folded != table {
		return eng.GetTableMetadata(ctx, folded)
	}
	return nil, err
}

// ListColumns returns the columns of a table or view.
func (c *Catalog) ListColumns(ctx context.Context, table string) ([]core.Column, error) {
	meta, err := c.Describe(ctx, table)
	if err != nil {
		return nil, err
	}
	return meta.Columns, nil
}

// TableExists reports whether a table or view exists.
func (c *Catalog) TableExists(ctx context.Context, table string) (bool, error) {
	_, err := c.ListColumns(ctx, table)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, engine.ErrTableNotFound):
		return false, nil
	default:
		return false, err
	}
}
