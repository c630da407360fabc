package dataframe

import "context"

// RuntimeConfig reads and writes session-level engine settings.
type RuntimeConfig struct {
	session *Session
}

// Set changes an engine setting.
func (c *RuntimeConfig) Set(ctx context.Context, key, value string) error {
	if err := c.session.checkOpen(); err != nil {
		return err
	}
	return c.session.engine.SetSetting(ctx, key, value)
}

// Get reads an engine setting.
func (c *RuntimeConfig) Get(ctx context.Context, key string) (string, error) {
	if err := c.session.checkOpen(); err != nil {
		return "", err
	}
	return c.session.engine.GetSetting(ctx, key)
}

// GetOrDefault reads an engine setting, returning def if it cannot be read.
func (c *RuntimeConfig) GetOrDefault(ctx context.Context, key, def string) string {
	v, err := c.Get(ctx, key)
	if err != nil {
		return def
	}
	return v
}
