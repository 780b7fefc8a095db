package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel(" WARN "))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("nonsense"))
	assert.Equal(t, zerolog.Disabled, ParseLevel("off"))
}

func TestWithPanelIDAddsField(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Format = "json"
	ctx := WithContext(context.Background(), New(cfg, &buf))
	ctx = WithComponent(ctx, "panel")
	ctx = WithPanelID(ctx, "panel-1")

	FromContext(ctx).Info().Msg("mounted")

	assert.Contains(t, buf.String(), `"panel_id":"panel-1"`)
	assert.Contains(t, buf.String(), `"component":"panel"`)
}

func TestFromContextWithoutLoggerIsNoop(t *testing.T) {
	logger := FromContext(context.Background())
	assert.NotPanics(t, func() { logger.Info().Msg("dropped") })
}
