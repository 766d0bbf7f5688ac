package typewriter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_WithDefaultsCopiesSequence(t *testing.T) {
	seq := []string{"a", "b"}
	cfg := Config{Sequence: seq}.WithDefaults()
	seq[0] = "changed"

	assert.Equal(t, []string{"a", "b"}, cfg.Sequence)
	require.NoError(t, cfg.Validate())
}

func TestConfig_LoopDefaultsToTrue(t *testing.T) {
	assert.True(t, Config{}.Looping())
	assert.True(t, Config{Loop: Bool(true)}.Looping())
	assert.False(t, Config{Loop: Bool(false)}.Looping())
	assert.False(t, Config{Loop: Bool(false)}.WithDefaults().Looping())
}

func TestConfig_ZeroValuesTakeDefaults(t *testing.T) {
	cfg := Config{Sequence: []string{"a"}}.WithDefaults()

	assert.Equal(t, DefaultTypeSpeed, cfg.TypeSpeed)
	assert.Equal(t, DefaultDeleteSpeed, cfg.DeleteSpeed)
	assert.Equal(t, DefaultPauseAfterComplete, cfg.PauseAfterComplete)
	assert.Equal(t, DefaultCursor, cfg.Cursor)
	require.NoError(t, cfg.Validate())

	var cfgErr *ConfigurationError
	err := Config{Sequence: []string{"a"}, DeleteSpeed: -time.Millisecond}.WithDefaults().Validate()
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "deleteSpeed", cfgErr.Field)
}

func TestConfigurationError_Message(t *testing.T) {
	err := Config{Sequence: []string{}}.WithDefaults().Validate()
	require.Error(t, err)
	assert.Equal(t, "typewriter: invalid sequence: must contain at least one string", err.Error())
}
