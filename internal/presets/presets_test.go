package presets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/portfolio-fx/internal/typewriter"
)

const sample = `
presets:
  - name: hero
    strings: ["Web Developer", "Designer", "Storyteller"]
    type_speed_ms: 80
    pause_ms: 1500
    colour: teal
  - name: footer
    strings: ["Thanks for visiting"]
    loop: false
    cursor: "_"
`

func TestParse(t *testing.T) {
	list, err := Parse([]byte(sample))
	require.NoError(t, err)
	require.Len(t, list, 2)

	hero, ok := Find(list, "hero")
	require.True(t, ok)
	cfg := hero.Config().WithDefaults()
	assert.Equal(t, []string{"Web Developer", "Designer", "Storyteller"}, cfg.Sequence)
	assert.Equal(t, 80*time.Millisecond, cfg.TypeSpeed)
	assert.Equal(t, typewriter.DefaultDeleteSpeed, cfg.DeleteSpeed)
	assert.Equal(t, 1500*time.Millisecond, cfg.PauseAfterComplete)
	assert.True(t, cfg.Looping())

	footer, ok := Find(list, "footer")
	require.True(t, ok)
	assert.False(t, footer.Config().Looping())
	assert.Equal(t, "_", footer.Config().WithDefaults().Cursor)

	_, ok = Find(list, "missing")
	assert.False(t, ok)
}

func TestParse_Invalid(t *testing.T) {
	tests := map[string]string{
		"no name":        "presets:\n  - strings: [a]\n",
		"duplicate":      "presets:\n  - name: a\n    strings: [x]\n  - name: a\n    strings: [y]\n",
		"no strings":     "presets:\n  - name: a\n",
		"negative speed": "presets:\n  - name: a\n    strings: [x]\n    type_speed_ms: -5\n",
		"bad yaml":       "presets: [",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestParse_NegativeSpeedIsConfigurationError(t *testing.T) {
	_, err := Parse([]byte("presets:\n  - name: a\n    strings: [x]\n    delete_speed_ms: -1\n"))
	var cfgErr *typewriter.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "deleteSpeed", cfgErr.Field)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	list, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
