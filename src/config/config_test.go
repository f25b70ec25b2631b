package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "toruslife.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
width = 64
height = 32
interval = "250ms"
max_steps = 500
seed = 42

[[templates]]
name = "corner"
descr = "one live corner"
cells = [[0, 0]]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 64, cfg.Width)
	assert.Equal(t, 32, cfg.Height)
	assert.Equal(t, 250*time.Millisecond, time.Duration(cfg.Interval))
	assert.Equal(t, 500, cfg.MaxSteps)
	assert.Equal(t, int64(42), cfg.Seed)
	require.Len(t, cfg.Templates, 1)
	assert.Equal(t, "corner", cfg.Templates[0].Name)
	assert.Equal(t, [][]int{{0, 0}}, cfg.Templates[0].Cells)
}

func TestLoadKeepsDefaultsForMissingValues(t *testing.T) {
	path := writeConfig(t, `width = 100`)

	cfg, err := Load(path)
	require.NoError(t, err)

	def := Default()
	assert.Equal(t, 100, cfg.Width)
	assert.Equal(t, def.Height, cfg.Height)
	assert.Equal(t, def.Interval, cfg.Interval)
	assert.Equal(t, def.MaxSteps, cfg.MaxSteps)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoadRejectsBadDuration(t *testing.T) {
	path := writeConfig(t, `interval = "fast"`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	assert.NoError(t, Validate(cfg))

	bad := cfg
	bad.Width = -1
	assert.Error(t, Validate(bad))

	bad = cfg
	bad.MaxSteps = -5
	assert.Error(t, Validate(bad))

	bad = cfg
	bad.Templates = []Template{{Name: "", Cells: [][]int{{0, 0}}}}
	assert.Error(t, Validate(bad), "template without a name")

	bad = cfg
	bad.Templates = []Template{{Name: "broken", Cells: [][]int{{0}}}}
	assert.Error(t, Validate(bad), "malformed coordinate pair")
}

func TestFind(t *testing.T) {
	_, ok := Find("missing", nil)
	assert.False(t, ok)

	tmpl, ok := Find("glider", nil)
	require.True(t, ok)
	assert.Len(t, tmpl.Cells, 5)

	//file templates shadow the builtins
	custom := []Template{{Name: "glider", Cells: [][]int{{0, 0}}}}
	tmpl, ok = Find("glider", custom)
	require.True(t, ok)
	assert.Equal(t, [][]int{{0, 0}}, tmpl.Cells)
}

func TestBuiltinTemplatesAreWellFormed(t *testing.T) {
	for _, tmpl := range Builtin() {
		assert.NotEmpty(t, tmpl.Name)
		assert.NotEmpty(t, tmpl.Cells, tmpl.Name)
		for _, p := range tmpl.Cells {
			assert.Len(t, p, 2, tmpl.Name)
		}
	}
}
