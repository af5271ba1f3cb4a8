package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig_Full(t *testing.T) {
	yaml := `
constants: [sqrt, ln]
aliases:
  "==": "="
operators:
  divides: 20
  "<>": 20
server:
  address: "127.0.0.1:9000"
  metrics_address: ":9090"
  reflection: true
store:
  path: ":memory:"
log:
  level: DEBUG
display:
  unicode: true
`
	cfg, err := ParseConfig([]byte(yaml), "test.yaml")
	require.NoError(t, err)

	assert.Equal(t, []string{"sqrt", "ln"}, cfg.Constants)
	assert.Equal(t, "=", cfg.Aliases["=="])
	assert.Equal(t, 20, cfg.Operators["<>"])
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Address)
	assert.Equal(t, ":9090", cfg.Server.MetricsAddress)
	assert.True(t, cfg.Server.Reflection)
	assert.Equal(t, ":memory:", cfg.Store.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Display.Unicode)
	assert.False(t, cfg.Display.ShowTypes)
}

func TestParseConfig_Defaults(t *testing.T) {
	cfg, err := ParseConfig([]byte("{}"), "test.yaml")
	require.NoError(t, err)

	assert.Equal(t, DefaultAddress, cfg.Server.Address)
	assert.Equal(t, DefaultMaxTermSize, cfg.Server.MaxTermSize)
	assert.Equal(t, DefaultStorePath, cfg.Store.Path)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
	assert.Equal(t, cfg, Default())
}

func TestParseConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"bad constant", "constants: [\"a b\"]", "not a valid constant name"},
		{"self alias", "aliases: {\"+\": \"+\"}", "alias of itself"},
		{"bad alias target", "aliases: {plus: \"1x\"}", "not a valid constant name"},
		{"precedence too high", "operators: {\"<>\": 100}", "out of range"},
		{"precedence zero", "operators: {\"<>\": 0}", "out of range"},
		{"negative size", "server: {max_term_size: -1}", "must not be negative"},
		{"unknown level", "log: {level: loud}", "unknown level"},
		{"malformed yaml", "constants: [", "parsing test.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.yaml), "test.yaml")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestFindConfig_WalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	want := filepath.Join(root, "funterm.yml")
	require.NoError(t, os.WriteFile(want, []byte("{}"), 0o644))

	got, err := FindConfig(nested)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	cfg, err := LoadConfig(got)
	require.NoError(t, err)
	assert.Equal(t, DefaultAddress, cfg.Server.Address)
}

func TestLoadConfig_Missing(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config")
}
