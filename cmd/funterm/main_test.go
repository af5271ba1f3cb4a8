package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the CLI with a config written to a temp dir and returns
// stdout.
func run(t *testing.T, configYAML string, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "funterm.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(configYAML), 0o644))

	var out, errOut bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestParseCommand(t *testing.T) {
	out, err := run(t, "{}", "parse", "a + b*c")
	require.NoError(t, err)
	assert.Equal(t, "(a + (b * c))\n", out)

	out, err = run(t, "{}", "parse", "--canonical", "a + b*c")
	require.NoError(t, err)
	assert.Equal(t, "((+ a) ((* b) c))\n", out)

	out, err = run(t, "{}", "--unicode", "parse", "p & q")
	require.NoError(t, err)
	assert.Equal(t, "(p ∧ q)\n", out)

	out, err = run(t, "display: {unicode: true}\n", "parse", "not p")
	require.NoError(t, err)
	assert.Equal(t, "(¬ p)\n", out)

	_, err = run(t, "{}", "parse", "a +")
	assert.Error(t, err)
}

func TestConfigOperators(t *testing.T) {
	out, err := run(t, "operators: {xor: 14}\n", "parse", "p xor q")
	require.NoError(t, err)
	assert.Equal(t, "(p xor q)\n", out)
}

func TestMatchCommands(t *testing.T) {
	out, err := run(t, "{}", "match", "--instantiate", "{x. g x 7} + g 3 7", "{x. P x} + P 3")
	require.NoError(t, err)
	assert.Equal(t, "P := {x. ((g x) 7)}\nP expands 1\n({x. ((g x) 7)} + ((g 3) 7))\n", out)

	out, err = run(t, "{}", "match", "a + b", "x * y")
	require.NoError(t, err)
	assert.Equal(t, "no match\n", out)

	out, err = run(t, "{}", "pattern", "f a + b", "x + y")
	require.NoError(t, err)
	assert.Equal(t, "x := (f a)\ny := b\n", out)
}

func TestSubstCommand(t *testing.T) {
	out, err := run(t, "{}", "subst", "{y. x + y}", "x=y * 2")
	require.NoError(t, err)
	assert.Equal(t, "{y_1. ((y * 2) + y_1)}\n", out)

	_, err = run(t, "{}", "subst", "x", "foo=1")
	assert.ErrorContains(t, err, "want VARIABLE=TERM")
}

func TestPathCommands(t *testing.T) {
	out, err := run(t, "{}", "at", "a + neg (b * c)", "/right/arg/left")
	require.NoError(t, err)
	assert.Equal(t, "b\n", out)

	out, err = run(t, "{}", "prettify", "a + neg (b * c)", "/arg/arg/fn/arg")
	require.NoError(t, err)
	assert.Equal(t, "/right/arg/left\n", out)

	out, err = run(t, "{}", "prettify", "--expand", "a + neg (b * c)", "/right/arg/left")
	require.NoError(t, err)
	assert.Equal(t, "/arg/arg/fn/arg\n", out)

	_, err = run(t, "{}", "at", "a + b", "/left/left")
	assert.Error(t, err)
}

func TestFreeCommand(t *testing.T) {
	out, err := run(t, "{}", "free", "sin x + y * 2")
	require.NoError(t, err)
	assert.Equal(t, "free: x y\nmath: y\nnew:  sin\n", out)
}

func TestRegistryCommands(t *testing.T) {
	store := filepath.Join(t.TempDir(), "symbols.db")

	out, err := run(t, "constants: [sin]\n", "registry", "save", "--store", store)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "saved "), out)

	out, err = run(t, "{}", "registry", "load", "--store", store)
	require.NoError(t, err)
	assert.Contains(t, out, "constant sin\n")
	assert.Contains(t, out, "alias    == -> =\n")
	assert.Contains(t, out, "operator * 40\n")

	out, err = run(t, "{}", "registry", "list")
	require.NoError(t, err)
	assert.NotContains(t, out, "constant sin\n")
}

func TestVersion(t *testing.T) {
	out, err := run(t, "{}", "version")
	require.NoError(t, err)
	assert.Equal(t, "funterm version "+Version+"\n", out)
}
