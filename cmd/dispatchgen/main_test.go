package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"godispatch/internal/generation"
)

func TestConfirmOverwrite(t *testing.T) {
	dir := t.TempDir()

	missing := filepath.Join(dir, "missing.go")
	assert.NoError(t, ConfirmOverwrite(missing, false, strings.NewReader("")))

	generated := filepath.Join(dir, "generated.go")
	require.NoError(t, os.WriteFile(generated, []byte("// "+generation.Header+"\n\npackage bank\n"), 0o644))
	assert.NoError(t, ConfirmOverwrite(generated, false, strings.NewReader("")))

	handwritten := filepath.Join(dir, "handwritten.go")
	require.NoError(t, os.WriteFile(handwritten, []byte("package bank\n"), 0o644))
	assert.ErrorContains(t, ConfirmOverwrite(handwritten, false, strings.NewReader("Y\n")), "use -force")
	assert.NoError(t, ConfirmOverwrite(handwritten, true, strings.NewReader("")))
}

func TestRun(t *testing.T) {
	src, err := filepath.Abs("../../internal/inspect/testdata/bank")
	require.NoError(t, err)

	dir := t.TempDir()
	for _, name := range []string{"go.mod", "bank.go"} {
		data, err := os.ReadFile(filepath.Join(src, name))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
	}
	configPath := filepath.Join(dir, "dispatch.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("types:\n  - type: Account\n    name: account\n"), 0o644))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	require.NoError(t, run(context.Background(), logger, "", dir, "bindings.go", false))

	data, err := os.ReadFile(filepath.Join(dir, "bindings.go"))
	require.NoError(t, err)
	assert.True(t, generation.IsGenerated(data))
	assert.Contains(t, string(data), `metadata.WithName("account"),`)

	// The generated file imports godispatch, which the scratch module does not require.
	require.NoError(t, os.Remove(filepath.Join(dir, "bindings.go")))

	assert.ErrorContains(t, run(context.Background(), logger, configPath, dir, "bank.go", false), "use -force")
}

func TestNewLogger(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "log")
	require.NoError(t, err)
	defer f.Close()

	logger := newLogger(f, "warn")
	logger.Info("hidden")
	logger.Warn("shown", "key", "value")

	data, err := os.ReadFile(f.Name())
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), `"msg":"shown"`)
}
