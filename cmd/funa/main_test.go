package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funa-dev/funa/internal/errors"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func golden(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

// =============================================================================
// render
// =============================================================================

func TestRender(t *testing.T) {
	out, err := execute(t, "render", "testdata/page.html",
		"--data", "testdata/data.yaml",
		"--script", "testdata/registry.js",
	)
	require.NoError(t, err)
	golden(t).Assert(t, "render", []byte(out))
}

func TestRenderFromConfigFile(t *testing.T) {
	out, err := execute(t, "render", "--config", "testdata/funa.yaml")
	require.NoError(t, err)
	golden(t).Assert(t, "render", []byte(out))
}

func TestRenderOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.html")

	out, err := execute(t, "render", "--config", "testdata/funa.yaml", "-o", path)
	require.NoError(t, err)
	assert.Empty(t, out)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	golden(t).Assert(t, "render", b)
}

func TestRenderErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code string
	}{
		{"missing template", []string{"render", "testdata/absent.html"}, "F110"},
		{"missing config", []string{"render", "--config", "testdata/absent.yaml"}, "F110"},
		{"unknown converter", []string{"render", "testdata/broken.html"}, "F002"},
		{"unknown template", []string{"render", "--config", "testdata/funa.yaml", "--name", "nope"}, "F002"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.FromError(err).Code)
		})
	}
}

// =============================================================================
// check
// =============================================================================

func TestCheck(t *testing.T) {
	out, err := execute(t, "check", "testdata/page.html", "testdata/broken.html",
		"--data", "testdata/data.yaml",
		"--script", "testdata/registry.js",
	)
	require.Error(t, err)
	assert.Equal(t, "F132", errors.FromError(err).Code)
	assert.Equal(t, "1 of 2 files failed", errors.FromError(err).Detail)
	golden(t).Assert(t, "check", []byte(out))
}

func TestCheckConfiguredTemplate(t *testing.T) {
	out, err := execute(t, "check", "--config", "testdata/funa.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ ")
	assert.Contains(t, out, "page.html (main)")
}

// =============================================================================
// version
// =============================================================================

func TestVersionShort(t *testing.T) {
	out, err := execute(t, "version", "--short")
	require.NoError(t, err)
	golden(t).Assert(t, "version_short", []byte(out))
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "funa "+version)
	assert.Contains(t, out, "Commit:")
	assert.Contains(t, out, "OS/Arch:")
}

func TestDisplayNames(t *testing.T) {
	assert.Equal(t, []string{"anonymous", "card"}, displayNames([]string{"", "card"}))
}
