package dev

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funa-dev/funa/internal/config"
)

func TestWatcherReportsTrackedFiles(t *testing.T) {
	dir := t.TempDir()
	tracked := filepath.Join(dir, "data.json")
	other := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(tracked, []byte(`{}`), 0o644))

	w := NewWatcher(WatcherConfig{Paths: []string{tracked}, Debounce: 20 * time.Millisecond})
	changes := make(chan []Change, 4)
	w.OnChange(func(c []Change) { changes <- c })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Start(ctx) }()
	<-w.Ready()

	require.NoError(t, os.WriteFile(other, []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(tracked, []byte(`{"a": 1}`), 0o644))

	select {
	case got := <-changes:
		want, _ := filepath.Abs(tracked)
		require.Len(t, got, 1)
		assert.Equal(t, want, got[0].Path)
		assert.Equal(t, ChangeData, got[0].Type)
	case <-time.After(2 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestWatcherStopsWithContext(t *testing.T) {
	w := NewWatcher(WatcherConfig{Paths: []string{filepath.Join(t.TempDir(), "x.html")}})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()
	<-w.Ready()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestClassifyChange(t *testing.T) {
	tests := map[string]ChangeType{
		"index.html":  ChangeTemplate,
		"page.HTM":    ChangeTemplate,
		"data.json":   ChangeData,
		"data.yml":    ChangeData,
		"data.yaml":   ChangeData,
		"registry.js": ChangeScript,
		"style.css":   ChangeAsset,
	}
	for path, want := range tests {
		assert.Equal(t, want, classifyChange(path), path)
	}
	assert.Equal(t, "script", ChangeScript.String())
}

func TestCollectWatchPaths(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "funa.yaml"), []byte(`
template: index.html
data: s3://bucket/data.json
script: registry.js
serve:
  watch: [style.css, index.html]
`), 0o644))
	cfg, err := config.Load(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(dir, "index.html"),
		filepath.Join(dir, "registry.js"),
		filepath.Join(dir, "style.css"),
	}, CollectWatchPaths(cfg))
}
