package dev

import (
	"path/filepath"

	"github.com/funa-dev/funa/internal/config"
	"github.com/funa-dev/funa/internal/source"
)

// CollectWatchPaths returns the local files whose changes reload the
// preview: the template, data and script sources plus serve.watch.
// Remote sources are skipped.
func CollectWatchPaths(cfg *config.Config) []string {
	paths := []string{cfg.Template, cfg.Data, cfg.Script}
	paths = append(paths, cfg.Serve.Watch...)

	unique := make([]string, 0, len(paths))
	seen := make(map[string]struct{}, len(paths))
	for _, path := range paths {
		if path == "" || source.IsRemote(path) {
			continue
		}
		clean := filepath.Clean(cfg.Resolve(path))
		if _, ok := seen[clean]; ok {
			continue
		}
		seen[clean] = struct{}{}
		unique = append(unique, clean)
	}

	return unique
}
