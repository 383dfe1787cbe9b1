package assembly

import (
	"context"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	rhizomatic "github.com/TarandeepSingh562/rhizomatic"
)

// Watcher keeps an exploded image's app partition in sync with the in-progress
// build output of its application modules. It exists for the same reason the
// exploded format does: local development iterations should not require
// re-assembling the image on every change.
//
// Only application modules in exploded format are watched; archive-mode images
// have nothing to sync.
type Watcher struct {
	cfg     *Config
	logger  rhizomatic.Logger
	watcher *fsnotify.Watcher
	sources map[string]string // watched source dir -> image module dir
}

// NewWatcher creates a watcher over the exploded application modules of the
// resolved graph.
func NewWatcher(cfg *Config, graph *ResolvedGraph, logger rhizomatic.Logger) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		cfg:     cfg,
		logger:  logger,
		watcher: fsWatcher,
		sources: make(map[string]string),
	}

	appDir := filepath.Join(cfg.ImageDir, PartitionApp)
	for _, node := range graph.Nodes() {
		if Classify(node, cfg) != RoleApplication || cfg.UseArchives || !cfg.AppCopy {
			continue
		}
		moduleDir := filepath.Join(appDir, node.Name)
		for _, src := range []string{node.ClassesDir, node.ResourcesDir} {
			if src == "" {
				continue
			}
			if info, statErr := os.Stat(src); statErr != nil || !info.IsDir() {
				continue
			}
			if err := w.addTree(src, moduleDir); err != nil {
				_ = fsWatcher.Close()
				return nil, err
			}
		}
	}
	return w, nil
}

// addTree watches dir and every subdirectory beneath it, mapping each to its
// target under the image module dir.
func (w *Watcher) addTree(root, moduleDir string) error {
	return filepath.WalkDir(root, func(path string, entry os.DirEntry, err error) error {
		if err != nil || !entry.IsDir() {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if err := w.watcher.Add(path); err != nil {
			return err
		}
		w.sources[path] = filepath.Join(moduleDir, rel)
		return nil
	})
}

// Run processes change events until the context is cancelled or the watcher
// is closed. Each written or created file is re-copied into its place in the
// image; sync failures are logged and watching continues.
func (w *Watcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.sync(event.Name)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("Image sync watcher error", "error", err)
		}
	}
}

// sync copies one changed path into the image. New directories are added to
// the watch set so files created beneath them sync too.
func (w *Watcher) sync(path string) {
	targetDir, known := w.sources[filepath.Dir(path)]
	if !known {
		return
	}

	info, err := os.Stat(path)
	if err != nil {
		return
	}

	target := filepath.Join(targetDir, filepath.Base(path))
	if info.IsDir() {
		if err := w.watcher.Add(path); err == nil {
			w.sources[path] = target
		}
		if err := copyDir(path, target); err != nil {
			w.logger.Warn("Failed to sync directory into image", "dir", path, "error", err)
		}
		return
	}

	if err := copyFile(path, target); err != nil {
		w.logger.Warn("Failed to sync file into image", "file", path, "error", err)
		return
	}
	w.logger.Debug("Synced file into image", "file", path, "target", target)
}

// Close releases the underlying filesystem watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
