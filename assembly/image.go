package assembly

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	rhizomatic "github.com/TarandeepSingh562/rhizomatic"
)

// Image partition directories.
const (
	PartitionSystem    = "system"
	PartitionLibraries = "libraries"
	PartitionApp       = "app"
)

// ImageBuilder lays classified artifacts out into the runtime image directory
// structure. The image directory is exclusively owned by the builder for the
// duration of a Build call; assembly runs to completion or fails outright, and
// partial state from a failed run is left in place for inspection.
type ImageBuilder struct {
	cfg     *Config
	logger  rhizomatic.Logger
	emitter rhizomatic.EventEmitter
}

// NewImageBuilder creates a builder for cfg. The emitter may be nil.
func NewImageBuilder(cfg *Config, logger rhizomatic.Logger, emitter rhizomatic.EventEmitter) *ImageBuilder {
	return &ImageBuilder{cfg: cfg, logger: logger, emitter: emitter}
}

// Build destroys any previous image at the configured location, recreates the
// partition layout, and copies every resolved node into the partition matching
// its role. It returns the image directory path.
func (b *ImageBuilder) Build(graph *ResolvedGraph) (string, error) {
	if b.cfg.ImageDir == "" {
		return "", ErrImageDirNotSet
	}
	if b.cfg.AppGroup == "" {
		b.logger.Info("No application module group specified, application modules will not be copied")
	}

	imageDir := b.cfg.ImageDir
	if err := cleanDir(imageDir); err != nil {
		return "", err
	}

	systemDir := filepath.Join(imageDir, PartitionSystem)
	librariesDir := filepath.Join(imageDir, PartitionLibraries)
	appDir := filepath.Join(imageDir, PartitionApp)
	for _, dir := range []string{systemDir, librariesDir, appDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("creating partition %s: %w", dir, err)
		}
	}

	counts := make(map[Role]int)
	bootstrapPlaced := false

	for _, node := range graph.Nodes() {
		role := Classify(node, b.cfg)
		counts[role]++

		switch role {
		case RoleSystem:
			if err := b.copyArtifacts(node, systemDir); err != nil {
				return "", err
			}
		case RoleLibrary:
			if err := b.copyArtifacts(node, librariesDir); err != nil {
				return "", err
			}
		case RoleBootstrap:
			if !b.cfg.AppCopy {
				continue
			}
			if err := b.copyBootstrap(node, imageDir); err != nil {
				return "", err
			}
			bootstrapPlaced = true
		case RoleApplication:
			if !b.cfg.AppCopy {
				continue
			}
			if b.cfg.UseArchives {
				if err := b.copyArtifacts(node, appDir); err != nil {
					return "", err
				}
			} else if err := b.explode(node, appDir); err != nil {
				return "", err
			}
		}
	}

	if b.cfg.AppCopy && b.cfg.BootstrapModule != "" && !bootstrapPlaced {
		return "", fmt.Errorf("%w: %s:%s not present in resolved graph",
			ErrMissingBootstrapArtifact, b.cfg.AppGroup, b.cfg.BootstrapModule)
	}

	if b.cfg.IncludeSourceDir && b.cfg.ResourcesDir != "" {
		if err := b.mergeResources(imageDir); err != nil {
			return "", err
		}
	}

	b.logger.Info("Assembled runtime image", "image", imageDir,
		"system", counts[RoleSystem], "libraries", counts[RoleLibrary],
		"application", counts[RoleApplication], "bootstrap", counts[RoleBootstrap])
	if b.emitter != nil {
		_ = b.emitter.Emit(context.Background(), rhizomatic.NewBootEvent(
			rhizomatic.EventTypeImageAssembled, imageDir, counts))
	}
	return imageDir, nil
}

// copyArtifacts copies a node's packaged artifacts into a partition under
// their own file names.
func (b *ImageBuilder) copyArtifacts(node *Node, dir string) error {
	for _, artifact := range node.Artifacts {
		if err := copyFile(artifact, filepath.Join(dir, filepath.Base(artifact))); err != nil {
			return fmt.Errorf("copying %s: %w", node.Identity(), err)
		}
	}
	return nil
}

// copyBootstrap copies the bootstrap artifact to the image root under the
// configured target name, appending the archive extension only when the
// configured name lacks it.
func (b *ImageBuilder) copyBootstrap(node *Node, imageDir string) error {
	if len(node.Artifacts) == 0 {
		return fmt.Errorf("%w: %s", ErrMissingBootstrapArtifact, node.Identity())
	}

	suffix := b.cfg.archiveSuffix()
	for _, artifact := range node.Artifacts {
		name := b.cfg.BootstrapName
		switch {
		case name == "":
			name = filepath.Base(artifact)
		case !strings.HasSuffix(name, suffix):
			name += suffix
		}
		if err := copyFile(artifact, filepath.Join(imageDir, name)); err != nil {
			return fmt.Errorf("copying bootstrap %s: %w", node.Identity(), err)
		}
	}
	return nil
}

// explode copies an application module's in-progress build output (compiled
// classes and resources) into a per-module subdirectory of the app partition.
// A module whose output directories do not exist yet has simply not been
// built; it is skipped, not failed.
func (b *ImageBuilder) explode(node *Node, appDir string) error {
	moduleDir := filepath.Join(appDir, node.Name)

	copied := false
	for _, src := range []string{node.ClassesDir, node.ResourcesDir} {
		if src == "" {
			continue
		}
		if info, err := os.Stat(src); err != nil || !info.IsDir() {
			continue
		}
		if err := copyDir(src, moduleDir); err != nil {
			return fmt.Errorf("exploding %s: %w", node.Identity(), err)
		}
		copied = true
	}
	if !copied {
		b.logger.Debug("Skipping unbuilt application module", "module", node.Identity())
	}
	return nil
}

// mergeResources copies the immediate children of the configured resources
// directory into the image root: files directly, directories recursively.
func (b *ImageBuilder) mergeResources(imageDir string) error {
	entries, err := os.ReadDir(b.cfg.ResourcesDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading resources dir: %w", err)
	}

	for _, entry := range entries {
		src := filepath.Join(b.cfg.ResourcesDir, entry.Name())
		dst := filepath.Join(imageDir, entry.Name())
		if entry.IsDir() {
			err = copyDir(src, dst)
		} else {
			err = copyFile(src, dst)
		}
		if err != nil {
			return fmt.Errorf("merging resource %s: %w", entry.Name(), err)
		}
	}
	return nil
}
