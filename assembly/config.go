package assembly

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Config is the assembly configuration supplied by the build tooling.
type Config struct {
	// ImageDir is the directory the runtime image is assembled into. Any
	// pre-existing image there is destroyed first.
	ImageDir string `yaml:"imageDir" toml:"imageDir"`

	// AppGroup is the group identity of application modules. Empty means the
	// build has no application modules to copy.
	AppGroup string `yaml:"appGroup" toml:"appGroup"`

	// AppCopy controls whether application modules are copied at all. When
	// false they are still resolved and classified, just not materialized.
	AppCopy bool `yaml:"appCopy" toml:"appCopy"`

	// BootstrapModule is the name of the bootstrap module within AppGroup.
	BootstrapModule string `yaml:"bootstrapModule" toml:"bootstrapModule"`

	// BootstrapName is the file name the bootstrap artifact is copied to at
	// the image root. Empty keeps the artifact's own file name; a name
	// without the archive extension gets it appended.
	BootstrapName string `yaml:"bootstrapName" toml:"bootstrapName"`

	// IncludeSourceDir controls whether the contents of ResourcesDir are
	// merged into the image root.
	IncludeSourceDir bool `yaml:"includeSourceDir" toml:"includeSourceDir"`

	// ResourcesDir is the directory of environment-specific static assets
	// merged into the image root when IncludeSourceDir is set.
	ResourcesDir string `yaml:"resourcesDir" toml:"resourcesDir"`

	// UseArchives selects archive materialization for application modules.
	// When false the exploded format is used: the module's compiled output
	// and resources are copied instead of its packaged artifact.
	UseArchives bool `yaml:"useArchives" toml:"useArchives"`

	// ArchiveExt is the packaged artifact extension, without the dot.
	ArchiveExt string `yaml:"archiveExt" toml:"archiveExt"`
}

// DefaultConfig returns the configuration defaults applied before a manifest
// is decoded over them.
func DefaultConfig() Config {
	return Config{
		AppCopy:          true,
		IncludeSourceDir: true,
		UseArchives:      false,
		ArchiveExt:       "zip",
	}
}

// archiveSuffix returns the configured archive extension with a leading dot.
func (c *Config) archiveSuffix() string {
	return "." + strings.TrimPrefix(c.ArchiveExt, ".")
}

// DependencySpec is one dependency entry in an assembly manifest.
type DependencySpec struct {
	Group        string           `yaml:"group" toml:"group"`
	Name         string           `yaml:"name" toml:"name"`
	Version      string           `yaml:"version" toml:"version"`
	Artifacts    []string         `yaml:"artifacts" toml:"artifacts"`
	ClassesDir   string           `yaml:"classesDir" toml:"classesDir"`
	ResourcesDir string           `yaml:"resourcesDir" toml:"resourcesDir"`
	Dependencies []DependencySpec `yaml:"dependencies" toml:"dependencies"`
}

func (s DependencySpec) node() *Node {
	n := &Node{
		Group:        s.Group,
		Name:         s.Name,
		Version:      s.Version,
		Artifacts:    s.Artifacts,
		ClassesDir:   s.ClassesDir,
		ResourcesDir: s.ResourcesDir,
	}
	for _, child := range s.Dependencies {
		n.Children = append(n.Children, child.node())
	}
	return n
}

// Manifest is the file form of an assembly run: the configuration plus the
// root dependency set with parent/child edges.
type Manifest struct {
	Assembly     Config           `yaml:"assembly" toml:"assembly"`
	Dependencies []DependencySpec `yaml:"dependencies" toml:"dependencies"`
}

// Roots converts the manifest's dependency entries into graph nodes.
func (m *Manifest) Roots() []*Node {
	roots := make([]*Node, 0, len(m.Dependencies))
	for _, spec := range m.Dependencies {
		roots = append(roots, spec.node())
	}
	return roots
}

// LoadManifest reads a manifest file, decoding YAML or TOML by extension.
// Defaults apply to any assembly setting the file leaves out.
func LoadManifest(path string) (*Manifest, error) {
	manifest := &Manifest{Assembly: DefaultConfig()}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading manifest: %w", err)
		}
		if err := yaml.Unmarshal(data, manifest); err != nil {
			return nil, fmt.Errorf("decoding YAML manifest %s: %w", path, err)
		}
	case ".toml":
		if _, err := toml.DecodeFile(path, manifest); err != nil {
			return nil, fmt.Errorf("decoding TOML manifest %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedManifestType, ext)
	}

	if manifest.Assembly.ArchiveExt == "" {
		manifest.Assembly.ArchiveExt = "zip"
	}
	return manifest, nil
}
