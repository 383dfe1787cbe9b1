package assembly

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadManifestYAML(t *testing.T) {
	path := writeManifest(t, "assembly.yaml", `
assembly:
  imageDir: /tmp/image
  appGroup: acme
  bootstrapModule: boot
  useArchives: true
dependencies:
  - group: acme
    name: boot
    version: 1.0.0
    artifacts: [boot-1.0.0.zip]
    dependencies:
      - group: thirdparty
        name: x
        version: 2.1.0
        artifacts: [x-2.1.0.zip]
`)

	manifest, err := LoadManifest(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/image", manifest.Assembly.ImageDir)
	assert.Equal(t, "acme", manifest.Assembly.AppGroup)
	assert.Equal(t, "boot", manifest.Assembly.BootstrapModule)
	assert.True(t, manifest.Assembly.UseArchives)

	roots := manifest.Roots()
	require.Len(t, roots, 1)
	assert.Equal(t, "acme:boot", roots[0].Identity())
	require.Len(t, roots[0].Children, 1)
	assert.Equal(t, "thirdparty:x", roots[0].Children[0].Identity())
}

func TestLoadManifestTOML(t *testing.T) {
	path := writeManifest(t, "assembly.toml", `
[assembly]
imageDir = "/tmp/image"
appGroup = "acme"

[[dependencies]]
group = "acme"
name = "orders"
version = "1.0.0"
artifacts = ["orders-1.0.0.zip"]
`)

	manifest, err := LoadManifest(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/image", manifest.Assembly.ImageDir)
	assert.Equal(t, "acme", manifest.Assembly.AppGroup)
	require.Len(t, manifest.Roots(), 1)
	assert.Equal(t, "acme:orders", manifest.Roots()[0].Identity())
}

func TestLoadManifestDefaults(t *testing.T) {
	path := writeManifest(t, "assembly.yaml", `
assembly:
  imageDir: /tmp/image
`)

	manifest, err := LoadManifest(path)
	require.NoError(t, err)

	// Settings the file leaves out keep their defaults.
	assert.True(t, manifest.Assembly.AppCopy)
	assert.True(t, manifest.Assembly.IncludeSourceDir)
	assert.False(t, manifest.Assembly.UseArchives)
	assert.Equal(t, "zip", manifest.Assembly.ArchiveExt)
}

func TestLoadManifestUnsupportedExtension(t *testing.T) {
	path := writeManifest(t, "assembly.json", `{}`)

	_, err := LoadManifest(path)
	require.ErrorIs(t, err, ErrUnsupportedManifestType)
}

func TestLoadManifestMissingFile(t *testing.T) {
	_, err := LoadManifest(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestArchiveSuffix(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, ".zip", cfg.archiveSuffix())

	cfg.ArchiveExt = ".jar"
	assert.Equal(t, ".jar", cfg.archiveSuffix())
}
