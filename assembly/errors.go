package assembly

import (
	"errors"
)

// Assembly errors
var (
	ErrUnresolvableDependency   = errors.New("dependency cannot be located")
	ErrMissingBootstrapArtifact = errors.New("bootstrap module has no artifact")
	ErrNilDependencyNode        = errors.New("dependency node is nil")
	ErrImageDirNotSet           = errors.New("image directory not configured")
	ErrUnsupportedManifestType  = errors.New("unsupported manifest file type")
)
