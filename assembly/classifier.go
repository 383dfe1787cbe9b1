package assembly

// Role is the runtime role assigned to a resolved artifact. Exactly one node
// in an image may hold RoleBootstrap.
type Role string

const (
	RoleSystem      Role = "system"
	RoleLibrary     Role = "library"
	RoleApplication Role = "application"
	RoleBootstrap   Role = "bootstrap"
)

// SystemGroup is the reserved group identity for runtime platform modules.
const SystemGroup = "io.rhizomatic"

// Classify assigns a runtime role to a node. It is a pure function of
// (group, name, configuration); the rules apply in order:
//
//  1. the reserved system group → RoleSystem
//  2. the application group and the configured bootstrap module name → RoleBootstrap
//  3. the application group otherwise → RoleApplication
//  4. anything else → RoleLibrary
func Classify(node *Node, cfg *Config) Role {
	switch {
	case node.Group == SystemGroup:
		return RoleSystem
	case cfg.AppGroup != "" && node.Group == cfg.AppGroup && cfg.BootstrapModule != "" && node.Name == cfg.BootstrapModule:
		return RoleBootstrap
	case cfg.AppGroup != "" && node.Group == cfg.AppGroup:
		return RoleApplication
	default:
		return RoleLibrary
	}
}
