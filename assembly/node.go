// Package assembly builds a deployable runtime image from a resolved
// dependency set: it computes the transitive closure with deterministic
// nearest-wins conflict resolution, classifies each artifact into a runtime
// role, and lays the classified artifacts out into the image directory
// structure the kernel boots from.
package assembly

// Node is one dependency in the graph. Identity is (group, name); the version
// is the one carried at the level the node was declared. A node is immutable
// once the closure is finalized.
type Node struct {
	Group   string
	Name    string
	Version string

	// Artifacts are the packaged artifact files belonging to this node.
	Artifacts []string

	// Children are the node's declared dependencies.
	Children []*Node

	// ClassesDir and ResourcesDir point at the in-progress build output of an
	// application module. They are used instead of Artifacts when the image is
	// assembled in exploded format.
	ClassesDir   string
	ResourcesDir string
}

// Identity returns the node's graph identity.
func (n *Node) Identity() string {
	return n.Group + ":" + n.Name
}

// locatable reports whether the node's artifacts can be placed in an image at
// all: either packaged files or an exploded build output location.
func (n *Node) locatable() bool {
	return len(n.Artifacts) > 0 || n.ClassesDir != "" || n.ResourcesDir != ""
}
