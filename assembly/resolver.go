package assembly

import (
	"fmt"

	"github.com/Masterminds/semver/v3"

	rhizomatic "github.com/TarandeepSingh562/rhizomatic"
)

// VersionConflict records a transitive request for an identity that was
// displaced by a shallower occurrence during resolution.
type VersionConflict struct {
	Identity  string
	Kept      string // the version that won
	Displaced string // the deeper version that lost
	Newer     bool   // true when the displaced version is semantically newer
}

// ResolvedGraph is the finalized transitive closure: exactly one node per
// identity, in breadth-first encounter order.
type ResolvedGraph struct {
	nodes     map[string]*Node
	order     []string
	Conflicts []VersionConflict
}

// Node returns the resolved node for identity, or nil.
func (g *ResolvedGraph) Node(identity string) *Node {
	return g.nodes[identity]
}

// Nodes returns the resolved nodes in breadth-first encounter order.
func (g *ResolvedGraph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.nodes[id])
	}
	return out
}

// Len returns the number of resolved nodes.
func (g *ResolvedGraph) Len() int {
	return len(g.order)
}

// Resolver computes the transitive closure of a root dependency set.
type Resolver struct {
	logger rhizomatic.Logger
}

// NewResolver creates a resolver.
func NewResolver(logger rhizomatic.Logger) *Resolver {
	return &Resolver{logger: logger}
}

// Resolve traverses breadth-first from the root dependencies. At each level,
// children whose identity is not yet in the closure are added with the version
// carried at that level; children of already-known identities are not
// re-walked, so the nearest occurrence of an identity wins over any deeper
// conflicting request. No version range solving happens here; the policy is
// deterministic and auditable, not correctness-optimal.
//
// A node that cannot be located (no artifact files and no build output) fails
// resolution with ErrUnresolvableDependency. Cycles are cut naturally: a back
// edge always reaches an already-known identity.
func (r *Resolver) Resolve(roots []*Node) (*ResolvedGraph, error) {
	graph := &ResolvedGraph{nodes: make(map[string]*Node)}

	level := make([]*Node, 0, len(roots))
	for _, root := range roots {
		if root == nil {
			return nil, ErrNilDependencyNode
		}
		if err := r.admit(graph, root); err != nil {
			return nil, err
		}
		level = append(level, root)
	}

	for len(level) > 0 {
		var next []*Node
		for _, node := range level {
			for _, child := range node.Children {
				if child == nil {
					return nil, fmt.Errorf("%w: child of %s", ErrNilDependencyNode, node.Identity())
				}
				if known, exists := graph.nodes[child.Identity()]; exists {
					r.recordConflict(graph, known, child)
					continue
				}
				if err := r.admit(graph, child); err != nil {
					return nil, err
				}
				next = append(next, child)
			}
		}
		level = next
	}

	r.logger.Info("Resolved dependency graph", "nodes", graph.Len(), "conflicts", len(graph.Conflicts))
	return graph, nil
}

func (r *Resolver) admit(graph *ResolvedGraph, node *Node) error {
	if !node.locatable() {
		return fmt.Errorf("%w: %s@%s", ErrUnresolvableDependency, node.Identity(), node.Version)
	}
	graph.nodes[node.Identity()] = node
	graph.order = append(graph.order, node.Identity())
	return nil
}

// recordConflict notes a displaced transitive request. When both versions
// parse as semver and the displaced one is newer, the conflict is flagged and
// a warning logged. Nearest still wins, but the displacement is visible.
func (r *Resolver) recordConflict(graph *ResolvedGraph, kept, displaced *Node) {
	if kept.Version == displaced.Version {
		return
	}
	conflict := VersionConflict{
		Identity:  kept.Identity(),
		Kept:      kept.Version,
		Displaced: displaced.Version,
		Newer:     displacedIsNewer(kept.Version, displaced.Version),
	}
	graph.Conflicts = append(graph.Conflicts, conflict)
	if conflict.Newer {
		r.logger.Warn("Nearest version wins over newer transitive request",
			"identity", conflict.Identity, "kept", conflict.Kept, "displaced", conflict.Displaced)
	} else {
		r.logger.Debug("Displaced transitive version request",
			"identity", conflict.Identity, "kept", conflict.Kept, "displaced", conflict.Displaced)
	}
}

func displacedIsNewer(kept, displaced string) bool {
	keptVersion, err := semver.NewVersion(kept)
	if err != nil {
		return false
	}
	displacedVersion, err := semver.NewVersion(displaced)
	if err != nil {
		return false
	}
	return displacedVersion.GreaterThan(keptVersion)
}
