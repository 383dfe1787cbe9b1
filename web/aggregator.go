// Package web aggregates the resource declarations discovered during a scan
// and publishes them onto a chi router. It owns the merge of declarations from
// multiple modules sharing a base path; actual request routing and the wire
// protocol belong to chi and the embedding HTTP server.
package web

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	rhizomatic "github.com/TarandeepSingh562/rhizomatic"
)

// PathConflict records a duplicate concrete path mapping rejected at publish
// time. Conflicts are reported, not fatal: the first registration stays.
type PathConflict struct {
	Method   string
	Path     string
	Kept     string // class that owns the mapping
	Rejected string // class whose duplicate mapping was rejected
}

// Aggregator merges resource declarations from multiple modules under shared
// base paths and publishes the result onto a chi router. It implements
// rhizomatic.EndpointPublisher.
type Aggregator struct {
	mu        sync.Mutex
	logger    rhizomatic.Logger
	emitter   rhizomatic.EventEmitter
	router    chi.Router
	mounts    map[string][]rhizomatic.Declaration
	baseOrder []string
	conflicts []PathConflict
}

// NewAggregator creates an aggregator publishing onto router. The emitter may
// be nil; conflicts are then only logged.
func NewAggregator(router chi.Router, logger rhizomatic.Logger, emitter rhizomatic.EventEmitter) *Aggregator {
	if router == nil {
		router = chi.NewRouter()
	}
	return &Aggregator{
		logger:  logger,
		emitter: emitter,
		router:  router,
		mounts:  make(map[string][]rhizomatic.Declaration),
	}
}

// Mount appends declarations to the ordered set mounted at basePath. An empty
// base path mounts at the root. Declarations from different modules under the
// same base path concatenate in mount order; nothing is ever overwritten here.
func (a *Aggregator) Mount(basePath string, declarations ...rhizomatic.Declaration) {
	a.mu.Lock()
	defer a.mu.Unlock()

	normalized := normalizePath(basePath)
	if _, seen := a.mounts[normalized]; !seen {
		a.baseOrder = append(a.baseOrder, normalized)
	}
	a.mounts[normalized] = append(a.mounts[normalized], declarations...)
	a.logger.Debug("Mounted resource declarations", "basePath", normalized, "count", len(declarations))
}

// Publish registers every mounted declaration with the router, walking base
// paths in first-mount order and declarations in mount order. A declaration
// whose (method, concrete path) is already taken is a configuration error:
// it is reported to the monitoring collaborator and rejected, and publishing
// continues with the rest.
func (a *Aggregator) Publish() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	owners := make(map[string]string)
	published := 0

	for _, base := range a.baseOrder {
		for _, decl := range a.mounts[base] {
			full := joinPath(base, decl.Path)
			key := decl.Method + " " + full

			if owner, taken := owners[key]; taken {
				conflict := PathConflict{Method: decl.Method, Path: full, Kept: owner, Rejected: decl.ClassID}
				a.conflicts = append(a.conflicts, conflict)
				a.logger.Error("Duplicate endpoint path mapping rejected",
					"method", decl.Method, "path", full, "kept", owner, "rejected", decl.ClassID,
					"error", rhizomatic.ErrConflictingEndpointPath)
				if a.emitter != nil {
					_ = a.emitter.Emit(context.Background(),
						rhizomatic.NewBootEvent(rhizomatic.EventTypeEndpointConflict, decl.Module, conflict))
				}
				continue
			}

			owners[key] = decl.ClassID
			a.router.Method(decl.Method, full, decl.Handler)
			published++
		}
	}

	a.logger.Info("Published endpoints", "count", published, "basePaths", len(a.baseOrder), "conflicts", len(a.conflicts))
	return nil
}

// Conflicts returns the duplicate path mappings rejected by Publish.
func (a *Aggregator) Conflicts() []PathConflict {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]PathConflict, len(a.conflicts))
	copy(out, a.conflicts)
	return out
}

// Mounted returns the declarations mounted at basePath, in mount order.
func (a *Aggregator) Mounted(basePath string) []rhizomatic.Declaration {
	a.mu.Lock()
	defer a.mu.Unlock()
	mounted := a.mounts[normalizePath(basePath)]
	out := make([]rhizomatic.Declaration, len(mounted))
	copy(out, mounted)
	return out
}

// Router returns the router declarations are published onto.
func (a *Aggregator) Router() chi.Router {
	return a.router
}

// normalizePath ensures a leading slash and strips any trailing one; the
// empty base path maps to "/".
func normalizePath(p string) string {
	p = strings.Trim(p, "/")
	if p == "" {
		return "/"
	}
	return "/" + p
}

// joinPath joins a normalized base path with a declaration's relative path.
func joinPath(base, rel string) string {
	rel = strings.Trim(rel, "/")
	switch {
	case base == "/" && rel == "":
		return "/"
	case base == "/":
		return "/" + rel
	case rel == "":
		return base
	default:
		return fmt.Sprintf("%s/%s", base, rel)
	}
}
