// Package rhizomatic is an extensible application runtime for Go. It assembles
// independently built modules into a running process, discovers the capabilities
// they declare (injectable services, network-exposed resources), and wires those
// capabilities together without any module needing compile-time knowledge of the
// others.
//
// The runtime is split in two: the assembly package resolves a transitive
// dependency graph into a deployable runtime image at build time, and this
// package boots the resulting system: it scans loaded classes through a chain
// of registered introspectors, indexes the declared capabilities, binds the
// declared services into a dependency-injection registry, and hands the declared
// resources to an endpoint publisher.
//
// Basic usage:
//
//	kernel, err := rhizomatic.NewKernel(
//		rhizomatic.WithLogger(logger),
//		rhizomatic.WithSystemDefinition(sysdef),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := kernel.Boot(ctx); err != nil {
//		log.Fatal(err)
//	}
package rhizomatic

import "net/http"

// ProviderFunc constructs a service instance. The deps map holds the resolved
// instances of every service named by the declaration's depends list, keyed by
// service name.
type ProviderFunc func(deps map[string]any) (any, error)

// Endpoint is a single HTTP handler a class exposes. The path is relative to
// the base path the owning module declares; the publisher joins the two when
// the endpoint is mounted.
type Endpoint struct {
	Method  string
	Path    string
	Handler http.HandlerFunc
}

// Class describes one loaded declaration unit contributed by a module. It is
// the unit introspectors examine: metadata carries the declarations a class
// makes about itself, Provider constructs its service instance, and Endpoints
// lists the HTTP resources it exposes.
//
// Well-known metadata keys are defined by the built-in introspectors; modules
// are free to attach additional keys for their own discovery strategies.
type Class struct {
	// Name is the qualified type name, unique within the owning module.
	Name string

	// Module is the name of the module that contributed this class.
	Module string

	// Metadata holds the class's capability declarations as string values.
	// Declaration exposes typed accessors over the same representation.
	Metadata map[string]string

	// Provider constructs the service instance for classes that declare one.
	Provider ProviderFunc

	// Endpoints lists the HTTP resources this class exposes, if any.
	Endpoints []Endpoint
}

// ID returns the class identity used for scan de-duplication.
func (c Class) ID() string {
	return c.Module + ":" + c.Name
}

// ModuleDef is a module as supplied by the module-loading collaborator: a name,
// the location it was loaded from, and the classes it contributes to the scan.
type ModuleDef struct {
	Name     string
	Location string
	Classes  []Class
}

// Layer is an isolated grouping of modules loaded together. Layers are loaded
// in declaration order and modules within a layer in their declaration order;
// that order is the class iteration order during scanning.
type Layer struct {
	Name    string
	Modules []ModuleDef
}

// SystemDefinition supplies the set of layers to boot. It is provided by the
// module-loading collaborator and consumed opaquely by the kernel as "the class
// set to scan".
type SystemDefinition interface {
	// Name identifies the system for logging and event metadata.
	Name() string

	// Layers returns the layers in load order.
	Layers() []Layer
}

// StaticSystemDefinition is a SystemDefinition backed by a fixed layer list.
type StaticSystemDefinition struct {
	SystemName   string
	SystemLayers []Layer
}

func (d *StaticSystemDefinition) Name() string {
	return d.SystemName
}

func (d *StaticSystemDefinition) Layers() []Layer {
	return d.SystemLayers
}
