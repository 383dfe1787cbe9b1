package rhizomatic

// Introspector is a pluggable discovery strategy. Each registered introspector
// is given every scanned class together with the shared index builder and may
// append zero or more capability declarations.
//
// Implementations must be idempotent (re-emitting the same declaration is
// harmless; the builder de-duplicates) and must isolate their own partial
// failures: a malformed class should be skipped, not abort the scan. The
// scanner additionally recovers panics so one misbehaving strategy cannot take
// down discovery for the rest.
type Introspector interface {
	// Name returns the introspector's identity, recorded on every declaration
	// it emits and used for scan de-duplication.
	Name() string

	// Introspect examines one class and appends any capability declarations
	// it finds to the builder.
	Introspect(class Class, builder *ScanIndexBuilder)
}

// ServiceIntrospector discovers injectable service declarations. A class
// declares a service by carrying the "service.name" metadata key; scope
// defaults to singleton and constructor dependencies come from the
// comma-separated "service.depends" list.
type ServiceIntrospector struct{}

func (s *ServiceIntrospector) Name() string {
	return "service-introspector"
}

func (s *ServiceIntrospector) Introspect(class Class, builder *ScanIndexBuilder) {
	name := class.Metadata[MetaServiceName]
	if name == "" {
		return
	}
	if class.Provider == nil {
		// Declared a service but gave us nothing to construct it with.
		// Skip the class; the binder would only fail later.
		return
	}

	scope := ServiceScope(class.Metadata[MetaServiceScope])
	if scope != ScopePrototype {
		scope = ScopeSingleton
	}

	_ = builder.Add(Declaration{
		Kind:         KindService,
		Name:         name,
		ClassID:      class.ID(),
		Module:       class.Module,
		Introspector: s.Name(),
		Metadata:     class.Metadata,
		Scope:        scope,
		DependsOn:    splitList(class.Metadata[MetaServiceDepends]),
		Provider:     class.Provider,
	})
}

// ResourceIntrospector discovers network-exposed resource declarations. A
// class contributes one declaration per endpoint it exposes; the module's
// external base path comes from the "resource.base" metadata key and defaults
// to the root path when absent.
type ResourceIntrospector struct{}

func (r *ResourceIntrospector) Name() string {
	return "resource-introspector"
}

func (r *ResourceIntrospector) Introspect(class Class, builder *ScanIndexBuilder) {
	if len(class.Endpoints) == 0 {
		return
	}
	base := class.Metadata[MetaResourceBase]

	for _, ep := range class.Endpoints {
		if ep.Handler == nil || ep.Method == "" {
			continue
		}
		_ = builder.Add(Declaration{
			Kind:         KindResource,
			Name:         ep.Path,
			ClassID:      class.ID(),
			Module:       class.Module,
			Introspector: r.Name(),
			Metadata:     class.Metadata,
			BasePath:     base,
			Method:       ep.Method,
			Path:         ep.Path,
			Handler:      ep.Handler,
		})
	}
}
