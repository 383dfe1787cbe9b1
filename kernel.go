package rhizomatic

import (
	"context"
	"fmt"
)

// EndpointPublisher aggregates resource declarations under shared base paths
// and hands them to the HTTP-serving collaborator. The web package provides
// the chi-backed implementation; the kernel only depends on this contract.
type EndpointPublisher interface {
	// Mount appends declarations to the ordered set already mounted at
	// basePath. Declarations under the same base path concatenate, never
	// overwrite.
	Mount(basePath string, declarations ...Declaration)

	// Publish materializes every mount onto the serving collaborator.
	// Conflicting concrete paths are reported, rejected individually, and do
	// not fail publishing as a whole.
	Publish() error
}

// Kernel owns the boot sequence: load the system definition, scan its classes,
// bind the discovered services, publish the discovered endpoints, freeze the
// subsystem context. The phases run strictly in that order on the calling
// goroutine; no phase begins before the prior one completes.
//
// Once Boot returns, the kernel's job is done: service invocations through the
// bound instances may be concurrent, but that concurrency belongs to the
// services themselves.
type Kernel struct {
	logger        Logger
	sysdef        SystemDefinition
	subsystems    *SubsystemContext
	binder        *ServiceBinder
	publisher     EndpointPublisher
	introspectors []Introspector
	observers     []Observer
	index         *ScanIndex
	booted        bool
}

// Boot runs the boot sequence. It may be called once per kernel.
func (k *Kernel) Boot(ctx context.Context) error {
	if k.booted {
		return ErrKernelAlreadyBooted
	}

	classes := k.loadClasses()
	k.logger.Info("Booting system", "system", k.sysdef.Name(), "classes", len(classes))

	for _, introspector := range k.introspectors {
		if err := Register[Introspector](k.subsystems, introspector); err != nil {
			return fmt.Errorf("registering introspector %q: %w", introspector.Name(), err)
		}
	}

	scanner := NewIntrospectionService(k.subsystems, k.logger)
	builder := NewScanIndexBuilder()
	scanner.Introspect(classes, builder)
	k.index = builder.Build()
	k.Emit(ctx, NewBootEvent(EventTypeScanCompleted, k.sysdef.Name(), map[string]int{
		"classes":   len(classes),
		"services":  k.index.Len(KindService),
		"resources": k.index.Len(KindResource),
	}))

	if err := k.binder.Bind(k.index); err != nil {
		return fmt.Errorf("binding services: %w", err)
	}
	k.Emit(ctx, NewBootEvent(EventTypeServicesBound, k.sysdef.Name(), map[string]int{
		"services": k.index.Len(KindService),
	}))

	if err := k.publishEndpoints(ctx); err != nil {
		return err
	}

	k.subsystems.Freeze()
	k.booted = true
	k.Emit(ctx, NewBootEvent(EventTypeBootCompleted, k.sysdef.Name(), nil))
	k.logger.Info("System booted", "system", k.sysdef.Name())
	return nil
}

// loadClasses flattens the system definition into the class set to scan.
// Layer order, then module order within a layer, then class order within a
// module. That order is the discovery order for everything downstream.
func (k *Kernel) loadClasses() []Class {
	var classes []Class
	for _, layer := range k.sysdef.Layers() {
		for _, module := range layer.Modules {
			k.logger.Debug("Loaded module", "layer", layer.Name, "module", module.Name, "classes", len(module.Classes))
			classes = append(classes, module.Classes...)
		}
	}
	return classes
}

// publishEndpoints groups resource declarations by base path, preserving
// module load order within and across groups, and hands them to the publisher.
func (k *Kernel) publishEndpoints(ctx context.Context) error {
	if k.publisher == nil {
		return nil
	}

	resources := k.index.Declarations(KindResource)
	grouped := make(map[string][]Declaration)
	var baseOrder []string
	for _, decl := range resources {
		if _, seen := grouped[decl.BasePath]; !seen {
			baseOrder = append(baseOrder, decl.BasePath)
		}
		grouped[decl.BasePath] = append(grouped[decl.BasePath], decl)
	}

	for _, base := range baseOrder {
		k.publisher.Mount(base, grouped[base]...)
	}
	if err := k.publisher.Publish(); err != nil {
		return fmt.Errorf("publishing endpoints: %w", err)
	}

	k.Emit(ctx, NewBootEvent(EventTypeEndpointsMounted, k.sysdef.Name(), map[string]int{
		"basePaths": len(baseOrder),
		"resources": len(resources),
	}))
	return nil
}

// Emit sends an event to every registered observer. Observer errors are
// logged, never escalated.
func (k *Kernel) Emit(ctx context.Context, event Event) error {
	for _, observer := range k.observers {
		if err := observer.OnEvent(ctx, event); err != nil {
			k.logger.Warn("Observer failed to handle event",
				"observer", observer.ObserverID(), "event", event.Type(), "error", err)
		}
	}
	return nil
}

// Shutdown tears down the booted system: the subsystem context, the scan
// index, and the singleton registry are discarded. The kernel cannot boot
// again afterwards; construct a new one for the next system.
func (k *Kernel) Shutdown(ctx context.Context) error {
	if !k.booted {
		return nil
	}
	k.index = nil
	k.subsystems = nil
	k.binder = NewServiceBinder(k.logger)
	k.logger.Info("System shut down", "system", k.sysdef.Name())
	return nil
}

// Subsystems returns the kernel's subsystem context.
func (k *Kernel) Subsystems() *SubsystemContext {
	return k.subsystems
}

// Binder returns the kernel's service binder.
func (k *Kernel) Binder() *ServiceBinder {
	return k.binder
}

// Index returns the scan index produced by Boot, or nil before Boot.
func (k *Kernel) Index() *ScanIndex {
	return k.index
}

// Logger returns the kernel's logger.
func (k *Kernel) Logger() Logger {
	return k.logger
}
