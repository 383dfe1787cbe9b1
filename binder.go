package rhizomatic

import (
	"fmt"
	"reflect"
)

// ServiceRegistry allows retrieval of bound service instances by name.
type ServiceRegistry map[string]any

// ServiceBinder registers the service declarations found by a scan into a
// dependency-injection registry. Singleton declarations are constructed once,
// eagerly, in dependency order; prototype declarations are constructed anew on
// every resolution.
type ServiceBinder struct {
	logger       Logger
	declarations map[string]Declaration
	singletons   ServiceRegistry
	building     map[string]bool
}

// NewServiceBinder creates an empty binder.
func NewServiceBinder(logger Logger) *ServiceBinder {
	return &ServiceBinder{
		logger:       logger,
		declarations: make(map[string]Declaration),
		singletons:   make(ServiceRegistry),
		building:     make(map[string]bool),
	}
}

// Bind registers every service declaration in the index and eagerly
// constructs the singletons. Two declarations binding the same service name
// fail with ErrServiceAlreadyRegistered; constructor cycles fail with
// ErrCircularDependency.
func (b *ServiceBinder) Bind(index *ScanIndex) error {
	declarations := index.Declarations(KindService)

	for _, decl := range declarations {
		if existing, taken := b.declarations[decl.Name]; taken {
			return fmt.Errorf("%w: %q declared by %s and %s",
				ErrServiceAlreadyRegistered, decl.Name, existing.ClassID, decl.ClassID)
		}
		if decl.Provider == nil {
			return fmt.Errorf("%w: %q declared by %s", ErrServiceProviderMissing, decl.Name, decl.ClassID)
		}
		b.declarations[decl.Name] = decl
		b.logger.Debug("Bound service declaration", "service", decl.Name, "class", decl.ClassID, "scope", decl.Scope)
	}

	for _, decl := range declarations {
		if decl.Scope != ScopeSingleton {
			continue
		}
		if _, err := b.Resolve(decl.Name); err != nil {
			return err
		}
	}
	return nil
}

// Resolve returns the instance bound under name, constructing it (and its
// transitive dependencies) as needed. Singletons are cached; prototypes are
// constructed per call.
func (b *ServiceBinder) Resolve(name string) (any, error) {
	if instance, cached := b.singletons[name]; cached {
		return instance, nil
	}

	decl, known := b.declarations[name]
	if !known {
		return nil, fmt.Errorf("%w: %s", ErrServiceNotFound, name)
	}

	if b.building[name] {
		return nil, fmt.Errorf("%w: %s", ErrCircularDependency, name)
	}
	b.building[name] = true
	defer delete(b.building, name)

	deps := make(map[string]any, len(decl.DependsOn))
	for _, depName := range decl.DependsOn {
		dep, err := b.Resolve(depName)
		if err != nil {
			return nil, fmt.Errorf("resolving dependency %q of service %q: %w", depName, name, err)
		}
		deps[depName] = dep
	}

	instance, err := decl.Provider(deps)
	if err != nil {
		return nil, fmt.Errorf("constructing service %q: %w", name, err)
	}

	if decl.Scope == ScopeSingleton {
		b.singletons[name] = instance
	}
	return instance, nil
}

// ResolveInto resolves the named service and assigns it to target, which must
// be a non-nil pointer. Interface targets accept any implementation; concrete
// targets require assignability.
func (b *ServiceBinder) ResolveInto(name string, target any) error {
	instance, err := b.Resolve(name)
	if err != nil {
		return err
	}

	targetValue := reflect.ValueOf(target)
	if targetValue.Kind() != reflect.Ptr || targetValue.IsNil() {
		return fmt.Errorf("target for service %q must be a non-nil pointer", name)
	}

	instanceValue := reflect.ValueOf(instance)
	targetType := targetValue.Elem().Type()

	switch {
	case targetType.Kind() == reflect.Interface && instanceValue.Type().Implements(targetType):
		targetValue.Elem().Set(instanceValue)
	case instanceValue.Type().AssignableTo(targetType):
		targetValue.Elem().Set(instanceValue)
	default:
		return fmt.Errorf("service %q of type %s cannot be assigned to %s", name, instanceValue.Type(), targetType)
	}
	return nil
}

// Registry returns the singleton registry. Prototype services never appear
// here; resolve them through Resolve.
func (b *ServiceBinder) Registry() ServiceRegistry {
	return b.singletons
}
