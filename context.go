package rhizomatic

import (
	"fmt"
	"reflect"
	"sync"
)

// SubsystemContext is the process-wide capability registry. Producers register
// providers under a capability type during the boot registration phase;
// consumers (the scanner, the service binder, the endpoint publisher) query it
// with ResolveAll afterwards.
//
// The context is read-mostly: writes happen only while the kernel is in its
// registration phase and reads happen continuously after that. The hard
// ordering boundary between the two phases is enforced by the boot sequence,
// not by the context; the RWMutex only guards against torn reads. Resolving a
// capability type nobody has registered yet returns an empty slice, never an
// error; introspectors that depend on other introspectors must tolerate this
// and order their own registrations accordingly.
type SubsystemContext struct {
	mu        sync.RWMutex
	providers map[reflect.Type][]any
	frozen    bool
}

// NewSubsystemContext creates an empty subsystem context. Its lifecycle is
// owned by the boot sequence: created at boot, frozen once registration is
// complete, discarded at shutdown.
func NewSubsystemContext() *SubsystemContext {
	return &SubsystemContext{
		providers: make(map[reflect.Type][]any),
	}
}

// Register adds a provider under the given capability type. Registrations
// accumulate in call order; registering the same provider identity twice for
// the same type fails with ErrDuplicateRegistration, which indicates a
// misconfigured discovery strategy or module.
func (c *SubsystemContext) Register(capabilityType reflect.Type, provider any) error {
	if provider == nil {
		return fmt.Errorf("%w: capability type %s", ErrProviderNil, capabilityType)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.frozen {
		return fmt.Errorf("%w: cannot register %s", ErrContextFrozen, capabilityType)
	}

	for _, existing := range c.providers[capabilityType] {
		if sameProvider(existing, provider) {
			return fmt.Errorf("%w: %s", ErrDuplicateRegistration, capabilityType)
		}
	}

	c.providers[capabilityType] = append(c.providers[capabilityType], provider)
	return nil
}

// ResolveAll returns a point-in-time snapshot of all providers registered for
// the capability type, in registration order. Unknown types yield an empty
// slice.
func (c *SubsystemContext) ResolveAll(capabilityType reflect.Type) []any {
	c.mu.RLock()
	defer c.mu.RUnlock()

	registered := c.providers[capabilityType]
	snapshot := make([]any, len(registered))
	copy(snapshot, registered)
	return snapshot
}

// Freeze marks the end of the registration phase. Subsequent Register calls
// fail with ErrContextFrozen. Called by the kernel once binding and publishing
// are complete.
func (c *SubsystemContext) Freeze() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frozen = true
}

// Frozen reports whether the registration phase has ended.
func (c *SubsystemContext) Frozen() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.frozen
}

// sameProvider reports whether two registered providers share an identity.
// Pointer-backed providers compare by pointer; non-comparable values never
// match, so distinct closures or slices can both be registered.
func sameProvider(a, b any) bool {
	at, bt := reflect.TypeOf(a), reflect.TypeOf(b)
	if at != bt {
		return false
	}
	if !at.Comparable() {
		return false
	}
	return a == b
}

// Register adds a provider under the interface or concrete type T.
func Register[T any](c *SubsystemContext, provider T) error {
	return c.Register(typeOf[T](), provider)
}

// ResolveAll returns all providers registered under T, in registration order.
func ResolveAll[T any](c *SubsystemContext) []T {
	registered := c.ResolveAll(typeOf[T]())
	resolved := make([]T, 0, len(registered))
	for _, provider := range registered {
		if typed, ok := provider.(T); ok {
			resolved = append(resolved, typed)
		}
	}
	return resolved
}

// typeOf returns the reflect.Type of T, preserving interface types rather
// than collapsing them to the dynamic type of a value.
func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
