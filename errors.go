package rhizomatic

import (
	"errors"
)

// Kernel errors
var (
	// Subsystem context errors
	ErrDuplicateRegistration = errors.New("provider already registered for capability type")
	ErrContextFrozen         = errors.New("subsystem context is frozen")
	ErrProviderNil           = errors.New("provider is nil")

	// Scan errors
	ErrIndexSealed = errors.New("scan index builder already built")

	// Service binding errors
	ErrServiceAlreadyRegistered = errors.New("service already registered")
	ErrServiceNotFound          = errors.New("service not found")
	ErrServiceProviderMissing   = errors.New("service declaration has no provider")
	ErrCircularDependency       = errors.New("circular dependency detected")

	// Endpoint publishing errors
	ErrConflictingEndpointPath = errors.New("conflicting endpoint path mapping")

	// Kernel boot errors
	ErrLoggerNotSet           = errors.New("logger not set")
	ErrSystemDefinitionNotSet = errors.New("system definition not set")
	ErrKernelAlreadyBooted    = errors.New("kernel already booted")
)
