package rhizomatic

// Option is a functional option for configuring a Kernel.
type Option func(*Kernel) error

// NewKernel constructs a kernel from the provided options. A logger and a
// system definition are required; the built-in service and resource
// introspectors are always registered, ahead of any introspectors added with
// WithIntrospectors.
func NewKernel(opts ...Option) (*Kernel, error) {
	k := &Kernel{
		subsystems: NewSubsystemContext(),
		introspectors: []Introspector{
			&ServiceIntrospector{},
			&ResourceIntrospector{},
		},
	}

	for _, opt := range opts {
		if err := opt(k); err != nil {
			return nil, err
		}
	}

	if k.logger == nil {
		return nil, ErrLoggerNotSet
	}
	if k.sysdef == nil {
		return nil, ErrSystemDefinitionNotSet
	}

	k.binder = NewServiceBinder(k.logger)
	return k, nil
}

// WithLogger sets the kernel's logger.
func WithLogger(logger Logger) Option {
	return func(k *Kernel) error {
		k.logger = logger
		return nil
	}
}

// WithSystemDefinition sets the system definition to boot.
func WithSystemDefinition(sysdef SystemDefinition) Option {
	return func(k *Kernel) error {
		k.sysdef = sysdef
		return nil
	}
}

// WithIntrospectors appends discovery strategies to run after the built-in
// ones. Strategy order here is their context registration order and therefore
// their scan invocation order.
func WithIntrospectors(introspectors ...Introspector) Option {
	return func(k *Kernel) error {
		k.introspectors = append(k.introspectors, introspectors...)
		return nil
	}
}

// WithObservers registers observers for boot-phase events.
func WithObservers(observers ...Observer) Option {
	return func(k *Kernel) error {
		k.observers = append(k.observers, observers...)
		return nil
	}
}

// WithPublisher sets the endpoint publisher the kernel hands resource
// declarations to. Without one, resource declarations are still scanned and
// indexed but not published.
func WithPublisher(publisher EndpointPublisher) Option {
	return func(k *Kernel) error {
		k.publisher = publisher
		return nil
	}
}
