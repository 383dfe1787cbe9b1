package rhizomatic

// IntrospectionService walks a set of loaded classes and delegates to the
// introspectors registered in the subsystem context.
type IntrospectionService struct {
	context *SubsystemContext
	logger  Logger
}

// NewIntrospectionService creates a scanner backed by the given context.
func NewIntrospectionService(context *SubsystemContext, logger Logger) *IntrospectionService {
	return &IntrospectionService{context: context, logger: logger}
}

// Introspect invokes every registered introspector for every class in the
// supplied set, appending discovered capabilities to the builder.
//
// Introspectors are resolved from the context once at scan start, not cached
// across the process, so strategies registered between passes take part in a
// later pass. Class iteration follows the input order and introspector
// iteration follows context registration order. The double loop is O(C·S);
// discovery is a one-time boot-path cost, not a hot path.
//
// Individual classes never abort the scan: strategy panics are recovered,
// logged, and the scan continues with the next (class, strategy) pair.
func (s *IntrospectionService) Introspect(classes []Class, builder *ScanIndexBuilder) {
	introspectors := ResolveAll[Introspector](s.context)

	for _, class := range classes {
		for _, introspector := range introspectors {
			s.introspectOne(introspector, class, builder)
		}
	}
}

func (s *IntrospectionService) introspectOne(introspector Introspector, class Class, builder *ScanIndexBuilder) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Introspector panicked, skipping class",
				"introspector", introspector.Name(), "class", class.ID(), "panic", r)
		}
	}()
	introspector.Introspect(class, builder)
}
