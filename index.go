package rhizomatic

// ScanIndexBuilder accumulates declarations during a scan pass. It is mutable
// during the scan and sealed by Build; introspectors append through Add and
// never read back.
//
// The builder de-duplicates on (class identity, introspector identity,
// capability), so running a scan twice over the same input, or a strategy
// re-emitting the same declaration, does not duplicate entries.
type ScanIndexBuilder struct {
	declarations map[Kind][]Declaration
	seen         map[string]struct{}
	sealed       bool
}

// NewScanIndexBuilder creates an empty index builder for one scan pass.
func NewScanIndexBuilder() *ScanIndexBuilder {
	return &ScanIndexBuilder{
		declarations: make(map[Kind][]Declaration),
		seen:         make(map[string]struct{}),
	}
}

// Add appends a declaration to the index. Re-adding a declaration with the
// same identity is a no-op. Adding after Build fails with ErrIndexSealed.
func (b *ScanIndexBuilder) Add(decl Declaration) error {
	if b.sealed {
		return ErrIndexSealed
	}
	key := decl.key()
	if _, dup := b.seen[key]; dup {
		return nil
	}
	b.seen[key] = struct{}{}
	b.declarations[decl.Kind] = append(b.declarations[decl.Kind], decl)
	return nil
}

// Build seals the builder and hands ownership of the accumulated declarations
// to the returned read-only index. The builder must not be reused afterwards.
func (b *ScanIndexBuilder) Build() *ScanIndex {
	b.sealed = true
	return &ScanIndex{declarations: b.declarations}
}

// ScanIndex is the read-only result of a discovery pass: a mapping from
// capability kind to the declarations found, in discovery order. Built once
// per boot and handed to the service binder and endpoint publisher.
type ScanIndex struct {
	declarations map[Kind][]Declaration
}

// Declarations returns the declarations of the given kind in discovery order.
func (i *ScanIndex) Declarations(kind Kind) []Declaration {
	return i.declarations[kind]
}

// Len returns the number of declarations of the given kind.
func (i *ScanIndex) Len(kind Kind) int {
	return len(i.declarations[kind])
}

// Kinds returns the capability kinds present in the index.
func (i *ScanIndex) Kinds() []Kind {
	kinds := make([]Kind, 0, len(i.declarations))
	for kind := range i.declarations {
		kinds = append(kinds, kind)
	}
	return kinds
}
