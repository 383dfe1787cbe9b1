package rhizomatic

import (
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/golobby/cast"
)

// Kind identifies the capability kind of a declaration.
type Kind string

const (
	// KindService marks an injectable service declaration.
	KindService Kind = "service"
	// KindResource marks a network-exposed resource declaration.
	KindResource Kind = "resource"
)

// ServiceScope controls the instantiation policy the binder applies to a
// service declaration.
type ServiceScope string

const (
	// ScopeSingleton services are constructed once and the instance is shared.
	ScopeSingleton ServiceScope = "singleton"
	// ScopePrototype services are constructed anew on every resolution.
	ScopePrototype ServiceScope = "prototype"
)

// Metadata keys recognized by the built-in introspectors.
const (
	MetaServiceName    = "service.name"
	MetaServiceScope   = "service.scope"
	MetaServiceDepends = "service.depends"
	MetaResourceBase   = "resource.base"
)

// Declaration is one capability extracted from a class by an introspector.
// It carries the originating class identity, the identity of the introspector
// that found it, and the metadata that introspector extracted.
type Declaration struct {
	Kind         Kind
	Name         string
	ClassID      string
	Module       string
	Introspector string
	Metadata     map[string]string

	// Service capability fields.
	Scope     ServiceScope
	DependsOn []string
	Provider  ProviderFunc

	// Resource capability fields.
	BasePath string
	Method   string
	Path     string
	Handler  http.HandlerFunc
}

// key returns the de-duplication identity of a declaration within the index.
func (d Declaration) key() string {
	return string(d.Kind) + "|" + d.ClassID + "|" + d.Introspector + "|" + d.Method + "|" + d.Name
}

// Meta returns the raw metadata value for key, or "" when absent.
func (d Declaration) Meta(key string) string {
	return d.Metadata[key]
}

// MetaAs converts the metadata value for key into target's element type.
// Metadata values travel as strings; conversion uses the same coercion rules
// as configuration feeding. Target must be a non-nil pointer. An absent key
// leaves the target untouched and returns false.
func (d Declaration) MetaAs(key string, target any) (bool, error) {
	raw, ok := d.Metadata[key]
	if !ok {
		return false, nil
	}

	targetValue := reflect.ValueOf(target)
	if targetValue.Kind() != reflect.Ptr || targetValue.IsNil() {
		return false, fmt.Errorf("metadata target for %q must be a non-nil pointer", key)
	}

	converted, err := cast.FromType(raw, targetValue.Elem().Type())
	if err != nil {
		return false, fmt.Errorf("cannot convert metadata %q=%q: %w", key, raw, err)
	}
	targetValue.Elem().Set(reflect.ValueOf(converted))
	return true, nil
}

// splitList splits a comma-separated metadata list, trimming whitespace and
// dropping empty entries.
func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
