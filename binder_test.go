package rhizomatic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct {
	ticks int
}

type orderStore struct {
	clock *clock
}

func serviceIndex(t *testing.T, declarations ...Declaration) *ScanIndex {
	t.Helper()
	builder := NewScanIndexBuilder()
	for _, decl := range declarations {
		require.NoError(t, builder.Add(decl))
	}
	return builder.Build()
}

func TestBindConstructsSingletonsOnce(t *testing.T) {
	constructed := 0
	index := serviceIndex(t, Declaration{
		Kind: KindService, Name: "clock", ClassID: "core:Clock", Introspector: "s",
		Scope: ScopeSingleton,
		Provider: func(deps map[string]any) (any, error) {
			constructed++
			return &clock{}, nil
		},
	})

	binder := NewServiceBinder(&testLogger{t})
	require.NoError(t, binder.Bind(index))

	first, err := binder.Resolve("clock")
	require.NoError(t, err)
	second, err := binder.Resolve("clock")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, constructed)
}

func TestBindPrototypeConstructsPerResolve(t *testing.T) {
	index := serviceIndex(t, Declaration{
		Kind: KindService, Name: "clock", ClassID: "core:Clock", Introspector: "s",
		Scope: ScopePrototype,
		Provider: func(deps map[string]any) (any, error) {
			return &clock{}, nil
		},
	})

	binder := NewServiceBinder(&testLogger{t})
	require.NoError(t, binder.Bind(index))

	first, err := binder.Resolve("clock")
	require.NoError(t, err)
	second, err := binder.Resolve("clock")
	require.NoError(t, err)
	assert.NotSame(t, first, second)
}

func TestBindInjectsDeclaredDependencies(t *testing.T) {
	index := serviceIndex(t,
		Declaration{
			Kind: KindService, Name: "store", ClassID: "shop:Store", Introspector: "s",
			Scope: ScopeSingleton, DependsOn: []string{"clock"},
			Provider: func(deps map[string]any) (any, error) {
				return &orderStore{clock: deps["clock"].(*clock)}, nil
			},
		},
		Declaration{
			Kind: KindService, Name: "clock", ClassID: "core:Clock", Introspector: "s",
			Scope: ScopeSingleton,
			Provider: func(deps map[string]any) (any, error) {
				return &clock{ticks: 42}, nil
			},
		},
	)

	binder := NewServiceBinder(&testLogger{t})
	require.NoError(t, binder.Bind(index))

	var store *orderStore
	require.NoError(t, binder.ResolveInto("store", &store))
	require.NotNil(t, store.clock)
	assert.Equal(t, 42, store.clock.ticks)
}

func TestBindRejectsDuplicateServiceName(t *testing.T) {
	provider := func(deps map[string]any) (any, error) { return &clock{}, nil }
	index := serviceIndex(t,
		Declaration{Kind: KindService, Name: "clock", ClassID: "a:Clock", Introspector: "s", Scope: ScopeSingleton, Provider: provider},
		Declaration{Kind: KindService, Name: "clock", ClassID: "b:Clock", Introspector: "s", Scope: ScopeSingleton, Provider: provider},
	)

	binder := NewServiceBinder(&testLogger{t})
	err := binder.Bind(index)
	require.ErrorIs(t, err, ErrServiceAlreadyRegistered)
}

func TestBindDetectsConstructorCycle(t *testing.T) {
	index := serviceIndex(t,
		Declaration{
			Kind: KindService, Name: "a", ClassID: "m:A", Introspector: "s",
			Scope: ScopeSingleton, DependsOn: []string{"b"},
			Provider: func(deps map[string]any) (any, error) { return &clock{}, nil },
		},
		Declaration{
			Kind: KindService, Name: "b", ClassID: "m:B", Introspector: "s",
			Scope: ScopeSingleton, DependsOn: []string{"a"},
			Provider: func(deps map[string]any) (any, error) { return &clock{}, nil },
		},
	)

	binder := NewServiceBinder(&testLogger{t})
	err := binder.Bind(index)
	require.ErrorIs(t, err, ErrCircularDependency)
}

func TestResolveUnknownService(t *testing.T) {
	binder := NewServiceBinder(&testLogger{t})
	_, err := binder.Resolve("missing")
	require.ErrorIs(t, err, ErrServiceNotFound)
}

func TestResolveIntoInterfaceTarget(t *testing.T) {
	index := serviceIndex(t, Declaration{
		Kind: KindService, Name: "greeter", ClassID: "m:G", Introspector: "s",
		Scope: ScopeSingleton,
		Provider: func(deps map[string]any) (any, error) {
			return &englishGreeter{}, nil
		},
	})

	binder := NewServiceBinder(&testLogger{t})
	require.NoError(t, binder.Bind(index))

	var g greeter
	require.NoError(t, binder.ResolveInto("greeter", &g))
	assert.Equal(t, "hello", g.Greet())
}
