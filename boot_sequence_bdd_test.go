package rhizomatic

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/cucumber/godog"
)

// BootSequenceBDDTestContext holds state for kernel boot BDD tests.
type BootSequenceBDDTestContext struct {
	modules   []ModuleDef
	kernel    *Kernel
	publisher *fakePublisher
	bootErr   error
}

func (ctx *BootSequenceBDDTestContext) reset() {
	ctx.modules = nil
	ctx.kernel = nil
	ctx.publisher = nil
	ctx.bootErr = nil
}

func (ctx *BootSequenceBDDTestContext) aSystemWithAModuleDeclaringService(moduleName, serviceName string) error {
	ctx.modules = append(ctx.modules, ModuleDef{
		Name: moduleName,
		Classes: []Class{
			{
				Name:     "ServiceClass",
				Module:   moduleName,
				Metadata: map[string]string{MetaServiceName: serviceName},
				Provider: func(deps map[string]any) (any, error) {
					return &struct{ name string }{name: serviceName}, nil
				},
			},
		},
	})
	return nil
}

func (ctx *BootSequenceBDDTestContext) moduleExposesResources(moduleName string, count int, basePath string) error {
	endpoints := make([]Endpoint, 0, count)
	for i := 0; i < count; i++ {
		endpoints = append(endpoints, Endpoint{
			Method:  http.MethodGet,
			Path:    fmt.Sprintf("%s-res-%d", moduleName, i),
			Handler: func(w http.ResponseWriter, r *http.Request) {},
		})
	}

	for i := range ctx.modules {
		if ctx.modules[i].Name == moduleName {
			ctx.modules[i].Classes = append(ctx.modules[i].Classes, Class{
				Name:      "ResourceClass",
				Module:    moduleName,
				Metadata:  map[string]string{MetaResourceBase: basePath},
				Endpoints: endpoints,
			})
			return nil
		}
	}

	ctx.modules = append(ctx.modules, ModuleDef{
		Name: moduleName,
		Classes: []Class{
			{
				Name:      "ResourceClass",
				Module:    moduleName,
				Metadata:  map[string]string{MetaResourceBase: basePath},
				Endpoints: endpoints,
			},
		},
	})
	return nil
}

func (ctx *BootSequenceBDDTestContext) theKernelBoots() error {
	sysdef := &StaticSystemDefinition{
		SystemName:   "bdd-system",
		SystemLayers: []Layer{{Name: "main", Modules: ctx.modules}},
	}
	ctx.publisher = newFakePublisher()

	kernel, err := NewKernel(
		WithLogger(&noopLogger{}),
		WithSystemDefinition(sysdef),
		WithPublisher(ctx.publisher),
	)
	if err != nil {
		return err
	}
	ctx.kernel = kernel
	ctx.bootErr = kernel.Boot(context.Background())
	return ctx.bootErr
}

func (ctx *BootSequenceBDDTestContext) theClassSetIsScannedAgain() error {
	// Scanning after boot must not duplicate: the builder de-duplicates on
	// (class, strategy), so a fresh pass over the same input adds nothing.
	builder := NewScanIndexBuilder()
	scanner := NewIntrospectionService(ctx.kernel.Subsystems(), &noopLogger{})
	var classes []Class
	for _, module := range ctx.modules {
		classes = append(classes, module.Classes...)
	}
	scanner.Introspect(classes, builder)
	scanner.Introspect(classes, builder)
	reindexed := builder.Build()
	if reindexed.Len(KindService) != ctx.kernel.Index().Len(KindService) {
		return fmt.Errorf("rescan changed service declaration count: %d vs %d",
			reindexed.Len(KindService), ctx.kernel.Index().Len(KindService))
	}
	return nil
}

func (ctx *BootSequenceBDDTestContext) theServiceIsResolvable(name string) error {
	if _, err := ctx.kernel.Binder().Resolve(name); err != nil {
		return fmt.Errorf("service %q not resolvable: %w", name, err)
	}
	return nil
}

func (ctx *BootSequenceBDDTestContext) resourcesAreMountedUnder(count int, basePath string) error {
	mounted := ctx.publisher.mounts[basePath]
	if len(mounted) != count {
		return fmt.Errorf("expected %d resources under %q, found %d", count, basePath, len(mounted))
	}
	return nil
}

func (ctx *BootSequenceBDDTestContext) theBootIndexHoldsServiceDeclarations(count int) error {
	if got := ctx.kernel.Index().Len(KindService); got != count {
		return fmt.Errorf("expected %d service declarations, found %d", count, got)
	}
	return nil
}

func (ctx *BootSequenceBDDTestContext) theSubsystemContextIsFrozen() error {
	if !ctx.kernel.Subsystems().Frozen() {
		return fmt.Errorf("subsystem context not frozen after boot")
	}
	return nil
}

// noopLogger discards all output; BDD scenarios assert on behavior, not logs.
type noopLogger struct{}

func (l *noopLogger) Info(msg string, args ...any)  {}
func (l *noopLogger) Error(msg string, args ...any) {}
func (l *noopLogger) Warn(msg string, args ...any)  {}
func (l *noopLogger) Debug(msg string, args ...any) {}

// InitializeBootSequenceScenario registers the boot sequence BDD steps.
func InitializeBootSequenceScenario(ctx *godog.ScenarioContext) {
	bddCtx := &BootSequenceBDDTestContext{}

	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		bddCtx.reset()
		return c, nil
	})

	ctx.Step(`^a system with a module "([^"]*)" declaring service "([^"]*)"$`, bddCtx.aSystemWithAModuleDeclaringService)
	ctx.Step(`^module "([^"]*)" exposes (\d+) resources under base path "([^"]*)"$`, bddCtx.moduleExposesResources)
	ctx.Step(`^a system module "([^"]*)" exposes (\d+) resources under base path "([^"]*)"$`, bddCtx.moduleExposesResources)
	ctx.Step(`^the kernel boots$`, bddCtx.theKernelBoots)
	ctx.Step(`^the class set is scanned again into the boot index$`, bddCtx.theClassSetIsScannedAgain)
	ctx.Step(`^the service "([^"]*)" is resolvable$`, bddCtx.theServiceIsResolvable)
	ctx.Step(`^(\d+) resources are mounted under base path "([^"]*)"$`, bddCtx.resourcesAreMountedUnder)
	ctx.Step(`^the boot index holds exactly (\d+) service declaration$`, bddCtx.theBootIndexHoldsServiceDeclarations)
	ctx.Step(`^the subsystem context is frozen$`, bddCtx.theSubsystemContextIsFrozen)
}

// Test runner
func TestBootSequenceBDDFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeBootSequenceScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/boot_sequence.feature"},
			TestingT: t,
			Strict:   true,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
