package rhizomatic

import (
	"context"
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/google/uuid"
)

// Event is an alias for the CloudEvents event type for convenience.
type Event = cloudevents.Event

// Observer receives boot-phase events from the kernel. The kernel never
// formats or writes monitoring output itself; it emits structured CloudEvents
// and observers forward them to whatever sink the embedding application uses.
type Observer interface {
	// OnEvent is called for each emitted event. Observers should return
	// quickly; errors are logged and do not interrupt the boot sequence.
	OnEvent(ctx context.Context, event cloudevents.Event) error

	// ObserverID returns a unique identifier for this observer, used for
	// registration tracking and debugging.
	ObserverID() string
}

// EventEmitter is the minimal emission surface components hold when they only
// need to publish events. The kernel implements it; the assembly package
// accepts one so build-time summaries reach the same sinks.
type EventEmitter interface {
	Emit(ctx context.Context, event cloudevents.Event) error
}

// Boot-phase event types. Reverse domain notation per the CloudEvents
// convention.
const (
	EventTypeResolutionCompleted = "io.rhizomatic.assembly.resolved"
	EventTypeImageAssembled      = "io.rhizomatic.assembly.image"
	EventTypeScanCompleted       = "io.rhizomatic.scan.completed"
	EventTypeServicesBound       = "io.rhizomatic.services.bound"
	EventTypeEndpointsMounted    = "io.rhizomatic.endpoints.mounted"
	EventTypeEndpointConflict    = "io.rhizomatic.endpoints.conflict"
	EventTypeBootCompleted       = "io.rhizomatic.kernel.booted"
)

// NewBootEvent creates a CloudEvent with the given type, source, and payload.
func NewBootEvent(eventType, source string, data any) cloudevents.Event {
	event := cloudevents.NewEvent()
	event.SetID(newEventID())
	event.SetSource(source)
	event.SetType(eventType)
	event.SetTime(time.Now())
	event.SetSpecVersion(cloudevents.VersionV1)
	if data != nil {
		_ = event.SetData(cloudevents.ApplicationJSON, data)
	}
	return event
}

// newEventID generates a UUIDv7 identifier so event ids are time-ordered,
// falling back to v4 if v7 generation fails.
func newEventID() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return id.String()
}

// FunctionalObserver wraps a function as an Observer for simple sinks.
type FunctionalObserver struct {
	id      string
	handler func(ctx context.Context, event cloudevents.Event) error
}

// NewFunctionalObserver creates an observer that delegates to handler.
func NewFunctionalObserver(id string, handler func(ctx context.Context, event cloudevents.Event) error) Observer {
	return &FunctionalObserver{id: id, handler: handler}
}

// OnEvent implements Observer by calling the handler function.
func (f *FunctionalObserver) OnEvent(ctx context.Context, event cloudevents.Event) error {
	return f.handler(ctx, event)
}

// ObserverID implements Observer by returning the observer id.
func (f *FunctionalObserver) ObserverID() string {
	return f.id
}
