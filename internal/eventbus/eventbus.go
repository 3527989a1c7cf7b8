package eventbus

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/husd-protocol/settlement-api-service/internal/observability/metrics"
	"github.com/husd-protocol/settlement-api-service/internal/types"
)

type Handler func(ctx context.Context, event types.SettlementEvent) error

// Bus fans settlement lifecycle events out to subscribed handlers. It is explicitly
// constructed and injected into the services layer, never a process-wide singleton.
// Each handler runs in its own goroutine; a failing or panicking handler is logged
// and counted but never affects the other handlers or the publisher.
type Bus struct {
	mu       sync.RWMutex
	handlers map[types.EventType][]namedHandler
	wg       sync.WaitGroup
}

type namedHandler struct {
	name    string
	handler Handler
}

func New() *Bus {
	return &Bus{
		handlers: make(map[types.EventType][]namedHandler),
	}
}

// Subscribe registers a handler for an event type. The name identifies the handler
// in logs and metrics.
func (b *Bus) Subscribe(eventType types.EventType, name string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], namedHandler{name: name, handler: handler})
}

// Publish dispatches the event to every subscribed handler asynchronously and
// returns immediately.
func (b *Bus) Publish(ctx context.Context, event types.SettlementEvent) {
	b.mu.RLock()
	subscribed := b.handlers[event.Type]
	b.mu.RUnlock()

	// Handlers outlive the publishing request, so they must not die with its
	// context. Detach cancellation but keep the trace and logger values.
	ctx = context.WithoutCancel(ctx)

	for _, nh := range subscribed {
		nh := nh
		b.wg.Add(1)
		go func() {
			defer b.wg.Done()
			defer func() {
				if r := recover(); r != nil {
					log.Ctx(ctx).Error().
						Str("handler", nh.name).
						Str("eventType", event.Type.ToString()).
						Msg(fmt.Sprintf("event handler panicked: %v", r))
					metrics.RecordEventHandlerFailure(nh.name, event.Type.ToString())
				}
			}()
			if err := nh.handler(ctx, event); err != nil {
				log.Ctx(ctx).Error().Err(err).
					Str("handler", nh.name).
					Str("eventType", event.Type.ToString()).
					Msg("event handler failed")
				metrics.RecordEventHandlerFailure(nh.name, event.Type.ToString())
			}
		}()
	}
}

// Wait blocks until all in-flight handlers have returned. Used on shutdown and in tests.
func (b *Bus) Wait() {
	b.wg.Wait()
}
