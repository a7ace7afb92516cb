package notification

import (
	"context"
	"fmt"
	"strings"

	"spareparts-be/internal/logger"
	"spareparts-be/internal/metrics"

	"go.uber.org/zap"
)

// Handler receives every event published on a Dispatcher.
type Handler[T any] interface {
	Name() string
	Handle(ctx context.Context, payload T, event string) error
}

// Dispatcher fans an event out to a fixed list of handlers. One failing
// handler never stops the rest.
type Dispatcher[T any] struct {
	handlers []Handler[T]
	counters *metrics.CounterSet
}

func NewDispatcher[T any](handlers ...Handler[T]) *Dispatcher[T] {
	return &Dispatcher[T]{
		handlers: append([]Handler[T](nil), handlers...),
		counters: metrics.NewCounterSet(),
	}
}

func (d *Dispatcher[T]) Notify(ctx context.Context, payload T, event string) {
	event = strings.ToUpper(strings.TrimSpace(event))
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "notification"),
		zap.String("event", event),
	)

	for _, h := range d.handlers {
		if err := d.call(ctx, h, payload, event); err != nil {
			d.counters.Inc(h.Name() + ".failed")
			log.Error("notification handler failed",
				zap.String("handler", h.Name()),
				zap.Error(err),
			)
			continue
		}
		d.counters.Inc(h.Name() + ".delivered")
	}

	log.Debug("handlers notified", zap.Int("count", len(d.handlers)))
}

func (d *Dispatcher[T]) call(ctx context.Context, h Handler[T], payload T, event string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return h.Handle(ctx, payload, event)
}

// Names lists handlers in registration order.
func (d *Dispatcher[T]) Names() []string {
	names := make([]string, 0, len(d.handlers))
	for _, h := range d.handlers {
		names = append(names, h.Name())
	}
	return names
}

// Stats returns delivered/failed counts keyed "<handler>.delivered" and "<handler>.failed".
func (d *Dispatcher[T]) Stats() map[string]uint64 {
	return d.counters.Snapshot()
}
