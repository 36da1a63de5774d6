package event

import (
	"reflect"
	"sync"
)

// Bus is a double-buffered event bus. Events emitted during tick N are
// delivered when the next tick swaps and dispatches, so handlers never see an
// event in the tick that produced it.
type Bus struct {
	mu     sync.Mutex // guards subscription only; emit and dispatch run on the loop goroutine
	topics map[reflect.Type]*topic
	order  []*topic // first subscription fixes a type's dispatch position
}

// topic is the buffered traffic and subscriber list of one event type.
type topic struct {
	handlers []reflect.Value
	ready    []any // delivered by the next DispatchAll
	incoming []any // filled by Emit, promoted by SwapBuffers
}

func NewBus() *Bus {
	return &Bus{topics: make(map[reflect.Type]*topic)}
}

func (b *Bus) topicFor(t reflect.Type) *topic {
	tp, ok := b.topics[t]
	if !ok {
		tp = &topic{}
		b.topics[t] = tp
	}
	return tp
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Emit buffers an event for delivery on the next tick.
func Emit[T any](b *Bus, event T) {
	tp := b.topicFor(typeOf[T]())
	tp.incoming = append(tp.incoming, event)
}

// Subscribe registers fn for every event of type T.
func Subscribe[T any](b *Bus, fn func(T)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	tp := b.topicFor(typeOf[T]())
	if len(tp.handlers) == 0 {
		b.order = append(b.order, tp)
	}
	tp.handlers = append(tp.handlers, reflect.ValueOf(fn))
}

// SwapBuffers promotes the events emitted since the last swap.
func (b *Bus) SwapBuffers() {
	for _, tp := range b.topics {
		tp.ready, tp.incoming = tp.incoming, tp.ready[:0]
	}
}

// DispatchAll delivers promoted events type by type in subscription order.
// Types nobody subscribed to are discarded.
func (b *Bus) DispatchAll() {
	for _, tp := range b.order {
		for _, ev := range tp.ready {
			arg := []reflect.Value{reflect.ValueOf(ev)}
			for _, h := range tp.handlers {
				h.Call(arg)
			}
		}
	}
	for _, tp := range b.topics {
		tp.ready = tp.ready[:0]
	}
}

// Reset drops every buffered event. Subscriptions survive.
func (b *Bus) Reset() {
	for _, tp := range b.topics {
		tp.ready = tp.ready[:0]
		tp.incoming = tp.incoming[:0]
	}
}

// Pending counts events emitted since the last swap.
func (b *Bus) Pending() int {
	n := 0
	for _, tp := range b.topics {
		n += len(tp.incoming)
	}
	return n
}
