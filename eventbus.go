package attrpool

import "reflect"

// MaxEventTypes defines the maximum number of unique event types that can be
// registered in the EventBus. This value is fixed at 256.
const MaxEventTypes = 256

// Created is published after an object is allocated.
type Created struct {
	Handle Handle
	Slot   int
}

// Freed is published after an object is released. Handle is no longer live.
type Freed struct {
	Handle Handle
	Slot   int
}

// Relocated is published when freeing another object moved a live object
// from slot From to slot To. Collaborators that index objects by slot
// (spatial indexes, draw lists) follow the move with it.
type Relocated struct {
	Handle Handle
	From   int
	To     int
}

// Cleared is published after Pool.Clear released Count objects.
type Cleared struct {
	Count int
}

// Restored is published after a snapshot was loaded into the pool.
type Restored struct {
	Count int
}

// EventBus delivers pool events synchronously to typed handlers. Handlers
// run inside the pool call that caused the event and must not create or
// free objects of the same pool.
type EventBus struct {
	eventTypeMap    map[reflect.Type]uint8
	handlers        [MaxEventTypes][]interface{}
	nextEventTypeID uint8
}

// Subscribe registers a handler function to be called when an event of type `T`
// is published. Handlers are called in subscription order.
func Subscribe[T any](bus *EventBus, handler func(T)) {
	t := reflect.TypeFor[T]()
	id := bus.getEventTypeID(t)
	if cap(bus.handlers[id]) == 0 {
		bus.handlers[id] = make([]interface{}, 0, 4)
	}
	bus.handlers[id] = append(bus.handlers[id], handler)
}

// Publish broadcasts an event of type `T` to all registered handlers for that
// type. It does not allocate.
func Publish[T any](bus *EventBus, event T) {
	t := reflect.TypeFor[T]()
	if id, ok := bus.eventTypeMap[t]; ok {
		hs := bus.handlers[id]
		for _, h := range hs {
			h.(func(T))(event)
		}
	}
}

// getEventTypeID retrieves or assigns an ID for the event type.
func (bus *EventBus) getEventTypeID(t reflect.Type) uint8 {
	if bus.eventTypeMap == nil {
		bus.eventTypeMap = make(map[reflect.Type]uint8)
	}
	if id, ok := bus.eventTypeMap[t]; ok {
		return id
	}
	if len(bus.eventTypeMap) >= MaxEventTypes {
		panic("attrpool: too many event types")
	}
	id := bus.nextEventTypeID
	bus.nextEventTypeID++
	bus.eventTypeMap[t] = id
	return id
}
