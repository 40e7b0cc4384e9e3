// Package events provides in-process pub/sub for appointment lifecycle
// notifications.
package events

import (
	"sync"
	"time"

	"organicare/internal/model"
)

// Type identifies what happened to an appointment.
type Type string

const (
	AppointmentCreated   Type = "appointment.created"
	AppointmentMoved     Type = "appointment.moved"
	AppointmentResized   Type = "appointment.resized"
	AppointmentCompleted Type = "appointment.completed"
	AppointmentDeleted   Type = "appointment.deleted"
)

// Event carries the appointment state after the mutation.
type Event struct {
	Type        Type
	Appointment model.Appointment
	At          time.Time
}

// Handler reacts to an event.
type Handler func(event Event) error

// Bus provides in-process pub/sub for agenda events.
type Bus struct {
	subscribers map[Type][]Handler
	mu          sync.RWMutex
}

// NewBus constructs an empty bus.
func NewBus() *Bus {
	return &Bus{subscribers: make(map[Type][]Handler)}
}

// Subscribe registers a handler for a given event type.
func (b *Bus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// SubscribeAll registers a handler for every appointment event type.
func (b *Bus) SubscribeAll(handler Handler) {
	for _, t := range []Type{AppointmentCreated, AppointmentMoved, AppointmentResized, AppointmentCompleted, AppointmentDeleted} {
		b.Subscribe(t, handler)
	}
}

// Publish notifies subscribers of the event type.
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.At.IsZero() {
		event.At = time.Now()
	}

	for _, handler := range handlers {
		// Handlers run synchronously; caller decides concurrency model.
		_ = handler(event)
	}
}
