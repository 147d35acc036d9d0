// ============================================================================
// Nexus Root - Game Scripting Engine
// ============================================================================
//
// Package:     events
// Description: In-process event bus for player and game events
// Author:      Nexus Root Team
// Created:     2026-03-10
// License:     MIT
// ============================================================================

// Package events provides the pub/sub bus that connects the command
// pipeline to mission tracking, persistence and connected clients.
// Handlers run synchronously in Publish; a failing or panicking handler is
// logged and never reaches the publisher.
package events

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nexusroot/nexus/pkg/core/logging"
)

// Event types
const (
	PlayerCreated          = "player.created"
	PlayerLoggedIn         = "player.logged_in"
	PlayerLoggedOut        = "player.logged_out"
	PlayerLevelUp          = "player.level_up"
	PlayerCreditsChanged   = "player.credits_changed"
	PlayerUpgradedHardware = "player.upgraded_hardware"

	CommandExecuted        = "game.command_executed"
	ScriptExecuted         = "game.script_executed"
	PassiveMiningStarted   = "game.passive_mining_started"
	PassiveMiningCompleted = "game.passive_mining_completed"

	ServerStarted = "system.server_started"
	ServerStopped = "system.server_stopped"
)

// Event is a single published fact
type Event struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"`
	Source    string                 `json:"source,omitempty"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// New creates an event with a fresh ID and timestamp
func New(eventType, source string, data map[string]interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Source:    source,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// String returns the value stored under key, or ""
func (e Event) String(key string) string {
	if v, ok := e.Data[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
		return fmt.Sprint(v)
	}
	return ""
}

// Handler consumes events
type Handler interface {
	Handle(ctx context.Context, e Event) error
}

// HandlerFunc adapts a function to Handler
type HandlerFunc func(ctx context.Context, e Event) error

// Handle calls f
func (f HandlerFunc) Handle(ctx context.Context, e Event) error {
	return f(ctx, e)
}

// Publisher is the side of the bus used by services
type Publisher interface {
	Publish(ctx context.Context, e Event)
}

type subscription struct {
	id      string
	handler Handler
}

// Bus dispatches events to subscribed handlers and watcher channels
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]subscription
	watchers map[string]*watcher
	logger   *logging.Logger
}

type watcher struct {
	prefix string
	ch     chan Event
}

// NewBus creates an empty bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[string][]subscription),
		watchers: make(map[string]*watcher),
		logger:   logging.New("events"),
	}
}

// Subscribe registers h for eventType and returns an id for Unsubscribe.
// The type "*" receives every event.
func (b *Bus) Subscribe(eventType string, h Handler) string {
	id := uuid.NewString()

	b.mu.Lock()
	b.handlers[eventType] = append(b.handlers[eventType], subscription{id: id, handler: h})
	b.mu.Unlock()

	b.logger.Debug("Handler subscribed", "type", eventType, "id", id)
	return id
}

// Unsubscribe removes a handler registered with Subscribe
func (b *Bus) Unsubscribe(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	for eventType, subs := range b.handlers {
		for i, s := range subs {
			if s.id != id {
				continue
			}
			b.handlers[eventType] = append(subs[:i:i], subs[i+1:]...)
			if len(b.handlers[eventType]) == 0 {
				delete(b.handlers, eventType)
			}
			return true
		}
	}
	return false
}

// Watch returns a buffered channel that receives every event whose type
// starts with prefix, and a cancel function that closes it. Events are
// dropped when the channel is full.
func (b *Bus) Watch(prefix string, buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = 16
	}
	id := uuid.NewString()
	w := &watcher{prefix: strings.ToLower(prefix), ch: make(chan Event, buffer)}

	b.mu.Lock()
	b.watchers[id] = w
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.watchers, id)
			b.mu.Unlock()
			close(w.ch)
		})
	}
	return w.ch, cancel
}

// Publish delivers e to every handler of its type and to matching watchers
func (b *Bus) Publish(ctx context.Context, e Event) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	b.mu.RLock()
	subs := make([]subscription, 0, len(b.handlers[e.Type])+len(b.handlers["*"]))
	subs = append(subs, b.handlers[e.Type]...)
	subs = append(subs, b.handlers["*"]...)
	for _, w := range b.watchers {
		if strings.HasPrefix(strings.ToLower(e.Type), w.prefix) {
			select {
			case w.ch <- e:
			default:
				b.logger.Warn("Watcher channel full, dropping event", "type", e.Type)
			}
		}
	}
	b.mu.RUnlock()

	b.logger.Debug("Publishing event", "type", e.Type, "handlers", len(subs))
	for _, s := range subs {
		b.dispatch(ctx, s, e)
	}
}

func (b *Bus) dispatch(ctx context.Context, s subscription, e Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Event handler panicked", "type", e.Type, "handler", s.id, "panic", fmt.Sprint(r))
		}
	}()
	if err := s.handler.Handle(ctx, e); err != nil {
		b.logger.Warn("Event handler failed", "type", e.Type, "handler", s.id, "error", err)
	}
}

// HandlerCount returns the number of handlers for eventType
func (b *Bus) HandlerCount(eventType string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[eventType])
}

// Discard is a Publisher that drops everything
type Discard struct{}

// Publish does nothing
func (Discard) Publish(context.Context, Event) {}
