package telemetry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event is an in-process notification about a validation run.
type Event struct {
	// ID is the unique identifier for this event.
	ID string `json:"id"`

	// Timestamp is when the event occurred.
	Timestamp time.Time `json:"timestamp"`

	// Type is the event type.
	Type string `json:"type"`

	// Source is the config source (file path or "stdin").
	Source string `json:"source"`

	// RunID is the validation run the event belongs to.
	RunID string `json:"run_id,omitempty"`

	// Message is a human-readable event message.
	Message string `json:"message"`

	// Level is the event severity level (info, warning, error).
	Level string `json:"level"`

	// Data contains additional event-specific data.
	Data map[string]any `json:"data,omitempty"`
}

// Event types.
const (
	EventTypeConfigValidated  = "config.validated"
	EventTypeConfigRejected   = "config.rejected"
	EventTypeConfigDeprecated = "config.deprecated"
	EventTypePolicyViolation  = "config.policy_violation"
)

// Event levels.
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// EventSubscriber is a function that handles events.
type EventSubscriber func(event Event)

// EventFilter determines if an event should be processed.
type EventFilter func(event Event) bool

// EventPublisher fans events out to subscribers, synchronously or through a
// buffered channel.
type EventPublisher struct {
	config      EventsConfig
	buffer      chan Event
	subscribers []subscriberEntry
	wg          sync.WaitGroup
	mu          sync.RWMutex
	ctx         context.Context
	cancel      context.CancelFunc
}

type subscriberEntry struct {
	subscriber EventSubscriber
	filter     EventFilter
}

// NewEventPublisher creates a new event publisher with the given configuration.
func NewEventPublisher(cfg EventsConfig) (*EventPublisher, error) {
	if !cfg.Enabled {
		return &EventPublisher{config: cfg}, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	ep := &EventPublisher{
		config: cfg,
		buffer: make(chan Event, cfg.BufferSize),
		ctx:    ctx,
		cancel: cancel,
	}

	if cfg.EnableAsync {
		ep.wg.Add(1)
		go ep.processEvents()
	}

	return ep, nil
}

// Publish publishes an event to all subscribers.
func (ep *EventPublisher) Publish(event Event) error {
	if !ep.config.Enabled {
		return nil
	}

	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	if ep.config.EnableAsync {
		select {
		case ep.buffer <- event:
			return nil
		case <-ep.ctx.Done():
			return fmt.Errorf("event publisher stopped")
		default:
			return fmt.Errorf("event buffer full, event dropped")
		}
	}

	ep.deliverEvent(event)
	return nil
}

// PublishConfigValidated publishes a successful validation.
func (ep *EventPublisher) PublishConfigValidated(runID, source string, duration time.Duration, data map[string]any) error {
	if data == nil {
		data = map[string]any{}
	}
	data["duration"] = duration.Seconds()
	return ep.Publish(Event{
		Type:    EventTypeConfigValidated,
		Source:  source,
		RunID:   runID,
		Message: fmt.Sprintf("Card config %s is valid", source),
		Level:   EventLevelInfo,
		Data:    data,
	})
}

// PublishConfigRejected publishes a failed validation.
func (ep *EventPublisher) PublishConfigRejected(runID, source, kind, field, reason string) error {
	return ep.Publish(Event{
		Type:    EventTypeConfigRejected,
		Source:  source,
		RunID:   runID,
		Message: fmt.Sprintf("Card config %s rejected: %s", source, reason),
		Level:   EventLevelError,
		Data: map[string]any{
			"kind":  kind,
			"field": field,
		},
	})
}

// PublishConfigDeprecated publishes an accepted deprecated field.
func (ep *EventPublisher) PublishConfigDeprecated(runID, source, field, message string) error {
	return ep.Publish(Event{
		Type:    EventTypeConfigDeprecated,
		Source:  source,
		RunID:   runID,
		Message: message,
		Level:   EventLevelWarning,
		Data: map[string]any{
			"field": field,
		},
	})
}

// PublishPolicyViolation publishes a lint policy violation. Info and warning
// severities map to the matching event level; anything else is an error.
func (ep *EventPublisher) PublishPolicyViolation(runID, source, policy, severity, field, message string) error {
	level := EventLevelError
	if severity == EventLevelInfo || severity == EventLevelWarning {
		level = severity
	}
	return ep.Publish(Event{
		Type:    EventTypePolicyViolation,
		Source:  source,
		RunID:   runID,
		Message: message,
		Level:   level,
		Data: map[string]any{
			"policy":   policy,
			"severity": severity,
			"field":    field,
		},
	})
}

// Subscribe adds a new event subscriber. A nil filter accepts every event.
func (ep *EventPublisher) Subscribe(subscriber EventSubscriber, filter EventFilter) {
	ep.mu.Lock()
	defer ep.mu.Unlock()

	ep.subscribers = append(ep.subscribers, subscriberEntry{
		subscriber: subscriber,
		filter:     filter,
	})
}

func (ep *EventPublisher) processEvents() {
	defer ep.wg.Done()

	for {
		select {
		case event := <-ep.buffer:
			ep.deliverEvent(event)
		case <-ep.ctx.Done():
			for {
				select {
				case event := <-ep.buffer:
					ep.deliverEvent(event)
				default:
					return
				}
			}
		}
	}
}

// deliverEvent calls subscribers in subscription order.
func (ep *EventPublisher) deliverEvent(event Event) {
	ep.mu.RLock()
	defer ep.mu.RUnlock()

	for _, entry := range ep.subscribers {
		if entry.filter != nil && !entry.filter(event) {
			continue
		}
		entry.subscriber(event)
	}
}

// Shutdown drains buffered events and stops the publisher.
func (ep *EventPublisher) Shutdown(ctx context.Context) error {
	if !ep.config.Enabled {
		return nil
	}

	ep.cancel()

	done := make(chan struct{})
	go func() {
		ep.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("event publisher shutdown timeout")
	}
}

// FilterByLevel creates a filter that only allows events of a specific level or higher.
func FilterByLevel(minLevel string) EventFilter {
	levels := map[string]int{
		EventLevelInfo:    0,
		EventLevelWarning: 1,
		EventLevelError:   2,
	}
	minLevelValue := levels[minLevel]

	return func(event Event) bool {
		return levels[event.Level] >= minLevelValue
	}
}

// FilterByType creates a filter that only allows events of specific types.
func FilterByType(types ...string) EventFilter {
	typeSet := make(map[string]bool)
	for _, t := range types {
		typeSet[t] = true
	}
	return func(event Event) bool {
		return typeSet[event.Type]
	}
}

// FilterBySource creates a filter that only allows events for one config source.
func FilterBySource(source string) EventFilter {
	return func(event Event) bool {
		return event.Source == source
	}
}
