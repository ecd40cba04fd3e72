// Package messaging defines the notification contract between the services
// and the event fan-out. Publishing is best effort: a failed notification is
// logged by the caller and never fails the request that triggered it.
package messaging

import (
	"context"
	"sync"
	"time"
)

// Event types carried on the notification topics.
const (
	EventOrderCreated       = "ORDER_CREATED"
	EventOrderStatusUpdated = "ORDER_STATUS_UPDATED"
	EventTenderPublished    = "TENDER_PUBLISHED"
	EventWorkOrderCreated   = "WORK_ORDER_CREATED"
	EventWorkOrderUpdated   = "WORK_ORDER_UPDATED"
)

// Event is the envelope published to a topic.
type Event struct {
	EventType string                 `json:"eventType"`
	Timestamp string                 `json:"timestamp"`
	Payload   map[string]interface{} `json:"payload"`
}

// NewEvent builds an envelope stamped with the current UTC time.
func NewEvent(eventType string, payload map[string]interface{}) Event {
	return Event{
		EventType: eventType,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Payload:   payload,
	}
}

// Publisher sends events to a notification topic. topicARN may be empty, in
// which case the implementation drops the event.
type Publisher interface {
	Publish(ctx context.Context, topicARN, subject string, event Event) (string, error)
}

// MockPublisher records published events for tests.
type MockPublisher struct {
	mu     sync.Mutex
	err    error
	Events []PublishedEvent
}

// PublishedEvent is one captured Publish call.
type PublishedEvent struct {
	TopicARN string
	Subject  string
	Event    Event
}

// NewMockPublisher creates an empty capture publisher.
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

// SetError forces subsequent Publish calls to fail with err.
func (m *MockPublisher) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *MockPublisher) Publish(ctx context.Context, topicARN, subject string, event Event) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	m.Events = append(m.Events, PublishedEvent{TopicARN: topicARN, Subject: subject, Event: event})
	return "mock-message-id", nil
}

// EventTypes reports the captured event types in publish order.
func (m *MockPublisher) EventTypes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]string, 0, len(m.Events))
	for _, e := range m.Events {
		types = append(types, e.Event.EventType)
	}
	return types
}
