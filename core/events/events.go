// Package events fans out change notifications to subscribers keyed by entity type and mentee.
package events

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// DefaultBufferSize is the number of undelivered events a subscriber may hold before it is dropped.
const DefaultBufferSize = 64

type Entity string

const (
	Assignments     Entity = "assignments"
	Todos           Entity = "todos"
	Plans           Entity = "plans"
	Feedback        Entity = "feedback"
	QnA             Entity = "qna"
	StudySessions   Entity = "study_sessions"
	LearningReports Entity = "learning_reports"
	Memos           Entity = "memos"
	Notifications   Entity = "notifications"
)

var AllEntities = []Entity{Assignments, Todos, Plans, Feedback, QnA, StudySessions, LearningReports, Memos, Notifications}

func ParseEntity(s string) (Entity, bool) {
	for _, e := range AllEntities {
		if string(e) == s {
			return e, true
		}
	}
	return "", false
}

type Action string

const (
	Created Action = "created"
	Updated Action = "updated"
	Deleted Action = "deleted"
)

// Event describes one successful mutation.
// MenteeID scopes mentee-owned rows; UserID scopes rows owned by any user (memos, notifications).
type Event struct {
	Entity   Entity    `json:"entity"`
	Action   Action    `json:"action"`
	MenteeID string    `json:"mentee_id,omitempty"`
	UserID   string    `json:"user_id,omitempty"`
	RecordID string    `json:"record_id"`
	At       time.Time `json:"at"`
}

// Publisher is implemented by anything that can broadcast an Event.
type Publisher interface {
	Publish(evt Event)
}

// Filter selects the events a subscriber receives. Zero fields match everything.
type Filter struct {
	MenteeID string
	UserID   string
	Entities []Entity
}

func (f Filter) Match(evt Event) bool {
	if f.MenteeID != "" && f.MenteeID != evt.MenteeID {
		return false
	}
	if f.UserID != "" && f.UserID != evt.UserID {
		return false
	}
	if len(f.Entities) == 0 {
		return true
	}
	for _, e := range f.Entities {
		if e == evt.Entity {
			return true
		}
	}
	return false
}

var (
	publishedEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mentori",
		Name:      "events_published_total",
		Help:      "Number of change events published, by entity.",
	}, []string{"entity"})

	droppedSubscribers = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "mentori",
		Name:      "events_dropped_subscribers_total",
		Help:      "Number of subscribers disconnected because their buffer overflowed.",
	})
)

func init() {
	prometheus.MustRegister(publishedEvents, droppedSubscribers)
}

// Broker is an in-process pub/sub hub.
// Publish never blocks: a subscriber that cannot keep up is disconnected, its channel closed,
// so it must re-subscribe and re-fetch instead of silently missing changes.
type Broker struct {
	mu      sync.Mutex
	subs    map[*Subscription]struct{}
	bufSize int
	closed  bool
}

var _ Publisher = (*Broker)(nil)

func NewBroker(bufSize int) *Broker {
	if bufSize <= 0 {
		bufSize = DefaultBufferSize
	}
	return &Broker{
		subs:    make(map[*Subscription]struct{}),
		bufSize: bufSize,
	}
}

type Subscription struct {
	broker *Broker
	filter Filter
	ch     chan Event
	done   bool // guarded by broker.mu
}

// Events is closed when the subscription ends, either by Close or by overflow.
func (s *Subscription) Events() <-chan Event {
	return s.ch
}

func (s *Subscription) Close() {
	s.broker.mu.Lock()
	defer s.broker.mu.Unlock()
	s.broker.remove(s)
}

func (b *Broker) Subscribe(filter Filter) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := &Subscription{broker: b, filter: filter, ch: make(chan Event, b.bufSize)}
	if b.closed {
		sub.done = true
		close(sub.ch)
		return sub
	}
	b.subs[sub] = struct{}{}
	return sub
}

func (b *Broker) Publish(evt Event) {
	if evt.At.IsZero() {
		evt.At = time.Now().UTC()
	}
	publishedEvents.WithLabelValues(string(evt.Entity)).Inc()

	b.mu.Lock()
	defer b.mu.Unlock()
	for sub := range b.subs {
		if !sub.filter.Match(evt) {
			continue
		}
		select {
		case sub.ch <- evt:
		default:
			b.remove(sub)
			droppedSubscribers.Inc()
		}
	}
}

// Subscribers is the number of live subscriptions.
func (b *Broker) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Close ends every subscription. Later subscriptions are closed immediately.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for sub := range b.subs {
		b.remove(sub)
	}
	b.closed = true
}

// remove must be called with b.mu held.
func (b *Broker) remove(sub *Subscription) {
	if sub.done {
		return
	}
	sub.done = true
	delete(b.subs, sub)
	close(sub.ch)
}

// Discard is a Publisher that drops every event.
var Discard Publisher = discard{}

type discard struct{}

func (discard) Publish(Event) {}
