package chat

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/natichat/natichat/internal/model/chat"
)

// Log is the append-only in-memory event log. Insertion order is delivery
// order; events are never mutated or removed, and live only as long as the
// process.
type Log struct {
	mu     sync.RWMutex
	events []chat.Event
}

// NewLog bootstraps an empty event log.
func NewLog() *Log {
	return &Log{events: make([]chat.Event, 0, 64)}
}

// Append stamps and stores a single event, returning the stored copy.
func (l *Log) Append(event chat.Event) chat.Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.append(event)
}

// AppendPair stores two events under one lock so no concurrent append can
// land between them. Used for the redacted-message/security-block pair.
func (l *Log) AppendPair(first, second chat.Event) (chat.Event, chat.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.append(first), l.append(second)
}

func (l *Log) append(event chat.Event) chat.Event {
	event.ID = uuid.NewString()
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	l.events = append(l.events, event)
	return event
}

// All returns a snapshot of the full log.
func (l *Log) All() []chat.Event {
	l.mu.RLock()
	defer l.mu.RUnlock()

	copied := make([]chat.Event, len(l.events))
	copy(copied, l.events)
	return copied
}

// Recent returns a snapshot of the last n events.
func (l *Log) Recent(n int) []chat.Event {
	l.mu.RLock()
	defer l.mu.RUnlock()

	start := 0
	if len(l.events) > n {
		start = len(l.events) - n
	}
	copied := make([]chat.Event, len(l.events)-start)
	copy(copied, l.events[start:])
	return copied
}

// Len reports the number of stored events.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.events)
}
