package dispatch

import (
	"log/slog"
	"sync"
	"time"

	"github.com/lumenhq/livefeed/internal/event"
)

// Handler receives one inbound frame. Handlers run synchronously on the
// dispatch goroutine and must not block; anything slow belongs behind a
// buffer or a fire-and-forget goroutine.
type Handler func(event.Message)

// Stats counts dispatch outcomes.
type Stats struct {
	Received    int64
	Dispatched  int64
	ParseErrors int64
	UnknownType int64
}

// entry is one registered handler with a removal token.
type entry struct {
	id int64
	fn Handler
}

// Table maps message types to ordered handler lists. Registration order is
// invocation order. It is safe for concurrent registration, but dispatch
// itself is expected to run on a single goroutine per channel.
type Table struct {
	logger *slog.Logger

	mu       sync.RWMutex
	handlers map[string][]entry
	taps     []entry
	nextID   int64

	stats Stats
}

// NewTable creates an empty subscription table.
func NewTable(logger *slog.Logger) *Table {
	if logger == nil {
		logger = slog.Default()
	}
	return &Table{
		logger:   logger,
		handlers: make(map[string][]entry),
	}
}

// Subscribe registers a handler for one message type and returns a disposer
// that removes it. Handlers for the same type fire in registration order.
func (t *Table) Subscribe(msgType string, fn Handler) (unsubscribe func()) {
	t.mu.Lock()
	t.nextID++
	id := t.nextID
	t.handlers[msgType] = append(t.handlers[msgType], entry{id: id, fn: fn})
	t.mu.Unlock()

	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		list := t.handlers[msgType]
		for i, e := range list {
			if e.id == id {
				t.handlers[msgType] = append(list[:i:i], list[i+1:]...)
				break
			}
		}
		if len(t.handlers[msgType]) == 0 {
			delete(t.handlers, msgType)
		}
	}
}

// Tap registers a handler for every well-formed frame regardless of type.
// Taps fire after the type-specific handlers, in registration order.
func (t *Table) Tap(fn Handler) (unsubscribe func()) {
	t.mu.Lock()
	t.nextID++
	id := t.nextID
	t.taps = append(t.taps, entry{id: id, fn: fn})
	t.mu.Unlock()

	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		for i, e := range t.taps {
			if e.id == id {
				t.taps = append(t.taps[:i:i], t.taps[i+1:]...)
				break
			}
		}
	}
}

// Dispatch parses one raw frame and invokes the registered handlers.
// Malformed frames and frames with no registered handler are logged and
// dropped; neither affects connection state.
func (t *Table) Dispatch(data []byte, receivedAt time.Time) {
	t.mu.Lock()
	t.stats.Received++
	t.mu.Unlock()

	msgType, err := event.ExtractType(data)
	if err != nil {
		t.logger.Warn("dropping malformed frame", "error", err)
		t.mu.Lock()
		t.stats.ParseErrors++
		t.mu.Unlock()
		return
	}

	t.mu.RLock()
	list := t.handlers[msgType]
	handlers := make([]Handler, 0, len(list)+len(t.taps))
	for _, e := range list {
		handlers = append(handlers, e.fn)
	}
	for _, e := range t.taps {
		handlers = append(handlers, e.fn)
	}
	t.mu.RUnlock()

	if len(handlers) == 0 {
		t.logger.Debug("no handler for message type", "type", msgType)
		t.mu.Lock()
		t.stats.UnknownType++
		t.mu.Unlock()
		return
	}

	msg := event.Message{
		Type:       msgType,
		Data:       data,
		ReceivedAt: receivedAt,
	}
	for _, fn := range handlers {
		fn(msg)
	}

	t.mu.Lock()
	t.stats.Dispatched++
	t.mu.Unlock()
}

// Stats returns a snapshot of dispatch counters.
func (t *Table) Stats() Stats {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.stats
}
