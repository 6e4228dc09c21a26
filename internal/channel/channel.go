package channel

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/lumenhq/livefeed/internal/dispatch"
)

// Channel is one logical live connection to a dashboard endpoint. It owns
// the connection lifecycle, re-establishes dropped connections after a fixed
// delay, and fans parsed frames out to the subscription table on a single
// dispatch goroutine.
type Channel struct {
	cfg    Config
	logger *slog.Logger
	table  *dispatch.Table

	// dial is swapped for a fake transport in tests.
	dial func(ClientConfig, *slog.Logger) Client

	mu      sync.Mutex
	state   State
	client  Client
	started bool
	closed  bool

	stateFns []func(StateChange)

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a Channel for the given endpoint. The channel starts in
// Connecting only once Open is called.
func New(cfg Config, logger *slog.Logger) *Channel {
	if logger == nil {
		logger = slog.Default()
	}
	cfg.applyDefaults()
	if cfg.Name != "" {
		logger = logger.With("channel", cfg.Name)
	}
	return &Channel{
		cfg:    cfg,
		logger: logger,
		table:  dispatch.NewTable(logger),
		dial:   NewClient,
		state:  StateConnecting,
	}
}

// Open initiates the connection and returns immediately; connection results
// arrive asynchronously via state changes. Reconnection after unexpected
// drops repeats indefinitely, one attempt per configured delay, until Close.
func (c *Channel) Open(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrAlreadyClosed
	}
	if c.started {
		c.mu.Unlock()
		return ErrAlreadyOpen
	}
	c.started = true
	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.mu.Unlock()

	c.wg.Add(1)
	go c.run(runCtx)

	return nil
}

// Close shuts the channel down deliberately: the current connection is torn
// down, no further reconnect attempts occur, and the state is Closed
// permanently. Close is idempotent.
func (c *Channel) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	client := c.client
	cancel := c.cancel
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if client != nil {
		client.Close()
	}

	c.wg.Wait()
	c.setState(StateClosed, nil)
	return nil
}

// Send serializes a message and transmits it. While the channel is not Open
// it returns ErrNotOpen and nothing reaches the wire.
func (c *Channel) Send(v any) error {
	c.mu.Lock()
	client := c.client
	open := c.state == StateOpen && client != nil
	c.mu.Unlock()

	if !open {
		return ErrNotOpen
	}

	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return client.Send(data)
}

// Subscribe registers a handler for one message type. The returned disposer
// removes it; handlers for the same type fire in registration order.
func (c *Channel) Subscribe(msgType string, fn dispatch.Handler) (unsubscribe func()) {
	return c.table.Subscribe(msgType, fn)
}

// OnMessage registers a handler for every well-formed inbound frame.
func (c *Channel) OnMessage(fn dispatch.Handler) (unsubscribe func()) {
	return c.table.Tap(fn)
}

// OnStateChange registers a callback invoked on every state transition,
// including the transport error that caused it. Callbacks run on the
// channel's own goroutine and must not block.
func (c *Channel) OnStateChange(fn func(StateChange)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stateFns = append(c.stateFns, fn)
}

// State returns the current connection state.
func (c *Channel) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Stats returns dispatch counters for this channel.
func (c *Channel) Stats() dispatch.Stats {
	return c.table.Stats()
}

// run owns the connect / dispatch / reconnect cycle.
func (c *Channel) run(ctx context.Context) {
	defer c.wg.Done()

	for {
		c.setState(StateConnecting, nil)

		client := c.dial(c.clientConfig(), c.logger)
		err := client.Connect(ctx)
		if err != nil {
			client.Close()
			if !c.pause(ctx, err) {
				return
			}
			continue
		}

		c.mu.Lock()
		c.client = client
		c.mu.Unlock()
		c.setState(StateOpen, nil)

		err = c.pump(ctx, client)
		client.Close()

		c.mu.Lock()
		c.client = nil
		c.mu.Unlock()

		if !c.pause(ctx, err) {
			return
		}
	}
}

// pump dispatches inbound frames until the connection drops or the channel
// is closed. It returns the transport error that ended the connection.
func (c *Channel) pump(ctx context.Context, client Client) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case err := <-client.Errors():
			c.logger.Warn("connection error", "error", err)
			return err

		case msg, ok := <-client.Messages():
			if !ok {
				return nil
			}
			c.table.Dispatch(msg.Data, msg.ReceivedAt)
		}
	}
}

// pause waits out the fixed reconnect delay. It reports false when the
// channel was closed or the context ended, meaning run should stop.
func (c *Channel) pause(ctx context.Context, cause error) bool {
	select {
	case <-ctx.Done():
		return false
	default:
	}

	c.setState(StateReconnecting, cause)
	c.logger.Info("reconnecting",
		"delay", c.cfg.ReconnectDelay,
		"cause", cause,
	)

	timer := time.NewTimer(c.cfg.ReconnectDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// setState performs a transition and notifies observers. Transitions into
// Closed are terminal.
func (c *Channel) setState(next State, cause error) {
	c.mu.Lock()
	if c.state == next || c.state == StateClosed {
		c.mu.Unlock()
		return
	}
	change := StateChange{From: c.state, To: next, Err: cause}
	c.state = next
	fns := make([]func(StateChange), len(c.stateFns))
	copy(fns, c.stateFns)
	c.mu.Unlock()

	for _, fn := range fns {
		fn(change)
	}
}

func (c *Channel) clientConfig() ClientConfig {
	return ClientConfig{
		URL:              c.cfg.URL,
		Token:            c.cfg.Token,
		HandshakeTimeout: 10 * time.Second,
		PingInterval:     c.cfg.PingInterval,
		PingTimeout:      c.cfg.PingTimeout,
		WriteTimeout:     c.cfg.WriteTimeout,
		BufferSize:       c.cfg.BufferSize,
	}
}
