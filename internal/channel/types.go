package channel

import (
	"errors"
	"time"
)

// Errors
var (
	ErrNotOpen         = errors.New("channel not open")
	ErrAlreadyClosed   = errors.New("already closed")
	ErrAlreadyOpen     = errors.New("already open")
	ErrStaleConnection = errors.New("connection stale (no pong)")
)

// State is the connection lifecycle state, owned exclusively by the channel.
type State int

const (
	StateConnecting State = iota
	StateOpen
	StateReconnecting
	StateClosed
)

// String returns the lowercase name of the state.
func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateReconnecting:
		return "reconnecting"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// StateChange describes one transition. Err carries the transport error that
// caused it, or nil for deliberate transitions.
type StateChange struct {
	From State
	To   State
	Err  error
}

// RawMessage wraps raw frame bytes with a receive timestamp.
type RawMessage struct {
	Data       []byte    // Raw frame bytes from the socket
	ReceivedAt time.Time // Local timestamp when the read returned
}

// ClientConfig configures a single socket connection.
type ClientConfig struct {
	URL              string        // Resolved ws:// or wss:// endpoint URL
	Token            string        // Bearer token for the handshake (optional)
	HandshakeTimeout time.Duration // Dial handshake timeout
	PingInterval     time.Duration // Keepalive ping cadence; 0 disables the heartbeat
	PingTimeout      time.Duration // Max silence before the connection is considered stale
	WriteTimeout     time.Duration // Write deadline for sends
	BufferSize       int           // Inbound message channel buffer size
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		HandshakeTimeout: 10 * time.Second,
		PingInterval:     0, // the dashboard endpoints carry no liveness probe by default
		PingTimeout:      60 * time.Second,
		WriteTimeout:     5 * time.Second,
		BufferSize:       1000,
	}
}

// Config configures a Channel.
type Config struct {
	Name           string        // Endpoint name for logging ("chat", "trading", ...)
	URL            string        // Resolved ws:// or wss:// endpoint URL
	Token          string        // Bearer token for the handshake (optional)
	ReconnectDelay time.Duration // Fixed wait between reconnect attempts
	PingInterval   time.Duration // Keepalive cadence; 0 disables
	PingTimeout    time.Duration // Stale threshold when the heartbeat is on
	WriteTimeout   time.Duration // Write deadline for sends
	BufferSize     int           // Inbound buffer size per connection
}

// DefaultConfig returns sensible defaults. The reconnect delay is fixed by
// policy: no backoff, no jitter, no retry cap.
func DefaultConfig() Config {
	return Config{
		ReconnectDelay: 3 * time.Second,
		PingInterval:   0,
		PingTimeout:    60 * time.Second,
		WriteTimeout:   5 * time.Second,
		BufferSize:     1000,
	}
}

func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.ReconnectDelay == 0 {
		c.ReconnectDelay = def.ReconnectDelay
	}
	if c.PingTimeout == 0 {
		c.PingTimeout = def.PingTimeout
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = def.WriteTimeout
	}
	if c.BufferSize == 0 {
		c.BufferSize = def.BufferSize
	}
}
