package view

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lumenhq/livefeed/internal/api"
	"github.com/lumenhq/livefeed/internal/channel"
	"github.com/lumenhq/livefeed/internal/event"
)

const (
	// historyLimit caps retained messages per room, matching the backend's
	// own history cap.
	historyLimit = 100

	// typingExpiry is how long a typing indicator lives without a
	// typing_stop.
	typingExpiry = 10 * time.Second
)

// ChatEntry is one rendered-ready message in a room's history.
type ChatEntry struct {
	ID        int64
	UserID    string
	Username  string
	Content   string
	Timestamp string
}

// RoomSnapshot is a point-in-time copy of one room's state.
type RoomSnapshot struct {
	RoomID   int64
	Name     string
	Messages []ChatEntry
	Typing   []string // usernames currently typing
	Online   []string // usernames currently present
}

// roomState is the mutable state behind a RoomSnapshot.
type roomState struct {
	name     string
	messages []ChatEntry
	typing   map[string]typingMark // user_id → mark
	online   map[string]string     // user_id → username
}

type typingMark struct {
	username  string
	startedAt time.Time
}

// ChatView owns the chat dashboard state: per-room message history, typing
// indicators, and presence. It is constructed and disposed explicitly by its
// owner; Bind attaches it to a channel and Close detaches it.
type ChatView struct {
	logger *slog.Logger

	mu     sync.Mutex
	rooms  map[int64]*roomState
	userID string // our own identity from connection_established

	ch       *channel.Channel
	disposer []func()

	now func() time.Time // swapped in tests
}

// NewChatView creates an empty chat view.
func NewChatView(logger *slog.Logger) *ChatView {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChatView{
		logger: logger.With("view", "chat"),
		rooms:  make(map[int64]*roomState),
		now:    time.Now,
	}
}

// Seed loads initial REST state fetched before the live channel took over.
func (v *ChatView) Seed(rooms []api.Room, history map[int64][]api.RoomMessage) {
	v.mu.Lock()
	defer v.mu.Unlock()

	for _, r := range rooms {
		room := v.roomLocked(r.ID)
		room.name = r.Name
	}
	for roomID, msgs := range history {
		room := v.roomLocked(roomID)
		for _, m := range msgs {
			room.messages = append(room.messages, ChatEntry{
				ID:        m.ID,
				Username:  m.Username,
				Content:   m.Message,
				Timestamp: m.Timestamp,
			})
		}
		v.trimLocked(room)
	}
}

// Bind subscribes the view's handlers on a channel. Handlers run on the
// channel's dispatch goroutine.
func (v *ChatView) Bind(ch *channel.Channel) {
	v.ch = ch
	v.disposer = append(v.disposer,
		ch.Subscribe(event.TypeConnectionEstablished, v.onConnected),
		ch.Subscribe(event.TypeMessage, v.onMessage),
		ch.Subscribe(event.TypeUserJoined, v.onUserJoined),
		ch.Subscribe(event.TypeUserLeft, v.onUserLeft),
		ch.Subscribe(event.TypeTypingStart, v.onTypingStart),
		ch.Subscribe(event.TypeTypingStop, v.onTypingStop),
	)
}

// Close removes all subscriptions. The channel itself is owned elsewhere.
func (v *ChatView) Close() {
	for _, d := range v.disposer {
		d()
	}
	v.disposer = nil
}

// SendMessage sends a chat message to a room over the live channel.
func (v *ChatView) SendMessage(roomID int64, content string) error {
	if v.ch == nil {
		return channel.ErrNotOpen
	}
	return v.ch.Send(event.Outbound{
		Type:      "send_message",
		MessageID: uuid.NewString(),
		RoomID:    roomID,
		Message:   content,
	})
}

// Snapshot returns a copy of one room's state with expired typing
// indicators pruned.
func (v *ChatView) Snapshot(roomID int64) RoomSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	room, ok := v.rooms[roomID]
	if !ok {
		return RoomSnapshot{RoomID: roomID}
	}

	v.pruneTypingLocked(room)

	snap := RoomSnapshot{
		RoomID:   roomID,
		Name:     room.name,
		Messages: make([]ChatEntry, len(room.messages)),
	}
	copy(snap.Messages, room.messages)
	for _, mark := range room.typing {
		snap.Typing = append(snap.Typing, mark.username)
	}
	for _, username := range room.online {
		snap.Online = append(snap.Online, username)
	}
	return snap
}

// UserID returns our identity as confirmed by the server, or "".
func (v *ChatView) UserID() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.userID
}

func (v *ChatView) onConnected(msg event.Message) {
	var p event.ConnectionEstablished
	if err := msg.Decode(&p); err != nil {
		v.logger.Warn("bad connection_established payload", "error", err)
		return
	}

	v.mu.Lock()
	v.userID = p.UserID
	v.mu.Unlock()

	v.logger.Info("chat connected", "user_id", p.UserID, "username", p.Username)
}

func (v *ChatView) onMessage(msg event.Message) {
	var p event.ChatMessage
	if err := msg.Decode(&p); err != nil {
		v.logger.Warn("bad message payload", "error", err)
		return
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	room := v.roomLocked(p.RoomID)
	room.messages = append(room.messages, ChatEntry{
		ID:        p.Msg.ID,
		UserID:    p.Msg.UserID,
		Username:  p.Msg.Username,
		Content:   p.Msg.Content,
		Timestamp: p.Msg.Timestamp,
	})
	v.trimLocked(room)

	// A message implies the sender stopped typing.
	delete(room.typing, p.Msg.UserID)
}

func (v *ChatView) onUserJoined(msg event.Message) {
	var p event.Presence
	if err := msg.Decode(&p); err != nil {
		v.logger.Warn("bad user_joined payload", "error", err)
		return
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	room := v.roomLocked(p.RoomID)
	room.online[p.UserID] = p.Username
}

func (v *ChatView) onUserLeft(msg event.Message) {
	var p event.Presence
	if err := msg.Decode(&p); err != nil {
		v.logger.Warn("bad user_left payload", "error", err)
		return
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	room := v.roomLocked(p.RoomID)
	delete(room.online, p.UserID)
	delete(room.typing, p.UserID)
}

func (v *ChatView) onTypingStart(msg event.Message) {
	var p event.Typing
	if err := msg.Decode(&p); err != nil {
		v.logger.Warn("bad typing_start payload", "error", err)
		return
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	room := v.roomLocked(p.RoomID)
	room.typing[p.UserID] = typingMark{
		username:  p.Username,
		startedAt: v.now(),
	}
}

func (v *ChatView) onTypingStop(msg event.Message) {
	var p event.Typing
	if err := msg.Decode(&p); err != nil {
		v.logger.Warn("bad typing_stop payload", "error", err)
		return
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	room := v.roomLocked(p.RoomID)
	delete(room.typing, p.UserID)
}

// roomLocked returns the room state, creating it on first sight.
func (v *ChatView) roomLocked(roomID int64) *roomState {
	room, ok := v.rooms[roomID]
	if !ok {
		room = &roomState{
			typing: make(map[string]typingMark),
			online: make(map[string]string),
		}
		v.rooms[roomID] = room
	}
	return room
}

// trimLocked enforces the per-room history cap.
func (v *ChatView) trimLocked(room *roomState) {
	if len(room.messages) > historyLimit {
		room.messages = append([]ChatEntry(nil), room.messages[len(room.messages)-historyLimit:]...)
	}
}

// pruneTypingLocked drops indicators older than the expiry window.
func (v *ChatView) pruneTypingLocked(room *roomState) {
	cutoff := v.now().Add(-typingExpiry)
	for userID, mark := range room.typing {
		if mark.startedAt.Before(cutoff) {
			delete(room.typing, userID)
		}
	}
}
