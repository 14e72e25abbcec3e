package model

// Event is what mission subscribers receive over the fan-out channel.
type Event struct {
	Type    string      `json:"type"`
	Message *MessageDTO `json:"message,omitempty"`
	Mission *MissionDTO `json:"mission,omitempty"`
}

func NewChatEvent(msg *MessageDTO) *Event {
	return &Event{Type: MessageTypeChat, Message: msg}
}

func NewSystemEvent(msg *MessageDTO) *Event {
	return &Event{Type: MessageTypeSystem, Message: msg}
}

// Notification is transient, it exists only on the wire. A nil RecipientID
// means broadcast to all connected clients.
type Notification struct {
	RecipientID *uint          `json:"recipient_id,omitempty"`
	Title       string         `json:"title"`
	Message     string         `json:"message"`
	Type        string         `json:"type"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

const (
	NotificationJoinMission  = "join_mission"
	NotificationStatusUpdate = "mission_status_update"
	NotificationInvite       = "mission_invite"
)

func (n *Notification) For(userID uint) bool {
	return n != nil && (n.RecipientID == nil || *n.RecipientID == userID)
}
