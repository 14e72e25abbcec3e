package wshandler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/gofiber/contrib/websocket"

	"github.com/brawlspace/brawlspace/internal/model"
)

type WebMessage struct {
	Typ          string              `json:"type"`
	Event        *model.Event        `json:"event,omitempty"`
	Notification *model.Notification `json:"notification,omitempty"`
}

type InboundMessage struct {
	Content string `json:"content"`
}

// JSONWsHandler pumps JSON frames to one websocket client. Writes go through
// a bounded channel; a slow client drops frames instead of blocking the
// publisher.
type JSONWsHandler struct {
	log       *slog.Logger
	name      string
	ws        *websocket.Conn
	ch        chan *WebMessage
	onMessage func(content string)
	active    int32
}

func NewHandler(log *slog.Logger, name string, ws *websocket.Conn) *JSONWsHandler {
	return &JSONWsHandler{
		log:    log.With("client", name),
		name:   name,
		ws:     ws,
		ch:     make(chan *WebMessage, 10),
		active: 1,
	}
}

// WithMessageHandler registers a callback for inbound chat frames.
func (w *JSONWsHandler) WithMessageHandler(f func(content string)) *JSONWsHandler {
	w.onMessage = f

	return w
}

func (w *JSONWsHandler) IsActive() bool {
	return w != nil && atomic.LoadInt32(&w.active) == 1
}

func (w *JSONWsHandler) stop() {
	if atomic.CompareAndSwapInt32(&w.active, 1, 0) {
		close(w.ch)
		w.ws.Close()
	}
}

func (w *JSONWsHandler) writer() {
	for item := range w.ch {
		if !w.IsActive() {
			return
		}

		if item == nil {
			continue
		}

		_ = w.ws.WriteJSON(item)
	}
}

func (w *JSONWsHandler) reader() {
	defer w.stop()

	for {
		_, data, err := w.ws.ReadMessage()

		if err != nil {
			w.log.Debug("read done", slog.Any("error", err))

			return
		}

		if w.onMessage == nil {
			continue
		}

		var msg InboundMessage

		if err := json.Unmarshal(data, &msg); err != nil {
			w.log.Warn("bad inbound frame", slog.Any("error", err))

			continue
		}

		w.onMessage(msg.Content)
	}
}

func (w *JSONWsHandler) SendEvent(evt *model.Event) bool {
	if w == nil || !w.IsActive() {
		return false
	}

	select {
	case w.ch <- &WebMessage{Typ: "event", Event: evt}:
	default:
	}

	return true
}

func (w *JSONWsHandler) SendNotification(n *model.Notification) bool {
	if w == nil || !w.IsActive() {
		return false
	}

	select {
	case w.ch <- &WebMessage{Typ: "notification", Notification: n}:
	default:
	}

	return true
}

func (w *JSONWsHandler) closehandler(code int, text string) error {
	w.log.Info(fmt.Sprintf("closed with code %d, msg %s", code, text))
	w.stop()

	return nil
}

func (w *JSONWsHandler) Listen() {
	w.log.Debug("ws start")
	w.ws.SetCloseHandler(w.closehandler)

	go w.writer()
	w.reader()
	w.log.Debug("ws stop")
}
