package broadcast

import (
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/brawlspace/brawlspace/internal/model"
)

// Dispatcher is the single global notification channel. Every connected
// client subscribes once; the recipient filter is applied at the delivery
// edge (the ws handler), not here.
type Dispatcher struct {
	mx     sync.Mutex
	subs   map[string]chan *model.Notification
	logger *slog.Logger
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		subs:   make(map[string]chan *model.Notification),
		logger: slog.With("logger", "notify"),
	}
}

func (d *Dispatcher) Subscribe(name string) <-chan *model.Notification {
	d.mx.Lock()
	defer d.mx.Unlock()

	ch := make(chan *model.Notification, chanSize)

	if old, ok := d.subs[name]; ok {
		close(old)
	}

	d.subs[name] = ch

	return ch
}

func (d *Dispatcher) Unsubscribe(name string) {
	d.mx.Lock()
	defer d.mx.Unlock()

	if ch, ok := d.subs[name]; ok {
		delete(d.subs, name)
		close(ch)
	}
}

// Send delivers the notification to all current subscribers without ever
// blocking on a slow one.
func (d *Dispatcher) Send(n *model.Notification) {
	if n == nil {
		return
	}

	d.mx.Lock()
	defer d.mx.Unlock()

	for name, ch := range d.subs {
		select {
		case ch <- n:
		default:
			droppedEvents.With(prometheus.Labels{"kind": "notification"}).Inc()
			d.logger.Debug("dropping notification for slow subscriber", slog.String("subscriber", name))
		}
	}
}
