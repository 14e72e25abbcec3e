package broadcast

import (
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/brawlspace/brawlspace/internal/model"
)

//nolint:gochecknoglobals
var droppedEvents = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "brawlspace",
	Name:      "broadcast_dropped_total",
	Help:      "The number of fan-out events dropped on full subscriber channels",
}, []string{"kind"})

// subscriber channel capacity; a slow reader loses events instead of
// stalling the publisher.
const chanSize = 16

// Broadcaster is the per-mission fan-out registry. Rooms are created lazily
// on first access and are not reaped: mission lifetimes are short and the
// per-room footprint is a map entry, see DESIGN.md.
type Broadcaster struct {
	mx     sync.Mutex
	rooms  map[uint]*room
	logger *slog.Logger
}

type room struct {
	mx   sync.Mutex
	subs map[string]chan *model.Event
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		rooms:  make(map[uint]*room),
		logger: slog.With("logger", "broadcast"),
	}
}

// the registry lock is held only for lookup-or-create, never while
// publishing.
func (b *Broadcaster) getRoom(missionID uint) *room {
	b.mx.Lock()
	defer b.mx.Unlock()

	r, ok := b.rooms[missionID]
	if !ok {
		r = &room{subs: make(map[string]chan *model.Event)}
		b.rooms[missionID] = r
	}

	return r
}

// Subscribe registers a named receiver on the mission's room. The channel
// only sees events published after this call.
func (b *Broadcaster) Subscribe(missionID uint, name string) <-chan *model.Event {
	r := b.getRoom(missionID)

	ch := make(chan *model.Event, chanSize)

	r.mx.Lock()
	defer r.mx.Unlock()

	if old, ok := r.subs[name]; ok {
		close(old)
	}

	r.subs[name] = ch

	return ch
}

func (b *Broadcaster) Unsubscribe(missionID uint, name string) {
	r := b.getRoom(missionID)

	r.mx.Lock()
	defer r.mx.Unlock()

	if ch, ok := r.subs[name]; ok {
		delete(r.subs, name)
		close(ch)
	}
}

// Publish delivers the event to every current subscriber of the mission. A
// mission with no subscribers drops the event silently; durability of chat
// history is the store's job, not ours.
func (b *Broadcaster) Publish(missionID uint, ev *model.Event) {
	if ev == nil {
		return
	}

	r := b.getRoom(missionID)

	r.mx.Lock()
	defer r.mx.Unlock()

	for name, ch := range r.subs {
		select {
		case ch <- ev:
		default:
			droppedEvents.With(prometheus.Labels{"kind": "mission"}).Inc()
			b.logger.Debug("dropping event for slow subscriber", slog.String("subscriber", name))
		}
	}
}

func (b *Broadcaster) Subscribers(missionID uint) int {
	r := b.getRoom(missionID)

	r.mx.Lock()
	defer r.mx.Unlock()

	return len(r.subs)
}
