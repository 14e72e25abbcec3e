package mission

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/brawlspace/brawlspace/internal/achievement"
	"github.com/brawlspace/brawlspace/internal/broadcast"
	"github.com/brawlspace/brawlspace/internal/database"
	"github.com/brawlspace/brawlspace/internal/model"
)

// Engine coordinates mission lifecycle, crew membership and invites. Every
// state change follows the same shape: validate against current state,
// commit the mutation, then run best-effort side effects (notifications,
// system messages, achievement checks) that never fail the caller.
type Engine struct {
	db             *database.DatabaseManager
	achievements   *achievement.Evaluator
	broadcaster    *broadcast.Broadcaster
	notifier       *broadcast.Dispatcher
	joinInProgress bool
	logger         *slog.Logger
}

type Options struct {
	// JoinInProgress lets members join a mission that has already started.
	JoinInProgress bool
}

func NewEngine(
	db *database.DatabaseManager,
	ev *achievement.Evaluator,
	b *broadcast.Broadcaster,
	d *broadcast.Dispatcher,
	opts Options,
) *Engine {
	return &Engine{
		db:             db,
		achievements:   ev,
		broadcaster:    b,
		notifier:       d,
		joinInProgress: opts.JoinInProgress,
		logger:         slog.With("logger", "engine"),
	}
}

func (e *Engine) getMission(id uint) (*model.Mission, error) {
	m := e.db.MissionQuery().Id(id).One()

	if m == nil {
		return nil, fmt.Errorf("mission %d: %w", id, model.ErrNotFound)
	}

	return m, nil
}

// effect runs a side effect after a committed mutation. Failures are logged
// and swallowed: a missed chat line is tolerable, a corrupted mission status
// is not, and the primary result is already durable.
func (e *Engine) effect(name string, f func() error) {
	if err := f(); err != nil {
		e.logger.Error("side effect failed",
			slog.String("effect", name),
			slog.Any("error", err))
	}
}

// systemMessage appends a system entry to the mission log and fans it out to
// live subscribers. Persistence and broadcast are independent: one failing
// does not stop the other.
func (e *Engine) systemMessage(missionID uint, content string) {
	msg := &model.MissionMessage{
		MissionID: missionID,
		Content:   content,
		Type:      model.MessageTypeSystem,
		CreatedAt: time.Now(),
	}

	e.effect("persist system message", func() error {
		return e.db.Create(msg)
	})

	e.broadcaster.Publish(missionID, model.NewSystemEvent(model.ToMessageDTO(msg, nil)))
}

// notifyCrew sends an individual notification to every current crew member.
func (e *Engine) notifyCrew(missionID uint, title, message, typ string) {
	for _, member := range e.db.CrewRoster(missionID) {
		id := member.ID
		e.notifier.Send(&model.Notification{
			RecipientID: &id,
			Title:       title,
			Message:     message,
			Type:        typ,
			Metadata:    map[string]any{"mission_id": missionID},
		})
	}
}

// awardAndAnnounce runs an achievement pass for one brawler and announces
// every fresh unlock in the mission channel.
func (e *Engine) awardAndAnnounce(missionID, brawlerID uint, condType string) {
	b := e.db.BrawlerQuery().Id(brawlerID).One()
	if b == nil {
		return
	}

	current := b.MissionJoinCount
	if condType == "mission_complete" {
		current = b.MissionSuccessCount
	}

	earned, err := e.achievements.CheckAndAward(brawlerID, condType, current)
	if err != nil {
		e.logger.Error("achievement check failed", slog.Any("error", err))

		return
	}

	for _, name := range earned {
		e.systemMessage(missionID, fmt.Sprintf("%s earned achievement: %s", b.DisplayName, name))
	}
}
