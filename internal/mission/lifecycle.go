package mission

import (
	"errors"
	"fmt"

	"github.com/brawlspace/brawlspace/internal/database"
	"github.com/brawlspace/brawlspace/internal/model"
)

// Start moves a mission from Open or Failed to InProgress. Failed missions
// can be restarted. Requires a non-empty crew with at least one free slot
// left.
func (e *Engine) Start(missionID, requesterID uint) error {
	m, err := e.getMission(missionID)
	if err != nil {
		return err
	}

	if m.ChiefID != requesterID {
		return model.ErrNotAuthorized
	}

	if !m.IsOpenOrFailed() {
		return fmt.Errorf("%w: cannot start from %s", model.ErrInvalidTransition, m.Status)
	}

	crew := e.db.CrewCount(missionID)

	if crew == 0 {
		return fmt.Errorf("%w: no crew", model.ErrInvalidTransition)
	}

	if crew >= int64(m.MaxCrew) {
		return fmt.Errorf("%w: crew is full", model.ErrInvalidTransition)
	}

	if err := e.db.MissionQuery().Id(missionID).
		UpdateStatus(model.StatusInProgress, model.StatusOpen, model.StatusFailed); err != nil {
		return e.transitionErr(err)
	}

	e.effect("notify crew", func() error {
		e.notifyCrew(missionID, "Mission Started",
			fmt.Sprintf("Mission '%s' is now in progress!", m.Name),
			model.NotificationStatusUpdate)

		return nil
	})

	e.systemMessage(missionID, "Mission started: "+m.Name)

	return nil
}

// Complete finishes an InProgress mission and runs the achievement pass for
// the chief and every crew member. The crew roster is snapshotted before the
// status flips so nobody who leaves mid-flight misses their counter bump.
func (e *Engine) Complete(missionID, requesterID uint) error {
	m, err := e.getMission(missionID)
	if err != nil {
		return err
	}

	if m.ChiefID != requesterID {
		return model.ErrNotAuthorized
	}

	if m.Status != model.StatusInProgress {
		return fmt.Errorf("%w: cannot complete from %s", model.ErrInvalidTransition, m.Status)
	}

	crew := e.db.CrewRoster(missionID)

	if err := e.db.MissionQuery().Id(missionID).
		UpdateStatus(model.StatusCompleted, model.StatusInProgress); err != nil {
		return e.transitionErr(err)
	}

	e.effect("notify crew", func() error {
		e.notifyCrew(missionID, "Mission Completed",
			fmt.Sprintf("Mission '%s' has been completed!", m.Name),
			model.NotificationStatusUpdate)

		return nil
	})

	e.systemMessage(missionID, "Mission completed: "+m.Name)

	for _, id := range append([]uint{m.ChiefID}, memberIDs(crew)...) {
		brawlerID := id

		e.effect("success counter", func() error {
			return e.db.IncrementSuccessCount(brawlerID)
		})

		e.awardAndAnnounce(missionID, brawlerID, "mission_complete")
	}

	return nil
}

// Fail marks an InProgress mission as failed. No achievement pass.
func (e *Engine) Fail(missionID, requesterID uint) error {
	m, err := e.getMission(missionID)
	if err != nil {
		return err
	}

	if m.ChiefID != requesterID {
		return model.ErrNotAuthorized
	}

	if m.Status != model.StatusInProgress {
		return fmt.Errorf("%w: cannot fail from %s", model.ErrInvalidTransition, m.Status)
	}

	if err := e.db.MissionQuery().Id(missionID).
		UpdateStatus(model.StatusFailed, model.StatusInProgress); err != nil {
		return e.transitionErr(err)
	}

	e.effect("notify crew", func() error {
		e.notifyCrew(missionID, "Mission Failed",
			fmt.Sprintf("Mission '%s' has failed.", m.Name),
			model.NotificationStatusUpdate)

		return nil
	})

	e.systemMessage(missionID, "Mission failed: "+m.Name)

	return nil
}

// transitionErr maps a zero-rows conditional update to InvalidTransition: a
// concurrent transition won the race and the precondition no longer holds.
// Anything else is a real store failure and propagates as-is.
func (e *Engine) transitionErr(err error) error {
	if errors.Is(err, database.ErrNoRows) {
		return fmt.Errorf("%w: mission state changed concurrently", model.ErrInvalidTransition)
	}

	return err
}

func memberIDs(crew []*model.Brawler) []uint {
	res := make([]uint, len(crew))

	for i, b := range crew {
		res[i] = b.ID
	}

	return res
}
