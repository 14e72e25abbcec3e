package mission

import (
	"fmt"

	"github.com/brawlspace/brawlspace/internal/model"
)

// Join adds a brawler to the mission crew. The store's composite key and the
// transactional capacity check in JoinCrew are the authoritative guards; the
// checks here are fail-fast pre-checks only.
func (e *Engine) Join(missionID, brawlerID uint) error {
	m, err := e.getMission(missionID)
	if err != nil {
		return err
	}

	if m.ChiefID == brawlerID {
		return model.ErrSelfJoin
	}

	if e.db.IsCrewMember(missionID, brawlerID) {
		return model.ErrAlreadyJoined
	}

	if !e.joinable(m) {
		return fmt.Errorf("%w: status %s", model.ErrNotJoinable, m.Status)
	}

	if err := e.db.JoinCrew(missionID, brawlerID, m.MaxCrew); err != nil {
		return err
	}

	e.effect("notify chief", func() error {
		chiefID := m.ChiefID
		e.notifier.Send(&model.Notification{
			RecipientID: &chiefID,
			Title:       "New Crew Member",
			Message:     "Someone joined your mission: " + m.Name,
			Type:        model.NotificationJoinMission,
			Metadata:    map[string]any{"mission_id": missionID, "joiner_id": brawlerID},
		})

		return nil
	})

	e.awardAndAnnounce(missionID, brawlerID, "mission_join")

	if b := e.db.BrawlerQuery().Id(brawlerID).One(); b != nil {
		e.systemMessage(missionID, b.DisplayName+" joined the mission")
	} else {
		e.systemMessage(missionID, "A new member joined the mission")
	}

	return nil
}

// Leave removes the brawler's membership. Allowed regardless of mission
// status, and a no-op if they were not a member.
func (e *Engine) Leave(missionID, brawlerID uint) error {
	removed, err := e.db.LeaveCrew(missionID, brawlerID)
	if err != nil {
		return err
	}

	if !removed {
		return nil
	}

	if b := e.db.BrawlerQuery().Id(brawlerID).One(); b != nil {
		e.systemMessage(missionID, b.DisplayName+" left the mission")
	} else {
		e.systemMessage(missionID, "A member left the mission")
	}

	return nil
}

// Kick is a chief-only removal, with a targeted notification to the kicked
// member on top of the usual departure broadcast.
func (e *Engine) Kick(missionID, requesterID, targetID uint) error {
	m, err := e.getMission(missionID)
	if err != nil {
		return err
	}

	if m.ChiefID != requesterID {
		return model.ErrNotAuthorized
	}

	removed, err := e.db.LeaveCrew(missionID, targetID)
	if err != nil {
		return err
	}

	if !removed {
		return nil
	}

	e.effect("notify kicked member", func() error {
		id := targetID
		e.notifier.Send(&model.Notification{
			RecipientID: &id,
			Title:       "You have been kicked",
			Message:     "You were kicked from mission: " + m.Name,
			Type:        model.NotificationStatusUpdate,
			Metadata:    map[string]any{"mission_id": missionID},
		})

		return nil
	})

	if b := e.db.BrawlerQuery().Id(targetID).One(); b != nil {
		e.systemMessage(missionID, b.DisplayName+" was kicked from the mission")
	} else {
		e.systemMessage(missionID, "A member was kicked from the mission")
	}

	return nil
}

// Roster returns the current crew, join order.
func (e *Engine) Roster(missionID uint) ([]*model.CrewMemberDTO, error) {
	if _, err := e.getMission(missionID); err != nil {
		return nil, err
	}

	crew := e.db.CrewRoster(missionID)
	res := make([]*model.CrewMemberDTO, len(crew))

	for i, b := range crew {
		res[i] = &model.CrewMemberDTO{
			ID:          b.ID,
			DisplayName: b.DisplayName,
			AvatarURL:   b.AvatarURL,
		}
	}

	return res, nil
}

func (e *Engine) joinable(m *model.Mission) bool {
	switch m.Status {
	case model.StatusOpen, model.StatusFailed:
		return true
	case model.StatusInProgress:
		return e.joinInProgress
	default:
		return false
	}
}
