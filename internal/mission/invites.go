package mission

import (
	"fmt"
	"time"

	"github.com/brawlspace/brawlspace/internal/model"
)

// Invite creates a pending invite for a brawler. At most one pending invite
// per (mission, member) exists at a time.
func (e *Engine) Invite(missionID, inviterID, targetID uint) (*model.MissionInvite, error) {
	m, err := e.getMission(missionID)
	if err != nil {
		return nil, err
	}

	if m.ChiefID == targetID {
		return nil, model.ErrSelfJoin
	}

	if e.db.IsCrewMember(missionID, targetID) {
		return nil, model.ErrAlreadyJoined
	}

	if e.db.HasPendingInvite(missionID, targetID) {
		return nil, model.ErrAlreadyInvited
	}

	inv := &model.MissionInvite{
		MissionID: missionID,
		BrawlerID: targetID,
		Status:    model.InviteStatusPending,
		CreatedAt: time.Now(),
	}

	if err := e.db.Create(inv); err != nil {
		return nil, err
	}

	e.effect("notify invitee", func() error {
		id := targetID
		e.notifier.Send(&model.Notification{
			RecipientID: &id,
			Title:       "Mission Invite",
			Message:     "You have been invited to mission: " + m.Name,
			Type:        model.NotificationInvite,
			Metadata:    map[string]any{"mission_id": missionID, "invite_id": inv.ID},
		})

		return nil
	})

	if b := e.db.BrawlerQuery().Id(targetID).One(); b != nil {
		e.systemMessage(missionID, b.DisplayName+" was invited to the mission")
	}

	return inv, nil
}

// Accept turns a pending invite into a crew membership. Capacity is
// re-checked at acceptance time, not invite time, so an invite to a
// meanwhile-full mission is cleanly rejected.
func (e *Engine) Accept(inviteID, brawlerID uint) error {
	inv := e.db.InviteQuery().Id(inviteID).One()

	if inv == nil {
		return fmt.Errorf("invite %d: %w", inviteID, model.ErrNotFound)
	}

	if inv.BrawlerID != brawlerID {
		return model.ErrNotAuthorized
	}

	if inv.Status != model.InviteStatusPending {
		return model.ErrInviteNotPending
	}

	m, err := e.getMission(inv.MissionID)
	if err != nil {
		return err
	}

	if err := e.db.JoinCrew(inv.MissionID, brawlerID, m.MaxCrew); err != nil {
		return err
	}

	e.effect("mark invite accepted", func() error {
		return e.db.InviteQuery().Id(inviteID).
			Update(map[string]any{"status": model.InviteStatusAccepted})
	})

	e.awardAndAnnounce(inv.MissionID, brawlerID, "mission_join")

	if b := e.db.BrawlerQuery().Id(brawlerID).One(); b != nil {
		e.systemMessage(inv.MissionID, b.DisplayName+" joined the mission via invite")
	} else {
		e.systemMessage(inv.MissionID, "A new member joined the mission via invite")
	}

	return nil
}

// Decline is an authorization-checked status update, no side effects.
func (e *Engine) Decline(inviteID, brawlerID uint) error {
	inv := e.db.InviteQuery().Id(inviteID).One()

	if inv == nil {
		return fmt.Errorf("invite %d: %w", inviteID, model.ErrNotFound)
	}

	if inv.BrawlerID != brawlerID {
		return model.ErrNotAuthorized
	}

	return e.db.InviteQuery().Id(inviteID).
		Update(map[string]any{"status": model.InviteStatusRejected})
}

// PendingInvites lists the caller's pending invites with mission and chief
// names.
func (e *Engine) PendingInvites(brawlerID uint) []*model.InviteDTO {
	return e.db.PendingInvites(brawlerID)
}
