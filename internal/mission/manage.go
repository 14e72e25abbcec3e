package mission

import (
	"fmt"
	"strings"
	"time"

	"github.com/brawlspace/brawlspace/internal/model"
)

type AddMissionModel struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	MaxCrew     int    `json:"max_crew"`
}

type EditMissionModel struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	MaxCrew     *int    `json:"max_crew"`
}

type ListFilter struct {
	Status   string
	Name     string
	Category string
}

// Create adds a new Open mission owned by the creator, who becomes chief
// and is never counted as crew.
func (e *Engine) Create(chiefID uint, req AddMissionModel) (*model.Mission, error) {
	name := strings.TrimSpace(req.Name)

	if len(name) < 3 {
		return nil, fmt.Errorf("%w: mission name must be at least 3 characters long", model.ErrValidation)
	}

	if req.MaxCrew < model.MinCrew || req.MaxCrew > model.MaxCrew {
		return nil, fmt.Errorf("%w: mission capacity must be between %d and %d",
			model.ErrValidation, model.MinCrew, model.MaxCrew)
	}

	m := &model.Mission{
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		Category:    req.Category,
		MaxCrew:     req.MaxCrew,
		Status:      model.StatusOpen,
		ChiefID:     chiefID,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := e.db.Create(m); err != nil {
		return nil, err
	}

	e.effect("creation achievements", func() error {
		created := e.db.MissionQuery().Chief(chiefID).Count()

		earned, err := e.achievements.CheckAndAward(chiefID, "mission_create", int(created))
		if err != nil {
			return err
		}

		for _, name := range earned {
			id := chiefID
			e.notifier.Send(&model.Notification{
				RecipientID: &id,
				Title:       "Achievement Unlocked",
				Message:     "You earned: " + name,
				Type:        model.NotificationStatusUpdate,
			})
		}

		return nil
	})

	return m, nil
}

// Edit updates name/description/category/capacity. Chief-only, and only
// while the mission is still Open. Capacity can never drop below the
// current crew size.
func (e *Engine) Edit(missionID, chiefID uint, req EditMissionModel) error {
	m, err := e.getMission(missionID)
	if err != nil {
		return err
	}

	if m.ChiefID != chiefID {
		return model.ErrNotAuthorized
	}

	if m.Status != model.StatusOpen {
		return fmt.Errorf("%w: mission is not open", model.ErrInvalidTransition)
	}

	updates := map[string]any{"updated_at": time.Now()}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)

		if len(name) < 3 {
			return fmt.Errorf("%w: mission name must be at least 3 characters long", model.ErrValidation)
		}

		updates["name"] = name
	}

	if req.Description != nil {
		updates["description"] = strings.TrimSpace(*req.Description)
	}

	if req.Category != nil {
		updates["category"] = *req.Category
	}

	if req.MaxCrew != nil {
		if *req.MaxCrew < model.MinCrew || *req.MaxCrew > model.MaxCrew {
			return fmt.Errorf("%w: mission capacity must be between %d and %d",
				model.ErrValidation, model.MinCrew, model.MaxCrew)
		}

		if crew := e.db.CrewCount(missionID); int64(*req.MaxCrew) < crew {
			return fmt.Errorf("%w: cannot reduce capacity below current crew count (%d)",
				model.ErrValidation, crew)
		}

		updates["max_crew"] = *req.MaxCrew
	}

	// the conditional update re-checks owner and status, so a concurrent
	// start or transfer cannot slip an edit through
	err = e.db.MissionQuery().Id(missionID).Chief(chiefID).Status(model.StatusOpen).Update(updates)

	return e.transitionErr(err)
}

// Remove soft-deletes a mission. Chief-only, Open-only; history and
// memberships stay in the store.
func (e *Engine) Remove(missionID, chiefID uint) error {
	m, err := e.getMission(missionID)
	if err != nil {
		return err
	}

	if m.ChiefID != chiefID {
		return model.ErrNotAuthorized
	}

	if m.Status != model.StatusOpen {
		return fmt.Errorf("%w: mission is not open", model.ErrInvalidTransition)
	}

	err = e.db.MissionQuery().Id(missionID).Chief(chiefID).Status(model.StatusOpen).Delete()

	return e.transitionErr(err)
}

// Get returns the mission enriched with the viewer-dependent fields.
func (e *Engine) Get(missionID, viewerID uint) (*model.MissionDTO, error) {
	m, err := e.getMission(missionID)
	if err != nil {
		return nil, err
	}

	return e.toDTO(m, viewerID), nil
}

// List returns filtered missions with crew counts and membership flags for
// the viewer.
func (e *Engine) List(f ListFilter, viewerID uint) []*model.MissionDTO {
	q := e.db.MissionQuery()

	if f.Status != "" {
		q = q.Status(f.Status)
	}

	if f.Name != "" {
		q = q.NameLike(f.Name)
	}

	if f.Category != "" {
		q = q.Category(f.Category)
	}

	missions := q.Get()
	res := make([]*model.MissionDTO, len(missions))

	for i, m := range missions {
		res[i] = e.toDTO(m, viewerID)
	}

	return res
}

func (e *Engine) toDTO(m *model.Mission, viewerID uint) *model.MissionDTO {
	var chiefName string

	if chief := e.db.BrawlerQuery().Id(m.ChiefID).One(); chief != nil {
		chiefName = chief.DisplayName
	}

	return model.ToMissionDTO(m,
		chiefName,
		e.db.CrewCount(m.ID),
		viewerID != 0 && e.db.IsCrewMember(m.ID, viewerID))
}
