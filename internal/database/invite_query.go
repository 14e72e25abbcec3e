package database

import (
	"errors"

	"gorm.io/gorm"

	"github.com/brawlspace/brawlspace/internal/model"
)

type InviteQuery struct {
	Query[model.MissionInvite]
	id        uint
	missionID uint
	brawlerID uint
	status    string
}

func NewInviteQuery(db *gorm.DB) *InviteQuery {
	return &InviteQuery{
		Query: Query[model.MissionInvite]{
			db:    db,
			limit: 100,
			order: "created_at",
		},
	}
}

func (q *InviteQuery) Id(id uint) *InviteQuery {
	q.id = id
	return q
}

func (q *InviteQuery) Mission(id uint) *InviteQuery {
	q.missionID = id
	return q
}

func (q *InviteQuery) Brawler(id uint) *InviteQuery {
	q.brawlerID = id
	return q
}

func (q *InviteQuery) Status(s string) *InviteQuery {
	q.status = s
	return q
}

func (q *InviteQuery) where() *gorm.DB {
	tx := q.db

	if q.id != 0 {
		tx = tx.Where("mission_invites.id = ?", q.id)
	}

	if q.missionID != 0 {
		tx = tx.Where("mission_invites.mission_id = ?", q.missionID)
	}

	if q.brawlerID != 0 {
		tx = tx.Where("mission_invites.brawler_id = ?", q.brawlerID)
	}

	if q.status != "" {
		tx = tx.Where("mission_invites.status = ?", q.status)
	}

	return tx
}

func (q *InviteQuery) Get() []*model.MissionInvite {
	return q.get(q.where().Model(&model.MissionInvite{}))
}

func (q *InviteQuery) One() *model.MissionInvite {
	return q.one(q.where().Model(&model.MissionInvite{}))
}

func (q *InviteQuery) Exists() bool {
	return q.exists(q.where().Model(&model.MissionInvite{}))
}

func (q *InviteQuery) Update(updates map[string]any) error {
	return q.updateOrError(q.where().Model(&model.MissionInvite{}), updates)
}

func (mm *DatabaseManager) HasPendingInvite(missionID, brawlerID uint) bool {
	return mm.InviteQuery().
		Mission(missionID).
		Brawler(brawlerID).
		Status(model.InviteStatusPending).
		Exists()
}

type inviteRow struct {
	model.MissionInvite
	MissionName string
	ChiefName   string
}

// PendingInvites lists the brawler's pending invites with mission and chief
// names joined in.
func (mm *DatabaseManager) PendingInvites(brawlerID uint) []*model.InviteDTO {
	var rows []*inviteRow

	err := mm.db.Model(&model.MissionInvite{}).
		Select("mission_invites.*, m.name AS mission_name, b.display_name AS chief_name").
		Joins("JOIN missions m ON m.id = mission_invites.mission_id").
		Joins("LEFT JOIN brawlers b ON b.id = m.chief_id").
		Where("mission_invites.brawler_id = ? AND mission_invites.status = ?", brawlerID, model.InviteStatusPending).
		Order("mission_invites.created_at").
		Find(&rows).Error

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		mm.logger.Error("error loading invites", "error", err)

		return nil
	}

	res := make([]*model.InviteDTO, len(rows))

	for i, r := range rows {
		res[i] = &model.InviteDTO{
			ID:          r.ID,
			MissionID:   r.MissionID,
			MissionName: r.MissionName,
			ChiefName:   r.ChiefName,
			BrawlerID:   r.BrawlerID,
			Status:      r.Status,
			CreatedAt:   r.CreatedAt,
		}
	}

	return res
}
