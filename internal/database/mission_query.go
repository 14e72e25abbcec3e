package database

import (
	"gorm.io/gorm"

	"github.com/brawlspace/brawlspace/internal/model"
)

type MissionQuery struct {
	Query[model.Mission]
	id       uint
	chiefID  uint
	status   string
	name     string
	category string
}

func NewMissionQuery(db *gorm.DB) *MissionQuery {
	return &MissionQuery{
		Query: Query[model.Mission]{
			db:     db,
			limit:  100,
			offset: 0,
			order:  "missions.created_at DESC",
		},
	}
}

func (q *MissionQuery) Order(s string) *MissionQuery {
	q.order = s
	return q
}

func (q *MissionQuery) Limit(n int) *MissionQuery {
	q.limit = n
	return q
}

func (q *MissionQuery) Offset(n int) *MissionQuery {
	q.offset = n
	return q
}

func (q *MissionQuery) Id(id uint) *MissionQuery {
	q.id = id
	return q
}

func (q *MissionQuery) Chief(id uint) *MissionQuery {
	q.chiefID = id
	return q
}

func (q *MissionQuery) Status(s string) *MissionQuery {
	q.status = s
	return q
}

func (q *MissionQuery) NameLike(s string) *MissionQuery {
	q.name = s
	return q
}

func (q *MissionQuery) Category(s string) *MissionQuery {
	q.category = s
	return q
}

func (q *MissionQuery) where() *gorm.DB {
	tx := q.db

	if q.id != 0 {
		tx = tx.Where("missions.id = ?", q.id)
	}

	if q.chiefID != 0 {
		tx = tx.Where("missions.chief_id = ?", q.chiefID)
	}

	if q.status != "" {
		tx = tx.Where("missions.status = ?", q.status)
	}

	if q.name != "" {
		tx = tx.Where("missions.name LIKE ?", "%"+q.name+"%")
	}

	if q.category != "" {
		tx = tx.Where("missions.category = ?", q.category)
	}

	return tx
}

func (q *MissionQuery) Get() []*model.Mission {
	return q.get(q.where().Model(&model.Mission{}))
}

func (q *MissionQuery) One() *model.Mission {
	return q.one(q.where().Model(&model.Mission{}))
}

func (q *MissionQuery) Count() int64 {
	return q.count(q.where().Model(&model.Mission{}))
}

// Delete soft-deletes matching missions, reporting whether any row matched.
func (q *MissionQuery) Delete() error {
	tx := q.where().Delete(&model.Mission{})

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return ErrNoRows
	}

	return nil
}

func (q *MissionQuery) Update(updates map[string]any) error {
	return q.updateOrError(q.where().Model(&model.Mission{}), updates)
}

// UpdateStatus moves a mission to the target status only if it is currently
// in one of the given statuses. The conditional update is the authoritative
// transition guard: a concurrent transition loses and gets no rows affected.
func (q *MissionQuery) UpdateStatus(target string, current ...string) error {
	tx := q.where().Model(&model.Mission{}).Where("missions.status IN ?", current)

	return q.updateOrError(tx, map[string]any{"status": target})
}
