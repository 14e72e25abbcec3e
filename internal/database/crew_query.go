package database

import (
	"gorm.io/gorm"

	"github.com/brawlspace/brawlspace/internal/model"
)

type CrewQuery struct {
	Query[model.CrewMembership]
	missionID uint
	brawlerID uint
}

func NewCrewQuery(db *gorm.DB) *CrewQuery {
	return &CrewQuery{
		Query: Query[model.CrewMembership]{
			db:    db,
			limit: 100,
			order: "joined_at",
		},
	}
}

func (q *CrewQuery) Mission(id uint) *CrewQuery {
	q.missionID = id
	return q
}

func (q *CrewQuery) Brawler(id uint) *CrewQuery {
	q.brawlerID = id
	return q
}

func (q *CrewQuery) where() *gorm.DB {
	tx := q.db

	if q.missionID != 0 {
		tx = tx.Where("mission_id = ?", q.missionID)
	}

	if q.brawlerID != 0 {
		tx = tx.Where("brawler_id = ?", q.brawlerID)
	}

	return tx
}

func (q *CrewQuery) Get() []*model.CrewMembership {
	return q.get(q.where().Model(&model.CrewMembership{}))
}

func (q *CrewQuery) Count() int64 {
	return q.count(q.where().Model(&model.CrewMembership{}))
}

func (q *CrewQuery) Exists() bool {
	return q.exists(q.where().Model(&model.CrewMembership{}))
}

// Delete removes matching membership rows and reports how many were removed.
func (q *CrewQuery) Delete() (int64, error) {
	tx := q.where().Delete(&model.CrewMembership{})

	return tx.RowsAffected, tx.Error
}
