package database

import (
	"gorm.io/gorm"

	"github.com/brawlspace/brawlspace/internal/model"
)

type BrawlerQuery struct {
	Query[model.Brawler]
	id       uint
	username string
}

func NewBrawlerQuery(db *gorm.DB) *BrawlerQuery {
	return &BrawlerQuery{
		Query: Query[model.Brawler]{
			db:    db,
			limit: 100,
			order: "username",
		},
	}
}

func (q *BrawlerQuery) Id(id uint) *BrawlerQuery {
	q.id = id
	return q
}

func (q *BrawlerQuery) Username(name string) *BrawlerQuery {
	q.username = name
	return q
}

func (q *BrawlerQuery) where() *gorm.DB {
	tx := q.db

	if q.id != 0 {
		tx = tx.Where("id = ?", q.id)
	}

	if q.username != "" {
		tx = tx.Where("username = ?", q.username)
	}

	return tx
}

func (q *BrawlerQuery) Get() []*model.Brawler {
	return q.get(q.where().Model(&model.Brawler{}))
}

func (q *BrawlerQuery) One() *model.Brawler {
	return q.one(q.where().Model(&model.Brawler{}))
}

func (q *BrawlerQuery) Update(updates map[string]any) error {
	return q.updateOrError(q.where().Model(&model.Brawler{}), updates)
}
