package database

import (
	"gorm.io/gorm"

	"github.com/brawlspace/brawlspace/internal/model"
)

// historyPageSize caps chat history reads.
const historyPageSize = 100

type MessageQuery struct {
	Query[model.MissionMessage]
	missionID uint
	typ       string
}

func NewMessageQuery(db *gorm.DB) *MessageQuery {
	return &MessageQuery{
		Query: Query[model.MissionMessage]{
			db:    db,
			limit: historyPageSize,
			order: "created_at, id",
		},
	}
}

func (q *MessageQuery) Limit(n int) *MessageQuery {
	q.limit = n
	return q
}

func (q *MessageQuery) Mission(id uint) *MessageQuery {
	q.missionID = id
	return q
}

func (q *MessageQuery) Type(s string) *MessageQuery {
	q.typ = s
	return q
}

func (q *MessageQuery) where() *gorm.DB {
	tx := q.db

	if q.missionID != 0 {
		tx = tx.Where("mission_id = ?", q.missionID)
	}

	if q.typ != "" {
		tx = tx.Where("type = ?", q.typ)
	}

	return tx
}

func (q *MessageQuery) Get() []*model.MissionMessage {
	return q.get(q.where().Model(&model.MissionMessage{}))
}

func (q *MessageQuery) Count() int64 {
	return q.count(q.where().Model(&model.MissionMessage{}))
}

type historyRow struct {
	model.MissionMessage
	DisplayName string
	AvatarURL   string
}

// History returns the mission's message log joined with author names, oldest
// first, capped at one page.
func (mm *DatabaseManager) History(missionID uint) []*model.MessageDTO {
	var rows []*historyRow

	err := mm.db.Model(&model.MissionMessage{}).
		Select("mission_messages.*, b.display_name AS display_name, b.avatar_url AS avatar_url").
		Joins("LEFT JOIN brawlers b ON b.id = mission_messages.brawler_id").
		Where("mission_messages.mission_id = ?", missionID).
		Order("mission_messages.created_at, mission_messages.id").
		Limit(historyPageSize).
		Find(&rows).Error

	if err != nil {
		mm.logger.Error("error loading history", "error", err)

		return nil
	}

	res := make([]*model.MessageDTO, len(rows))

	for i, r := range rows {
		res[i] = &model.MessageDTO{
			ID:          r.ID,
			MissionID:   r.MissionID,
			BrawlerID:   r.BrawlerID,
			DisplayName: r.DisplayName,
			AvatarURL:   r.AvatarURL,
			Content:     r.Content,
			Type:        r.Type,
			CreatedAt:   r.CreatedAt,
		}
	}

	return res
}
