package database

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/brawlspace/brawlspace/internal/model"
)

type AchievementQuery struct {
	Query[model.Achievement]
	id        uint
	condType  string
	threshold int
	hasThresh bool
}

func NewAchievementQuery(db *gorm.DB) *AchievementQuery {
	return &AchievementQuery{
		Query: Query[model.Achievement]{
			db:    db,
			limit: 100,
			order: "condition_value",
		},
	}
}

func (q *AchievementQuery) Id(id uint) *AchievementQuery {
	q.id = id
	return q
}

func (q *AchievementQuery) Type(s string) *AchievementQuery {
	q.condType = s
	return q
}

// Reached keeps only achievements whose threshold is at or below the given
// counter value.
func (q *AchievementQuery) Reached(value int) *AchievementQuery {
	q.threshold = value
	q.hasThresh = true

	return q
}

func (q *AchievementQuery) where() *gorm.DB {
	tx := q.db

	if q.id != 0 {
		tx = tx.Where("id = ?", q.id)
	}

	if q.condType != "" {
		tx = tx.Where("condition_type = ?", q.condType)
	}

	if q.hasThresh {
		tx = tx.Where("condition_value <= ?", q.threshold)
	}

	return tx
}

func (q *AchievementQuery) Get() []*model.Achievement {
	return q.get(q.where().Model(&model.Achievement{}))
}

func (q *AchievementQuery) One() *model.Achievement {
	return q.one(q.where().Model(&model.Achievement{}))
}

func (q *AchievementQuery) Count() int64 {
	return q.count(q.where().Model(&model.Achievement{}))
}

// AwardOnce awards the achievement to the brawler if they do not have it
// yet. The insert-or-ignore on the composite primary key is the only
// concurrency guard, and it is enough: exactly one caller sees true.
func (mm *DatabaseManager) AwardOnce(brawlerID, achievementID uint) (bool, error) {
	res := mm.db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.BrawlerAchievement{
			BrawlerID:     brawlerID,
			AchievementID: achievementID,
			EarnedAt:      time.Now(),
		})

	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return false, nil
		}

		return false, res.Error
	}

	return res.RowsAffected > 0, nil
}

type earnedRow struct {
	model.Achievement
	EarnedAt *time.Time
}

// AchievementsWithEarned lists every achievement, marking the ones the
// brawler has already earned.
func (mm *DatabaseManager) AchievementsWithEarned(brawlerID uint) []*model.AchievementDTO {
	var rows []*earnedRow

	err := mm.db.Model(&model.Achievement{}).
		Select("achievements.*, ba.earned_at AS earned_at").
		Joins("LEFT JOIN brawler_achievements ba ON ba.achievement_id = achievements.id AND ba.brawler_id = ?", brawlerID).
		Order("achievements.condition_type, achievements.condition_value").
		Find(&rows).Error

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		mm.logger.Error("error loading achievements", "error", err)

		return nil
	}

	res := make([]*model.AchievementDTO, len(rows))

	for i, r := range rows {
		res[i] = &model.AchievementDTO{
			ID:             r.ID,
			Name:           r.Name,
			Description:    r.Description,
			IconURL:        r.IconURL,
			ConditionType:  r.ConditionType,
			ConditionValue: r.ConditionValue,
			Earned:         r.EarnedAt != nil,
			EarnedAt:       r.EarnedAt,
		}
	}

	return res
}
