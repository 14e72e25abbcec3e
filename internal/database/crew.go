package database

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/brawlspace/brawlspace/internal/model"
)

// JoinCrew inserts a membership row for (missionID, brawlerID) and bumps the
// brawler's join counter, all in one transaction. The capacity check runs
// inside the transaction and the composite primary key is the authoritative
// uniqueness guard, so racing joins get ErrMissionFull or ErrAlreadyJoined
// rather than oversubscribing the mission.
func (mm *DatabaseManager) JoinCrew(missionID, brawlerID uint, maxCrew int) error {
	return mm.db.Transaction(func(tx *gorm.DB) error {
		var n int64

		if err := tx.Model(&model.CrewMembership{}).
			Where("mission_id = ?", missionID).
			Count(&n).Error; err != nil {
			return err
		}

		if n >= int64(maxCrew) {
			return model.ErrMissionFull
		}

		m := &model.CrewMembership{
			MissionID: missionID,
			BrawlerID: brawlerID,
			JoinedAt:  time.Now(),
		}

		if err := tx.Create(m).Error; err != nil {
			if isUniqueViolation(err) {
				return model.ErrAlreadyJoined
			}

			return err
		}

		return tx.Model(&model.Brawler{}).
			Where("id = ?", brawlerID).
			UpdateColumn("mission_join_count", gorm.Expr("mission_join_count + 1")).Error
	})
}

// LeaveCrew removes the membership row, reporting whether one existed.
func (mm *DatabaseManager) LeaveCrew(missionID, brawlerID uint) (bool, error) {
	n, err := mm.CrewQuery().Mission(missionID).Brawler(brawlerID).Delete()

	return n > 0, err
}

func (mm *DatabaseManager) IsCrewMember(missionID, brawlerID uint) bool {
	return mm.CrewQuery().Mission(missionID).Brawler(brawlerID).Exists()
}

func (mm *DatabaseManager) CrewCount(missionID uint) int64 {
	return mm.CrewQuery().Mission(missionID).Count()
}

// CrewRoster returns the brawlers currently joined to the mission, in join
// order. The chief is never part of the roster.
func (mm *DatabaseManager) CrewRoster(missionID uint) []*model.Brawler {
	var res []*model.Brawler

	err := mm.db.Model(&model.Brawler{}).
		Joins("JOIN crew_memberships cm ON cm.brawler_id = brawlers.id").
		Where("cm.mission_id = ?", missionID).
		Order("cm.joined_at").
		Find(&res).Error

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		mm.logger.Error("error loading roster", "error", err)
	}

	return res
}

// IncrementSuccessCount is a relative update, counters must never go through
// read-modify-write at the application layer.
func (mm *DatabaseManager) IncrementSuccessCount(brawlerID uint) error {
	return mm.db.Model(&model.Brawler{}).
		Where("id = ?", brawlerID).
		UpdateColumn("mission_success_count", gorm.Expr("mission_success_count + 1")).Error
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
