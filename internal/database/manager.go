package database

import (
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/brawlspace/brawlspace/internal/model"
)

type DatabaseManager struct {
	db     *gorm.DB
	logger *slog.Logger
}

func New(db *gorm.DB) *DatabaseManager {
	m := &DatabaseManager{
		db:     db,
		logger: slog.With("logger", "dbm"),
	}

	return m
}

func (mm *DatabaseManager) Create(s any) error {
	if mm == nil || mm.db == nil {
		return nil
	}

	err := mm.db.Create(s).Error

	if err != nil {
		mm.logger.Error("error create object", slog.Any("error", err))
	}

	return err
}

func (mm *DatabaseManager) Save(s any) error {
	if mm == nil || mm.db == nil {
		return nil
	}

	err := mm.db.Save(s).Error

	if err != nil {
		mm.logger.Error("error saving object", slog.Any("error", err))
	}

	return err
}

func (mm *DatabaseManager) MissionQuery() *MissionQuery {
	return NewMissionQuery(mm.db)
}

func (mm *DatabaseManager) CrewQuery() *CrewQuery {
	return NewCrewQuery(mm.db)
}

func (mm *DatabaseManager) BrawlerQuery() *BrawlerQuery {
	return NewBrawlerQuery(mm.db)
}

func (mm *DatabaseManager) AchievementQuery() *AchievementQuery {
	return NewAchievementQuery(mm.db)
}

func (mm *DatabaseManager) MessageQuery() *MessageQuery {
	return NewMessageQuery(mm.db)
}

func (mm *DatabaseManager) InviteQuery() *InviteQuery {
	return NewInviteQuery(mm.db)
}

func (mm *DatabaseManager) Migrate() error {
	if mm == nil || mm.db == nil {
		return fmt.Errorf("no database")
	}

	if err := mm.db.AutoMigrate(
		&model.Mission{},
		&model.CrewMembership{},
		&model.Brawler{},
		&model.Achievement{},
		&model.BrawlerAchievement{},
		&model.MissionMessage{},
		&model.MissionInvite{},
	); err != nil {
		return err
	}

	return nil
}

// AddDefaults seeds the static achievement reference data on an empty
// database.
func (mm *DatabaseManager) AddDefaults() {
	if mm.AchievementQuery().Count() > 0 {
		return
	}

	defaults := []*model.Achievement{
		{Name: "First Steps", Description: "Join your first mission", ConditionType: "mission_join", ConditionValue: 1},
		{Name: "Crew Regular", Description: "Join 5 missions", ConditionType: "mission_join", ConditionValue: 5},
		{Name: "Joiner of Legend", Description: "Join 25 missions", ConditionType: "mission_join", ConditionValue: 25},
		{Name: "Mission Accomplished", Description: "Complete your first mission", ConditionType: "mission_complete", ConditionValue: 1},
		{Name: "Veteran", Description: "Complete 10 missions", ConditionType: "mission_complete", ConditionValue: 10},
		{Name: "Founder", Description: "Create your first mission", ConditionType: "mission_create", ConditionValue: 1},
	}

	for _, a := range defaults {
		if err := mm.Create(a); err != nil {
			mm.logger.Error("error seeding achievement", slog.Any("error", err))
		}
	}
}
