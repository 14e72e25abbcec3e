package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	StatusOpen       = "open"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

const (
	MinCrew = 2
	MaxCrew = 10
)

const (
	MessageTypeChat   = "chat"
	MessageTypeSystem = "system"
)

const (
	InviteStatusPending  = "pending"
	InviteStatusAccepted = "accepted"
	InviteStatusRejected = "rejected"
)

type Mission struct {
	ID          uint   `gorm:"primarykey"`
	Name        string `gorm:"index"`
	Description string
	Category    string `gorm:"index"`
	MaxCrew     int
	Status      string `gorm:"index"`
	ChiefID     uint   `gorm:"index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (m *Mission) IsOpenOrFailed() bool {
	return m.Status == StatusOpen || m.Status == StatusFailed
}

type CrewMembership struct {
	MissionID uint `gorm:"primarykey;autoIncrement:false"`
	BrawlerID uint `gorm:"primarykey;autoIncrement:false"`
	JoinedAt  time.Time
}

type Brawler struct {
	ID                  uint   `gorm:"primarykey"`
	Username            string `gorm:"uniqueIndex"`
	Password            string
	DisplayName         string
	AvatarURL           string
	MissionSuccessCount int
	MissionJoinCount    int
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

type Achievement struct {
	ID             uint `gorm:"primarykey"`
	Name           string
	Description    string
	IconURL        string
	ConditionType  string `gorm:"index"`
	ConditionValue int
	CreatedAt      time.Time
}

type BrawlerAchievement struct {
	BrawlerID     uint `gorm:"primarykey;autoIncrement:false"`
	AchievementID uint `gorm:"primarykey;autoIncrement:false"`
	EarnedAt      time.Time
}

// MissionMessage is an append-only chat log entry. BrawlerID is nil for
// system-generated messages.
type MissionMessage struct {
	ID        uint  `gorm:"primarykey"`
	MissionID uint  `gorm:"index"`
	BrawlerID *uint `gorm:"index"`
	Content   string
	Type      string
	CreatedAt time.Time
}

type MissionInvite struct {
	ID        uint   `gorm:"primarykey"`
	MissionID uint   `gorm:"index"`
	BrawlerID uint   `gorm:"index"`
	Status    string `gorm:"index"`
	CreatedAt time.Time

	Mission *Mission `gorm:"foreignKey:MissionID"`
}
