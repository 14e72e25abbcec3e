package model

import "time"

type MissionDTO struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	MaxCrew     int       `json:"max_crew"`
	Status      string    `json:"status"`
	ChiefID     uint      `json:"chief_id"`
	ChiefName   string    `json:"chief_name"`
	CrewCount   int64     `json:"crew_count"`
	IsMember    bool      `json:"is_member"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CrewMemberDTO struct {
	ID          uint   `json:"id"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

type MessageDTO struct {
	ID          uint      `json:"id"`
	MissionID   uint      `json:"mission_id"`
	BrawlerID   *uint     `json:"brawler_id,omitempty"`
	DisplayName string    `json:"display_name,omitempty"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	Content     string    `json:"content"`
	Type        string    `json:"type"`
	CreatedAt   time.Time `json:"created_at"`
}

type InviteDTO struct {
	ID          uint      `json:"id"`
	MissionID   uint      `json:"mission_id"`
	MissionName string    `json:"mission_name"`
	ChiefName   string    `json:"chief_name"`
	BrawlerID   uint      `json:"brawler_id"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

type AchievementDTO struct {
	ID             uint       `json:"id"`
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	IconURL        string     `json:"icon_url,omitempty"`
	ConditionType  string     `json:"condition_type"`
	ConditionValue int        `json:"condition_value"`
	Earned         bool       `json:"earned"`
	EarnedAt       *time.Time `json:"earned_at,omitempty"`
}

type BrawlerDTO struct {
	ID                  uint   `json:"id"`
	Username            string `json:"username"`
	DisplayName         string `json:"display_name"`
	AvatarURL           string `json:"avatar_url,omitempty"`
	MissionSuccessCount int    `json:"mission_success_count"`
	MissionJoinCount    int    `json:"mission_join_count"`
}

func ToMissionDTO(m *Mission, chiefName string, crewCount int64, isMember bool) *MissionDTO {
	if m == nil {
		return nil
	}

	return &MissionDTO{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Category:    m.Category,
		MaxCrew:     m.MaxCrew,
		Status:      m.Status,
		ChiefID:     m.ChiefID,
		ChiefName:   chiefName,
		CrewCount:   crewCount,
		IsMember:    isMember,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func ToMessageDTO(msg *MissionMessage, author *Brawler) *MessageDTO {
	if msg == nil {
		return nil
	}

	dto := &MessageDTO{
		ID:        msg.ID,
		MissionID: msg.MissionID,
		BrawlerID: msg.BrawlerID,
		Content:   msg.Content,
		Type:      msg.Type,
		CreatedAt: msg.CreatedAt,
	}

	if author != nil {
		dto.DisplayName = author.DisplayName
		dto.AvatarURL = author.AvatarURL
	}

	return dto
}

func ToBrawlerDTO(b *Brawler) *BrawlerDTO {
	if b == nil {
		return nil
	}

	return &BrawlerDTO{
		ID:                  b.ID,
		Username:            b.Username,
		DisplayName:         b.DisplayName,
		AvatarURL:           b.AvatarURL,
		MissionSuccessCount: b.MissionSuccessCount,
		MissionJoinCount:    b.MissionJoinCount,
	}
}
