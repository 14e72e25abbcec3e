package mission

import (
	"fmt"
	"strings"
	"time"

	"github.com/brawlspace/brawlspace/internal/model"
)

// SendMessage appends a chat message to the mission log and fans it out.
// The append is the primary operation; only the broadcast is best-effort.
func (e *Engine) SendMessage(missionID, brawlerID uint, content string) (*model.MessageDTO, error) {
	content = strings.TrimSpace(content)

	if content == "" {
		return nil, fmt.Errorf("%w: empty message", model.ErrValidation)
	}

	if _, err := e.getMission(missionID); err != nil {
		return nil, err
	}

	authorID := brawlerID
	msg := &model.MissionMessage{
		MissionID: missionID,
		BrawlerID: &authorID,
		Content:   content,
		Type:      model.MessageTypeChat,
		CreatedAt: time.Now(),
	}

	if err := e.db.Create(msg); err != nil {
		return nil, err
	}

	author := e.db.BrawlerQuery().Id(brawlerID).One()
	dto := model.ToMessageDTO(msg, author)

	e.broadcaster.Publish(missionID, model.NewChatEvent(dto))

	return dto, nil
}

// History returns the mission's message log, oldest first, one page.
func (e *Engine) History(missionID uint) ([]*model.MessageDTO, error) {
	if _, err := e.getMission(missionID); err != nil {
		return nil, err
	}

	return e.db.History(missionID), nil
}
