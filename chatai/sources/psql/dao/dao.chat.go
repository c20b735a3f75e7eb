package dao

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"chatai/chatai/sources/psql/models"
	"chatai/chatai/types"
)

// ErrSessionNotFound covers both missing sessions and sessions owned by
// another user, so ownership cannot be probed.
var ErrSessionNotFound = errors.New("session not found")

type ChatMessageDAO struct {
	DB *gorm.DB
}

func NewChatMessageDAO(db *gorm.DB) *ChatMessageDAO {
	return &ChatMessageDAO{DB: db}
}

func (dao *ChatMessageDAO) CreateSessionID() string {
	return uuid.New().String()
}

func (dao *ChatMessageDAO) SaveMessage(ctx context.Context, sessionID string, userID int, role, content string) (*models.ChatMessage, error) {
	msg := models.ChatMessage{
		ID:        uuid.New(),
		SessionID: sessionID,
		UserID:    userID,
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
	if err := dao.DB.WithContext(ctx).Create(&msg).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

// HistoryBySession only ever returns the caller's own rows; an unknown
// or foreign session comes back as ErrSessionNotFound.
func (dao *ChatMessageDAO) HistoryBySession(ctx context.Context, userID int, sessionID string) ([]models.ChatMessage, error) {
	var msgs []models.ChatMessage
	err := dao.DB.WithContext(ctx).
		Where("session_id = ? AND user_id = ?", sessionID, userID).
		Order("timestamp ASC").
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	if len(msgs) == 0 {
		return nil, ErrSessionNotFound
	}
	return msgs, nil
}

func (dao *ChatMessageDAO) ListSessions(ctx context.Context, userID int) ([]types.ChatSessionSummary, error) {
	var msgs []models.ChatMessage
	err := dao.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp ASC").
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}

	// Last message per session, newest session first.
	last := make(map[string]models.ChatMessage)
	var order []string
	for _, m := range msgs {
		if _, seen := last[m.SessionID]; !seen {
			order = append(order, m.SessionID)
		}
		last[m.SessionID] = m
	}

	summaries := make([]types.ChatSessionSummary, 0, len(order))
	for _, sid := range order {
		m := last[sid]
		summaries = append(summaries, types.ChatSessionSummary{
			SessionID:       sid,
			LastMessage:     m.Content,
			LastMessageRole: m.Role,
			LastActivity:    m.Timestamp.Format(time.RFC3339),
		})
	}
	for i, j := 0, len(summaries)-1; i < j; i, j = i+1, j-1 {
		summaries[i], summaries[j] = summaries[j], summaries[i]
	}
	return summaries, nil
}

func (dao *ChatMessageDAO) DeleteSession(ctx context.Context, userID int, sessionID string) error {
	result := dao.DB.WithContext(ctx).
		Where("session_id = ? AND user_id = ?", sessionID, userID).
		Delete(&models.ChatMessage{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSessionNotFound
	}
	return nil
}
