package controllers

import (
	"context"
	"fmt"
	"time"

	"chatai/chatai/apperrors"
	"chatai/chatai/sources/psql/dao"
	"chatai/chatai/sources/psql/models"
	"chatai/chatai/types"
)

// fakeUserStore mimics the DAO including the unique-email behavior.
type fakeUserStore struct {
	nextID int
	users  map[string]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{nextID: 1, users: map[string]*models.User{}}
}

func (s *fakeUserStore) CreateUser(_ context.Context, username, email, passwordHash string) (*models.User, error) {
	if _, exists := s.users[email]; exists {
		return nil, apperrors.New(apperrors.Conflict, "email already registered")
	}
	user := &models.User{
		ID:           s.nextID,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	s.nextID++
	s.users[email] = user
	return user, nil
}

func (s *fakeUserStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	return s.users[email], nil
}

func (s *fakeUserStore) GetUserByID(_ context.Context, id int) (*models.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

type fakeMessageStore struct {
	nextSession int
	msgs        []models.ChatMessage
}

func (s *fakeMessageStore) CreateSessionID() string {
	s.nextSession++
	return fmt.Sprintf("session-%d", s.nextSession)
}

func (s *fakeMessageStore) SaveMessage(_ context.Context, sessionID string, userID int, role, content string) (*models.ChatMessage, error) {
	msg := models.ChatMessage{
		SessionID: sessionID,
		UserID:    userID,
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
	s.msgs = append(s.msgs, msg)
	return &msg, nil
}

func (s *fakeMessageStore) HistoryBySession(_ context.Context, userID int, sessionID string) ([]models.ChatMessage, error) {
	var out []models.ChatMessage
	for _, m := range s.msgs {
		if m.SessionID == sessionID && m.UserID == userID {
			out = append(out, m)
		}
	}
	if len(out) == 0 {
		return nil, dao.ErrSessionNotFound
	}
	return out, nil
}

func (s *fakeMessageStore) ListSessions(_ context.Context, userID int) ([]types.ChatSessionSummary, error) {
	last := map[string]models.ChatMessage{}
	for _, m := range s.msgs {
		if m.UserID == userID {
			last[m.SessionID] = m
		}
	}
	var out []types.ChatSessionSummary
	for sid, m := range last {
		out = append(out, types.ChatSessionSummary{
			SessionID:       sid,
			LastMessage:     m.Content,
			LastMessageRole: m.Role,
			LastActivity:    m.Timestamp.Format(time.RFC3339),
		})
	}
	return out, nil
}

func (s *fakeMessageStore) DeleteSession(_ context.Context, userID int, sessionID string) error {
	var kept []models.ChatMessage
	deleted := false
	for _, m := range s.msgs {
		if m.SessionID == sessionID && m.UserID == userID {
			deleted = true
			continue
		}
		kept = append(kept, m)
	}
	if !deleted {
		return dao.ErrSessionNotFound
	}
	s.msgs = kept
	return nil
}

// fakeCompleter swaps the answer for the fallback when failing is set,
// matching the adapter's CompleteOrFallback contract.
type fakeCompleter struct {
	answer   string
	fallback string
	failing  bool

	lastPrompt string
}

func (c *fakeCompleter) CompleteOrFallback(_ context.Context, prompt string) string {
	c.lastPrompt = prompt
	if c.failing {
		return c.fallback
	}
	return c.answer
}

func (c *fakeCompleter) CompleteStream(_ context.Context, prompt string) (<-chan string, <-chan error) {
	c.lastPrompt = prompt
	ch := make(chan string, 1)
	errCh := make(chan error, 1)
	if c.failing {
		errCh <- apperrors.New(apperrors.Adapter, "stream failed")
	} else {
		ch <- c.answer
	}
	close(ch)
	close(errCh)
	return ch, errCh
}

type fakeArchiver struct {
	archived map[string][]models.ChatMessage
}

func (a *fakeArchiver) ArchiveTranscript(_ context.Context, userID int, sessionID string, msgs []models.ChatMessage) (string, error) {
	if a.archived == nil {
		a.archived = map[string][]models.ChatMessage{}
	}
	key := fmt.Sprintf("transcripts/%d/%s.json", userID, sessionID)
	a.archived[key] = msgs
	return key, nil
}
