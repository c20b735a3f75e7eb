package controllers

import (
	"context"
	"errors"
	"strings"

	"chatai/chatai/apperrors"
	"chatai/chatai/sources/psql/dao"
	"chatai/chatai/sources/psql/models"
	"chatai/chatai/types"
)

// MessageStore is the slice of the chat DAO the controller needs.
type MessageStore interface {
	CreateSessionID() string
	SaveMessage(ctx context.Context, sessionID string, userID int, role, content string) (*models.ChatMessage, error)
	HistoryBySession(ctx context.Context, userID int, sessionID string) ([]models.ChatMessage, error)
	ListSessions(ctx context.Context, userID int) ([]types.ChatSessionSummary, error)
	DeleteSession(ctx context.Context, userID int, sessionID string) error
}

// Completer is the generative adapter surface the chat flow uses.
type Completer interface {
	CompleteOrFallback(ctx context.Context, prompt string) string
	CompleteStream(ctx context.Context, prompt string) (<-chan string, <-chan error)
}

// TranscriptArchiver exports a session's messages to object storage.
type TranscriptArchiver interface {
	ArchiveTranscript(ctx context.Context, userID int, sessionID string, msgs []models.ChatMessage) (string, error)
}

type ChatController struct {
	msgs    MessageStore
	llm     Completer
	archive TranscriptArchiver
}

// NewChatController wires the chat flow. archive may be nil, which
// disables transcript export.
func NewChatController(msgs MessageStore, llm Completer, archive TranscriptArchiver) *ChatController {
	return &ChatController{msgs: msgs, llm: llm, archive: archive}
}

// Ask persists the question, asks the adapter with the session history
// as context, persists the answer and returns it. Adapter and
// transport failures surface as the fallback message, never as an
// error, so the transcript always gets a displayable answer.
func (c *ChatController) Ask(ctx context.Context, userID int, req types.ChatRequest) (*types.ChatResponse, error) {
	question := strings.TrimSpace(req.Content)
	if question == "" {
		return nil, apperrors.New(apperrors.Validation, "question must not be empty")
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = c.msgs.CreateSessionID()
	}

	if _, err := c.msgs.SaveMessage(ctx, sessionID, userID, "user", question); err != nil {
		return nil, err
	}
	history, err := c.msgs.HistoryBySession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	answer := c.llm.CompleteOrFallback(ctx, historyPrompt(history))
	if _, err := c.msgs.SaveMessage(ctx, sessionID, userID, "assistant", answer); err != nil {
		return nil, err
	}

	return &types.ChatResponse{Response: answer, SessionID: sessionID}, nil
}

// AskStream is Ask with the answer delivered in chunks. The full
// answer is persisted once the stream finishes.
func (c *ChatController) AskStream(ctx context.Context, userID int, req types.ChatRequest) (<-chan string, <-chan error, string) {
	errCh := make(chan error, 1)
	ch := make(chan string)

	question := strings.TrimSpace(req.Content)
	if question == "" {
		errCh <- apperrors.New(apperrors.Validation, "question must not be empty")
		close(ch)
		close(errCh)
		return ch, errCh, ""
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = c.msgs.CreateSessionID()
	}

	if _, err := c.msgs.SaveMessage(ctx, sessionID, userID, "user", question); err != nil {
		errCh <- err
		close(ch)
		close(errCh)
		return ch, errCh, sessionID
	}
	history, err := c.msgs.HistoryBySession(ctx, userID, sessionID)
	if err != nil {
		errCh <- err
		close(ch)
		close(errCh)
		return ch, errCh, sessionID
	}

	llmCh, llmErrCh := c.llm.CompleteStream(ctx, historyPrompt(history))

	go func() {
		defer close(ch)
		defer close(errCh)

		var full strings.Builder
		for chunk := range llmCh {
			full.WriteString(chunk)
			select {
			case ch <- chunk:
			case <-ctx.Done():
				return
			}
		}
		if err := <-llmErrCh; err != nil {
			errCh <- err
			return
		}
		if _, err := c.msgs.SaveMessage(ctx, sessionID, userID, "assistant", full.String()); err != nil {
			errCh <- err
		}
	}()

	return ch, errCh, sessionID
}

func (c *ChatController) ListSessions(ctx context.Context, userID int) ([]types.ChatSessionSummary, error) {
	return c.msgs.ListSessions(ctx, userID)
}

func (c *ChatController) SessionMessages(ctx context.Context, userID int, sessionID string) ([]models.ChatMessage, error) {
	return c.msgs.HistoryBySession(ctx, userID, sessionID)
}

func (c *ChatController) DeleteSession(ctx context.Context, userID int, sessionID string) error {
	return c.msgs.DeleteSession(ctx, userID, sessionID)
}

// ExportSession archives a session transcript to object storage and
// returns the object key.
func (c *ChatController) ExportSession(ctx context.Context, userID int, sessionID string) (string, error) {
	if c.archive == nil {
		return "", apperrors.New(apperrors.Validation, "transcript archive is not configured")
	}
	msgs, err := c.msgs.HistoryBySession(ctx, userID, sessionID)
	if err != nil {
		return "", err
	}
	return c.archive.ArchiveTranscript(ctx, userID, sessionID, msgs)
}

// historyPrompt collapses a session's turns into one prompt so the
// model sees prior context; the adapter appends its own fixed
// instruction.
func historyPrompt(history []models.ChatMessage) string {
	if len(history) == 1 {
		return history[0].Content
	}
	var b strings.Builder
	for _, m := range history {
		b.WriteString(m.Role)
		b.WriteString(": ")
		b.WriteString(m.Content)
		b.WriteString("\n")
	}
	return b.String()
}

// IsSessionNotFound reports whether err is the DAO's missing-session
// error, which the gateway maps to 404.
func IsSessionNotFound(err error) bool {
	return errors.Is(err, dao.ErrSessionNotFound)
}
