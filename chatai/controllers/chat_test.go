package controllers

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatai/chatai/apperrors"
	"chatai/chatai/types"
)

func TestAskPersistsQuestionAndAnswer(t *testing.T) {
	store := &fakeMessageStore{}
	llm := &fakeCompleter{answer: "42"}
	ctrl := NewChatController(store, llm, nil)

	resp, err := ctrl.Ask(context.Background(), 1, types.ChatRequest{Content: "meaning of life?"})
	require.NoError(t, err)
	assert.Equal(t, "42", resp.Response)
	assert.NotEmpty(t, resp.SessionID)

	history, err := store.HistoryBySession(context.Background(), 1, resp.SessionID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "user", history[0].Role)
	assert.Equal(t, "meaning of life?", history[0].Content)
	assert.Equal(t, "assistant", history[1].Role)
	assert.Equal(t, "42", history[1].Content)
}

func TestAskEmptyQuestionRejected(t *testing.T) {
	ctrl := NewChatController(&fakeMessageStore{}, &fakeCompleter{}, nil)

	for _, content := range []string{"", "   ", "\n\t"} {
		_, err := ctrl.Ask(context.Background(), 1, types.ChatRequest{Content: content})
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.Validation))
	}
}

func TestAskAdapterFailureYieldsFallback(t *testing.T) {
	store := &fakeMessageStore{}
	llm := &fakeCompleter{failing: true, fallback: "sorry, try again"}
	ctrl := NewChatController(store, llm, nil)

	resp, err := ctrl.Ask(context.Background(), 1, types.ChatRequest{Content: "q"})
	require.NoError(t, err)
	assert.Equal(t, "sorry, try again", resp.Response)

	// The fallback lands in the transcript like a normal answer.
	history, err := store.HistoryBySession(context.Background(), 1, resp.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "sorry, try again", history[1].Content)
}

func TestAskReusesSessionAndBuildsContext(t *testing.T) {
	store := &fakeMessageStore{}
	llm := &fakeCompleter{answer: "a"}
	ctrl := NewChatController(store, llm, nil)
	ctx := context.Background()

	first, err := ctrl.Ask(ctx, 1, types.ChatRequest{Content: "first"})
	require.NoError(t, err)
	second, err := ctrl.Ask(ctx, 1, types.ChatRequest{SessionID: first.SessionID, Content: "second"})
	require.NoError(t, err)

	assert.Equal(t, first.SessionID, second.SessionID)
	assert.Contains(t, llm.lastPrompt, "first")
	assert.Contains(t, llm.lastPrompt, "second")
}

func TestAskStream(t *testing.T) {
	store := &fakeMessageStore{}
	llm := &fakeCompleter{answer: "streamed answer"}
	ctrl := NewChatController(store, llm, nil)

	ch, errCh, sessionID := ctrl.AskStream(context.Background(), 1, types.ChatRequest{Content: "q"})
	var b strings.Builder
	for chunk := range ch {
		b.WriteString(chunk)
	}
	require.NoError(t, <-errCh)
	assert.Equal(t, "streamed answer", b.String())

	history, err := store.HistoryBySession(context.Background(), 1, sessionID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "streamed answer", history[1].Content)
}

func TestSessionMessagesScopedToOwner(t *testing.T) {
	store := &fakeMessageStore{}
	ctrl := NewChatController(store, &fakeCompleter{answer: "a"}, nil)
	ctx := context.Background()

	resp, err := ctrl.Ask(ctx, 1, types.ChatRequest{Content: "mine"})
	require.NoError(t, err)

	_, err = ctrl.SessionMessages(ctx, 2, resp.SessionID)
	require.Error(t, err)
	assert.True(t, IsSessionNotFound(err))
}

func TestDeleteSession(t *testing.T) {
	store := &fakeMessageStore{}
	ctrl := NewChatController(store, &fakeCompleter{answer: "a"}, nil)
	ctx := context.Background()

	resp, err := ctrl.Ask(ctx, 1, types.ChatRequest{Content: "q"})
	require.NoError(t, err)

	require.NoError(t, ctrl.DeleteSession(ctx, 1, resp.SessionID))
	assert.True(t, IsSessionNotFound(ctrl.DeleteSession(ctx, 1, resp.SessionID)))
}

func TestExportSession(t *testing.T) {
	store := &fakeMessageStore{}
	archiver := &fakeArchiver{}
	ctrl := NewChatController(store, &fakeCompleter{answer: "a"}, archiver)
	ctx := context.Background()

	resp, err := ctrl.Ask(ctx, 1, types.ChatRequest{Content: "q"})
	require.NoError(t, err)

	key, err := ctrl.ExportSession(ctx, 1, resp.SessionID)
	require.NoError(t, err)
	assert.Contains(t, key, resp.SessionID)
	assert.Len(t, archiver.archived[key], 2)
}

func TestExportSessionWithoutArchive(t *testing.T) {
	ctrl := NewChatController(&fakeMessageStore{}, &fakeCompleter{}, nil)

	_, err := ctrl.ExportSession(context.Background(), 1, "any")
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.Validation))
}
