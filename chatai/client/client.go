// Package client implements the chat client's state machine:
// Unauthenticated until login succeeds, then one question in flight at
// a time while the transcript grows. The local store caches the token
// and transcript between runs.
package client

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"chatai/chatai/apperrors"
	"chatai/chatai/auth"
	"chatai/chatai/client/localstore"
	"chatai/chatai/config"
	"chatai/chatai/types"
	"chatai/chatai/utils/httpx"
)

const (
	turnQuestion = "question"
	turnAnswer   = "answer"
)

// ErrBusy rejects a submit while a question is awaiting its answer.
// Queue depth never exceeds one.
var ErrBusy = apperrors.New(apperrors.Validation, "a question is already awaiting its answer")

type Client struct {
	baseURL  string
	httpc    *http.Client
	store    *localstore.Store
	fallback string

	mu         sync.Mutex
	session    Session
	transcript []localstore.Turn
	chatID     string
	pendingIdx int // index of the optimistic question turn, -1 when idle
}

// New builds a client against the gateway at baseURL. store may be
// nil, which disables local caching.
func New(baseURL string, store *localstore.Store) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpc:      http.DefaultClient,
		store:      store,
		fallback:   config.DefaultFallbackMessage,
		pendingIdx: -1,
	}
	if store != nil {
		cached := store.Load()
		c.transcript = cached.Transcript
		if cached.Token != "" {
			// A cached token restores the session; an unreadable or
			// expired one just leaves the client unauthenticated.
			if expiry, err := auth.TokenExpiry(cached.Token); err == nil {
				c.session = Session{Token: cached.Token, ExpiresAt: expiry}
			}
		}
	}
	return c
}

func (c *Client) Session() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

func (c *Client) Authenticated() bool {
	return c.Session().State() == SessionValid
}

// Transcript returns a copy of the chat turns so far.
func (c *Client) Transcript() []localstore.Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]localstore.Turn, len(c.transcript))
	copy(out, c.transcript)
	return out
}

// AwaitingResponse reports whether a question is currently in flight.
func (c *Client) AwaitingResponse() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pendingIdx >= 0
}

// Register creates an account and leaves the client Authenticated.
// The register response carries no token, so a login with the same
// credentials completes the transition.
func (c *Client) Register(ctx context.Context, username, email, password string) error {
	req := types.RegisterRequest{Username: username, Email: email, Password: password}
	if err := httpx.PostJSON(ctx, c.httpc, c.baseURL+"/auth/register", "", req, nil); err != nil {
		return err
	}
	return c.Login(ctx, email, password)
}

// Login authenticates and moves the client to Authenticated.
func (c *Client) Login(ctx context.Context, email, password string) error {
	req := types.LoginRequest{Email: email, Password: password}
	var resp types.AuthResponse
	if err := httpx.PostJSON(ctx, c.httpc, c.baseURL+"/auth/login", "", req, &resp); err != nil {
		return err
	}

	expiry, _ := auth.TokenExpiry(resp.Token)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = Session{Token: resp.Token, User: resp.User, ExpiresAt: expiry}
	c.persistLocked()
	return nil
}

// Logout discards the token and the in-memory user. The cached
// transcript survives so a later login still shows it.
func (c *Client) Logout() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = Session{}
	c.chatID = ""
	c.persistLocked()
}

// Submit sends one question and returns the displayable answer.
// Empty questions are rejected before any network call; a second
// submit while one is in flight gets ErrBusy. Adapter and transport
// failures resolve to the fallback message, which lands in the
// transcript like a normal answer.
func (c *Client) Submit(ctx context.Context, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", apperrors.New(apperrors.Validation, "question must not be empty")
	}

	c.mu.Lock()
	if c.session.State() != SessionValid {
		c.mu.Unlock()
		return "", apperrors.New(apperrors.Auth, "not authenticated")
	}
	if c.pendingIdx >= 0 {
		c.mu.Unlock()
		return "", ErrBusy
	}
	// Optimistic append: the question shows up immediately, marked
	// pending until the answer reconciles it.
	c.transcript = append(c.transcript, localstore.Turn{Type: turnQuestion, Content: question})
	c.pendingIdx = len(c.transcript) - 1
	token := c.session.Token
	chatID := c.chatID
	c.persistLocked()
	c.mu.Unlock()

	req := types.ChatRequest{SessionID: chatID, Content: question}
	var resp types.ChatResponse
	err := httpx.PostJSON(ctx, c.httpc, c.baseURL+"/chat/", token, req, &resp)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.pendingIdx = -1

	if err != nil {
		if apperrors.IsKind(err, apperrors.Auth) {
			// Stale token: roll back the optimistic question and
			// drop to Unauthenticated.
			c.transcript = c.transcript[:len(c.transcript)-1]
			c.session = Session{}
			c.persistLocked()
			return "", err
		}
		// Transport and adapter failures become a chat message, so
		// the transcript always has something to display.
		c.transcript = append(c.transcript, localstore.Turn{Type: turnAnswer, Content: c.fallback})
		c.persistLocked()
		return c.fallback, nil
	}

	c.chatID = resp.SessionID
	c.transcript = append(c.transcript, localstore.Turn{Type: turnAnswer, Content: resp.Response})
	c.persistLocked()
	return resp.Response, nil
}

func (c *Client) persistLocked() {
	if c.store == nil {
		return
	}
	c.store.Save(localstore.State{
		Token:      c.session.Token,
		Transcript: c.transcript,
	})
}
