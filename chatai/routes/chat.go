package routes

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"

	"chatai/chatai/apperrors"
	"chatai/chatai/auth"
	"chatai/chatai/config"
	"chatai/chatai/controllers"
	"chatai/chatai/middlewares"
	"chatai/chatai/types"
)

func ChatRoutes(ctrl *controllers.ChatController, cfg config.Config) chi.Router {
	r := chi.NewRouter()

	r.Group(func(gr chi.Router) {
		gr.Use(middlewares.AuthMiddleware(cfg))

		gr.Post("/", func(w http.ResponseWriter, r *http.Request) {
			var req types.ChatRequest
			if err := decodeJSON(r, &req); err != nil {
				writeError(w, r, err)
				return
			}
			userID, _ := middlewares.UserID(r.Context())
			resp, err := ctrl.Ask(r.Context(), userID, req)
			if err != nil {
				writeError(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, resp)
		})

		gr.Get("/sessions", func(w http.ResponseWriter, r *http.Request) {
			userID, _ := middlewares.UserID(r.Context())
			sessions, err := ctrl.ListSessions(r.Context(), userID)
			if err != nil {
				writeError(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, sessions)
		})

		gr.Get("/session/{session_id}/messages", func(w http.ResponseWriter, r *http.Request) {
			userID, _ := middlewares.UserID(r.Context())
			sessionID := chi.URLParam(r, "session_id")
			msgs, err := ctrl.SessionMessages(r.Context(), userID, sessionID)
			if err != nil {
				if controllers.IsSessionNotFound(err) {
					writeErrorKind(w, http.StatusNotFound, apperrors.Validation, "session not found")
					return
				}
				writeError(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, msgs)
		})

		gr.Delete("/session/{session_id}", func(w http.ResponseWriter, r *http.Request) {
			userID, _ := middlewares.UserID(r.Context())
			sessionID := chi.URLParam(r, "session_id")
			if err := ctrl.DeleteSession(r.Context(), userID, sessionID); err != nil {
				if controllers.IsSessionNotFound(err) {
					writeErrorKind(w, http.StatusNotFound, apperrors.Validation, "session not found")
					return
				}
				writeError(w, r, err)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		})

		gr.Post("/session/{session_id}/export", func(w http.ResponseWriter, r *http.Request) {
			userID, _ := middlewares.UserID(r.Context())
			sessionID := chi.URLParam(r, "session_id")
			key, err := ctrl.ExportSession(r.Context(), userID, sessionID)
			if err != nil {
				if controllers.IsSessionNotFound(err) {
					writeErrorKind(w, http.StatusNotFound, apperrors.Validation, "session not found")
					return
				}
				writeError(w, r, err)
				return
			}
			writeJSON(w, http.StatusOK, types.ExportResponse{Object: key})
		})
	})

	// Websocket streaming: the browser cannot set an Authorization
	// header on a ws upgrade, so the token rides in the first frame.
	r.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: originPatterns(cfg),
		})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusInternalError, "internal error")

		ctx := r.Context()
		typ, data, err := conn.Read(ctx)
		if err != nil {
			return
		}
		if typ != websocket.MessageText {
			conn.Close(websocket.StatusUnsupportedData, "unsupported data")
			return
		}

		var input struct {
			Token       string            `json:"token"`
			ChatRequest types.ChatRequest `json:"chat_request"`
		}
		if err := json.Unmarshal(data, &input); err != nil {
			conn.Write(ctx, websocket.MessageText, []byte(`{"error":"invalid json"}`))
			return
		}

		claims, err := auth.ParseToken(input.Token, []byte(cfg.JWTSecret))
		if err != nil {
			conn.Write(ctx, websocket.MessageText, []byte(`{"error":"invalid token"}`))
			conn.Close(websocket.StatusPolicyViolation, "invalid token")
			return
		}

		ch, errCh, sessionID := ctrl.AskStream(ctx, claims.UserID, input.ChatRequest)
		for chunk := range ch {
			frame, _ := json.Marshal(map[string]string{"chunk": chunk})
			if err := conn.Write(ctx, websocket.MessageText, frame); err != nil {
				return
			}
		}
		if err := <-errCh; err != nil {
			frame, _ := json.Marshal(map[string]string{"error": apperrors.MessageOf(err)})
			conn.Write(ctx, websocket.MessageText, frame)
			conn.Close(websocket.StatusInternalError, "stream error")
			return
		}

		frame, _ := json.Marshal(map[string]any{"done": true, "session_id": sessionID})
		conn.Write(ctx, websocket.MessageText, frame)
		conn.Close(websocket.StatusNormalClosure, "")
	})

	return r
}

// originPatterns converts the configured origin into the host pattern
// the websocket library matches against.
func originPatterns(cfg config.Config) []string {
	origin := strings.TrimPrefix(cfg.ClientOrigin, "https://")
	origin = strings.TrimPrefix(origin, "http://")
	if origin == "" {
		return nil
	}
	return []string{origin}
}
