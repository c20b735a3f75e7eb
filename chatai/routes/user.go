package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"chatai/chatai/config"
	"chatai/chatai/controllers"
	"chatai/chatai/middlewares"
)

func UserRoutes(ctrl *controllers.UserController, cfg config.Config) chi.Router {
	r := chi.NewRouter()
	r.Use(middlewares.AuthMiddleware(cfg))

	r.Get("/me", func(w http.ResponseWriter, r *http.Request) {
		userID, _ := middlewares.UserID(r.Context())
		profile, err := ctrl.GetProfile(r.Context(), userID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, profile)
	})

	return r
}
