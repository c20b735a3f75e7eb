package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"chatai/chatai/config"
	"chatai/chatai/controllers"
	"chatai/chatai/middlewares"
	"chatai/chatai/routes"
	"chatai/chatai/services/gemini"
	"chatai/chatai/sources/psql"
	"chatai/chatai/sources/psql/dao"
	"chatai/chatai/sources/storage"
	"chatai/chatai/utils/logging"
)

func main() {
	logging.InitLogger()
	cfg, err := config.LoadConfig()
	if err != nil {
		logging.ErrorLogger.Error("config error", zap.Error(err))
		os.Exit(1)
	}
	if cfg.JWTSecret == "" {
		logging.ErrorLogger.Error("JWT_SECRET is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	db, err := psql.NewDatabase(ctx, cfg)
	if err != nil {
		logging.ErrorLogger.Error("database connection error", zap.Error(err))
		os.Exit(1)
	}
	defer db.Close()

	userDAO := dao.NewUserDAO(db.DB)
	chatDAO := dao.NewChatMessageDAO(db.DB)
	llm := gemini.NewClient(cfg)

	archiveClient, err := storage.NewArchiveClient(ctx, cfg)
	if err != nil {
		logging.ErrorLogger.Error("archive storage connection error", zap.Error(err))
		os.Exit(1)
	}
	var archiver controllers.TranscriptArchiver
	if archiveClient != nil {
		archiver = archiveClient
	}

	authCtrl := controllers.NewAuthController(userDAO, cfg)
	userCtrl := controllers.NewUserController(userDAO)
	chatCtrl := controllers.NewChatController(chatDAO, llm, archiver)
	healthCtrl := controllers.NewHealthController()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middlewares.CORS(cfg.ClientOrigin))

	r.Mount("/healthz", routes.HealthRoutes(healthCtrl))
	r.Mount("/auth", routes.AuthRoutes(authCtrl))
	r.Mount("/users", routes.UserRoutes(userCtrl, cfg))
	r.Mount("/chat", routes.ChatRoutes(chatCtrl, cfg))

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}
	go func() {
		logging.AppLogger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.ErrorLogger.Error("server listen error", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.ErrorLogger.Error("server shutdown error", zap.Error(err))
	}
	logging.AppLogger.Info("server shutdown complete")
}
