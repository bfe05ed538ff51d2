package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/studymind/studymind/internal/ai"
	"github.com/studymind/studymind/internal/api"
	"github.com/studymind/studymind/internal/config"
	"github.com/studymind/studymind/internal/db"
	"github.com/studymind/studymind/internal/jobs"
	"github.com/studymind/studymind/internal/logger"
	"github.com/studymind/studymind/internal/repository"
	"github.com/studymind/studymind/internal/repository/memory"
	"github.com/studymind/studymind/internal/repository/sqlite"
	"github.com/studymind/studymind/internal/services"
	"github.com/studymind/studymind/internal/worker"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("StudyMind Server Starting")
	log.Info("===========================================")
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("demo_mode=%t", cfg.DemoMode)
	log.Debug("ai_model=%s", cfg.AIModel)
	log.Debug("ai_worker_count=%d", cfg.AIWorkerCount)
	log.Debug("ai_queue_size=%d", cfg.AIQueueSize)

	var (
		users     repository.UserRepository
		subjects  repository.SubjectRepository
		notes     repository.NoteRepository
		questions repository.QuestionRepository
		sessions  repository.SessionRepository
		gateway   ai.Gateway
		ping      func(context.Context) error
	)

	if cfg.DemoMode {
		// Demo mode: everything lives in memory and AI responses are canned,
		// so the app runs with no database file and no API key.
		log.Info("running in demo mode: in-memory store, static AI responses")
		store := memory.NewStore()
		users = store.Users()
		subjects = store.Subjects()
		notes = store.Notes()
		questions = store.Questions()
		sessions = store.Sessions()
		gateway = ai.NewStaticGateway()

		if _, err := users.Upsert(context.Background(), "demo"); err != nil {
			log.Error("failed to seed demo user: %v", err)
			os.Exit(1)
		}
	} else {
		database, err := db.Open(cfg.DBPath)
		if err != nil {
			log.Error("failed to open database: %v", err)
			os.Exit(1)
		}
		defer func() {
			log.Debug("closing database connection")
			database.Close()
		}()

		users = sqlite.NewUserRepository(database.DB)
		subjects = sqlite.NewSubjectRepository(database.DB)
		notes = sqlite.NewNoteRepository(database.DB)
		questions = sqlite.NewQuestionRepository(database.DB)
		sessions = sqlite.NewSessionRepository(database.DB)
		ping = database.PingContext

		gateway = ai.NewOpenAIGateway(ai.Config{
			APIKey:         cfg.AIAPIKey,
			BaseURL:        cfg.AIBaseURL,
			Model:          cfg.AIModel,
			EmbeddingModel: cfg.AIEmbeddingModel,
			MaxTokens:      cfg.AIMaxTokens,
		})
	}

	// Background AI work shares one pool.
	aiPool := worker.NewPool(cfg.AIWorkerCount, cfg.AIQueueSize)
	queue := jobs.NewWorkerQueue(aiPool, gateway, notes, questions)

	userService := services.NewUserService(users)
	noteService := services.NewNoteService(notes, subjects, queue)
	questionService := services.NewQuestionService(notes, questions, queue)
	reviewService := services.NewReviewService(sessions, notes, questions, subjects, gateway)

	srv := api.NewServer(userService, noteService, questionService, reviewService, aiPool)
	srv.Ping = ping

	ctx, cancel := context.WithCancel(context.Background())
	aiPool.Start(ctx)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("stopping worker pool")
	cancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	aiPool.Stop()

	log.Info("===========================================")
	log.Info("StudyMind Server Stopped")
	log.Info("===========================================")
}
