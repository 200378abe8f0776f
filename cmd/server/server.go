package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/axellelanca/linkbio/cmd"
	"github.com/axellelanca/linkbio/internal/api"
	"github.com/axellelanca/linkbio/internal/auth"
	"github.com/axellelanca/linkbio/internal/config"
	"github.com/axellelanca/linkbio/internal/models"
	"github.com/axellelanca/linkbio/internal/monitor"
	"github.com/axellelanca/linkbio/internal/repository"
	"github.com/axellelanca/linkbio/internal/services"
	"github.com/axellelanca/linkbio/internal/workers"
)

// RunServerCmd is the 'run-server' Cobra command, the entry point for
// launching the API server and its background processes.
var RunServerCmd = &cobra.Command{
	Use:   "run-server",
	Short: "Starts the link-in-bio API server and background processes.",
	Long: `This command initializes the database, wires up the API handlers,
starts the asynchronous click workers and the link URL monitor, then
launches the HTTP server.`,
	Run: func(cobraCmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// TranslateError turns driver unique-constraint violations into
		// gorm.ErrDuplicatedKey, which the services rely on for race-safe
		// conflict detection.
		db, err := gorm.Open(sqlite.Open(cfg.Database.Name), &gorm.Config{TranslateError: true})
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}

		if err := db.AutoMigrate(
			&models.User{},
			&models.Profile{},
			&models.Link{},
			&models.Click{},
			&models.RefreshToken{},
		); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}

		// Repositories
		userRepo := repository.NewUserRepository(db)
		profileRepo := repository.NewProfileRepository(db)
		linkRepo := repository.NewLinkRepository(db)
		clickRepo := repository.NewClickRepository(db)
		tokenRepo := repository.NewTokenRepository(db)
		log.Println("Repositories initialized.")

		// Services
		tokenMaker := auth.NewTokenMaker(cfg.Auth.JWTSecret,
			time.Duration(cfg.Auth.AccessTTLMin)*time.Minute)
		authService := services.NewAuthService(userRepo, profileRepo, tokenRepo, tokenMaker,
			time.Duration(cfg.Auth.RefreshTTLHours)*time.Hour)
		profileService := services.NewProfileService(profileRepo)
		linkService := services.NewLinkService(linkRepo, profileRepo)
		analyticsService := services.NewAnalyticsService(linkRepo, clickRepo, profileRepo)
		log.Println("Services initialized.")

		// Click event channel and worker pool
		clickEvents := make(chan models.ClickEvent, cfg.Analytics.BufferSize)
		api.ClickEventsChannel = clickEvents
		workersDone := workers.StartClickWorkers(cfg.Analytics.WorkerCount, clickEvents, clickRepo)
		log.Printf("Click event channel initialized with a buffer of %d. %d worker(s) started.",
			cfg.Analytics.BufferSize, cfg.Analytics.WorkerCount)

		// Link target URL monitor
		monitorCtx, stopMonitor := context.WithCancel(context.Background())
		linkMonitor := monitor.NewLinkMonitor(profileRepo, linkRepo,
			time.Duration(cfg.Monitor.IntervalMinutes)*time.Minute)
		go linkMonitor.Start(monitorCtx)

		// Router: process-wide per-IP rate limit, then the API routes.
		router := gin.Default()
		router.Use(api.RateLimitMiddleware(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst))
		api.SetupRoutes(router, authService, profileService, linkService, analyticsService,
			api.CookieConfig{Domain: cfg.Auth.CookieDomain, Secure: cfg.Auth.CookieSecure},
			cfg.Analytics.BufferSize)
		log.Println("API routes configured.")

		serverAddr := fmt.Sprintf(":%d", cfg.Server.Port)
		srv := &http.Server{
			Addr:    serverAddr,
			Handler: router,
		}

		go func() {
			log.Printf("Starting server on %s", serverAddr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("Failed to start server: %v", err)
			}
		}()

		// Graceful shutdown: wait for SIGINT/SIGTERM.
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("Shutdown signal received. Stopping server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("WARNING: HTTP server shutdown: %v", err)
		}

		// Stop the monitor, then drain the click channel so buffered events
		// reach the database before the process exits.
		stopMonitor()
		close(clickEvents)
		workersDone.Wait()

		log.Println("Server stopped cleanly.")
	},
}

func init() {
	cmd.RootCmd.AddCommand(RunServerCmd)
}
