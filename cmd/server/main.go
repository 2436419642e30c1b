package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codecrux/internal/api"
	"codecrux/internal/app/service"
	"codecrux/internal/catalog"
	"codecrux/internal/common/security"
	"codecrux/internal/domain/model"
	"codecrux/internal/domain/repository"
	"codecrux/internal/platform/cache"
	"codecrux/internal/platform/config"
	"codecrux/internal/platform/database"
	"codecrux/internal/sandbox"

	log "github.com/sirupsen/logrus"
)

func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	// 1. Load configuration
	config.Load()
	log.Info("configuration loaded")

	// 2. Initialize JWT
	security.InitJWT()

	// 3. Problem catalog: malformed definitions are fatal at startup.
	cat, err := catalog.Load(map[model.ProblemDifficulty]int{
		model.DifficultyEasy:   config.AppConfig.PointsEasy,
		model.DifficultyMedium: config.AppConfig.PointsMedium,
		model.DifficultyHard:   config.AppConfig.PointsHard,
	})
	if err != nil {
		log.Fatalf("problem catalog failed to load: %v", err)
	}
	log.Infof("problem catalog loaded with %d problems", cat.Size())

	// 4. Database and Redis
	database.Connect()
	defer database.Close()
	cache.ConnectRedis()
	defer cache.CloseRedis()

	// 5. Sandbox client and runtime registry. A failed refresh is a soft
	// fail: every language resolves with the wildcard version until restart.
	sandboxClient := sandbox.NewClient(config.AppConfig.SandboxBaseURL, config.AppConfig.SandboxTimeout)
	registry := sandbox.NewRegistry(sandboxClient)
	refreshCtx, cancelRefresh := context.WithTimeout(context.Background(), 10*time.Second)
	if err := registry.Refresh(refreshCtx); err != nil {
		log.Warnf("runtime registry refresh failed, using wildcard versions: %v", err)
	}
	cancelRefresh()

	// 6. Repositories
	userRepo := repository.NewPgUserRepository(database.DB)
	progressRepo := repository.NewPgProgressRepository(database.DB)
	rateLimiter := repository.NewRedisRateLimiter(cache.RDB, config.AppConfig.BatchLockTTL)

	// 7. Services
	authService := service.NewAuthService(userRepo)
	progressService := service.NewProgressService(progressRepo)
	executionService := service.NewExecutionService(
		cat,
		registry,
		sandboxClient,
		rateLimiter,
		progressService,
		config.AppConfig.RunCooldown,
		config.AppConfig.SubmitCooldown,
	)

	// 8. Router & HTTP server
	router := api.NewRouter(authService, executionService, progressService, cat)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 150 * time.Second, // a full submit batch can take a while
		IdleTimeout:  120 * time.Second,
	}

	// 9. Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Infof("server starting on port %s", config.AppConfig.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("could not listen on %s: %v", config.AppConfig.APIPort, err)
		}
	}()

	<-stop

	log.Info("shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server shutdown failed: %v", err)
	}
	log.Info("server stopped gracefully")
}
