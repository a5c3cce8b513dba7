package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"vjbot/internal/api"
	"vjbot/internal/app/poller"
	"vjbot/internal/app/service"
	"vjbot/internal/common/security"
	"vjbot/internal/domain/repository"
	"vjbot/internal/platform/config"
	"vjbot/internal/platform/database"
	"vjbot/internal/platform/judge"
	"vjbot/internal/platform/queue"
)

func main() {
	// 1. Load Configuration
	config.Load()
	fmt.Println("Configuration loaded.")

	// 2. Initialize JWT
	security.InitJWT()
	fmt.Println("JWT initialized.")

	// 3. Initialize Database
	database.Connect()
	defer database.Close()
	fmt.Println("Database connected.")

	// 4. Initialize Redis
	queue.ConnectRedis()
	defer queue.CloseRedis()
	fmt.Println("Redis connected.")

	// 5. Initialize Repositories
	credRepo := repository.NewPgCredentialRepository(database.DB)
	solveRepo := repository.NewPgSolveRepository(database.DB)

	// 6. Initialize judge client, poller and lease
	cfg := config.AppConfig
	judgeClient := judge.NewOJClient(cfg.OJBinary, cfg.VJudgeBaseURL, cfg.SubmitTimeout, cfg.MaxJudgeCalls)
	verdictPoller := poller.New(judgeClient, poller.Backoff{
		Initial:    cfg.PollInitial,
		Multiplier: cfg.PollMultiplier,
		Max:        cfg.PollMax,
		Deadline:   cfg.PollDeadline,
	})
	lease := queue.NewSubmissionLease(queue.RDB, cfg.LeaseTTL)

	// 7. Initialize Services
	authService := service.NewAuthService()
	accountService := service.NewAccountService(credRepo)
	leaderboardService := service.NewLeaderboardService(solveRepo)
	submissionService := service.NewSubmissionService(
		credRepo, solveRepo, judgeClient, verdictPoller, lease,
		cfg.SubmitAttempts,
		poller.Backoff{Initial: cfg.PollInitial, Multiplier: cfg.PollMultiplier, Max: cfg.PollMax},
	)

	// 8. Initialize Router & HTTP Server
	router := api.NewRouter(authService, accountService, submissionService, leaderboardService)

	server := &http.Server{
		Addr:    ":" + cfg.APIPort,
		Handler: router,
		// Submissions are long-poll requests; the write timeout covers the
		// full poll deadline plus upload time.
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.PollDeadline + cfg.SubmitTimeout + time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	// 9. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", cfg.APIPort, err)
		}
	}()
	log.Println("Server started successfully.")

	<-stop // Wait for interrupt signal

	log.Println("Shutting down server...")

	// In-flight polls are abandoned; verdict commits are atomic, so no
	// partial SolveRecord can be left behind, and leases expire by TTL.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server stopped gracefully.")
}
