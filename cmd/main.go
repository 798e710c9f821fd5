package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	anthropicclient "linequeue/clients/anthropic"
	githubclient "linequeue/clients/github"
	vertexclient "linequeue/clients/vertex"
	"linequeue/config"
	"linequeue/db"
	"linequeue/handlers"
	"linequeue/middleware"
	"linequeue/models"
	"linequeue/services/accounts"
	"linequeue/services/commits"
	"linequeue/services/dispatch"
	"linequeue/services/ragindex"
	"linequeue/services/repositories"
	"linequeue/services/reviews"
	"linequeue/services/txmanager"
	"linequeue/services/users"
	githubeventsusecase "linequeue/usecases/githubevents"
	indexingusecase "linequeue/usecases/indexing"
	repositoriesusecase "linequeue/usecases/repositories"
	reviewsusecase "linequeue/usecases/reviews"
)

func main() {
	if err := run(); err != nil {
		log.Printf("❌ Fatal error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	// Initialize error alert middleware
	alertMiddleware := middleware.NewErrorAlertMiddleware(middleware.SlackAlertConfig{
		WebhookURL:  cfg.SlackAlertWebhook,
		Environment: cfg.Environment,
		AppName:     "linequeue",
		LogsURL:     cfg.ServerLogsURL,
	})

	// Initialize database connection
	dbConn, err := db.NewConnection(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	// Initialize repositories with shared connection
	usersRepo := db.NewPostgresUsersRepository(dbConn, cfg.DatabaseSchema)
	accountsRepo := db.NewPostgresAccountsRepository(dbConn, cfg.DatabaseSchema)
	repositoriesRepo := db.NewPostgresRepositoriesRepository(dbConn, cfg.DatabaseSchema)
	reviewsRepo := db.NewPostgresReviewsRepository(dbConn, cfg.DatabaseSchema)
	commitActivityRepo := db.NewPostgresCommitActivityRepository(dbConn, cfg.DatabaseSchema)
	queuedMessagesRepo := db.NewPostgresQueuedMessagesRepository(dbConn, cfg.DatabaseSchema)

	// Initialize transaction manager
	txManager := txmanager.NewTransactionManager(dbConn)

	// Initialize the vector store
	vectorStore, err := ragindex.NewSQLiteVectorStore(cfg.VectorStorePath)
	if err != nil {
		return err
	}
	defer vectorStore.Close()

	// Initialize external clients
	githubClient, err := githubclient.NewGitHubClient(githubclient.Config{
		WebhookURL:    strings.TrimSuffix(cfg.GitHubConfig.WebhookBaseURL, "/") + "/api/webhooks/github",
		WebhookSecret: cfg.GitHubConfig.WebhookSecret,
	})
	if err != nil {
		return err
	}

	reviewModel, err := anthropicclient.NewAnthropicClient(cfg.AnthropicConfig.APIKey, cfg.AnthropicConfig.Model)
	if err != nil {
		return err
	}

	embedder, err := vertexclient.NewVertexEmbedder(
		context.Background(),
		cfg.VertexConfig.ProjectID,
		cfg.VertexConfig.Location,
		cfg.VertexConfig.EmbeddingModel,
		cfg.VertexConfig.CredentialsFile,
	)
	if err != nil {
		return err
	}
	defer embedder.Close()

	// Initialize services
	usersService := users.NewUsersService(usersRepo)
	accountsService := accounts.NewAccountsService(accountsRepo)
	repositoriesService := repositories.NewRepositoriesService(repositoriesRepo)
	reviewsService := reviews.NewReviewsService(reviewsRepo)
	commitActivityService := commits.NewCommitActivityService(commitActivityRepo)
	ragIndexService := ragindex.NewRAGIndexService(vectorStore, embedder)
	dispatchService := dispatch.NewDispatchService(queuedMessagesRepo)

	// Initialize use cases
	reviewsUseCase := reviewsusecase.NewReviewsUseCase(
		githubClient,
		reviewModel,
		repositoriesService,
		accountsService,
		reviewsService,
		ragIndexService,
		dispatchService,
		txManager,
	)
	indexingUseCase := indexingusecase.NewIndexingUseCase(
		githubClient,
		repositoriesService,
		accountsService,
		ragIndexService,
	)
	githubEventsUseCase := githubeventsusecase.NewGitHubEventsUseCase(commitActivityService, reviewsUseCase)
	repositoriesUseCase := repositoriesusecase.NewRepositoriesUseCase(
		githubClient,
		repositoriesService,
		accountsService,
		ragIndexService,
		dispatchService,
	)

	// Bind queue consumers
	dispatchService.RegisterHandler(models.MessagePRReviewRequested, reviewsUseCase.ProcessReviewRequested)
	dispatchService.RegisterHandler(models.MessageRepositoryConnected, indexingUseCase.ProcessRepositoryConnected)

	// Initialize handlers
	githubEventsHandler := handlers.NewGitHubEventsHandler(cfg.GitHubConfig.WebhookSecret, githubEventsUseCase)
	dashboardHandler := handlers.NewDashboardAPIHandler(
		repositoriesUseCase,
		repositoriesService,
		reviewsService,
		commitActivityService,
	)
	dashboardHTTPHandler := handlers.NewDashboardHTTPHandler(dashboardHandler)
	authMiddleware := middleware.NewClerkAuthMiddleware(usersService, cfg.ClerkConfig.SecretKey)

	// Create a new router
	router := mux.NewRouter()

	// Webhook receiver endpoint
	router.HandleFunc("/api/webhooks/github", githubEventsHandler.HandleGitHubEvent).Methods("POST")

	// Dashboard API endpoints
	apiRouter := router.PathPrefix("/api").Subrouter()
	dashboardHTTPHandler.SetupEndpoints(apiRouter, authMiddleware)

	// Health check endpoint
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
			log.Printf("❌ Failed to write health check response: %v", err)
		}
	}).Methods("GET")

	// Start the dispatch loop: drain queued messages every few seconds,
	// recover stale ones every minute
	dispatchTicker := time.NewTicker(5 * time.Second)
	staleTicker := time.NewTicker(1 * time.Minute)
	go func() {
		for {
			select {
			case <-dispatchTicker.C:
				_ = alertMiddleware.WrapBackgroundTask("ProcessQueuedMessages", func() error {
					return dispatchService.ProcessQueuedMessages(context.Background())
				})()
			case <-staleTicker.C:
				_ = alertMiddleware.WrapBackgroundTask("RequeueStaleMessages", func() error {
					return dispatchService.RequeueStaleMessages(context.Background())
				})()
			}
		}
	}()
	defer dispatchTicker.Stop()
	defer staleTicker.Stop()

	// Setup CORS middleware
	allowedOrigins := strings.Split(cfg.CORSAllowedOrigins, ",")
	for i, origin := range allowedOrigins {
		allowedOrigins[i] = strings.TrimSpace(origin)
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	// Setup and handle graceful shutdown
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           alertMiddleware.HTTPMiddleware(c.Handler(router)),
		ReadHeaderTimeout: 30 * time.Second,
	}

	return handleGracefulShutdown(server)
}

func handleGracefulShutdown(server *http.Server) error {
	// Channel to listen for interrupt signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// Start server in a goroutine
	go func() {
		log.Printf("✅ Listening on http://localhost%s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("❌ Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	<-stop
	log.Printf("🛑 Shutdown signal received, cleaning up...")

	// Create a deadline for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Shutdown server gracefully
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("❌ Server shutdown error: %v", err)
		return err
	}

	log.Printf("✅ Server stopped gracefully")
	return nil
}
