// File: calleroo/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"calleroo/config"
	"calleroo/cron"
	"calleroo/database"
	callrecordRepo "calleroo/database/repository/callrecord"
	taskRepoPkg "calleroo/database/repository/task"
	"calleroo/handlers"
	"calleroo/routes"
	"calleroo/services/call"
	"calleroo/services/conversation"
	ai "calleroo/services/intelligence"
	"calleroo/services/places"
	"calleroo/services/tasks"
	"calleroo/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	// repositories.
	recordRepo := callrecordRepo.NewMongoCallRecordRepo()
	taskRepo := taskRepoPkg.NewMongoTaskRepo()

	// shared intelligence clients.
	gemini := ai.NewGeminiClient(config.AppConfig.GeminiAPIKey)
	transcriber := ai.NewGoogleTranscriber("en-AU")

	// conversation engine.
	conversationTTL := time.Duration(config.AppConfig.ConversationTTLHours) * time.Hour
	if conversationTTL <= 0 {
		conversationTTL = 24 * time.Hour
	}
	stateStore := conversation.NewRedisStateStore(utils.GetConversationCacheClient(), conversationTTL)
	decisions := conversation.NewRedisDecisionCache(utils.GetIdempotencyCacheClient(), conversationTTL)
	conversationSvc := conversation.NewConversationService(stateStore, conversation.NewExtractor(gemini), decisions)

	// place search.
	placesSvc := places.NewGooglePlacesService()

	// live call stack.
	runStore := call.NewMemoryRunStore()
	orchestrator := call.NewOrchestrator(runStore, gemini, call.OrchestratorOptions{
		ListenTimeoutSecs: config.AppConfig.ListenTimeoutSecs,
		MaxSilenceRetries: config.AppConfig.MaxSilenceRetries,
		PollCeiling:       time.Duration(config.AppConfig.PollCeilingSeconds) * time.Second,
		PollAttemptWrap:   config.AppConfig.PollAttemptWrap,
	})
	dialer := call.NewRestDialer()
	callSvc := call.NewCallService(dialer, runStore, orchestrator, gemini, transcriber, recordRepo, dialer)

	// scheduled calls.
	queueClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskQueueDB,
	})
	defer queueClient.Close()
	taskSvc := tasks.NewTaskService(taskRepo, queueClient)
	cron.InitCallDispatchWorker(callSvc, taskRepo)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		Agents:       handlers.NewAgentsHandler(),
		Conversation: handlers.NewConversationHandler(conversationSvc),
		Places:       handlers.NewPlacesHandler(placesSvc),
		Calls:        handlers.NewCallHandler(callSvc),
		Telephony:    handlers.NewTelephonyHandler(callSvc),
		Tasks:        handlers.NewTaskHandler(taskSvc),
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	utils.StartHealthMonitor([]*redis.Client{
		utils.GetConversationCacheClient(),
		utils.GetIdempotencyCacheClient(),
	}, database.MongoClient)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
