package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron"

	"cyclecoach/internal/adjust"
	"cyclecoach/internal/api"
	"cyclecoach/internal/coach"
	"cyclecoach/internal/config"
	"cyclecoach/internal/library"
	"cyclecoach/internal/planner"
	"cyclecoach/internal/repository/mongo"
	"cyclecoach/internal/service"
	"cyclecoach/internal/storage"
)

func main() {
	log.Println("Starting CycleCoach Server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	log.Println("Configuration loaded.")

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to MongoDB: %v", err)
	}
	defer func() {
		log.Println("Disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Println("Database connection established.")

	// --- Ensure Indexes ---
	log.Println("Ensuring database indexes...")
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsureUserIndexes(ctx, appDB.Collection("users"))
		mongo.EnsureTrainingPlanIndexes(ctx, appDB.Collection("training_plans"))
		mongo.EnsurePlannedWorkoutIndexes(ctx, appDB.Collection("planned_workouts"))
		mongo.EnsureAdjustmentIndexes(ctx, appDB.Collection("plan_adjustments"))
		mongo.EnsureProgressionIndexes(ctx, appDB.Collection("progression_levels"))
		mongo.EnsureFTPTestIndexes(ctx, appDB.Collection("ftp_tests"))
		mongo.EnsureFeedbackIndexes(ctx, appDB.Collection("rider_feedback"))
		log.Println("Index creation process completed.")
	}()

	// --- Initialize Storage ---
	var fileStorage storage.FileStorage
	if cfg.S3.BucketName != "" {
		log.Println("Initializing file storage service...")
		fileStorage, err = storage.NewS3Storage(cfg.S3)
		if err != nil {
			log.Fatalf("FATAL: Failed to initialize S3 storage: %v", err)
		}
	} else {
		log.Println("No S3 bucket configured; workout exports will be returned inline only.")
	}

	// --- Initialize Repositories ---
	log.Println("Initializing repositories...")
	userRepo := mongo.NewMongoUserRepository(appDB)
	planRepo := mongo.NewMongoTrainingPlanRepository(appDB)
	workoutRepo := mongo.NewMongoPlannedWorkoutRepository(appDB)
	adjustmentRepo := mongo.NewMongoAdjustmentRepository(appDB)
	progressionRepo := mongo.NewMongoProgressionRepository(appDB)
	ftpTestRepo := mongo.NewMongoFTPTestRepository(appDB)
	feedbackRepo := mongo.NewMongoFeedbackRepository(appDB)

	// --- Initialize Domain Components ---
	lib := library.New(library.Catalog())
	generator := planner.New(lib)
	engine := adjust.NewEngine(planRepo, workoutRepo, adjustmentRepo)

	var narrativeGen coach.Generator
	if cfg.Coach.APIKey != "" {
		narrativeGen = coach.NewAnthropicGenerator(cfg.Coach.APIKey, cfg.Coach.Model)
		log.Println("AI narrative generator enabled.")
	} else {
		log.Println("No coach API key configured; weekly narratives use the deterministic fallback.")
	}

	// --- Initialize Services ---
	log.Println("Initializing services...")
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	planService := service.NewPlanService(userRepo, planRepo, workoutRepo, adjustmentRepo, progressionRepo, generator)
	athleteService := service.NewAthleteService(userRepo, ftpTestRepo, feedbackRepo, planRepo)
	coachService := service.NewCoachService(userRepo, planRepo, workoutRepo, feedbackRepo, narrativeGen)

	// --- Weekly Plan Advancement ---
	// Active plans roll their current week/phase forward every Monday
	// morning; completed plans get closed out.
	scheduler := cron.New()
	err = scheduler.AddFunc("0 0 5 * * 1", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		touched, err := planService.AdvanceActivePlans(ctx, time.Now())
		if err != nil {
			log.Printf("ERROR: Weekly plan advancement failed: %v", err)
			return
		}
		log.Printf("Weekly plan advancement complete, %d plans updated.", touched)
	})
	if err != nil {
		log.Fatalf("FATAL: Could not schedule weekly plan advancement: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// --- Initialize Gin Engine ---
	router := gin.Default() // Includes Logger and Recovery middleware

	// --- Setup Routes ---
	log.Println("Setting up API routes...")
	api.SetupRoutes(router, cfg.JWT.Secret, authService, planService, athleteService, coachService, engine, lib, fileStorage)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)

	// --- Graceful Shutdown ---
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("FATAL: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
