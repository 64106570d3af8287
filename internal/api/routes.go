package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"cyclecoach/internal/adjust"
	"cyclecoach/internal/library"
	"cyclecoach/internal/service"
	"cyclecoach/internal/storage"
)

// SetupRoutes registers every endpoint on the router. fileStorage may be nil
// when no object store is configured.
func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	planService service.PlanService,
	athleteService service.AthleteService,
	coachService service.CoachService,
	engine *adjust.Engine,
	lib *library.Library,
	fileStorage storage.FileStorage,
) {
	authHandler := NewAuthHandler(authService)
	planHandler := NewPlanHandler(planService, coachService, engine)
	workoutHandler := NewWorkoutHandler(planService, athleteService, lib, fileStorage)
	athleteHandler := NewAthleteHandler(athleteService, planService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		// --- Athlete Profile ---
		protected.GET("/profile", athleteHandler.GetProfile)
		protected.PUT("/profile", athleteHandler.UpdateProfile)
		protected.GET("/progression-levels", athleteHandler.GetProgressionLevels)

		// --- Training Plans ---
		planGroup := protected.Group("/training-plans")
		{
			planGroup.POST("", planHandler.GeneratePlan)
			planGroup.GET("", planHandler.ListPlans)
			planGroup.GET("/current", planHandler.GetCurrentPlan)
			planGroup.GET("/:planId", planHandler.GetPlan)
			planGroup.DELETE("/:planId", planHandler.DeletePlan)
			planGroup.POST("/:planId/extend", planHandler.ExtendPlan)
			planGroup.GET("/:planId/workouts", planHandler.ListPlanWorkouts)
			planGroup.PUT("/:planId/adjust", planHandler.AdjustPlan)
			planGroup.GET("/:planId/adjustments", planHandler.ListAdjustments)
			planGroup.GET("/:planId/narrative", planHandler.WeeklyNarrative)
		}

		// --- Scheduled Workouts ---
		plannedGroup := protected.Group("/planned-workouts")
		{
			plannedGroup.GET("/:workoutId", workoutHandler.GetWorkout)
			plannedGroup.POST("/:workoutId/complete", workoutHandler.CompleteWorkout)
			plannedGroup.POST("/:workoutId/skip", workoutHandler.SkipWorkout)
		}

		// --- Workout Library & Files ---
		workoutGroup := protected.Group("/workouts")
		{
			workoutGroup.GET("/library", workoutHandler.BrowseLibrary)
			workoutGroup.POST("/import", workoutHandler.ImportWorkout)
			workoutGroup.GET("/:shortName", workoutHandler.GetTemplate)
			workoutGroup.GET("/:shortName/export/:format", workoutHandler.ExportWorkout)
		}

		// --- FTP Testing ---
		ftpGroup := protected.Group("/ftp-tests")
		{
			ftpGroup.POST("", athleteHandler.ScheduleFTPTest)
			ftpGroup.GET("/history", athleteHandler.ListFTPTests)
			ftpGroup.POST("/:testId/complete", athleteHandler.CompleteFTPTest)
		}

		// --- Daily Readiness ---
		feedbackGroup := protected.Group("/rider-feedback")
		{
			feedbackGroup.POST("", athleteHandler.RecordFeedback)
			feedbackGroup.GET("/recent", athleteHandler.RecentFeedback)
		}
	}
}
