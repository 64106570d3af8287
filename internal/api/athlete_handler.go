package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"cyclecoach/internal/domain"
	"cyclecoach/internal/service"
)

// AthleteHandler covers the athlete profile, FTP testing, readiness
// feedback, and progression levels.
type AthleteHandler struct {
	athleteService service.AthleteService
	planService    service.PlanService
}

// NewAthleteHandler creates a new AthleteHandler.
func NewAthleteHandler(athleteService service.AthleteService, planService service.PlanService) *AthleteHandler {
	return &AthleteHandler{
		athleteService: athleteService,
		planService:    planService,
	}
}

// --- Request/Response Structs ---

type UpdateProfileRequest struct {
	Name              *string  `json:"name"`
	CurrentFTP        *int     `json:"currentFtp" binding:"omitempty,min=50,max=600"`
	Weight            *float64 `json:"weight" binding:"omitempty,gt=0"`
	Experience        *string  `json:"experience" binding:"omitempty,oneof=beginner intermediate advanced"`
	PreferredTestType *string  `json:"preferredTestType" binding:"omitempty,oneof=ramp 8_minute 20_minute"`
}

type ScheduleFTPTestRequest struct {
	PlanID string `json:"planId"`
	Date   string `json:"date" binding:"required"` // YYYY-MM-DD
	Phase  string `json:"phase" binding:"omitempty,oneof=base build specialty"`
}

type CompleteFTPTestRequest struct {
	MeasuredPower int    `json:"measuredPower" binding:"required,gt=0"`
	Notes         string `json:"notes"`
}

type FeedbackRequest struct {
	OverallFeeling int    `json:"overallFeeling" binding:"required,min=1,max=5"`
	SleepQuality   int    `json:"sleepQuality" binding:"required,min=1,max=5"`
	MuscleSoreness int    `json:"muscleSoreness" binding:"required,min=1,max=5"`
	Motivation     int    `json:"motivation" binding:"required,min=1,max=5"`
	StressLevel    string `json:"stressLevel"`

	Illness            bool   `json:"illness"`
	IllnessDescription string `json:"illnessDescription"`
	Injury             bool   `json:"injury"`
	InjuryDescription  string `json:"injuryDescription"`

	WorkStress    string `json:"workStress"`
	Travel        bool   `json:"travel"`
	TimeAvailable string `json:"timeAvailable"`
	Notes         string `json:"notes"`
}

// --- Handler Methods ---

// GetProfile returns the authenticated athlete's profile.
func (h *AthleteHandler) GetProfile(c *gin.Context) {
	userID, err := userIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identification")
		return
	}

	user, err := h.athleteService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		h.mapAthleteError(c, err, "Failed to retrieve profile")
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}

// UpdateProfile applies a partial update to the athlete's profile.
func (h *AthleteHandler) UpdateProfile(c *gin.Context) {
	userID, err := userIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identification")
		return
	}
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	update := service.ProfileUpdate{
		Name:       req.Name,
		CurrentFTP: req.CurrentFTP,
		Weight:     req.Weight,
	}
	if req.Experience != nil {
		exp := domain.TrainingExperience(*req.Experience)
		update.Experience = &exp
	}
	if req.PreferredTestType != nil {
		tt := domain.FTPTestType(*req.PreferredTestType)
		update.PreferredTestType = &tt
	}

	user, err := h.athleteService.UpdateProfile(c.Request.Context(), userID, update)
	if err != nil {
		h.mapAthleteError(c, err, "Failed to update profile")
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}

// ScheduleFTPTest books an FTP assessment. The protocol is picked from the
// athlete's experience level and stated preference.
func (h *AthleteHandler) ScheduleFTPTest(c *gin.Context) {
	userID, err := userIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identification")
		return
	}
	var req ScheduleFTPTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	var planID *primitive.ObjectID
	if req.PlanID != "" {
		id, err := primitive.ObjectIDFromHex(req.PlanID)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid plan ID format")
			return
		}
		planID = &id
	}

	test, err := h.athleteService.ScheduleFTPTest(c.Request.Context(), userID, planID, date, domain.Phase(req.Phase))
	if err != nil {
		h.mapAthleteError(c, err, "Failed to schedule FTP test")
		return
	}
	c.JSON(http.StatusCreated, test)
}

// CompleteFTPTest records the measured power for a scheduled test and
// updates the athlete's FTP from the protocol's conversion factor.
func (h *AthleteHandler) CompleteFTPTest(c *gin.Context) {
	userID, err := userIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identification")
		return
	}
	testID, err := primitive.ObjectIDFromHex(c.Param("testId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid test ID format")
		return
	}
	var req CompleteFTPTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	test, err := h.athleteService.CompleteFTPTest(c.Request.Context(), userID, testID, req.MeasuredPower, req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTestNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrTestAlreadyCompleted):
			abortWithError(c, http.StatusConflict, err.Error())
		case errors.Is(err, service.ErrInvalidPower):
			abortWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrNotPlanOwner):
			abortWithError(c, http.StatusForbidden, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to complete FTP test")
		}
		return
	}
	c.JSON(http.StatusOK, test)
}

// ListFTPTests returns the athlete's test history, newest first.
func (h *AthleteHandler) ListFTPTests(c *gin.Context) {
	userID, err := userIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identification")
		return
	}

	tests, err := h.athleteService.ListFTPTests(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve FTP tests")
		return
	}
	c.JSON(http.StatusOK, tests)
}

// RecordFeedback stores a daily readiness check-in.
func (h *AthleteHandler) RecordFeedback(c *gin.Context) {
	userID, err := userIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identification")
		return
	}
	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	feedback, err := h.athleteService.RecordFeedback(c.Request.Context(), userID, &domain.RiderFeedback{
		OverallFeeling:     req.OverallFeeling,
		SleepQuality:       req.SleepQuality,
		MuscleSoreness:     req.MuscleSoreness,
		Motivation:         req.Motivation,
		StressLevel:        req.StressLevel,
		Illness:            req.Illness,
		IllnessDescription: req.IllnessDescription,
		Injury:             req.Injury,
		InjuryDescription:  req.InjuryDescription,
		WorkStress:         req.WorkStress,
		Travel:             req.Travel,
		TimeAvailable:      req.TimeAvailable,
		Notes:              req.Notes,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidReadiness) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to record feedback")
		}
		return
	}
	c.JSON(http.StatusCreated, feedback)
}

// RecentFeedback returns check-ins from the last N days (default 7).
func (h *AthleteHandler) RecentFeedback(c *gin.Context) {
	userID, err := userIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identification")
		return
	}

	days := 7
	if daysStr := c.Query("days"); daysStr != "" {
		if _, err := fmt.Sscanf(daysStr, "%d", &days); err != nil || days < 1 {
			abortWithError(c, http.StatusBadRequest, "days must be a positive integer")
			return
		}
	}

	feedback, err := h.athleteService.RecentFeedback(c.Request.Context(), userID, days)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve feedback")
		return
	}
	c.JSON(http.StatusOK, feedback)
}

// GetProgressionLevels returns the athlete's per-zone progression document.
func (h *AthleteHandler) GetProgressionLevels(c *gin.Context) {
	userID, err := userIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identification")
		return
	}

	levels, err := h.planService.GetProgression(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve progression levels")
		return
	}
	c.JSON(http.StatusOK, levels)
}

func (h *AthleteHandler) mapAthleteError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, fallback)
	}
}
