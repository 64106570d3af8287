package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"cyclecoach/internal/adjust"
	"cyclecoach/internal/domain"
	"cyclecoach/internal/observability"
	"cyclecoach/internal/planner"
	"cyclecoach/internal/repository"
	"cyclecoach/internal/service"
)

// PlanHandler holds plan, adjustment, and coach dependencies.
type PlanHandler struct {
	planService  service.PlanService
	coachService service.CoachService
	engine       *adjust.Engine
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(planService service.PlanService, coachService service.CoachService, engine *adjust.Engine) *PlanHandler {
	return &PlanHandler{
		planService:  planService,
		coachService: coachService,
		engine:       engine,
	}
}

// --- Request/Response Structs ---

type GeneratePlanRequest struct {
	Goal            string  `json:"goal"`
	GoalType        string  `json:"goalType" binding:"required,oneof=ftp_increase century_ride race_prep general_fitness"`
	Weeks           int     `json:"weeks" binding:"required,min=4,max=52"`
	HoursPerWeek    float64 `json:"hoursPerWeek" binding:"required,gt=0"`
	RidesPerWeek    int     `json:"ridesPerWeek" binding:"required,min=3,max=6"`
	TrainingDays    []int   `json:"trainingDays" binding:"required"` // 0 = Monday
	TargetFTP       int     `json:"targetFtp"`
	TargetEventDate *string `json:"targetEventDate"` // YYYY-MM-DD
}

type ExtendPlanRequest struct {
	AdditionalWeeks int    `json:"additionalWeeks" binding:"required,min=1"`
	Reason          string `json:"reason"`
}

// AdjustPlanRequest is a tagged union over the mutation operations. Which
// fields are consulted depends on AdjustmentType.
type AdjustPlanRequest struct {
	AdjustmentType string `json:"adjustmentType" binding:"required"`
	Reason         string `json:"reason"`

	WorkoutID string `json:"workoutId"`

	// intensity_change, unplanned_activity_override, priority_event_added
	TSS float64 `json:"tss"`

	// reschedule, rest_day_added, priority_event_added
	Date string `json:"date"` // YYYY-MM-DD

	// workout_swap, priority_event_added
	Name        string `json:"name"`
	Description string `json:"description"`

	// weekly_volume_change, week_rebalanced
	WeekNumber    int     `json:"weekNumber"`
	ChangePercent float64 `json:"changePercent"`
	TSSDelta      float64 `json:"tssDelta"`

	// unplanned_activity_override
	Duration int `json:"duration"` // seconds

	// priority_event_added
	EventType string `json:"eventType"`
	Notes     string `json:"notes"`
}

type PlanResponse struct {
	ID                   string     `json:"id"`
	Name                 string     `json:"name"`
	Goal                 string     `json:"goal,omitempty"`
	GoalType             string     `json:"goalType"`
	StartDate            time.Time  `json:"startDate"`
	EndDate              time.Time  `json:"endDate"`
	TargetEventDate      *time.Time `json:"targetEventDate,omitempty"`
	BaselineFTP          int        `json:"baselineFtp,omitempty"`
	TargetFTP            int        `json:"targetFtp,omitempty"`
	TotalWeeks           int        `json:"totalWeeks"`
	BaseWeeks            int        `json:"baseWeeks"`
	BuildWeeks           int        `json:"buildWeeks"`
	SpecialtyWeeks       int        `json:"specialtyWeeks"`
	WeeklyHours          float64    `json:"weeklyHours"`
	RidesPerWeek         int        `json:"ridesPerWeek"`
	TrainingDays         []int      `json:"trainingDays"`
	Status               string     `json:"status"`
	CurrentWeek          int        `json:"currentWeek"`
	CurrentPhase         string     `json:"currentPhase"`
	CompletionPercentage float64    `json:"completionPercentage"`
	NextFTPTest          *time.Time `json:"nextFtpTest,omitempty"`
	CreatedAt            time.Time  `json:"createdAt"`
}

type GeneratePlanResponse struct {
	Plan     PlanResponse      `json:"plan"`
	Workouts []WorkoutResponse `json:"workouts"`
}

type AdjustmentResponse struct {
	ID               string                 `json:"id"`
	PlanID           string                 `json:"planId"`
	AdjustmentType   string                 `json:"adjustmentType"`
	TargetDate       *time.Time             `json:"targetDate,omitempty"`
	TriggerReason    string                 `json:"triggerReason"`
	ChangesMade      map[string]interface{} `json:"changesMade"`
	AffectedWorkouts []string               `json:"affectedWorkouts,omitempty"`
	EstimatedImpact  string                 `json:"estimatedImpact,omitempty"`
	CreatedAt        time.Time              `json:"createdAt"`
}

// --- Handler Methods ---

// GeneratePlan creates a new periodized plan for the authenticated athlete.
func (h *PlanHandler) GeneratePlan(c *gin.Context) {
	userID, err := userIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identification")
		return
	}
	var req GeneratePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	plannerReq := planner.Request{
		Goal:         req.Goal,
		GoalType:     domain.GoalType(req.GoalType),
		Weeks:        req.Weeks,
		HoursPerWeek: req.HoursPerWeek,
		RidesPerWeek: req.RidesPerWeek,
		TrainingDays: req.TrainingDays,
		TargetFTP:    req.TargetFTP,
	}
	if req.TargetEventDate != nil {
		eventDate, err := time.Parse("2006-01-02", *req.TargetEventDate)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "targetEventDate must be YYYY-MM-DD")
			return
		}
		plannerReq.TargetEventDate = &eventDate
	}

	plan, workouts, err := h.planService.GeneratePlan(c.Request.Context(), userID, plannerReq)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, planner.ErrInvalidWeeks),
			errors.Is(err, planner.ErrInvalidRides),
			errors.Is(err, planner.ErrInvalidTrainingDays):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to generate training plan")
		}
		return
	}

	observability.RecordPlanGenerated()

	resp := GeneratePlanResponse{Plan: MapPlanToResponse(plan)}
	resp.Workouts = make([]WorkoutResponse, len(workouts))
	for i := range workouts {
		resp.Workouts[i] = MapWorkoutToResponse(&workouts[i])
	}
	c.JSON(http.StatusCreated, resp)
}

// ListPlans returns all of the athlete's plans.
func (h *PlanHandler) ListPlans(c *gin.Context) {
	userID, err := userIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identification")
		return
	}

	plans, err := h.planService.ListPlans(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve plans")
		return
	}

	resp := make([]PlanResponse, len(plans))
	for i := range plans {
		resp[i] = MapPlanToResponse(&plans[i])
	}
	c.JSON(http.StatusOK, resp)
}

// GetCurrentPlan returns the athlete's active plan.
func (h *PlanHandler) GetCurrentPlan(c *gin.Context) {
	userID, err := userIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identification")
		return
	}

	plan, err := h.planService.GetActivePlan(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrPlanNotFound) {
			abortWithError(c, http.StatusNotFound, "No active training plan")
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to retrieve plan")
		}
		return
	}
	c.JSON(http.StatusOK, MapPlanToResponse(plan))
}

// GetPlan returns one plan by ID.
func (h *PlanHandler) GetPlan(c *gin.Context) {
	userID, planID, ok := h.planPathIDs(c)
	if !ok {
		return
	}

	plan, err := h.planService.GetPlan(c.Request.Context(), userID, planID)
	if err != nil {
		h.mapPlanError(c, err, "Failed to retrieve plan")
		return
	}
	c.JSON(http.StatusOK, MapPlanToResponse(plan))
}

// DeletePlan removes a plan, its workouts, and its adjustment history.
func (h *PlanHandler) DeletePlan(c *gin.Context) {
	userID, planID, ok := h.planPathIDs(c)
	if !ok {
		return
	}

	if err := h.planService.DeletePlan(c.Request.Context(), userID, planID); err != nil {
		h.mapPlanError(c, err, "Failed to delete plan")
		return
	}
	c.Status(http.StatusNoContent)
}

// ExtendPlan appends weeks to a plan and schedules workouts for them.
func (h *PlanHandler) ExtendPlan(c *gin.Context) {
	userID, planID, ok := h.planPathIDs(c)
	if !ok {
		return
	}
	var req ExtendPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	plan, err := h.planService.ExtendPlan(c.Request.Context(), userID, planID, req.AdditionalWeeks, req.Reason)
	if err != nil {
		if errors.Is(err, service.ErrInvalidExtension) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			h.mapPlanError(c, err, "Failed to extend plan")
		}
		return
	}

	observability.RecordAdjustment(domain.AdjustPlanExtended)
	c.JSON(http.StatusOK, MapPlanToResponse(plan))
}

// ListPlanWorkouts returns a plan's workouts, optionally filtered by week,
// date range, or status via query parameters.
func (h *PlanHandler) ListPlanWorkouts(c *gin.Context) {
	userID, planID, ok := h.planPathIDs(c)
	if !ok {
		return
	}

	var filter repository.WorkoutFilter
	if weekStr := c.Query("week"); weekStr != "" {
		var week int
		if _, err := fmt.Sscanf(weekStr, "%d", &week); err != nil || week < 1 {
			abortWithError(c, http.StatusBadRequest, "week must be a positive integer")
			return
		}
		filter.WeekNumber = &week
	}
	if startStr := c.Query("start_date"); startStr != "" {
		start, err := time.Parse("2006-01-02", startStr)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "start_date must be YYYY-MM-DD")
			return
		}
		filter.StartDate = &start
	}
	if endStr := c.Query("end_date"); endStr != "" {
		end, err := time.Parse("2006-01-02", endStr)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "end_date must be YYYY-MM-DD")
			return
		}
		filter.EndDate = &end
	}
	if status := c.Query("status"); status != "" {
		filter.Status = domain.WorkoutStatus(status)
	}

	workouts, err := h.planService.ListWorkouts(c.Request.Context(), userID, planID, filter)
	if err != nil {
		h.mapPlanError(c, err, "Failed to retrieve workouts")
		return
	}

	resp := make([]WorkoutResponse, len(workouts))
	for i := range workouts {
		resp[i] = MapWorkoutToResponse(&workouts[i])
	}
	c.JSON(http.StatusOK, resp)
}

// AdjustPlan dispatches one plan mutation operation to the adjustment engine.
func (h *PlanHandler) AdjustPlan(c *gin.Context) {
	userID, planID, ok := h.planPathIDs(c)
	if !ok {
		return
	}
	var req AdjustPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	ctx := c.Request.Context()
	adjType := domain.AdjustmentType(req.AdjustmentType)

	var adjustment *domain.PlanAdjustment
	var err error

	switch adjType {
	case domain.AdjustIntensity:
		workoutID, perr := h.parseWorkoutID(c, req.WorkoutID)
		if perr != nil {
			return
		}
		adjustment, err = h.engine.AdjustIntensity(ctx, userID, workoutID, req.TSS, req.Reason)

	case domain.AdjustReschedule:
		workoutID, perr := h.parseWorkoutID(c, req.WorkoutID)
		if perr != nil {
			return
		}
		newDate, perr := h.parseDate(c, req.Date)
		if perr != nil {
			return
		}
		adjustment, err = h.engine.Reschedule(ctx, userID, workoutID, newDate, req.Reason)

	case domain.AdjustWorkoutSwap:
		workoutID, perr := h.parseWorkoutID(c, req.WorkoutID)
		if perr != nil {
			return
		}
		adjustment, err = h.engine.SwapWorkout(ctx, userID, workoutID, req.Name, req.Description, req.Reason)

	case domain.AdjustRestDay:
		date, perr := h.parseDate(c, req.Date)
		if perr != nil {
			return
		}
		adjustment, err = h.engine.AddRestDay(ctx, userID, planID, date, req.Reason)

	case domain.AdjustWeeklyVolume:
		adjustment, err = h.engine.AdjustWeeklyVolume(ctx, userID, planID, req.WeekNumber, req.ChangePercent, req.Reason)

	case domain.AdjustUnplannedRide:
		workoutID, perr := h.parseWorkoutID(c, req.WorkoutID)
		if perr != nil {
			return
		}
		var result *adjust.OverrideResult
		result, err = h.engine.OverrideWithUnplannedActivity(ctx, userID, workoutID, req.Description, req.TSS, req.Duration, req.Reason)
		if result != nil {
			adjustment = result.Adjustment
		}

	case domain.AdjustPriorityEvent:
		date, perr := h.parseDate(c, req.Date)
		if perr != nil {
			return
		}
		adjustment, err = h.engine.AddPriorityEvent(ctx, userID, planID, date, req.Name, req.EventType, req.TSS, req.Notes)

	case domain.AdjustWeekRebalance:
		adjustment, err = h.engine.RebalanceWeek(ctx, userID, planID, req.WeekNumber, req.TSSDelta, req.Reason)

	default:
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Unknown adjustment type: %s", req.AdjustmentType))
		return
	}

	if err != nil {
		h.mapAdjustError(c, err)
		return
	}

	observability.RecordAdjustment(adjType)
	c.JSON(http.StatusOK, MapAdjustmentToResponse(adjustment))
}

// ListAdjustments returns a plan's adjustment history, newest first.
func (h *PlanHandler) ListAdjustments(c *gin.Context) {
	userID, planID, ok := h.planPathIDs(c)
	if !ok {
		return
	}

	limit := int64(50)
	if limitStr := c.Query("limit"); limitStr != "" {
		var parsed int64
		if _, err := fmt.Sscanf(limitStr, "%d", &parsed); err != nil || parsed < 1 {
			abortWithError(c, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	history, err := h.engine.History(c.Request.Context(), userID, planID, limit)
	if err != nil {
		h.mapAdjustError(c, err)
		return
	}

	resp := make([]AdjustmentResponse, len(history))
	for i := range history {
		resp[i] = MapAdjustmentToResponse(&history[i])
	}
	c.JSON(http.StatusOK, resp)
}

// WeeklyNarrative returns the coach's narrative for the plan's current week.
func (h *PlanHandler) WeeklyNarrative(c *gin.Context) {
	userID, planID, ok := h.planPathIDs(c)
	if !ok {
		return
	}

	narrative, err := h.coachService.WeeklyNarrative(c.Request.Context(), userID, planID)
	if err != nil {
		h.mapPlanError(c, err, "Failed to build weekly narrative")
		return
	}
	c.JSON(http.StatusOK, narrative)
}

// --- Helpers ---

func (h *PlanHandler) planPathIDs(c *gin.Context) (userID, planID primitive.ObjectID, ok bool) {
	userID, err := userIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identification")
		return userID, planID, false
	}
	planID, err = primitive.ObjectIDFromHex(c.Param("planId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID format")
		return userID, planID, false
	}
	return userID, planID, true
}

func (h *PlanHandler) parseWorkoutID(c *gin.Context, raw string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "workoutId must be a valid object ID")
		return primitive.NilObjectID, err
	}
	return id, nil
}

func (h *PlanHandler) parseDate(c *gin.Context, raw string) (time.Time, error) {
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return time.Time{}, err
	}
	return date, nil
}

func (h *PlanHandler) mapPlanError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrPlanNotFound), errors.Is(err, service.ErrWorkoutNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrNotPlanOwner):
		abortWithError(c, http.StatusForbidden, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, fallback)
	}
}

func (h *PlanHandler) mapAdjustError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, adjust.ErrPlanNotFound), errors.Is(err, adjust.ErrWorkoutNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, adjust.ErrNotOwner):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, adjust.ErrWorkoutFinalized):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, adjust.ErrInvalidAdjustment),
		errors.Is(err, adjust.ErrNoWorkoutsInWeek),
		errors.Is(err, adjust.ErrNothingToRebalance):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "Failed to apply adjustment")
	}
}

// MapPlanToResponse converts a domain TrainingPlan to its DTO.
func MapPlanToResponse(plan *domain.TrainingPlan) PlanResponse {
	if plan == nil {
		return PlanResponse{}
	}
	return PlanResponse{
		ID:                   plan.ID.Hex(),
		Name:                 plan.Name,
		Goal:                 plan.Goal,
		GoalType:             string(plan.GoalType),
		StartDate:            plan.StartDate,
		EndDate:              plan.EndDate,
		TargetEventDate:      plan.TargetEventDate,
		BaselineFTP:          plan.BaselineFTP,
		TargetFTP:            plan.TargetFTP,
		TotalWeeks:           plan.TotalWeeks,
		BaseWeeks:            plan.BaseWeeks,
		BuildWeeks:           plan.BuildWeeks,
		SpecialtyWeeks:       plan.SpecialtyWeeks,
		WeeklyHours:          plan.WeeklyHours,
		RidesPerWeek:         plan.RidesPerWeek,
		TrainingDays:         plan.TrainingDays,
		Status:               string(plan.Status),
		CurrentWeek:          plan.CurrentWeek,
		CurrentPhase:         string(plan.CurrentPhase),
		CompletionPercentage: plan.CompletionPercentage,
		NextFTPTest:          plan.NextFTPTest,
		CreatedAt:            plan.CreatedAt,
	}
}

// MapAdjustmentToResponse converts a PlanAdjustment audit row to its DTO.
func MapAdjustmentToResponse(adj *domain.PlanAdjustment) AdjustmentResponse {
	if adj == nil {
		return AdjustmentResponse{}
	}
	resp := AdjustmentResponse{
		ID:              adj.ID.Hex(),
		PlanID:          adj.PlanID.Hex(),
		AdjustmentType:  string(adj.Type),
		TargetDate:      adj.TargetDate,
		TriggerReason:   adj.TriggerReason,
		ChangesMade:     adj.ChangesMade,
		EstimatedImpact: adj.EstimatedImpact,
		CreatedAt:       adj.CreatedAt,
	}
	if len(adj.AffectedWorkouts) > 0 {
		resp.AffectedWorkouts = make([]string, len(adj.AffectedWorkouts))
		for i, id := range adj.AffectedWorkouts {
			resp.AffectedWorkouts[i] = id.Hex()
		}
	}
	return resp
}
