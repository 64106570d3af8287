package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"cyclecoach/internal/domain"
	"cyclecoach/internal/library"
	"cyclecoach/internal/observability"
	"cyclecoach/internal/service"
	"cyclecoach/internal/storage"
	"cyclecoach/internal/workoutfile"
)

// WorkoutHandler covers the workout lifecycle, the template library, and
// workout file import/export.
type WorkoutHandler struct {
	planService    service.PlanService
	athleteService service.AthleteService
	lib            *library.Library
	fileStorage    storage.FileStorage // nil disables uploaded exports
}

// NewWorkoutHandler creates a new WorkoutHandler. fileStorage may be nil, in
// which case exports are only returned inline.
func NewWorkoutHandler(planService service.PlanService, athleteService service.AthleteService, lib *library.Library, fileStorage storage.FileStorage) *WorkoutHandler {
	return &WorkoutHandler{
		planService:    planService,
		athleteService: athleteService,
		lib:            lib,
		fileStorage:    fileStorage,
	}
}

// --- Request/Response Structs ---

type CompleteWorkoutRequest struct {
	ActualDuration       int     `json:"actualDuration"` // seconds
	ActualTSS            float64 `json:"actualTss"`
	ActualAvgPower       int     `json:"actualAvgPower"`
	CompletionPercentage float64 `json:"completionPercentage" binding:"omitempty,min=0,max=100"`
	RPE                  int     `json:"rpe" binding:"omitempty,min=1,max=10"`
	Notes                string  `json:"notes"`
}

type SkipWorkoutRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type ImportWorkoutRequest struct {
	Content string `json:"content" binding:"required"`
	Format  string `json:"format" binding:"required"`
}

type ExportWorkoutResponse struct {
	ShortName   string `json:"shortName"`
	Format      string `json:"format"`
	ContentType string `json:"contentType"`
	Content     string `json:"content,omitempty"`
	DownloadURL string `json:"downloadUrl,omitempty"`
}

type WorkoutResponse struct {
	ID            string `json:"id"`
	PlanID        string `json:"planId"`
	ScheduledDate string `json:"scheduledDate"`
	WeekNumber    int    `json:"weekNumber"`
	Phase         string `json:"phase"`

	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	PrimaryZone   string `json:"primaryZone"`
	SecondaryZone string `json:"secondaryZone,omitempty"`
	WorkoutType   string `json:"workoutType"`

	PlannedDuration int               `json:"plannedDuration"`
	PlannedTSS      float64           `json:"plannedTss"`
	Intervals       []domain.Interval `json:"intervals,omitempty"`

	ProgressionLevel float64 `json:"progressionLevel,omitempty"`
	DifficultyScore  float64 `json:"difficultyScore,omitempty"`

	Status               string     `json:"status"`
	ActualDuration       int        `json:"actualDuration,omitempty"`
	ActualTSS            float64    `json:"actualTss,omitempty"`
	ActualAvgPower       int        `json:"actualAvgPower,omitempty"`
	CompletionPercentage float64    `json:"completionPercentage,omitempty"`
	RPE                  int        `json:"rpe,omitempty"`
	Notes                string     `json:"notes,omitempty"`
	CompletedAt          *time.Time `json:"completedAt,omitempty"`
}

// --- Handler Methods ---

// GetWorkout returns one scheduled workout.
func (h *WorkoutHandler) GetWorkout(c *gin.Context) {
	userID, workoutID, ok := h.workoutPathIDs(c)
	if !ok {
		return
	}

	workout, err := h.planService.GetWorkout(c.Request.Context(), userID, workoutID)
	if err != nil {
		h.mapWorkoutError(c, err, "Failed to retrieve workout")
		return
	}
	c.JSON(http.StatusOK, MapWorkoutToResponse(workout))
}

// CompleteWorkout finalizes a scheduled workout with actuals.
func (h *WorkoutHandler) CompleteWorkout(c *gin.Context) {
	userID, workoutID, ok := h.workoutPathIDs(c)
	if !ok {
		return
	}
	var req CompleteWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	workout, err := h.planService.CompleteWorkout(c.Request.Context(), userID, workoutID, service.CompletionInput{
		ActualDuration:       req.ActualDuration,
		ActualTSS:            req.ActualTSS,
		ActualAvgPower:       req.ActualAvgPower,
		CompletionPercentage: req.CompletionPercentage,
		RPE:                  req.RPE,
		Notes:                req.Notes,
	})
	if err != nil {
		h.mapWorkoutError(c, err, "Failed to complete workout")
		return
	}

	observability.RecordWorkoutCompleted()
	c.JSON(http.StatusOK, MapWorkoutToResponse(workout))
}

// SkipWorkout marks a scheduled workout skipped. A reason is mandatory.
func (h *WorkoutHandler) SkipWorkout(c *gin.Context) {
	userID, workoutID, ok := h.workoutPathIDs(c)
	if !ok {
		return
	}
	var req SkipWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	workout, err := h.planService.SkipWorkout(c.Request.Context(), userID, workoutID, req.Reason)
	if err != nil {
		h.mapWorkoutError(c, err, "Failed to skip workout")
		return
	}

	observability.RecordWorkoutSkipped()
	c.JSON(http.StatusOK, MapWorkoutToResponse(workout))
}

// BrowseLibrary lists catalog templates matching optional query filters.
func (h *WorkoutHandler) BrowseLibrary(c *gin.Context) {
	var filter library.Filter
	filter.Zone = domain.Zone(c.Query("zone"))
	filter.Type = domain.WorkoutType(c.Query("type"))
	filter.Phase = domain.Phase(c.Query("phase"))

	var bindErr error
	filter.MinDuration = queryInt(c, "min_duration", &bindErr)
	filter.MaxDuration = queryInt(c, "max_duration", &bindErr)
	filter.DifficultyMin = queryFloat(c, "difficulty_min", &bindErr)
	filter.DifficultyMax = queryFloat(c, "difficulty_max", &bindErr)
	if bindErr != nil {
		abortWithError(c, http.StatusBadRequest, bindErr.Error())
		return
	}

	c.JSON(http.StatusOK, h.lib.Browse(filter))
}

// GetTemplate returns one catalog template by its short name.
func (h *WorkoutHandler) GetTemplate(c *gin.Context) {
	template, ok := h.lib.ByShortName(c.Param("shortName"))
	if !ok {
		abortWithError(c, http.StatusNotFound, "Workout template not found")
		return
	}
	c.JSON(http.StatusOK, template)
}

// ImportWorkout parses an uploaded workout file into a template structure.
// ERG files need the athlete's FTP to convert watts into fractions.
func (h *WorkoutHandler) ImportWorkout(c *gin.Context) {
	userID, err := userIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identification")
		return
	}
	var req ImportWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	format, err := workoutfile.ParseFormat(req.Format)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.athleteService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to load athlete profile")
		return
	}

	template, err := workoutfile.Import(req.Content, format, user.CurrentFTP)
	if err != nil {
		switch {
		case errors.Is(err, workoutfile.ErrFTPRequired):
			abortWithError(c, http.StatusBadRequest, "Set your FTP before importing watt-based files")
		case errors.Is(err, workoutfile.ErrNoData), errors.Is(err, workoutfile.ErrUnknownFormat):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Could not parse workout file: %v", err))
		}
		return
	}
	c.JSON(http.StatusOK, template)
}

// ExportWorkout renders a catalog template in the requested file format.
// With ?upload=true and configured storage, the file is uploaded and a
// presigned download URL returned instead of inline content.
func (h *WorkoutHandler) ExportWorkout(c *gin.Context) {
	userID, err := userIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identification")
		return
	}

	shortName := c.Param("shortName")
	template, ok := h.lib.ByShortName(shortName)
	if !ok {
		abortWithError(c, http.StatusNotFound, "Workout template not found")
		return
	}

	format, err := workoutfile.ParseFormat(c.Param("format"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.athleteService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to load athlete profile")
		return
	}

	content, err := workoutfile.Export(template, format, user.CurrentFTP)
	if err != nil {
		if errors.Is(err, workoutfile.ErrFTPRequired) {
			abortWithError(c, http.StatusBadRequest, "Set your FTP before exporting watt-based files")
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to export workout")
		}
		return
	}

	resp := ExportWorkoutResponse{
		ShortName:   shortName,
		Format:      string(format),
		ContentType: format.ContentType(),
	}

	if c.Query("upload") == "true" && h.fileStorage != nil {
		objectKey := fmt.Sprintf("exports/%s/%s-%s.%s", userID.Hex(), shortName, uuid.NewString(), format)
		ctx := c.Request.Context()
		if err := h.fileStorage.UploadObject(ctx, objectKey, format.ContentType(), []byte(content)); err != nil {
			abortWithError(c, http.StatusInternalServerError, "Failed to upload workout file")
			return
		}
		url, err := h.fileStorage.GeneratePresignedDownloadURL(ctx, objectKey, storage.DefaultPresignedURLExpiry)
		if err != nil {
			abortWithError(c, http.StatusInternalServerError, "Failed to generate download link")
			return
		}
		resp.DownloadURL = url
	} else {
		resp.Content = content
	}
	c.JSON(http.StatusOK, resp)
}

func queryInt(c *gin.Context, name string, bindErr *error) int {
	raw := c.Query(name)
	if raw == "" || *bindErr != nil {
		return 0
	}
	var v int
	if _, err := fmt.Sscanf(raw, "%d", &v); err != nil || v < 0 {
		*bindErr = fmt.Errorf("%s must be a non-negative integer", name)
		return 0
	}
	return v
}

func queryFloat(c *gin.Context, name string, bindErr *error) float64 {
	raw := c.Query(name)
	if raw == "" || *bindErr != nil {
		return 0
	}
	var v float64
	if _, err := fmt.Sscanf(raw, "%f", &v); err != nil || v < 0 {
		*bindErr = fmt.Errorf("%s must be a non-negative number", name)
		return 0
	}
	return v
}

// --- Helpers ---

func (h *WorkoutHandler) workoutPathIDs(c *gin.Context) (userID, workoutID primitive.ObjectID, ok bool) {
	userID, err := userIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Invalid user identification")
		return userID, workoutID, false
	}
	workoutID, err = primitive.ObjectIDFromHex(c.Param("workoutId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid workout ID format")
		return userID, workoutID, false
	}
	return userID, workoutID, true
}

func (h *WorkoutHandler) mapWorkoutError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrWorkoutNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrNotPlanOwner):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrWorkoutNotPending):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrSkipReasonRequired):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, fallback)
	}
}

// MapWorkoutToResponse converts a domain PlannedWorkout to its DTO.
func MapWorkoutToResponse(w *domain.PlannedWorkout) WorkoutResponse {
	if w == nil {
		return WorkoutResponse{}
	}
	return WorkoutResponse{
		ID:                   w.ID.Hex(),
		PlanID:               w.PlanID.Hex(),
		ScheduledDate:        w.ScheduledDate.Format("2006-01-02"),
		WeekNumber:           w.WeekNumber,
		Phase:                string(w.Phase),
		Name:                 w.Name,
		Description:          w.Description,
		PrimaryZone:          string(w.PrimaryZone),
		SecondaryZone:        string(w.SecondaryZone),
		WorkoutType:          string(w.Type),
		PlannedDuration:      w.PlannedDuration,
		PlannedTSS:           w.PlannedTSS,
		Intervals:            w.Intervals,
		ProgressionLevel:     w.ProgressionLevel,
		DifficultyScore:      w.DifficultyScore,
		Status:               string(w.Status),
		ActualDuration:       w.ActualDuration,
		ActualTSS:            w.ActualTSS,
		ActualAvgPower:       w.ActualAvgPower,
		CompletionPercentage: w.CompletionPercentage,
		RPE:                  w.RPE,
		Notes:                w.Notes,
		CompletedAt:          w.CompletedAt,
	}
}
