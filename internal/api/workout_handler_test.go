package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"cyclecoach/internal/domain"
	"cyclecoach/internal/library"
	"cyclecoach/internal/service"
)

// stubAthleteService returns a fixed profile; everything else is unused by
// the file handlers under test.
type stubAthleteService struct {
	user *domain.User
}

func (s *stubAthleteService) GetProfile(_ context.Context, _ primitive.ObjectID) (*domain.User, error) {
	return s.user, nil
}

func (s *stubAthleteService) UpdateProfile(_ context.Context, _ primitive.ObjectID, _ service.ProfileUpdate) (*domain.User, error) {
	return s.user, nil
}

func (s *stubAthleteService) ScheduleFTPTest(_ context.Context, _ primitive.ObjectID, _ *primitive.ObjectID, _ time.Time, _ domain.Phase) (*domain.FTPTest, error) {
	return nil, nil
}

func (s *stubAthleteService) CompleteFTPTest(_ context.Context, _, _ primitive.ObjectID, _ int, _ string) (*domain.FTPTest, error) {
	return nil, nil
}

func (s *stubAthleteService) ListFTPTests(_ context.Context, _ primitive.ObjectID) ([]domain.FTPTest, error) {
	return nil, nil
}

func (s *stubAthleteService) RecordFeedback(_ context.Context, _ primitive.ObjectID, fb *domain.RiderFeedback) (*domain.RiderFeedback, error) {
	return fb, nil
}

func (s *stubAthleteService) RecentFeedback(_ context.Context, _ primitive.ObjectID, _ int) ([]domain.RiderFeedback, error) {
	return nil, nil
}

func workoutTestRouter(ftp int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	lib := library.New(library.Catalog())
	handler := NewWorkoutHandler(nil, &stubAthleteService{user: &domain.User{
		ID:         primitive.NewObjectID(),
		Name:       "Test Rider",
		CurrentFTP: ftp,
	}}, lib, nil)

	router := gin.New()
	// Tests bypass JWT parsing and seed the context key directly.
	router.Use(func(c *gin.Context) {
		c.Set(ContextUserIDKey, primitive.NewObjectID().Hex())
	})
	router.GET("/workouts/library", handler.BrowseLibrary)
	router.GET("/workouts/:shortName", handler.GetTemplate)
	router.GET("/workouts/:shortName/export/:format", handler.ExportWorkout)
	router.POST("/workouts/import", handler.ImportWorkout)
	return router
}

func TestBrowseLibraryFiltersByZone(t *testing.T) {
	router := workoutTestRouter(250)

	req := httptest.NewRequest(http.MethodGet, "/workouts/library?zone=vo2max", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var templates []domain.WorkoutTemplate
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &templates))
	require.NotEmpty(t, templates)
	for _, tpl := range templates {
		assert.Equal(t, domain.ZoneVO2Max, tpl.PrimaryZone)
	}
}

func TestBrowseLibraryRejectsBadDuration(t *testing.T) {
	router := workoutTestRouter(250)

	req := httptest.NewRequest(http.MethodGet, "/workouts/library?min_duration=abc", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetTemplateByShortName(t *testing.T) {
	router := workoutTestRouter(250)

	req := httptest.NewRequest(http.MethodGet, "/workouts/"+url.PathEscape("Threshold 4x8"), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var tpl domain.WorkoutTemplate
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tpl))
	assert.Equal(t, "Threshold 4x8", tpl.ShortName)
	assert.Equal(t, domain.ZoneThreshold, tpl.PrimaryZone)
}

func TestGetTemplateNotFound(t *testing.T) {
	router := workoutTestRouter(250)

	req := httptest.NewRequest(http.MethodGet, "/workouts/nope", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExportWorkoutInlineMRC(t *testing.T) {
	router := workoutTestRouter(250)

	req := httptest.NewRequest(http.MethodGet, "/workouts/"+url.PathEscape("Threshold 4x8")+"/export/mrc", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp ExportWorkoutResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "mrc", resp.Format)
	assert.Contains(t, resp.Content, "[COURSE HEADER]")
	assert.Empty(t, resp.DownloadURL)
}

func TestExportERGRequiresFTP(t *testing.T) {
	router := workoutTestRouter(0)

	req := httptest.NewRequest(http.MethodGet, "/workouts/"+url.PathEscape("Threshold 4x8")+"/export/erg", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "FTP")
}

func TestExportUnknownFormat(t *testing.T) {
	router := workoutTestRouter(250)

	req := httptest.NewRequest(http.MethodGet, "/workouts/"+url.PathEscape("Threshold 4x8")+"/export/fit", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestImportWorkoutMRC(t *testing.T) {
	router := workoutTestRouter(250)

	content := "[COURSE HEADER]\nVERSION = 2\nUNITS = ENGLISH\n[END COURSE HEADER]\n[COURSE DATA]\n55\t10\n75\t30\n[END COURSE DATA]\n"
	body, err := json.Marshal(ImportWorkoutRequest{Content: content, Format: "mrc"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/workouts/import", strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var tpl domain.WorkoutTemplate
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tpl))
	assert.Equal(t, 2400, tpl.Duration)
	assert.NotZero(t, tpl.EstimatedTSS)
}

func TestImportWorkoutBadFormat(t *testing.T) {
	router := workoutTestRouter(250)

	body, err := json.Marshal(ImportWorkoutRequest{Content: "x", Format: "gpx"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/workouts/import", strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
