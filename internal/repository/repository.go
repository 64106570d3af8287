package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"cyclecoach/internal/domain"
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

// TrainingPlanRepository defines the interface for interacting with training plan data.
type TrainingPlanRepository interface {
	Create(ctx context.Context, plan *domain.TrainingPlan) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.TrainingPlan, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.TrainingPlan, error)
	GetActiveByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.TrainingPlan, error)
	ListActive(ctx context.Context) ([]domain.TrainingPlan, error)
	Update(ctx context.Context, plan *domain.TrainingPlan) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// WorkoutFilter narrows PlannedWorkout listings.
type WorkoutFilter struct {
	WeekNumber *int
	StartDate  *time.Time
	EndDate    *time.Time
	Status     domain.WorkoutStatus
}

// PlannedWorkoutRepository defines the interface for interacting with scheduled workout data.
type PlannedWorkoutRepository interface {
	Create(ctx context.Context, workout *domain.PlannedWorkout) (primitive.ObjectID, error)
	CreateMany(ctx context.Context, workouts []*domain.PlannedWorkout) ([]primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.PlannedWorkout, error)
	GetByPlanID(ctx context.Context, planID primitive.ObjectID, filter WorkoutFilter) ([]domain.PlannedWorkout, error)
	GetByPlanAndDate(ctx context.Context, planID primitive.ObjectID, date time.Time) (*domain.PlannedWorkout, error)
	Update(ctx context.Context, workout *domain.PlannedWorkout) error
	CountByPlanID(ctx context.Context, planID primitive.ObjectID) (total, completed int64, err error)
	DeleteByPlanID(ctx context.Context, planID primitive.ObjectID) error
}

// AdjustmentRepository persists the append-only audit trail. There is
// deliberately no Update or Delete.
type AdjustmentRepository interface {
	Create(ctx context.Context, adjustment *domain.PlanAdjustment) (primitive.ObjectID, error)
	GetByPlanID(ctx context.Context, planID primitive.ObjectID, limit int64) ([]domain.PlanAdjustment, error)
	DeleteByPlanID(ctx context.Context, planID primitive.ObjectID) error // Cascade only, with the parent plan
}

// ProgressionRepository defines the interface for per-athlete progression levels.
type ProgressionRepository interface {
	GetByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.ProgressionLevels, error)
	Upsert(ctx context.Context, levels *domain.ProgressionLevels) error
}

// FTPTestRepository defines the interface for FTP test records.
type FTPTestRepository interface {
	Create(ctx context.Context, test *domain.FTPTest) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.FTPTest, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.FTPTest, error)
	Update(ctx context.Context, test *domain.FTPTest) error
}

// FeedbackRepository defines the interface for daily rider feedback.
type FeedbackRepository interface {
	Create(ctx context.Context, feedback *domain.RiderFeedback) (primitive.ObjectID, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID, since time.Time) ([]domain.RiderFeedback, error)
}
