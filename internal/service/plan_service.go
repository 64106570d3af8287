package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"cyclecoach/internal/domain"
	"cyclecoach/internal/planner"
	"cyclecoach/internal/progression"
	"cyclecoach/internal/repository"
)

var (
	ErrPlanNotFound       = errors.New("training plan not found")
	ErrWorkoutNotFound    = errors.New("workout not found")
	ErrNotPlanOwner       = errors.New("caller does not own this plan")
	ErrWorkoutNotPending  = errors.New("workout is no longer in the scheduled state")
	ErrSkipReasonRequired = errors.New("a reason is required to skip a workout")
	ErrInvalidExtension   = errors.New("additional weeks must be positive")
	ErrUserNotFound       = errors.New("user not found")
)

// CompletionInput carries the actuals submitted when a workout is finished.
// Zero-valued duration/TSS fall back to the planned values.
type CompletionInput struct {
	ActualDuration       int
	ActualTSS            float64
	ActualAvgPower       int
	CompletionPercentage float64
	RPE                  int
	Notes                string
}

// PlanService owns training plan generation and the workout lifecycle.
type PlanService interface {
	GeneratePlan(ctx context.Context, userID primitive.ObjectID, req planner.Request) (*domain.TrainingPlan, []domain.PlannedWorkout, error)
	GetPlan(ctx context.Context, userID, planID primitive.ObjectID) (*domain.TrainingPlan, error)
	ListPlans(ctx context.Context, userID primitive.ObjectID) ([]domain.TrainingPlan, error)
	GetActivePlan(ctx context.Context, userID primitive.ObjectID) (*domain.TrainingPlan, error)
	DeletePlan(ctx context.Context, userID, planID primitive.ObjectID) error
	ExtendPlan(ctx context.Context, userID, planID primitive.ObjectID, additionalWeeks int, reason string) (*domain.TrainingPlan, error)

	ListWorkouts(ctx context.Context, userID, planID primitive.ObjectID, filter repository.WorkoutFilter) ([]domain.PlannedWorkout, error)
	GetWorkout(ctx context.Context, userID, workoutID primitive.ObjectID) (*domain.PlannedWorkout, error)
	CompleteWorkout(ctx context.Context, userID, workoutID primitive.ObjectID, input CompletionInput) (*domain.PlannedWorkout, error)
	SkipWorkout(ctx context.Context, userID, workoutID primitive.ObjectID, reason string) (*domain.PlannedWorkout, error)

	GetProgression(ctx context.Context, userID primitive.ObjectID) (*domain.ProgressionLevels, error)
	AdvanceActivePlans(ctx context.Context, now time.Time) (int, error)
}

type planService struct {
	users       repository.UserRepository
	plans       repository.TrainingPlanRepository
	workouts    repository.PlannedWorkoutRepository
	adjustments repository.AdjustmentRepository
	levels      repository.ProgressionRepository
	generator   *planner.Generator
	now         func() time.Time
}

// NewPlanService wires the plan service against its repositories and the
// plan generator.
func NewPlanService(
	users repository.UserRepository,
	plans repository.TrainingPlanRepository,
	workouts repository.PlannedWorkoutRepository,
	adjustments repository.AdjustmentRepository,
	levels repository.ProgressionRepository,
	generator *planner.Generator,
) PlanService {
	return &planService{
		users:       users,
		plans:       plans,
		workouts:    workouts,
		adjustments: adjustments,
		levels:      levels,
		generator:   generator,
		now:         time.Now,
	}
}

// GeneratePlan builds and persists a full periodized plan for the athlete.
func (s *planService) GeneratePlan(ctx context.Context, userID primitive.ObjectID, req planner.Request) (*domain.TrainingPlan, []domain.PlannedWorkout, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, err
	}

	levels, err := s.progressionFor(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	plan, workouts, err := s.generator.Generate(user, levels, req, s.now())
	if err != nil {
		return nil, nil, err
	}

	planID, err := s.plans.Create(ctx, plan)
	if err != nil {
		return nil, nil, err
	}
	plan.ID = planID

	for _, w := range workouts {
		w.PlanID = planID
		w.UserID = userID
	}
	if _, err := s.workouts.CreateMany(ctx, workouts); err != nil {
		// Don't leave a plan shell without its workouts.
		_ = s.plans.Delete(ctx, planID)
		return nil, nil, err
	}

	out := make([]domain.PlannedWorkout, len(workouts))
	for i, w := range workouts {
		out[i] = *w
	}
	return plan, out, nil
}

// GetPlan returns a plan the caller owns.
func (s *planService) GetPlan(ctx context.Context, userID, planID primitive.ObjectID) (*domain.TrainingPlan, error) {
	return s.ownedPlan(ctx, userID, planID)
}

// ListPlans returns all of the caller's plans, newest first.
func (s *planService) ListPlans(ctx context.Context, userID primitive.ObjectID) ([]domain.TrainingPlan, error) {
	return s.plans.GetByUserID(ctx, userID)
}

// GetActivePlan returns the caller's currently active plan.
func (s *planService) GetActivePlan(ctx context.Context, userID primitive.ObjectID) (*domain.TrainingPlan, error) {
	plan, err := s.plans.GetActiveByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return plan, nil
}

// DeletePlan removes a plan along with its workouts and audit trail.
func (s *planService) DeletePlan(ctx context.Context, userID, planID primitive.ObjectID) error {
	if _, err := s.ownedPlan(ctx, userID, planID); err != nil {
		return err
	}
	if err := s.workouts.DeleteByPlanID(ctx, planID); err != nil {
		return err
	}
	if err := s.adjustments.DeleteByPlanID(ctx, planID); err != nil {
		return err
	}
	return s.plans.Delete(ctx, planID)
}

// ExtendPlan grows a plan by additionalWeeks, recomputing the phase split
// over the new total, scheduling workouts for the added weeks, and recording
// the change in the audit trail.
func (s *planService) ExtendPlan(ctx context.Context, userID, planID primitive.ObjectID, additionalWeeks int, reason string) (*domain.TrainingPlan, error) {
	if additionalWeeks <= 0 {
		return nil, ErrInvalidExtension
	}
	plan, err := s.ownedPlan(ctx, userID, planID)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	levels, err := s.progressionFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	oldTotal := plan.TotalWeeks
	plan.TotalWeeks += additionalWeeks
	plan.BaseWeeks, plan.BuildWeeks, plan.SpecialtyWeeks = planner.PhaseSplit(plan.TotalWeeks, plan.GoalType)
	plan.EndDate = plan.EndDate.AddDate(0, 0, additionalWeeks*7)
	plan.UpdatedAt = s.now()

	added := s.generator.ExtendWorkouts(user, levels, plan, oldTotal+1, plan.TotalWeeks, s.now())
	ids, err := s.workouts.CreateMany(ctx, added)
	if err != nil {
		return nil, err
	}
	if err := s.plans.Update(ctx, plan); err != nil {
		return nil, err
	}

	_, err = s.adjustments.Create(ctx, &domain.PlanAdjustment{
		PlanID:        planID,
		UserID:        userID,
		Type:          domain.AdjustPlanExtended,
		TriggerReason: reason,
		ChangesMade: map[string]interface{}{
			"old_total_weeks": oldTotal,
			"new_total_weeks": plan.TotalWeeks,
			"workouts_added":  len(added),
		},
		AffectedWorkouts: ids,
		EstimatedImpact:  fmt.Sprintf("plan extended by %d weeks", additionalWeeks),
		CreatedAt:        s.now(),
	})
	if err != nil {
		return nil, err
	}
	return plan, nil
}

// ListWorkouts returns a plan's workouts with optional week/date/status filters.
func (s *planService) ListWorkouts(ctx context.Context, userID, planID primitive.ObjectID, filter repository.WorkoutFilter) ([]domain.PlannedWorkout, error) {
	if _, err := s.ownedPlan(ctx, userID, planID); err != nil {
		return nil, err
	}
	return s.workouts.GetByPlanID(ctx, planID, filter)
}

// GetWorkout returns one workout the caller owns.
func (s *planService) GetWorkout(ctx context.Context, userID, workoutID primitive.ObjectID) (*domain.PlannedWorkout, error) {
	return s.ownedWorkout(ctx, userID, workoutID)
}

// CompleteWorkout finalizes a scheduled workout with actuals, recomputes the
// plan's completion percentage, and feeds the outcome to progression tracking.
func (s *planService) CompleteWorkout(ctx context.Context, userID, workoutID primitive.ObjectID, input CompletionInput) (*domain.PlannedWorkout, error) {
	w, err := s.ownedWorkout(ctx, userID, workoutID)
	if err != nil {
		return nil, err
	}
	if !w.Status.CanTransition(domain.WorkoutCompleted) {
		return nil, ErrWorkoutNotPending
	}

	now := s.now()
	w.Status = domain.WorkoutCompleted
	w.CompletedAt = &now
	w.ActualDuration = input.ActualDuration
	if w.ActualDuration == 0 {
		w.ActualDuration = w.PlannedDuration
	}
	w.ActualTSS = input.ActualTSS
	if w.ActualTSS == 0 {
		w.ActualTSS = w.PlannedTSS
	}
	w.ActualAvgPower = input.ActualAvgPower
	w.CompletionPercentage = input.CompletionPercentage
	if w.CompletionPercentage == 0 {
		w.CompletionPercentage = 100
	}
	w.RPE = input.RPE
	w.Notes = input.Notes
	w.UpdatedAt = now

	if err := s.workouts.Update(ctx, w); err != nil {
		return nil, err
	}
	if err := s.recomputeCompletion(ctx, w.PlanID); err != nil {
		return nil, err
	}

	// FTP tests measure fitness; they don't train a zone.
	if w.Type != domain.TypeTest {
		if err := s.applyProgression(ctx, userID, progression.Outcome{
			Zone:                 w.PrimaryZone,
			CompletionPercentage: w.CompletionPercentage,
			RPE:                  w.RPE,
		}); err != nil {
			return nil, err
		}
	}
	return w, nil
}

// SkipWorkout marks a scheduled workout skipped. A reason is required and the
// zone's progression level takes the corresponding hit.
func (s *planService) SkipWorkout(ctx context.Context, userID, workoutID primitive.ObjectID, reason string) (*domain.PlannedWorkout, error) {
	if reason == "" {
		return nil, ErrSkipReasonRequired
	}
	w, err := s.ownedWorkout(ctx, userID, workoutID)
	if err != nil {
		return nil, err
	}
	if !w.Status.CanTransition(domain.WorkoutSkipped) {
		return nil, ErrWorkoutNotPending
	}

	w.Status = domain.WorkoutSkipped
	w.Notes = reason
	w.UpdatedAt = s.now()
	if err := s.workouts.Update(ctx, w); err != nil {
		return nil, err
	}

	if w.Type != domain.TypeTest {
		if err := s.applyProgression(ctx, userID, progression.Outcome{
			Zone:    w.PrimaryZone,
			Skipped: true,
		}); err != nil {
			return nil, err
		}
	}
	return w, nil
}

// GetProgression returns the athlete's progression document, creating it on
// first access.
func (s *planService) GetProgression(ctx context.Context, userID primitive.ObjectID) (*domain.ProgressionLevels, error) {
	return s.progressionFor(ctx, userID)
}

// AdvanceActivePlans rolls every active plan's current week/phase forward
// from its start date, completing plans that have run their course. Returns
// the number of plans touched. Invoked by the weekly scheduler.
func (s *planService) AdvanceActivePlans(ctx context.Context, now time.Time) (int, error) {
	plans, err := s.plans.ListActive(ctx)
	if err != nil {
		return 0, err
	}

	touched := 0
	for i := range plans {
		plan := &plans[i]
		week := weekElapsed(plan.StartDate, now)
		if week > plan.TotalWeeks {
			plan.Status = domain.PlanCompleted
			plan.CurrentWeek = plan.TotalWeeks
		} else if week == plan.CurrentWeek {
			continue
		} else {
			plan.CurrentWeek = week
		}
		plan.CurrentPhase = plan.PhaseForWeek(plan.CurrentWeek)
		plan.UpdatedAt = now
		if err := s.plans.Update(ctx, plan); err != nil {
			return touched, err
		}
		touched++
	}
	return touched, nil
}

// weekElapsed converts elapsed calendar time since the plan started into a
// 1-based week number. Dates before the start clamp to week 1.
func weekElapsed(start, now time.Time) int {
	days := int(now.Sub(start).Hours() / 24)
	if days < 0 {
		return 1
	}
	return days/7 + 1
}

func (s *planService) ownedPlan(ctx context.Context, userID, planID primitive.ObjectID) (*domain.TrainingPlan, error) {
	plan, err := s.plans.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	if plan.UserID != userID {
		return nil, ErrNotPlanOwner
	}
	return plan, nil
}

func (s *planService) ownedWorkout(ctx context.Context, userID, workoutID primitive.ObjectID) (*domain.PlannedWorkout, error) {
	w, err := s.workouts.GetByID(ctx, workoutID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	if w.UserID != userID {
		return nil, ErrNotPlanOwner
	}
	return w, nil
}

func (s *planService) progressionFor(ctx context.Context, userID primitive.ObjectID) (*domain.ProgressionLevels, error) {
	levels, err := s.levels.GetByUserID(ctx, userID)
	if err == nil {
		return levels, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	levels = domain.NewProgressionLevels(userID)
	if err := s.levels.Upsert(ctx, levels); err != nil {
		return nil, err
	}
	return levels, nil
}

func (s *planService) applyProgression(ctx context.Context, userID primitive.ObjectID, outcome progression.Outcome) error {
	levels, err := s.progressionFor(ctx, userID)
	if err != nil {
		return err
	}
	if !progression.Apply(levels, outcome, s.now()) {
		return nil
	}
	return s.levels.Upsert(ctx, levels)
}

// recomputeCompletion updates the parent plan's completion percentage as
// completed / total * 100 over all of its workouts.
func (s *planService) recomputeCompletion(ctx context.Context, planID primitive.ObjectID) error {
	total, completed, err := s.workouts.CountByPlanID(ctx, planID)
	if err != nil {
		return err
	}
	plan, err := s.plans.GetByID(ctx, planID)
	if err != nil {
		return err
	}
	if total > 0 {
		plan.CompletionPercentage = math.Round(float64(completed)/float64(total)*100*10) / 10
	}
	plan.UpdatedAt = s.now()
	return s.plans.Update(ctx, plan)
}
