package service

import (
	"context"
	"errors"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"cyclecoach/internal/coach"
	"cyclecoach/internal/repository"
)

// CoachService produces the narrative week view layered on a plan. The
// deterministic schedule is authoritative; the narrative is presentation.
type CoachService interface {
	WeeklyNarrative(ctx context.Context, userID, planID primitive.ObjectID) (*coach.WeekNarrative, error)
}

type coachService struct {
	users     repository.UserRepository
	plans     repository.TrainingPlanRepository
	workouts  repository.PlannedWorkoutRepository
	feedback  repository.FeedbackRepository
	generator coach.Generator
	now       func() time.Time
}

// NewCoachService wires the coach service. generator may be nil, in which
// case every narrative comes from the deterministic fallback.
func NewCoachService(
	users repository.UserRepository,
	plans repository.TrainingPlanRepository,
	workouts repository.PlannedWorkoutRepository,
	feedback repository.FeedbackRepository,
	generator coach.Generator,
) CoachService {
	return &coachService{
		users:     users,
		plans:     plans,
		workouts:  workouts,
		feedback:  feedback,
		generator: generator,
		now:       time.Now,
	}
}

// WeeklyNarrative builds the current week's coach narrative for a plan the
// caller owns. AI failures degrade to the schedule-derived fallback rather
// than surfacing an error.
func (s *coachService) WeeklyNarrative(ctx context.Context, userID, planID primitive.ObjectID) (*coach.WeekNarrative, error) {
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

	week := plan.CurrentWeek
	workouts, err := s.workouts.GetByPlanID(ctx, planID, repository.WorkoutFilter{WeekNumber: &week})
	if err != nil {
		return nil, err
	}

	if s.generator == nil {
		return coach.Fallback(plan, workouts), nil
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	recent, err := s.feedback.GetByUserID(ctx, userID, s.now().AddDate(0, 0, -7))
	if err != nil {
		recent = nil
	}

	prompt := coach.BuildPrompt(user, plan, workouts, recent, s.now())
	narrative, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		log.Printf("WARN: narrative generation failed for plan %s, using fallback: %v", planID.Hex(), err)
		return coach.Fallback(plan, workouts), nil
	}
	return narrative, nil
}
