package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"cyclecoach/internal/domain"
	"cyclecoach/internal/library"
	"cyclecoach/internal/planner"
	"cyclecoach/internal/repository"
)

var fixedNow = time.Date(2025, 3, 3, 8, 0, 0, 0, time.UTC) // a Monday

type planFixture struct {
	svc      *planService
	users    *memUsers
	plans    *memPlans
	workouts *memWorkouts
	audits   *memAudits
	levels   *memLevels
	userID   primitive.ObjectID
}

func newPlanFixture(t *testing.T) *planFixture {
	t.Helper()
	users := &memUsers{users: map[primitive.ObjectID]*domain.User{}}
	plans := &memPlans{plans: map[primitive.ObjectID]*domain.TrainingPlan{}}
	workouts := &memWorkouts{workouts: map[primitive.ObjectID]*domain.PlannedWorkout{}}
	audits := &memAudits{}
	levels := &memLevels{levels: map[primitive.ObjectID]*domain.ProgressionLevels{}}

	userID, err := users.Create(context.Background(), &domain.User{
		Name:       "Test Rider",
		Email:      "rider@example.com",
		CurrentFTP: 250,
		Experience: domain.ExperienceAdvanced,
	})
	require.NoError(t, err)

	gen := planner.New(library.New(library.Catalog()))
	svc := NewPlanService(users, plans, workouts, audits, levels, gen).(*planService)
	svc.now = func() time.Time { return fixedNow }

	return &planFixture{
		svc:      svc,
		users:    users,
		plans:    plans,
		workouts: workouts,
		audits:   audits,
		levels:   levels,
		userID:   userID,
	}
}

func defaultRequest() planner.Request {
	return planner.Request{
		Goal:         "Raise my FTP",
		GoalType:     domain.GoalFTPIncrease,
		Weeks:        12,
		HoursPerWeek: 8,
		RidesPerWeek: 4,
		TrainingDays: []int{0, 2, 4, 5},
		TargetFTP:    270,
	}
}

func TestGeneratePlanPersistsPlanAndWorkouts(t *testing.T) {
	f := newPlanFixture(t)
	ctx := context.Background()

	plan, workouts, err := f.svc.GeneratePlan(ctx, f.userID, defaultRequest())
	require.NoError(t, err)
	require.NotEqual(t, primitive.NilObjectID, plan.ID)
	require.NotEmpty(t, workouts)

	for _, w := range workouts {
		assert.Equal(t, plan.ID, w.PlanID)
		assert.Equal(t, f.userID, w.UserID)
		assert.NotEqual(t, primitive.NilObjectID, w.ID)
	}

	stored, err := f.plans.GetByID(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, "12-Week FTP Builder", stored.Name)
	assert.Equal(t, domain.PlanActive, stored.Status)
}

func TestGeneratePlanCreatesProgressionOnFirstUse(t *testing.T) {
	f := newPlanFixture(t)
	ctx := context.Background()

	_, _, err := f.svc.GeneratePlan(ctx, f.userID, defaultRequest())
	require.NoError(t, err)

	levels, err := f.levels.GetByUserID(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultProgressionLevel, levels.SweetSpot)
}

func TestGeneratePlanUnknownUser(t *testing.T) {
	f := newPlanFixture(t)

	_, _, err := f.svc.GeneratePlan(context.Background(), primitive.NewObjectID(), defaultRequest())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetPlanOwnership(t *testing.T) {
	f := newPlanFixture(t)
	ctx := context.Background()
	plan, _, err := f.svc.GeneratePlan(ctx, f.userID, defaultRequest())
	require.NoError(t, err)

	_, err = f.svc.GetPlan(ctx, primitive.NewObjectID(), plan.ID)
	assert.ErrorIs(t, err, ErrNotPlanOwner)

	_, err = f.svc.GetPlan(ctx, f.userID, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrPlanNotFound)
}

func TestDeletePlanCascades(t *testing.T) {
	f := newPlanFixture(t)
	ctx := context.Background()
	plan, _, err := f.svc.GeneratePlan(ctx, f.userID, defaultRequest())
	require.NoError(t, err)

	require.NoError(t, f.svc.DeletePlan(ctx, f.userID, plan.ID))

	_, err = f.plans.GetByID(ctx, plan.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	remaining, err := f.workouts.GetByPlanID(ctx, plan.ID, repository.WorkoutFilter{})
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestExtendPlanAddsWeeksAndAudits(t *testing.T) {
	f := newPlanFixture(t)
	ctx := context.Background()
	plan, _, err := f.svc.GeneratePlan(ctx, f.userID, defaultRequest())
	require.NoError(t, err)
	oldEnd := plan.EndDate

	extended, err := f.svc.ExtendPlan(ctx, f.userID, plan.ID, 4, "event moved out a month")
	require.NoError(t, err)
	assert.Equal(t, 16, extended.TotalWeeks)
	assert.True(t, extended.EndDate.Equal(oldEnd.AddDate(0, 0, 28)))

	base, build, specialty := planner.PhaseSplit(16, domain.GoalFTPIncrease)
	assert.Equal(t, base, extended.BaseWeeks)
	assert.Equal(t, build, extended.BuildWeeks)
	assert.Equal(t, specialty, extended.SpecialtyWeeks)

	all, err := f.workouts.GetByPlanID(ctx, plan.ID, repository.WorkoutFilter{})
	require.NoError(t, err)
	maxWeek := 0
	for _, w := range all {
		if w.WeekNumber > maxWeek {
			maxWeek = w.WeekNumber
		}
	}
	assert.Equal(t, 16, maxWeek)

	require.Len(t, f.audits.rows, 1)
	row := f.audits.rows[0]
	assert.Equal(t, domain.AdjustPlanExtended, row.Type)
	assert.Equal(t, 12, row.ChangesMade["old_total_weeks"])
	assert.Equal(t, 16, row.ChangesMade["new_total_weeks"])
}

func TestExtendPlanRejectsNonPositive(t *testing.T) {
	f := newPlanFixture(t)
	ctx := context.Background()
	plan, _, err := f.svc.GeneratePlan(ctx, f.userID, defaultRequest())
	require.NoError(t, err)

	_, err = f.svc.ExtendPlan(ctx, f.userID, plan.ID, 0, "x")
	assert.ErrorIs(t, err, ErrInvalidExtension)
}

func TestCompleteWorkoutDefaultsActualsAndRaisesLevel(t *testing.T) {
	f := newPlanFixture(t)
	ctx := context.Background()
	plan, workouts, err := f.svc.GeneratePlan(ctx, f.userID, defaultRequest())
	require.NoError(t, err)

	var target *domain.PlannedWorkout
	for i := range workouts {
		if workouts[i].Type != domain.TypeTest {
			target = &workouts[i]
			break
		}
	}
	require.NotNil(t, target)
	zone := target.PrimaryZone

	done, err := f.svc.CompleteWorkout(ctx, f.userID, target.ID, CompletionInput{RPE: 6})
	require.NoError(t, err)
	assert.Equal(t, domain.WorkoutCompleted, done.Status)
	assert.Equal(t, target.PlannedDuration, done.ActualDuration)
	assert.Equal(t, target.PlannedTSS, done.ActualTSS)
	assert.Equal(t, 100.0, done.CompletionPercentage)
	require.NotNil(t, done.CompletedAt)

	levels, err := f.levels.GetByUserID(ctx, f.userID)
	require.NoError(t, err)
	assert.InDelta(t, domain.DefaultProgressionLevel+0.1, levels.Level(zone), 1e-9)

	stored, err := f.plans.GetByID(ctx, plan.ID)
	require.NoError(t, err)
	assert.Greater(t, stored.CompletionPercentage, 0.0)
}

func TestCompleteWorkoutRejectsDoubleCompletion(t *testing.T) {
	f := newPlanFixture(t)
	ctx := context.Background()
	_, workouts, err := f.svc.GeneratePlan(ctx, f.userID, defaultRequest())
	require.NoError(t, err)

	id := workouts[0].ID
	_, err = f.svc.CompleteWorkout(ctx, f.userID, id, CompletionInput{})
	require.NoError(t, err)
	_, err = f.svc.CompleteWorkout(ctx, f.userID, id, CompletionInput{})
	assert.ErrorIs(t, err, ErrWorkoutNotPending)
}

func TestCompleteFTPTestWorkoutLeavesProgressionAlone(t *testing.T) {
	f := newPlanFixture(t)
	ctx := context.Background()
	_, workouts, err := f.svc.GeneratePlan(ctx, f.userID, defaultRequest())
	require.NoError(t, err)

	var test *domain.PlannedWorkout
	for i := range workouts {
		if workouts[i].Type == domain.TypeTest {
			test = &workouts[i]
			break
		}
	}
	require.NotNil(t, test, "a 12-week plan schedules FTP tests")

	_, err = f.svc.CompleteWorkout(ctx, f.userID, test.ID, CompletionInput{RPE: 9})
	require.NoError(t, err)

	levels, err := f.levels.GetByUserID(ctx, f.userID)
	require.NoError(t, err)
	for _, z := range domain.Zones {
		assert.Equal(t, domain.DefaultProgressionLevel, levels.Level(z))
	}
}

func TestSkipWorkoutRequiresReasonAndLowersLevel(t *testing.T) {
	f := newPlanFixture(t)
	ctx := context.Background()
	_, workouts, err := f.svc.GeneratePlan(ctx, f.userID, defaultRequest())
	require.NoError(t, err)

	var target *domain.PlannedWorkout
	for i := range workouts {
		if workouts[i].Type != domain.TypeTest {
			target = &workouts[i]
			break
		}
	}
	require.NotNil(t, target)

	_, err = f.svc.SkipWorkout(ctx, f.userID, target.ID, "")
	assert.ErrorIs(t, err, ErrSkipReasonRequired)

	skipped, err := f.svc.SkipWorkout(ctx, f.userID, target.ID, "came down with a cold")
	require.NoError(t, err)
	assert.Equal(t, domain.WorkoutSkipped, skipped.Status)
	assert.Equal(t, "came down with a cold", skipped.Notes)

	levels, err := f.levels.GetByUserID(ctx, f.userID)
	require.NoError(t, err)
	assert.InDelta(t, domain.DefaultProgressionLevel-0.1, levels.Level(target.PrimaryZone), 1e-9)
}

func TestAdvanceActivePlansRollsWeekForward(t *testing.T) {
	f := newPlanFixture(t)
	ctx := context.Background()
	plan, _, err := f.svc.GeneratePlan(ctx, f.userID, defaultRequest())
	require.NoError(t, err)

	// Three full weeks after the start puts the plan in week 4.
	touched, err := f.svc.AdvanceActivePlans(ctx, fixedNow.AddDate(0, 0, 21))
	require.NoError(t, err)
	assert.Equal(t, 1, touched)

	stored, err := f.plans.GetByID(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, stored.CurrentWeek)
	assert.Equal(t, stored.PhaseForWeek(4), stored.CurrentPhase)
}

func TestAdvanceActivePlansCompletesExpiredPlans(t *testing.T) {
	f := newPlanFixture(t)
	ctx := context.Background()
	plan, _, err := f.svc.GeneratePlan(ctx, f.userID, defaultRequest())
	require.NoError(t, err)

	touched, err := f.svc.AdvanceActivePlans(ctx, fixedNow.AddDate(0, 0, 13*7))
	require.NoError(t, err)
	assert.Equal(t, 1, touched)

	stored, err := f.plans.GetByID(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PlanCompleted, stored.Status)
	assert.Equal(t, plan.TotalWeeks, stored.CurrentWeek)
}

func TestAdvanceActivePlansIdempotentWithinWeek(t *testing.T) {
	f := newPlanFixture(t)
	ctx := context.Background()
	_, _, err := f.svc.GeneratePlan(ctx, f.userID, defaultRequest())
	require.NoError(t, err)

	// Mid-week of week 1: nothing to advance.
	touched, err := f.svc.AdvanceActivePlans(ctx, fixedNow.AddDate(0, 0, 3))
	require.NoError(t, err)
	assert.Equal(t, 0, touched)
}
