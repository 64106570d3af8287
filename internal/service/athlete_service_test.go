package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"cyclecoach/internal/domain"
)

type athleteFixture struct {
	svc      *athleteService
	users    *memUsers
	tests    *memTests
	feedback *memFeedback
	plans    *memPlans
	userID   primitive.ObjectID
}

func newAthleteFixture(t *testing.T, experience domain.TrainingExperience) *athleteFixture {
	t.Helper()
	users := &memUsers{users: map[primitive.ObjectID]*domain.User{}}
	tests := &memTests{tests: map[primitive.ObjectID]*domain.FTPTest{}}
	feedback := &memFeedback{}
	plans := &memPlans{plans: map[primitive.ObjectID]*domain.TrainingPlan{}}

	userID, err := users.Create(context.Background(), &domain.User{
		Name:       "Test Rider",
		Email:      "rider@example.com",
		CurrentFTP: 250,
		Experience: experience,
	})
	require.NoError(t, err)

	svc := NewAthleteService(users, tests, feedback, plans).(*athleteService)
	svc.now = func() time.Time { return fixedNow }

	return &athleteFixture{
		svc:      svc,
		users:    users,
		tests:    tests,
		feedback: feedback,
		plans:    plans,
		userID:   userID,
	}
}

func TestUpdateProfilePartialFields(t *testing.T) {
	f := newAthleteFixture(t, domain.ExperienceAdvanced)
	ctx := context.Background()

	weight := 72.5
	user, err := f.svc.UpdateProfile(ctx, f.userID, ProfileUpdate{Weight: &weight})
	require.NoError(t, err)
	assert.Equal(t, 72.5, user.Weight)
	assert.Equal(t, "Test Rider", user.Name)
	assert.Equal(t, 250, user.CurrentFTP)
	assert.Empty(t, user.PasswordHash)
}

func TestScheduleFTPTestUsesExperienceProtocol(t *testing.T) {
	cases := map[domain.TrainingExperience]domain.FTPTestType{
		domain.ExperienceBeginner:     domain.TestRamp,
		domain.ExperienceIntermediate: domain.Test8Minute,
		domain.ExperienceAdvanced:     domain.Test20Minute,
	}
	for experience, want := range cases {
		f := newAthleteFixture(t, experience)
		test, err := f.svc.ScheduleFTPTest(context.Background(), f.userID, nil, fixedNow.AddDate(0, 0, 7), domain.PhaseBase)
		require.NoError(t, err)
		assert.Equal(t, want, test.TestType)
		assert.NotEqual(t, primitive.NilObjectID, test.ID)
	}
}

func TestCompleteFTPTestProtocolFactors(t *testing.T) {
	cases := []struct {
		experience domain.TrainingExperience
		measured   int
		wantFTP    int
	}{
		{domain.ExperienceBeginner, 320, 240},     // ramp: 0.75
		{domain.ExperienceIntermediate, 300, 270}, // 8-minute: 0.90
		{domain.ExperienceAdvanced, 280, 266},     // 20-minute: 0.95
	}
	for _, tc := range cases {
		f := newAthleteFixture(t, tc.experience)
		ctx := context.Background()

		scheduled, err := f.svc.ScheduleFTPTest(ctx, f.userID, nil, fixedNow, domain.PhaseBase)
		require.NoError(t, err)

		done, err := f.svc.CompleteFTPTest(ctx, f.userID, scheduled.ID, tc.measured, "")
		require.NoError(t, err)
		assert.Equal(t, tc.wantFTP, done.CalculatedFTP)
		assert.Equal(t, 250, done.PreviousFTP)
		assert.Equal(t, tc.wantFTP-250, done.FTPChange)

		user, err := f.users.GetByID(ctx, f.userID)
		require.NoError(t, err)
		assert.Equal(t, tc.wantFTP, user.CurrentFTP)
	}
}

func TestCompleteFTPTestRecordsPercentChange(t *testing.T) {
	f := newAthleteFixture(t, domain.ExperienceAdvanced)
	ctx := context.Background()

	scheduled, err := f.svc.ScheduleFTPTest(ctx, f.userID, nil, fixedNow, domain.PhaseBuild)
	require.NoError(t, err)

	// 280 * 0.95 = 266, up 16 from 250 = +6.4%.
	done, err := f.svc.CompleteFTPTest(ctx, f.userID, scheduled.ID, 280, "felt strong")
	require.NoError(t, err)
	assert.InDelta(t, 6.4, done.FTPChangePercent, 1e-9)
	assert.Equal(t, "felt strong", done.Notes)
	require.NotNil(t, done.CompletedDate)
}

func TestCompleteFTPTestBumpsActivePlanSchedule(t *testing.T) {
	f := newAthleteFixture(t, domain.ExperienceAdvanced)
	ctx := context.Background()

	planID, err := f.plans.Create(ctx, &domain.TrainingPlan{
		UserID: f.userID,
		Name:   "12-Week FTP Builder",
		Status: domain.PlanActive,
	})
	require.NoError(t, err)

	scheduled, err := f.svc.ScheduleFTPTest(ctx, f.userID, &planID, fixedNow, domain.PhaseBuild)
	require.NoError(t, err)
	_, err = f.svc.CompleteFTPTest(ctx, f.userID, scheduled.ID, 280, "")
	require.NoError(t, err)

	plan, err := f.plans.GetByID(ctx, planID)
	require.NoError(t, err)
	require.NotNil(t, plan.LastFTPTest)
	require.NotNil(t, plan.NextFTPTest)
	assert.True(t, plan.NextFTPTest.Equal(fixedNow.AddDate(0, 0, 28)))
}

func TestCompleteFTPTestGuards(t *testing.T) {
	f := newAthleteFixture(t, domain.ExperienceAdvanced)
	ctx := context.Background()

	scheduled, err := f.svc.ScheduleFTPTest(ctx, f.userID, nil, fixedNow, domain.PhaseBase)
	require.NoError(t, err)

	_, err = f.svc.CompleteFTPTest(ctx, f.userID, scheduled.ID, 0, "")
	assert.ErrorIs(t, err, ErrInvalidPower)

	_, err = f.svc.CompleteFTPTest(ctx, primitive.NewObjectID(), scheduled.ID, 280, "")
	assert.ErrorIs(t, err, ErrNotPlanOwner)

	_, err = f.svc.CompleteFTPTest(ctx, f.userID, scheduled.ID, 280, "")
	require.NoError(t, err)
	_, err = f.svc.CompleteFTPTest(ctx, f.userID, scheduled.ID, 290, "")
	assert.ErrorIs(t, err, ErrTestAlreadyCompleted)
}

func TestRecordFeedbackValidatesReadinessScores(t *testing.T) {
	f := newAthleteFixture(t, domain.ExperienceAdvanced)
	ctx := context.Background()

	_, err := f.svc.RecordFeedback(ctx, f.userID, &domain.RiderFeedback{
		OverallFeeling: 6, SleepQuality: 3, MuscleSoreness: 2, Motivation: 4,
	})
	assert.ErrorIs(t, err, ErrInvalidReadiness)

	saved, err := f.svc.RecordFeedback(ctx, f.userID, &domain.RiderFeedback{
		OverallFeeling: 4, SleepQuality: 3, MuscleSoreness: 2, Motivation: 4,
		StressLevel: "moderate",
	})
	require.NoError(t, err)
	assert.Equal(t, f.userID, saved.UserID)
	assert.False(t, saved.FeedbackDate.IsZero())
}

func TestRecentFeedbackWindow(t *testing.T) {
	f := newAthleteFixture(t, domain.ExperienceAdvanced)
	ctx := context.Background()

	old := &domain.RiderFeedback{
		OverallFeeling: 3, SleepQuality: 3, MuscleSoreness: 3, Motivation: 3,
		FeedbackDate: fixedNow.AddDate(0, 0, -10),
	}
	recent := &domain.RiderFeedback{
		OverallFeeling: 4, SleepQuality: 4, MuscleSoreness: 2, Motivation: 5,
		FeedbackDate: fixedNow.AddDate(0, 0, -2),
	}
	_, err := f.svc.RecordFeedback(ctx, f.userID, old)
	require.NoError(t, err)
	_, err = f.svc.RecordFeedback(ctx, f.userID, recent)
	require.NoError(t, err)

	rows, err := f.svc.RecentFeedback(ctx, f.userID, 7)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 5, rows[0].Motivation)
}
