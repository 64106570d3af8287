package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"cyclecoach/internal/domain"
	"cyclecoach/internal/library"
)

func testUser() *domain.User {
	return &domain.User{
		ID:         primitive.NewObjectID(),
		Name:       "Test Rider",
		Email:      "rider@example.com",
		CurrentFTP: 250,
		Weight:     72,
		Experience: domain.ExperienceAdvanced,
	}
}

func testRequest() Request {
	return Request{
		Goal:         "Raise FTP to 270",
		GoalType:     domain.GoalFTPIncrease,
		Weeks:        12,
		HoursPerWeek: 8,
		RidesPerWeek: 4,
		TrainingDays: []int{0, 2, 4, 5},
		TargetFTP:    270,
	}
}

func TestPhaseSplit(t *testing.T) {
	cases := []struct {
		goal                   domain.GoalType
		weeks                  int
		base, build, specialty int
	}{
		{domain.GoalFTPIncrease, 8, 4, 4, 0},
		{domain.GoalFTPIncrease, 12, 4, 6, 2},
		{domain.GoalGeneralFitness, 12, 4, 6, 2},
		{domain.GoalCenturyRide, 6, 4, 2, 0},
		{domain.GoalCenturyRide, 12, 6, 4, 2},
		{domain.GoalRacePrep, 6, 2, 3, 1},
		{domain.GoalRacePrep, 12, 4, 4, 4},
	}
	for _, c := range cases {
		base, build, specialty := PhaseSplit(c.weeks, c.goal)
		assert.Equal(t, c.base, base, "%s/%d base", c.goal, c.weeks)
		assert.Equal(t, c.build, build, "%s/%d build", c.goal, c.weeks)
		assert.Equal(t, c.specialty, specialty, "%s/%d specialty", c.goal, c.weeks)
	}
}

func TestPhaseSplitCoversAllWeeksForLongPlans(t *testing.T) {
	goals := []domain.GoalType{
		domain.GoalFTPIncrease, domain.GoalCenturyRide,
		domain.GoalRacePrep, domain.GoalGeneralFitness,
	}
	for _, goal := range goals {
		for weeks := 9; weeks <= 52; weeks++ {
			base, build, specialty := PhaseSplit(weeks, goal)
			assert.Equal(t, weeks, base+build+specialty, "%s/%d", goal, weeks)
		}
	}
}

func TestWeeklyTSS(t *testing.T) {
	// 8h base week 1: 8*50*1.0 = 400.
	assert.Equal(t, 400.0, WeeklyTSS(8, domain.PhaseBase, 1))
	// Week 3 ramps to 1.2.
	assert.Equal(t, 480.0, WeeklyTSS(8, domain.PhaseBase, 3))
	// Recovery week drops to 0.6.
	assert.Equal(t, 240.0, WeeklyTSS(8, domain.PhaseBase, 4))
	// Build rate is 65/h.
	assert.Equal(t, 520.0, WeeklyTSS(8, domain.PhaseBuild, 1))
	// Specialty rate is 75/h; 7.5*75*1.1 = 618.75 rounds up.
	assert.Equal(t, 619.0, WeeklyTSS(7.5, domain.PhaseSpecialty, 2))
}

func TestWeekInMesocycle(t *testing.T) {
	want := []int{1, 2, 3, 4, 1, 2, 3, 4, 1}
	for i, w := range want {
		assert.Equal(t, w, domain.WeekInMesocycle(i+1))
	}
}

func TestWeekDistributionFallsBackToFourRides(t *testing.T) {
	assert.Equal(t, WeekDistribution(domain.PhaseBase, 4), WeekDistribution(domain.PhaseBase, 7))
}

func TestGenerateValidation(t *testing.T) {
	g := New(library.New(library.Catalog()))
	user := testUser()
	levels := domain.NewProgressionLevels(user.ID)
	now := time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)

	req := testRequest()
	req.Weeks = 2
	_, _, err := g.Generate(user, levels, req, now)
	assert.ErrorIs(t, err, ErrInvalidWeeks)

	req = testRequest()
	req.RidesPerWeek = 7
	_, _, err = g.Generate(user, levels, req, now)
	assert.ErrorIs(t, err, ErrInvalidRides)

	req = testRequest()
	req.TrainingDays = []int{0, 2}
	_, _, err = g.Generate(user, levels, req, now)
	assert.ErrorIs(t, err, ErrInvalidTrainingDays)
}

func TestGeneratePlanShape(t *testing.T) {
	g := New(library.New(library.Catalog()))
	user := testUser()
	levels := domain.NewProgressionLevels(user.ID)
	now := time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC) // a Monday

	plan, workouts, err := g.Generate(user, levels, testRequest(), now)
	require.NoError(t, err)

	assert.Equal(t, "12-Week FTP Builder", plan.Name)
	assert.Equal(t, domain.PlanActive, plan.Status)
	assert.Equal(t, 1, plan.CurrentWeek)
	assert.Equal(t, domain.PhaseBase, plan.CurrentPhase)
	assert.Equal(t, plan.TotalWeeks, plan.BaseWeeks+plan.BuildWeeks+plan.SpecialtyWeeks)
	assert.Equal(t, 250, plan.BaselineFTP)
	require.NotNil(t, plan.NextFTPTest)
	assert.Equal(t, now.AddDate(0, 0, 28), *plan.NextFTPTest)

	require.NotEmpty(t, workouts)
	for _, w := range workouts {
		assert.Equal(t, domain.WorkoutScheduled, w.Status)
		assert.Equal(t, plan.PhaseForWeek(w.WeekNumber), w.Phase)
		assert.False(t, w.ScheduledDate.Before(plan.StartDate.Truncate(24*time.Hour)))
		assert.Greater(t, w.PlannedTSS, 0.0)
	}
}

func TestGenerateSchedulesTestEveryFourthWeek(t *testing.T) {
	g := New(library.New(library.Catalog()))
	user := testUser() // advanced, no preference, so 20-minute protocol
	levels := domain.NewProgressionLevels(user.ID)
	now := time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)

	_, workouts, err := g.Generate(user, levels, testRequest(), now)
	require.NoError(t, err)

	testsByWeek := map[int]int{}
	for _, w := range workouts {
		if w.Type == domain.TypeTest {
			testsByWeek[w.WeekNumber]++
			assert.Equal(t, "20-Minute FTP Test", w.Name)
			assert.Equal(t, 5.0, w.ProgressionLevel)
		}
	}
	assert.Equal(t, map[int]int{4: 1, 8: 1, 12: 1}, testsByWeek)
}

func TestGenerateTestProtocolFollowsExperience(t *testing.T) {
	g := New(library.New(library.Catalog()))
	now := time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)

	cases := map[domain.TrainingExperience]string{
		domain.ExperienceBeginner:     "Ramp Test",
		domain.ExperienceIntermediate: "8-Minute FTP Test",
		domain.ExperienceAdvanced:     "20-Minute FTP Test",
	}
	for exp, want := range cases {
		user := testUser()
		user.Experience = exp
		levels := domain.NewProgressionLevels(user.ID)

		_, workouts, err := g.Generate(user, levels, testRequest(), now)
		require.NoError(t, err)

		found := false
		for _, w := range workouts {
			if w.Type == domain.TypeTest {
				assert.Equal(t, want, w.Name)
				found = true
			}
		}
		assert.True(t, found, "no test workout for %s", exp)
	}
}

func TestGenerateDatesFollowTrainingDays(t *testing.T) {
	g := New(library.New(library.Catalog()))
	user := testUser()
	levels := domain.NewProgressionLevels(user.ID)
	now := time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)

	req := testRequest()
	_, workouts, err := g.Generate(user, levels, req, now)
	require.NoError(t, err)

	dayStart := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	allowed := map[int]bool{}
	for _, d := range req.TrainingDays {
		allowed[d] = true
	}
	for _, w := range workouts {
		offset := int(w.ScheduledDate.Sub(dayStart).Hours()/24) % 7
		assert.True(t, allowed[offset], "workout on unexpected day offset %d", offset)
	}
}

func TestGenerateSkipsUnfillableSlots(t *testing.T) {
	g := New(library.New(library.Catalog()))
	user := testUser()
	levels := domain.NewProgressionLevels(user.ID)
	// Endurance templates all require level >= 2.0; at 1.0 those slots
	// stay empty while the rest of the week still schedules.
	levels.SetLevel(domain.ZoneEndurance, 1.0)
	now := time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)

	_, workouts, err := g.Generate(user, levels, testRequest(), now)
	require.NoError(t, err)

	for _, w := range workouts {
		assert.NotEqual(t, domain.ZoneEndurance, w.PrimaryZone)
	}
	assert.NotEmpty(t, workouts)
}

func TestGenerateDeterministic(t *testing.T) {
	g := New(library.New(library.Catalog()))
	user := testUser()
	levels := domain.NewProgressionLevels(user.ID)
	now := time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)

	_, first, err := g.Generate(user, levels, testRequest(), now)
	require.NoError(t, err)
	_, second, err := g.Generate(user, levels, testRequest(), now)
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Name, second[i].Name)
		assert.Equal(t, first[i].ScheduledDate, second[i].ScheduledDate)
		assert.Equal(t, first[i].PlannedTSS, second[i].PlannedTSS)
	}
}
