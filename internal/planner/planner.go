// Package planner generates periodized training plans. Generation is pure:
// given the same request, progression levels, and clock it always produces
// the same plan, so callers own persistence and concurrency.
package planner

import (
	"errors"
	"fmt"
	"math"
	"time"

	"cyclecoach/internal/domain"
	"cyclecoach/internal/library"
)

var (
	ErrInvalidWeeks        = errors.New("planner: total weeks must be between 4 and 52")
	ErrInvalidRides        = errors.New("planner: rides per week must be between 3 and 6")
	ErrInvalidTrainingDays = errors.New("planner: need at least as many training days as rides per week")
)

// TSS-per-hour load targets by phase.
var baseTSSPerHour = map[domain.Phase]float64{
	domain.PhaseBase:      50,
	domain.PhaseBuild:     65,
	domain.PhaseSpecialty: 75,
}

// Mesocycle week multipliers. Week 4 is the recovery week.
var mesocycleMultiplier = [5]float64{0, 1.0, 1.1, 1.2, 0.6}

// Request describes the plan an athlete wants generated.
type Request struct {
	Goal            string
	GoalType        domain.GoalType
	Weeks           int
	HoursPerWeek    float64
	RidesPerWeek    int
	TrainingDays    []int // 0=Monday
	TargetFTP       int
	TargetEventDate *time.Time
}

// Generator builds plans against a workout library.
type Generator struct {
	lib *library.Library
}

func New(lib *library.Library) *Generator {
	return &Generator{lib: lib}
}

// Generate produces a plan and its scheduled workouts for the given athlete.
// Workouts carry no IDs; the caller assigns them on insert. Slots with no
// matching template are left unscheduled rather than failing the whole plan.
func (g *Generator) Generate(user *domain.User, levels *domain.ProgressionLevels, req Request, now time.Time) (*domain.TrainingPlan, []*domain.PlannedWorkout, error) {
	if req.Weeks < 4 || req.Weeks > 52 {
		return nil, nil, ErrInvalidWeeks
	}
	if req.RidesPerWeek < 3 || req.RidesPerWeek > 6 {
		return nil, nil, ErrInvalidRides
	}
	if len(req.TrainingDays) < req.RidesPerWeek {
		return nil, nil, ErrInvalidTrainingDays
	}
	for _, d := range req.TrainingDays {
		if d < 0 || d > 6 {
			return nil, nil, fmt.Errorf("planner: training day %d out of range", d)
		}
	}

	base, build, specialty := PhaseSplit(req.Weeks, req.GoalType)

	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	nextTest := now.AddDate(0, 0, 28)

	plan := &domain.TrainingPlan{
		UserID:          user.ID,
		Name:            PlanName(req.GoalType, req.Weeks),
		Goal:            req.Goal,
		GoalType:        req.GoalType,
		StartDate:       now,
		EndDate:         now.AddDate(0, 0, req.Weeks*7),
		TargetEventDate: req.TargetEventDate,
		BaselineFTP:     user.CurrentFTP,
		TargetFTP:       req.TargetFTP,
		BaselineWeight:  user.Weight,
		TotalWeeks:      req.Weeks,
		BaseWeeks:       base,
		BuildWeeks:      build,
		SpecialtyWeeks:  specialty,
		WeeklyHours:     req.HoursPerWeek,
		RidesPerWeek:    req.RidesPerWeek,
		TrainingDays:    req.TrainingDays,
		Status:          domain.PlanActive,
		CurrentWeek:     1,
		CurrentPhase:    domain.PhaseBase,
		LastFTPTest:     &now,
		NextFTPTest:     &nextTest,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	var workouts []*domain.PlannedWorkout
	for week := 1; week <= req.Weeks; week++ {
		weekStart := startOfDay.AddDate(0, 0, (week-1)*7)
		workouts = append(workouts, g.weekWorkouts(user, levels, plan, week, weekStart, now)...)
	}

	return plan, workouts, nil
}

// ExtendWorkouts generates the workout batch for weeks fromWeek..toWeek of
// an existing plan, after the caller has already grown the plan's week
// counts. Used when extending a plan in place.
func (g *Generator) ExtendWorkouts(user *domain.User, levels *domain.ProgressionLevels, plan *domain.TrainingPlan, fromWeek, toWeek int, now time.Time) []*domain.PlannedWorkout {
	start := plan.StartDate
	startOfDay := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())

	var workouts []*domain.PlannedWorkout
	for week := fromWeek; week <= toWeek; week++ {
		weekStart := startOfDay.AddDate(0, 0, (week-1)*7)
		workouts = append(workouts, g.weekWorkouts(user, levels, plan, week, weekStart, now)...)
	}
	return workouts
}

// weekWorkouts fills one week's slots from the plan's rotation, replacing
// the first slot with an FTP test every fourth week.
func (g *Generator) weekWorkouts(user *domain.User, levels *domain.ProgressionLevels, plan *domain.TrainingPlan, week int, weekStart time.Time, now time.Time) []*domain.PlannedWorkout {
	phase := plan.PhaseForWeek(week)
	weekly := WeeklyTSS(plan.WeeklyHours, phase, domain.WeekInMesocycle(week))
	zones := WeekDistribution(phase, plan.RidesPerWeek)
	testWeek := week%4 == 0

	var workouts []*domain.PlannedWorkout
	for i, zone := range zones {
		if i >= len(plan.TrainingDays) {
			break
		}
		date := weekStart.AddDate(0, 0, plan.TrainingDays[i])

		var w *domain.PlannedWorkout
		if testWeek && i == 0 {
			w = g.testWorkout(user, week, phase, date, now)
		} else {
			w = g.zoneWorkout(levels, week, phase, zone, date, weekly/float64(plan.RidesPerWeek), now)
		}
		if w != nil {
			w.PlanID = plan.ID
			w.UserID = plan.UserID
			workouts = append(workouts, w)
		}
	}
	return workouts
}

// PhaseSplit divides a plan's weeks into base, build, and specialty phases
// by goal. Integer division leaves the remainder in the final phase for
// longer plans.
func PhaseSplit(weeks int, goal domain.GoalType) (base, build, specialty int) {
	switch goal {
	case domain.GoalFTPIncrease, domain.GoalGeneralFitness:
		if weeks <= 8 {
			return weeks / 2, weeks / 2, 0
		}
		base = weeks / 3
		build = weeks / 2
		return base, build, weeks - base - build
	case domain.GoalCenturyRide:
		if weeks <= 8 {
			return weeks * 2 / 3, weeks / 3, 0
		}
		base = weeks / 2
		build = weeks / 3
		return base, build, weeks - base - build
	case domain.GoalRacePrep:
		if weeks <= 8 {
			return weeks / 3, weeks / 2, weeks / 6
		}
		base = weeks / 3
		build = weeks / 3
		return base, build, weeks - base - build
	}
	return weeks / 3, weeks / 2, weeks / 6
}

// WeeklyTSS is the load target for one week: available hours times the
// phase's TSS-per-hour rate, scaled by where the week sits in its mesocycle.
func WeeklyTSS(hoursPerWeek float64, phase domain.Phase, weekInMesocycle int) float64 {
	rate, ok := baseTSSPerHour[phase]
	if !ok {
		rate = baseTSSPerHour[domain.PhaseBase]
	}
	return math.Round(hoursPerWeek * rate * mesocycleMultiplier[weekInMesocycle])
}

// WeekDistribution returns the zone rotation for one week of the given phase.
// Unknown ride counts fall back to the 4-ride rotation.
func WeekDistribution(phase domain.Phase, ridesPerWeek int) []domain.Zone {
	var table map[int][]domain.Zone
	switch phase {
	case domain.PhaseBuild:
		table = map[int][]domain.Zone{
			3: {domain.ZoneEndurance, domain.ZoneThreshold, domain.ZoneSweetSpot},
			4: {domain.ZoneEndurance, domain.ZoneThreshold, domain.ZoneSweetSpot, domain.ZoneRecovery},
			5: {domain.ZoneEndurance, domain.ZoneThreshold, domain.ZoneVO2Max, domain.ZoneSweetSpot, domain.ZoneRecovery},
			6: {domain.ZoneEndurance, domain.ZoneThreshold, domain.ZoneVO2Max, domain.ZoneSweetSpot, domain.ZoneRecovery, domain.ZoneTempo},
		}
	case domain.PhaseSpecialty:
		table = map[int][]domain.Zone{
			3: {domain.ZoneEndurance, domain.ZoneVO2Max, domain.ZoneThreshold},
			4: {domain.ZoneEndurance, domain.ZoneVO2Max, domain.ZoneThreshold, domain.ZoneRecovery},
			5: {domain.ZoneEndurance, domain.ZoneVO2Max, domain.ZoneThreshold, domain.ZoneAnaerobic, domain.ZoneRecovery},
			6: {domain.ZoneEndurance, domain.ZoneVO2Max, domain.ZoneThreshold, domain.ZoneAnaerobic, domain.ZoneRecovery, domain.ZoneSweetSpot},
		}
	default:
		table = map[int][]domain.Zone{
			3: {domain.ZoneEndurance, domain.ZoneSweetSpot, domain.ZoneEndurance},
			4: {domain.ZoneEndurance, domain.ZoneSweetSpot, domain.ZoneRecovery, domain.ZoneEndurance},
			5: {domain.ZoneEndurance, domain.ZoneSweetSpot, domain.ZoneTempo, domain.ZoneRecovery, domain.ZoneEndurance},
			6: {domain.ZoneEndurance, domain.ZoneSweetSpot, domain.ZoneTempo, domain.ZoneRecovery, domain.ZoneEndurance, domain.ZoneSweetSpot},
		}
	}
	if d, ok := table[ridesPerWeek]; ok {
		return d
	}
	return table[4]
}

// PlanName builds the display name for a plan.
func PlanName(goal domain.GoalType, weeks int) string {
	switch goal {
	case domain.GoalFTPIncrease:
		return fmt.Sprintf("%d-Week FTP Builder", weeks)
	case domain.GoalCenturyRide:
		return fmt.Sprintf("%d-Week Century Prep", weeks)
	case domain.GoalRacePrep:
		return fmt.Sprintf("%d-Week Race Preparation", weeks)
	case domain.GoalGeneralFitness:
		return fmt.Sprintf("%d-Week General Fitness", weeks)
	}
	return fmt.Sprintf("%d-Week Training Plan", weeks)
}

func (g *Generator) zoneWorkout(levels *domain.ProgressionLevels, week int, phase domain.Phase, zone domain.Zone, date time.Time, targetTSS float64, now time.Time) *domain.PlannedWorkout {
	level := levels.Level(zone)
	tmpl, ok := g.lib.Select(zone, level, phase, targetTSS)
	if !ok {
		return nil
	}
	return &domain.PlannedWorkout{
		ScheduledDate:    date,
		WeekNumber:       week,
		Phase:            phase,
		Name:             tmpl.Name,
		Description:      tmpl.Description,
		PrimaryZone:      tmpl.PrimaryZone,
		SecondaryZone:    tmpl.SecondaryZone,
		Type:             tmpl.Type,
		PlannedDuration:  tmpl.Duration,
		PlannedTSS:       tmpl.EstimatedTSS,
		Intervals:        tmpl.Intervals,
		ProgressionLevel: level,
		DifficultyScore:  tmpl.DifficultyScore,
		Status:           domain.WorkoutScheduled,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func (g *Generator) testWorkout(user *domain.User, week int, phase domain.Phase, date time.Time, now time.Time) *domain.PlannedWorkout {
	tmpl, ok := g.lib.TestWorkout(user.TestTypeFor())
	if !ok {
		return nil
	}
	return &domain.PlannedWorkout{
		ScheduledDate:    date,
		WeekNumber:       week,
		Phase:            phase,
		Name:             tmpl.Name,
		Description:      tmpl.Description,
		PrimaryZone:      tmpl.PrimaryZone,
		Type:             tmpl.Type,
		PlannedDuration:  tmpl.Duration,
		PlannedTSS:       tmpl.EstimatedTSS,
		Intervals:        tmpl.Intervals,
		ProgressionLevel: 5.0,
		DifficultyScore:  tmpl.DifficultyScore,
		Status:           domain.WorkoutScheduled,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}
