package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GoalType drives phase distribution when generating a plan.
type GoalType string

const (
	GoalFTPIncrease    GoalType = "ftp_increase"
	GoalCenturyRide    GoalType = "century_ride"
	GoalRacePrep       GoalType = "race_prep"
	GoalGeneralFitness GoalType = "general_fitness"
)

// Phase is a periodization phase. Plans move base -> build -> specialty.
type Phase string

const (
	PhaseBase      Phase = "base"
	PhaseBuild     Phase = "build"
	PhaseSpecialty Phase = "specialty"
)

// PlanStatus is the lifecycle state of a whole training plan.
type PlanStatus string

const (
	PlanActive    PlanStatus = "active"
	PlanCompleted PlanStatus = "completed"
	PlanArchived  PlanStatus = "archived"
)

// TrainingPlan is one athlete's multi-week periodized program.
//
// TrainingDays holds day-of-week offsets with 0 = Monday; the planner adds
// each offset to the Monday that starts the week. The week-count fields
// always satisfy BaseWeeks + BuildWeeks + SpecialtyWeeks == TotalWeeks.
type TrainingPlan struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID primitive.ObjectID `bson:"userId" json:"userId"`

	Name     string   `bson:"name" json:"name"`
	Goal     string   `bson:"goal,omitempty" json:"goal,omitempty"`
	GoalType GoalType `bson:"goalType" json:"goalType"`

	StartDate       time.Time  `bson:"startDate" json:"startDate"`
	EndDate         time.Time  `bson:"endDate" json:"endDate"`
	TargetEventDate *time.Time `bson:"targetEventDate,omitempty" json:"targetEventDate,omitempty"`

	BaselineFTP    int     `bson:"baselineFtp,omitempty" json:"baselineFtp,omitempty"`
	TargetFTP      int     `bson:"targetFtp,omitempty" json:"targetFtp,omitempty"`
	BaselineWeight float64 `bson:"baselineWeight,omitempty" json:"baselineWeight,omitempty"`

	TotalWeeks     int `bson:"totalWeeks" json:"totalWeeks"`
	BaseWeeks      int `bson:"baseWeeks" json:"baseWeeks"`
	BuildWeeks     int `bson:"buildWeeks" json:"buildWeeks"`
	SpecialtyWeeks int `bson:"specialtyWeeks" json:"specialtyWeeks"`

	WeeklyHours  float64 `bson:"weeklyHours" json:"weeklyHours"`
	RidesPerWeek int     `bson:"ridesPerWeek" json:"ridesPerWeek"`
	TrainingDays []int   `bson:"trainingDays" json:"trainingDays"` // 0 = Monday

	Status               PlanStatus `bson:"status" json:"status"`
	CurrentWeek          int        `bson:"currentWeek" json:"currentWeek"`
	CurrentPhase         Phase      `bson:"currentPhase" json:"currentPhase"`
	CompletionPercentage float64    `bson:"completionPercentage" json:"completionPercentage"`

	LastFTPTest *time.Time `bson:"lastFtpTest,omitempty" json:"lastFtpTest,omitempty"`
	NextFTPTest *time.Time `bson:"nextFtpTest,omitempty" json:"nextFtpTest,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// PhaseForWeek returns the phase a given 1-based week number falls into.
func (p *TrainingPlan) PhaseForWeek(week int) Phase {
	switch {
	case week <= p.BaseWeeks:
		return PhaseBase
	case week <= p.BaseWeeks+p.BuildWeeks:
		return PhaseBuild
	default:
		return PhaseSpecialty
	}
}

// WeekInMesocycle maps a 1-based week number onto its position in the
// 4-week mesocycle (1-3 progressive, 4 recovery).
func WeekInMesocycle(week int) int {
	return ((week - 1) % 4) + 1
}
