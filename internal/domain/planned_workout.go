package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutStatus is the lifecycle state of one scheduled session.
//
// scheduled is the only initial state. completed, skipped, overridden and
// priority_event are all terminal for the workout instance; corrections go
// through the adjustment engine (swap/reschedule), never back to scheduled.
type WorkoutStatus string

const (
	WorkoutScheduled     WorkoutStatus = "scheduled"
	WorkoutCompleted     WorkoutStatus = "completed"
	WorkoutSkipped       WorkoutStatus = "skipped"
	WorkoutOverridden    WorkoutStatus = "overridden"
	WorkoutPriorityEvent WorkoutStatus = "priority_event"
)

// Terminal reports whether the status permits no further lifecycle transition.
func (s WorkoutStatus) Terminal() bool {
	return s != WorkoutScheduled
}

// CanTransition reports whether a lifecycle transition from s to next is legal.
func (s WorkoutStatus) CanTransition(next WorkoutStatus) bool {
	if s != WorkoutScheduled {
		return false
	}
	switch next {
	case WorkoutCompleted, WorkoutSkipped, WorkoutOverridden, WorkoutPriorityEvent:
		return true
	}
	return false
}

// PlannedWorkout is one scheduled training session within a plan.
type PlannedWorkout struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PlanID primitive.ObjectID `bson:"planId" json:"planId"`
	UserID primitive.ObjectID `bson:"userId" json:"userId"` // Denormalized for ownership checks

	ScheduledDate time.Time `bson:"scheduledDate" json:"scheduledDate"`
	WeekNumber    int       `bson:"weekNumber" json:"weekNumber"`
	Phase         Phase     `bson:"phase" json:"phase"`

	Name        string `bson:"name" json:"name"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`

	PrimaryZone   Zone        `bson:"primaryZone" json:"primaryZone"`
	SecondaryZone Zone        `bson:"secondaryZone,omitempty" json:"secondaryZone,omitempty"`
	Type          WorkoutType `bson:"workoutType" json:"workoutType"`

	PlannedDuration int     `bson:"plannedDuration" json:"plannedDuration"` // seconds
	PlannedTSS      float64 `bson:"plannedTss" json:"plannedTss"`

	Intervals []Interval `bson:"intervals,omitempty" json:"intervals,omitempty"`

	ProgressionLevel float64 `bson:"progressionLevel,omitempty" json:"progressionLevel,omitempty"`
	DifficultyScore  float64 `bson:"difficultyScore,omitempty" json:"difficultyScore,omitempty"`

	Status WorkoutStatus `bson:"status" json:"status"`

	// Actuals, populated on completion.
	ActualDuration       int        `bson:"actualDuration,omitempty" json:"actualDuration,omitempty"`
	ActualTSS            float64    `bson:"actualTss,omitempty" json:"actualTss,omitempty"`
	ActualAvgPower       int        `bson:"actualAvgPower,omitempty" json:"actualAvgPower,omitempty"`
	CompletionPercentage float64    `bson:"completionPercentage,omitempty" json:"completionPercentage,omitempty"`
	RPE                  int        `bson:"rpe,omitempty" json:"rpe,omitempty"` // 1-10
	Notes                string     `bson:"notes,omitempty" json:"notes,omitempty"`
	CompletedAt          *time.Time `bson:"completedAt,omitempty" json:"completedAt,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
