package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AdjustmentType identifies one of the plan mutation operations.
type AdjustmentType string

const (
	AdjustIntensity     AdjustmentType = "intensity_change"
	AdjustReschedule    AdjustmentType = "reschedule"
	AdjustWorkoutSwap   AdjustmentType = "workout_swap"
	AdjustRestDay       AdjustmentType = "rest_day_added"
	AdjustWeeklyVolume  AdjustmentType = "weekly_volume_change"
	AdjustUnplannedRide AdjustmentType = "unplanned_activity_override"
	AdjustPriorityEvent AdjustmentType = "priority_event_added"
	AdjustWeekRebalance AdjustmentType = "week_rebalanced"
	AdjustPlanExtended  AdjustmentType = "plan_extended"
)

// PlanAdjustment is an append-only audit record of one mutation applied to a
// plan. Rows are write-once: nothing updates or deletes them, so the plan's
// history is always reconstructable as initial plan + ordered adjustments.
type PlanAdjustment struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PlanID primitive.ObjectID `bson:"planId" json:"planId"`
	UserID primitive.ObjectID `bson:"userId" json:"userId"`

	Type AdjustmentType `bson:"adjustmentType" json:"adjustmentType"`

	TargetDate *time.Time `bson:"targetDate,omitempty" json:"targetDate,omitempty"`

	TriggerReason string                 `bson:"triggerReason" json:"triggerReason"`
	TriggerData   map[string]interface{} `bson:"triggerData,omitempty" json:"triggerData,omitempty"`

	// ChangesMade holds the before/after values of every mutated field.
	ChangesMade map[string]interface{} `bson:"changesMade" json:"changesMade"`

	AffectedWorkouts []primitive.ObjectID `bson:"affectedWorkouts,omitempty" json:"affectedWorkouts,omitempty"`

	EstimatedImpact string `bson:"estimatedImpact,omitempty" json:"estimatedImpact,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
