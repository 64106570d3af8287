// Package adjust implements the plan mutation operations. Every operation
// mutates plan state and writes exactly one append-only PlanAdjustment audit
// row; on audit failure the mutation is compensated so no half-applied state
// survives.
package adjust

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"cyclecoach/internal/domain"
	"cyclecoach/internal/repository"
)

var (
	ErrPlanNotFound       = errors.New("adjust: plan not found")
	ErrWorkoutNotFound    = errors.New("adjust: workout not found")
	ErrNotOwner           = errors.New("adjust: caller does not own this plan")
	ErrWorkoutFinalized   = errors.New("adjust: workout is no longer adjustable")
	ErrNoWorkoutsInWeek   = errors.New("adjust: no workouts found for this week")
	ErrNothingToRebalance = errors.New("adjust: no adjustable workouts remain in this week")
	ErrInvalidAdjustment  = errors.New("adjust: invalid adjustment parameters")
)

// MinWorkoutTSS is the floor applied when rebalancing subtracts load from a
// workout.
const MinWorkoutTSS = 30.0

// Engine applies mutations to plans and their workouts. Operations on the
// same plan are serialized by a per-plan lock so reads and writes of
// multi-workout operations never interleave.
type Engine struct {
	plans    repository.TrainingPlanRepository
	workouts repository.PlannedWorkoutRepository
	audits   repository.AdjustmentRepository

	locks sync.Map // plan id hex -> *sync.Mutex
	now   func() time.Time
}

func NewEngine(plans repository.TrainingPlanRepository, workouts repository.PlannedWorkoutRepository, audits repository.AdjustmentRepository) *Engine {
	return &Engine{
		plans:    plans,
		workouts: workouts,
		audits:   audits,
		now:      time.Now,
	}
}

func (e *Engine) lockPlan(planID primitive.ObjectID) func() {
	v, _ := e.locks.LoadOrStore(planID.Hex(), &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// ownedPlan loads a plan and verifies the caller owns it.
func (e *Engine) ownedPlan(ctx context.Context, planID, userID primitive.ObjectID) (*domain.TrainingPlan, error) {
	plan, err := e.plans.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	if plan.UserID != userID {
		return nil, ErrNotOwner
	}
	return plan, nil
}

// ownedWorkout loads a workout and verifies the caller owns it.
func (e *Engine) ownedWorkout(ctx context.Context, workoutID, userID primitive.ObjectID) (*domain.PlannedWorkout, error) {
	w, err := e.workouts.GetByID(ctx, workoutID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}
	if w.UserID != userID {
		return nil, ErrNotOwner
	}
	return w, nil
}

// lockedWorkout acquires the plan lock for a workout's plan and returns the
// workout as read under that lock. The first read only discovers the plan ID;
// the post-lock re-read is what mutations and audit before-values see, so a
// concurrent op finishing between read and lock cannot leave stale values.
func (e *Engine) lockedWorkout(ctx context.Context, workoutID, userID primitive.ObjectID) (*domain.PlannedWorkout, func(), error) {
	w, err := e.ownedWorkout(ctx, workoutID, userID)
	if err != nil {
		return nil, nil, err
	}
	unlock := e.lockPlan(w.PlanID)
	w, err = e.ownedWorkout(ctx, workoutID, userID)
	if err != nil {
		unlock()
		return nil, nil, err
	}
	return w, unlock, nil
}

// audit writes the adjustment row. If the write fails, compensate is run to
// undo the already-applied mutation.
func (e *Engine) audit(ctx context.Context, adj *domain.PlanAdjustment, compensate func() error) (*domain.PlanAdjustment, error) {
	adj.CreatedAt = e.now()
	id, err := e.audits.Create(ctx, adj)
	if err != nil {
		if cErr := compensate(); cErr != nil {
			return nil, fmt.Errorf("audit write failed (%w), compensation also failed: %v", err, cErr)
		}
		return nil, fmt.Errorf("audit write failed, mutation rolled back: %w", err)
	}
	adj.ID = id
	return adj, nil
}

// AdjustIntensity replaces one workout's planned TSS. The audit row stores
// the percent change (new/old - 1) * 100.
func (e *Engine) AdjustIntensity(ctx context.Context, userID, workoutID primitive.ObjectID, newTSS float64, reason string) (*domain.PlanAdjustment, error) {
	if newTSS <= 0 {
		return nil, fmt.Errorf("%w: target TSS must be positive", ErrInvalidAdjustment)
	}
	w, unlock, err := e.lockedWorkout(ctx, workoutID, userID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	oldTSS := w.PlannedTSS
	w.PlannedTSS = newTSS
	w.UpdatedAt = e.now()
	if err := e.workouts.Update(ctx, w); err != nil {
		return nil, err
	}

	changePercent := 0.0
	if oldTSS > 0 {
		changePercent = (newTSS/oldTSS - 1) * 100
	}
	return e.audit(ctx, &domain.PlanAdjustment{
		PlanID:        w.PlanID,
		UserID:        userID,
		Type:          domain.AdjustIntensity,
		TargetDate:    &w.ScheduledDate,
		TriggerReason: reason,
		ChangesMade: map[string]interface{}{
			"workout":        w.Name,
			"old_tss":        oldTSS,
			"new_tss":        newTSS,
			"change_percent": round1(changePercent),
		},
		AffectedWorkouts: []primitive.ObjectID{w.ID},
		EstimatedImpact:  fmt.Sprintf("%+.1f%% intensity on %s", changePercent, w.Name),
	}, func() error {
		w.PlannedTSS = oldTSS
		return e.workouts.Update(ctx, w)
	})
}

// Reschedule moves one workout to a new date. Works regardless of workout
// status so completed sessions can be corrected.
func (e *Engine) Reschedule(ctx context.Context, userID, workoutID primitive.ObjectID, newDate time.Time, reason string) (*domain.PlanAdjustment, error) {
	w, unlock, err := e.lockedWorkout(ctx, workoutID, userID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	oldDate := w.ScheduledDate
	w.ScheduledDate = newDate
	w.UpdatedAt = e.now()
	if err := e.workouts.Update(ctx, w); err != nil {
		return nil, err
	}

	daysMoved := int(math.Round(newDate.Sub(oldDate).Hours() / 24))
	return e.audit(ctx, &domain.PlanAdjustment{
		PlanID:        w.PlanID,
		UserID:        userID,
		Type:          domain.AdjustReschedule,
		TargetDate:    &oldDate,
		TriggerReason: reason,
		ChangesMade: map[string]interface{}{
			"workout":    w.Name,
			"old_date":   oldDate.Format("2006-01-02"),
			"new_date":   newDate.Format("2006-01-02"),
			"days_moved": daysMoved,
		},
		AffectedWorkouts: []primitive.ObjectID{w.ID},
		EstimatedImpact:  fmt.Sprintf("%s moved %+d days", w.Name, daysMoved),
	}, func() error {
		w.ScheduledDate = oldDate
		return e.workouts.Update(ctx, w)
	})
}

// SwapWorkout replaces a workout's name and description in place, keeping
// its date and TSS. Works regardless of workout status.
func (e *Engine) SwapWorkout(ctx context.Context, userID, workoutID primitive.ObjectID, newName, newDescription, reason string) (*domain.PlanAdjustment, error) {
	if newName == "" {
		return nil, fmt.Errorf("%w: new workout name required", ErrInvalidAdjustment)
	}
	w, unlock, err := e.lockedWorkout(ctx, workoutID, userID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	oldName, oldDescription := w.Name, w.Description
	w.Name = newName
	w.Description = newDescription
	w.UpdatedAt = e.now()
	if err := e.workouts.Update(ctx, w); err != nil {
		return nil, err
	}

	return e.audit(ctx, &domain.PlanAdjustment{
		PlanID:        w.PlanID,
		UserID:        userID,
		Type:          domain.AdjustWorkoutSwap,
		TargetDate:    &w.ScheduledDate,
		TriggerReason: reason,
		ChangesMade: map[string]interface{}{
			"old_workout": oldName,
			"new_workout": newName,
		},
		AffectedWorkouts: []primitive.ObjectID{w.ID},
		EstimatedImpact:  fmt.Sprintf("%s swapped for %s", oldName, newName),
	}, func() error {
		w.Name = oldName
		w.Description = oldDescription
		return e.workouts.Update(ctx, w)
	})
}

// AddRestDay inserts a rest day. A workout already scheduled on that date is
// marked skipped; its row is kept.
func (e *Engine) AddRestDay(ctx context.Context, userID, planID primitive.ObjectID, date time.Time, reason string) (*domain.PlanAdjustment, error) {
	if _, err := e.ownedPlan(ctx, planID, userID); err != nil {
		return nil, err
	}
	unlock := e.lockPlan(planID)
	defer unlock()

	replaced := "none"
	var affected []primitive.ObjectID
	var compensate func() error = func() error { return nil }

	w, err := e.workouts.GetByPlanAndDate(ctx, planID, date)
	switch {
	case err == nil:
		oldStatus := w.Status
		replaced = w.Name
		w.Status = domain.WorkoutSkipped
		w.Notes = appendNote(w.Notes, "Skipped for rest day: "+reason)
		w.UpdatedAt = e.now()
		if err := e.workouts.Update(ctx, w); err != nil {
			return nil, err
		}
		affected = []primitive.ObjectID{w.ID}
		compensate = func() error {
			w.Status = oldStatus
			return e.workouts.Update(ctx, w)
		}
	case errors.Is(err, repository.ErrNotFound):
		// No workout that day; the rest day is purely informational.
	default:
		return nil, err
	}

	return e.audit(ctx, &domain.PlanAdjustment{
		PlanID:        planID,
		UserID:        userID,
		Type:          domain.AdjustRestDay,
		TargetDate:    &date,
		TriggerReason: reason,
		ChangesMade: map[string]interface{}{
			"replaced_workout": replaced,
			"new_value":        "Rest Day",
		},
		AffectedWorkouts: affected,
		EstimatedImpact:  "rest day on " + date.Format("2006-01-02"),
	}, compensate)
}

// AdjustWeeklyVolume multiplies every workout's planned TSS in the given
// week by 1 + pct/100. Fails if the week has no workouts.
func (e *Engine) AdjustWeeklyVolume(ctx context.Context, userID, planID primitive.ObjectID, weekNumber int, changePercent float64, reason string) (*domain.PlanAdjustment, error) {
	if _, err := e.ownedPlan(ctx, planID, userID); err != nil {
		return nil, err
	}
	unlock := e.lockPlan(planID)
	defer unlock()

	week, err := e.workouts.GetByPlanID(ctx, planID, repository.WorkoutFilter{WeekNumber: &weekNumber})
	if err != nil {
		return nil, err
	}
	if len(week) == 0 {
		return nil, ErrNoWorkoutsInWeek
	}

	multiplier := 1 + changePercent/100
	var affected []primitive.ObjectID
	oldValues := make(map[primitive.ObjectID]float64)
	for i := range week {
		w := &week[i]
		if w.PlannedTSS <= 0 {
			continue
		}
		oldValues[w.ID] = w.PlannedTSS
		w.PlannedTSS = round1(w.PlannedTSS * multiplier)
		w.UpdatedAt = e.now()
		if err := e.workouts.Update(ctx, w); err != nil {
			revertTSS(ctx, e.workouts, week, oldValues)
			return nil, err
		}
		affected = append(affected, w.ID)
	}

	return e.audit(ctx, &domain.PlanAdjustment{
		PlanID:        planID,
		UserID:        userID,
		Type:          domain.AdjustWeeklyVolume,
		TriggerReason: reason,
		ChangesMade: map[string]interface{}{
			"week":              weekNumber,
			"change_percent":    changePercent,
			"workouts_adjusted": len(affected),
		},
		AffectedWorkouts: affected,
		EstimatedImpact:  fmt.Sprintf("week %d volume %+.1f%%", weekNumber, changePercent),
	}, func() error {
		revertTSS(ctx, e.workouts, week, oldValues)
		return nil
	})
}

// OverrideResult reports the outcome of an unplanned activity override,
// including the TSS delta available for a follow-up week rebalance.
type OverrideResult struct {
	Adjustment *domain.PlanAdjustment
	WeekNumber int
	TSSDelta   float64
}

// OverrideWithUnplannedActivity replaces a scheduled workout with what the
// athlete actually rode. The workout becomes terminal (overridden) and the
// TSS delta versus the original is returned for downstream rebalancing.
func (e *Engine) OverrideWithUnplannedActivity(ctx context.Context, userID, workoutID primitive.ObjectID, description string, estimatedTSS float64, estimatedDuration int, reason string) (*OverrideResult, error) {
	if estimatedTSS <= 0 || estimatedDuration <= 0 {
		return nil, fmt.Errorf("%w: activity TSS and duration must be positive", ErrInvalidAdjustment)
	}
	w, unlock, err := e.lockedWorkout(ctx, workoutID, userID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if !w.Status.CanTransition(domain.WorkoutOverridden) {
		return nil, ErrWorkoutFinalized
	}

	original := *w
	delta := estimatedTSS - w.PlannedTSS

	w.Name = "Unplanned: " + description
	w.Description = description
	w.PlannedTSS = estimatedTSS
	w.PlannedDuration = estimatedDuration
	w.ActualTSS = estimatedTSS
	w.ActualDuration = estimatedDuration
	w.Status = domain.WorkoutOverridden
	w.Notes = appendNote(w.Notes, reason)
	w.UpdatedAt = e.now()
	if err := e.workouts.Update(ctx, w); err != nil {
		return nil, err
	}

	adj, err := e.audit(ctx, &domain.PlanAdjustment{
		PlanID:        w.PlanID,
		UserID:        userID,
		Type:          domain.AdjustUnplannedRide,
		TargetDate:    &w.ScheduledDate,
		TriggerReason: reason,
		TriggerData: map[string]interface{}{
			"activity_description": description,
			"estimated_tss":        estimatedTSS,
			"estimated_duration":   estimatedDuration,
		},
		ChangesMade: map[string]interface{}{
			"original_workout": original.Name,
			"original_tss":     original.PlannedTSS,
			"new_tss":          estimatedTSS,
			"tss_delta":        round1(delta),
		},
		AffectedWorkouts: []primitive.ObjectID{w.ID},
		EstimatedImpact:  fmt.Sprintf("%+.1f TSS vs plan for week %d", delta, w.WeekNumber),
	}, func() error {
		restored := original
		return e.workouts.Update(ctx, &restored)
	})
	if err != nil {
		return nil, err
	}
	return &OverrideResult{Adjustment: adj, WeekNumber: w.WeekNumber, TSSDelta: round1(delta)}, nil
}

// AddPriorityEvent pins an event (race, gran fondo) onto a date. An existing
// workout that day is converted into the event; otherwise a new priority
// slot is created. Surrounding taper adjustments are left to the caller.
func (e *Engine) AddPriorityEvent(ctx context.Context, userID, planID primitive.ObjectID, date time.Time, name, eventType string, estimatedTSS float64, notes string) (*domain.PlanAdjustment, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: event name required", ErrInvalidAdjustment)
	}
	plan, err := e.ownedPlan(ctx, planID, userID)
	if err != nil {
		return nil, err
	}
	unlock := e.lockPlan(planID)
	defer unlock()

	replaced := "none"
	var affected []primitive.ObjectID
	var compensate func() error

	w, err := e.workouts.GetByPlanAndDate(ctx, planID, date)
	switch {
	case err == nil:
		original := *w
		replaced = w.Name
		w.Name = name
		w.Description = fmt.Sprintf("Priority event (%s): %s", eventType, notes)
		w.PlannedTSS = estimatedTSS
		w.Status = domain.WorkoutPriorityEvent
		w.UpdatedAt = e.now()
		if err := e.workouts.Update(ctx, w); err != nil {
			return nil, err
		}
		affected = []primitive.ObjectID{w.ID}
		compensate = func() error {
			restored := original
			return e.workouts.Update(ctx, &restored)
		}
	case errors.Is(err, repository.ErrNotFound):
		week := weekNumberFor(plan, date)
		created := &domain.PlannedWorkout{
			PlanID:        planID,
			UserID:        userID,
			ScheduledDate: date,
			WeekNumber:    week,
			Phase:         plan.PhaseForWeek(week),
			Name:          name,
			Description:   fmt.Sprintf("Priority event (%s): %s", eventType, notes),
			PlannedTSS:    estimatedTSS,
			Status:        domain.WorkoutPriorityEvent,
			CreatedAt:     e.now(),
			UpdatedAt:     e.now(),
		}
		id, err := e.workouts.Create(ctx, created)
		if err != nil {
			return nil, err
		}
		created.ID = id
		affected = []primitive.ObjectID{id}
		compensate = func() error { return nil }
	default:
		return nil, err
	}

	return e.audit(ctx, &domain.PlanAdjustment{
		PlanID:        planID,
		UserID:        userID,
		Type:          domain.AdjustPriorityEvent,
		TargetDate:    &date,
		TriggerReason: "priority event: " + name,
		TriggerData: map[string]interface{}{
			"event_type":    eventType,
			"estimated_tss": estimatedTSS,
			"notes":         notes,
		},
		ChangesMade: map[string]interface{}{
			"replaced_workout": replaced,
			"event":            name,
		},
		AffectedWorkouts: affected,
		EstimatedImpact:  fmt.Sprintf("%s pinned on %s; taper around it recommended", name, date.Format("2006-01-02")),
	}, compensate)
}

// RebalanceWeek spreads a TSS delta across the week's remaining scheduled
// workouts, delta/count each, flooring every workout at MinWorkoutTSS.
// Fails if no adjustable workouts remain.
func (e *Engine) RebalanceWeek(ctx context.Context, userID, planID primitive.ObjectID, weekNumber int, tssDelta float64, reason string) (*domain.PlanAdjustment, error) {
	if _, err := e.ownedPlan(ctx, planID, userID); err != nil {
		return nil, err
	}
	unlock := e.lockPlan(planID)
	defer unlock()

	week, err := e.workouts.GetByPlanID(ctx, planID, repository.WorkoutFilter{
		WeekNumber: &weekNumber,
		Status:     domain.WorkoutScheduled,
	})
	if err != nil {
		return nil, err
	}
	if len(week) == 0 {
		return nil, ErrNothingToRebalance
	}

	perWorkout := tssDelta / float64(len(week))
	var affected []primitive.ObjectID
	oldValues := make(map[primitive.ObjectID]float64)
	for i := range week {
		w := &week[i]
		oldValues[w.ID] = w.PlannedTSS
		w.PlannedTSS = math.Max(MinWorkoutTSS, round1(w.PlannedTSS+perWorkout))
		w.UpdatedAt = e.now()
		if err := e.workouts.Update(ctx, w); err != nil {
			revertTSS(ctx, e.workouts, week, oldValues)
			return nil, err
		}
		affected = append(affected, w.ID)
	}

	return e.audit(ctx, &domain.PlanAdjustment{
		PlanID:        planID,
		UserID:        userID,
		Type:          domain.AdjustWeekRebalance,
		TriggerReason: reason,
		TriggerData: map[string]interface{}{
			"tss_delta": tssDelta,
		},
		ChangesMade: map[string]interface{}{
			"week":                weekNumber,
			"per_workout_change":  round1(perWorkout),
			"workouts_rebalanced": len(affected),
		},
		AffectedWorkouts: affected,
		EstimatedImpact:  fmt.Sprintf("week %d rebalanced by %+.1f TSS", weekNumber, tssDelta),
	}, func() error {
		revertTSS(ctx, e.workouts, week, oldValues)
		return nil
	})
}

// History returns the most recent adjustments for a plan, newest first.
func (e *Engine) History(ctx context.Context, userID, planID primitive.ObjectID, limit int64) ([]domain.PlanAdjustment, error) {
	if _, err := e.ownedPlan(ctx, planID, userID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 10
	}
	return e.audits.GetByPlanID(ctx, planID, limit)
}

func weekNumberFor(plan *domain.TrainingPlan, date time.Time) int {
	days := int(date.Sub(plan.StartDate).Hours() / 24)
	week := days/7 + 1
	if week < 1 {
		week = 1
	}
	if week > plan.TotalWeeks {
		week = plan.TotalWeeks
	}
	return week
}

func revertTSS(ctx context.Context, repo repository.PlannedWorkoutRepository, week []domain.PlannedWorkout, oldValues map[primitive.ObjectID]float64) {
	for i := range week {
		w := &week[i]
		old, ok := oldValues[w.ID]
		if !ok {
			continue
		}
		w.PlannedTSS = old
		_ = repo.Update(ctx, w) // Best effort
	}
}

func appendNote(existing, note string) string {
	if note == "" {
		return existing
	}
	if existing == "" {
		return note
	}
	return existing + "\n" + note
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
