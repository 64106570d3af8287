package observability

import (
	"github.com/prometheus/client_golang/prometheus"

	"cyclecoach/internal/domain"
)

var (
	plansGeneratedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "cyclecoach",
		Subsystem: "planner",
		Name:      "plans_generated_total",
		Help:      "Training plans generated.",
	})
	workoutsCompletedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "cyclecoach",
		Subsystem: "workouts",
		Name:      "completed_total",
		Help:      "Planned workouts marked completed.",
	})
	workoutsSkippedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "cyclecoach",
		Subsystem: "workouts",
		Name:      "skipped_total",
		Help:      "Planned workouts marked skipped.",
	})
	adjustmentsCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cyclecoach",
		Subsystem: "adjustments",
		Name:      "applied_total",
		Help:      "Plan adjustments applied, by adjustment type.",
	}, []string{"type"})
)

func init() {
	prometheus.MustRegister(
		plansGeneratedCounter,
		workoutsCompletedCounter,
		workoutsSkippedCounter,
		adjustmentsCounter,
	)
}

// RecordPlanGenerated increments the generated-plan counter.
func RecordPlanGenerated() {
	plansGeneratedCounter.Inc()
}

// RecordWorkoutCompleted increments the completed-workout counter.
func RecordWorkoutCompleted() {
	workoutsCompletedCounter.Inc()
}

// RecordWorkoutSkipped increments the skipped-workout counter.
func RecordWorkoutSkipped() {
	workoutsSkippedCounter.Inc()
}

// RecordAdjustment increments the per-type adjustment counter.
func RecordAdjustment(t domain.AdjustmentType) {
	adjustmentsCounter.WithLabelValues(string(t)).Inc()
}
