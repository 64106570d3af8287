// Package progression maintains per-zone progression levels and adjusts
// them from workout outcomes.
package progression

import (
	"fmt"
	"time"

	"cyclecoach/internal/domain"
)

// Step is the amount a level moves per outcome.
const Step = 0.1

// Outcome summarizes how a workout went, for level adjustment purposes.
type Outcome struct {
	Zone                 domain.Zone
	CompletionPercentage float64
	RPE                  int
	Skipped              bool
}

// Apply adjusts the level for the outcome's zone in place and returns
// whether anything changed.
//
// Completing a workout well (>=90% at RPE 7 or below) raises the zone's
// level by one step. Struggling (<50% completion) or skipping lowers it by
// one step. Everything in between leaves the level alone. Levels stay
// inside [1.0, 10.0]; a change that clamps to the current value records no
// history entry.
func Apply(levels *domain.ProgressionLevels, o Outcome, now time.Time) bool {
	old := levels.Level(o.Zone)

	var delta float64
	var reason string
	switch {
	case o.Skipped:
		delta = -Step
		reason = "workout skipped"
	case o.CompletionPercentage >= 90 && o.RPE <= 7:
		delta = Step
		reason = fmt.Sprintf("completed %.0f%% at RPE %d", o.CompletionPercentage, o.RPE)
	case o.CompletionPercentage < 50:
		delta = -Step
		reason = fmt.Sprintf("completed only %.0f%%", o.CompletionPercentage)
	default:
		return false
	}

	levels.SetLevel(o.Zone, old+delta)
	updated := levels.Level(o.Zone)
	if updated == old {
		return false
	}

	levels.History = append(levels.History, domain.ProgressionChange{
		Zone:      o.Zone,
		OldLevel:  old,
		NewLevel:  updated,
		Reason:    reason,
		ChangedAt: now,
	})
	levels.UpdatedAt = now
	return true
}
