// Package coach layers a human-readable weekly narrative on top of the
// deterministic plan. The narrative never feeds back into scheduling; when
// the AI generator is unavailable or returns garbage, a fallback narrative
// is derived straight from the scheduled workouts.
package coach

import (
	"context"
	"fmt"
	"time"

	"cyclecoach/internal/domain"
)

// WeekNarrative is the coach's view of one training week.
type WeekNarrative struct {
	WeekFocus          string    `json:"week_focus"`
	WeeklyTSSTarget    float64   `json:"weekly_tss_target"`
	PeriodizationPhase string    `json:"periodization_phase"`
	Days               []DayPlan `json:"days"`
}

// DayPlan describes one day of the narrative week.
type DayPlan struct {
	Day             string  `json:"day"`
	Date            string  `json:"date"`
	WorkoutType     string  `json:"workout_type"`
	DurationMinutes int     `json:"duration_minutes"`
	Intensity       string  `json:"intensity"`
	TSS             float64 `json:"tss"`
	Description     string  `json:"description"`
	Focus           string  `json:"focus"`
	CoachingNotes   string  `json:"coaching_notes"`
}

// Generator produces a WeekNarrative from an athlete context prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (*WeekNarrative, error)
}

// Intensity bands quoted in rider-facing text, keyed by zone.
var zoneIntensity = map[domain.Zone]string{
	domain.ZoneRecovery:  "Zone 1 (<55% FTP)",
	domain.ZoneEndurance: "Zone 2 (56-75% FTP)",
	domain.ZoneTempo:     "Zone 3 (76-90% FTP)",
	domain.ZoneSweetSpot: "Sweet Spot (88-93% FTP)",
	domain.ZoneThreshold: "Zone 4 (91-105% FTP)",
	domain.ZoneVO2Max:    "Zone 5 (106-120% FTP)",
	domain.ZoneAnaerobic: "Zone 6 (121-150% FTP)",
}

var phaseFocus = map[domain.Phase]string{
	domain.PhaseBase:      "Base phase training - building aerobic endurance and threshold power following periodization principles",
	domain.PhaseBuild:     "Build phase training - raising sustainable power with threshold and VO2max work on an aerobic foundation",
	domain.PhaseSpecialty: "Specialty phase training - sharpening race-specific intensity while holding aerobic fitness",
}

// Fallback derives a narrative directly from the plan's scheduled week. It is
// used whenever the AI generator is missing, fails, or returns an unusable
// response, so every athlete always gets a coherent week view.
func Fallback(plan *domain.TrainingPlan, workouts []domain.PlannedWorkout) *WeekNarrative {
	phase := plan.CurrentPhase
	narrative := &WeekNarrative{
		WeekFocus:          phaseFocus[phase],
		PeriodizationPhase: phaseTitle(phase),
	}
	if narrative.WeekFocus == "" {
		narrative.WeekFocus = phaseFocus[domain.PhaseBase]
	}

	for _, w := range workouts {
		narrative.WeeklyTSSTarget += w.PlannedTSS
		narrative.Days = append(narrative.Days, DayPlan{
			Day:             w.ScheduledDate.Weekday().String(),
			Date:            w.ScheduledDate.Format("2006-01-02"),
			WorkoutType:     workoutTypeLabel(w),
			DurationMinutes: w.PlannedDuration / 60,
			Intensity:       zoneIntensity[w.PrimaryZone],
			TSS:             w.PlannedTSS,
			Description:     w.Description,
			Focus:           zoneAdaptation(w.PrimaryZone),
			CoachingNotes:   fallbackNotes(w),
		})
	}
	return narrative
}

// BuildPrompt assembles the athlete context handed to the AI generator.
func BuildPrompt(user *domain.User, plan *domain.TrainingPlan, workouts []domain.PlannedWorkout, feedback []domain.RiderFeedback, now time.Time) string {
	prompt := fmt.Sprintf(`You are an expert cycling coach. Describe the athlete's upcoming training week.

Athlete: %s, FTP %dW, experience %s.
Plan: %q, week %d of %d, %s phase, %.1f hours/week across %d rides.
`,
		user.Name, user.CurrentFTP, user.Experience,
		plan.Name, plan.CurrentWeek, plan.TotalWeeks, plan.CurrentPhase,
		plan.WeeklyHours, plan.RidesPerWeek,
	)

	prompt += "\nScheduled workouts this week:\n"
	for _, w := range workouts {
		prompt += fmt.Sprintf("- %s: %s (%s, %d min, %.0f TSS)\n",
			w.ScheduledDate.Format("Mon 2006-01-02"), w.Name, w.PrimaryZone, w.PlannedDuration/60, w.PlannedTSS)
	}

	if len(feedback) > 0 {
		latest := feedback[0]
		prompt += fmt.Sprintf("\nLatest check-in (%s): feeling %d/5, sleep %d/5, soreness %d/5, motivation %d/5.\n",
			latest.FeedbackDate.Format("2006-01-02"), latest.OverallFeeling, latest.SleepQuality, latest.MuscleSoreness, latest.Motivation)
	}

	prompt += fmt.Sprintf(`
Today is %s. Respond with JSON only, matching exactly:
{
  "week_focus": "one sentence on this week's focus and periodization phase",
  "weekly_tss_target": number,
  "periodization_phase": "Base/Build/Specialty",
  "days": [
    {
      "day": "Monday",
      "date": "YYYY-MM-DD",
      "workout_type": "Rest/Recovery/Endurance/Tempo/Sweet Spot/Threshold/VO2max/Anaerobic/Test",
      "duration_minutes": 0,
      "intensity": "Zone X (XX-XX%% FTP)",
      "tss": number,
      "description": "specific intervals, rest periods, structure",
      "focus": "physiological adaptation and purpose",
      "coaching_notes": "key execution points"
    }
  ]
}`, now.Format("2006-01-02"))
	return prompt
}

func phaseTitle(p domain.Phase) string {
	switch p {
	case domain.PhaseBase:
		return "Base"
	case domain.PhaseBuild:
		return "Build"
	case domain.PhaseSpecialty:
		return "Specialty"
	}
	return "Base"
}

func workoutTypeLabel(w domain.PlannedWorkout) string {
	if w.Type == domain.TypeTest {
		return "Test"
	}
	switch w.PrimaryZone {
	case domain.ZoneRecovery:
		return "Recovery"
	case domain.ZoneEndurance:
		return "Endurance"
	case domain.ZoneTempo:
		return "Tempo"
	case domain.ZoneSweetSpot:
		return "Sweet Spot"
	case domain.ZoneThreshold:
		return "Threshold"
	case domain.ZoneVO2Max:
		return "VO2max"
	case domain.ZoneAnaerobic:
		return "Anaerobic"
	}
	return "Endurance"
}

func zoneAdaptation(z domain.Zone) string {
	switch z {
	case domain.ZoneRecovery:
		return "Active recovery"
	case domain.ZoneEndurance:
		return "Aerobic base development"
	case domain.ZoneTempo:
		return "Sustainable power"
	case domain.ZoneSweetSpot:
		return "High training stimulus with manageable fatigue"
	case domain.ZoneThreshold:
		return "Lactate threshold development"
	case domain.ZoneVO2Max:
		return "Maximal aerobic power"
	case domain.ZoneAnaerobic:
		return "Anaerobic capacity"
	}
	return "Aerobic base development"
}

func fallbackNotes(w domain.PlannedWorkout) string {
	if w.Type == domain.TypeTest {
		return "Come in rested. Pace the test evenly; the result recalibrates every zone."
	}
	switch w.PrimaryZone {
	case domain.ZoneRecovery:
		return "This should feel very easy. The goal is blood flow for recovery, not fitness."
	case domain.ZoneEndurance:
		return "Keep power steady and stay aerobic even when it feels easy."
	case domain.ZoneThreshold:
		return "Comfortably hard. Hold consistent power through each interval."
	case domain.ZoneVO2Max:
		return "Full recovery between efforts matters more than chasing peak numbers."
	}
	return "Execute the intervals as written and note how the effort felt."
}
