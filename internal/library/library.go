// Package library holds the static workout template catalog and the
// selection logic that matches a scheduling request to a template.
package library

import (
	"math"
	"sort"

	"cyclecoach/internal/domain"
)

// Library is an immutable index over the workout template catalog. Build it
// once at startup with New; lookups are safe for concurrent use.
type Library struct {
	templates   []domain.WorkoutTemplate
	byZone      map[domain.Zone][]*domain.WorkoutTemplate
	byShortName map[string]*domain.WorkoutTemplate
	tests       map[domain.FTPTestType]*domain.WorkoutTemplate
}

// New indexes the given templates. Pass Catalog() for the built-in set.
func New(templates []domain.WorkoutTemplate) *Library {
	l := &Library{
		templates:   templates,
		byZone:      make(map[domain.Zone][]*domain.WorkoutTemplate),
		byShortName: make(map[string]*domain.WorkoutTemplate, len(templates)),
		tests:       make(map[domain.FTPTestType]*domain.WorkoutTemplate, 3),
	}
	for i := range l.templates {
		t := &l.templates[i]
		l.byZone[t.PrimaryZone] = append(l.byZone[t.PrimaryZone], t)
		l.byShortName[t.ShortName] = t
	}
	l.tests[domain.TestRamp] = l.byShortName["Ramp Test"]
	l.tests[domain.Test8Minute] = l.byShortName["8min Test"]
	l.tests[domain.Test20Minute] = l.byShortName["20min Test"]
	return l
}

// DurationRange bounds a Find query by total workout duration in seconds.
type DurationRange struct {
	Min int
	Max int
}

// Find returns every template matching the zone, level, and phase. A nil
// durationRange matches any duration. Pure lookup, no side effects.
func (l *Library) Find(zone domain.Zone, level float64, phase domain.Phase, durationRange *DurationRange) []*domain.WorkoutTemplate {
	var matches []*domain.WorkoutTemplate
	for _, t := range l.byZone[zone] {
		if level < t.MinProgressionLevel || level > t.MaxProgressionLevel {
			continue
		}
		if !t.SuitableFor(phase) {
			continue
		}
		if durationRange != nil && (t.Duration < durationRange.Min || t.Duration > durationRange.Max) {
			continue
		}
		matches = append(matches, t)
	}
	return matches
}

// Select picks the template whose estimated TSS is closest to targetTSS among
// the Find matches. Ties go to the lower difficulty score, then the earlier
// name, so selection is deterministic. Returns false when nothing matches;
// callers leave the slot unscheduled rather than failing.
func (l *Library) Select(zone domain.Zone, level float64, phase domain.Phase, targetTSS float64) (*domain.WorkoutTemplate, bool) {
	candidates := l.Find(zone, level, phase, nil)
	if len(candidates) == 0 {
		return nil, false
	}
	sort.Slice(candidates, func(i, j int) bool {
		di := math.Abs(candidates[i].EstimatedTSS - targetTSS)
		dj := math.Abs(candidates[j].EstimatedTSS - targetTSS)
		if di != dj {
			return di < dj
		}
		if candidates[i].DifficultyScore != candidates[j].DifficultyScore {
			return candidates[i].DifficultyScore < candidates[j].DifficultyScore
		}
		return candidates[i].Name < candidates[j].Name
	})
	return candidates[0], true
}

// TestWorkout returns the FTP test template for the given protocol.
func (l *Library) TestWorkout(testType domain.FTPTestType) (*domain.WorkoutTemplate, bool) {
	t, ok := l.tests[testType]
	return t, ok && t != nil
}

// ByShortName looks a template up by its catalog short name.
func (l *Library) ByShortName(shortName string) (*domain.WorkoutTemplate, bool) {
	t, ok := l.byShortName[shortName]
	return t, ok
}

// All returns the full catalog in declaration order.
func (l *Library) All() []domain.WorkoutTemplate {
	return l.templates
}

// Filter narrows the catalog by the optional criteria used by the library
// browsing endpoint. Zero values mean "no constraint".
type Filter struct {
	Zone          domain.Zone
	Type          domain.WorkoutType
	MinDuration   int
	MaxDuration   int
	Phase         domain.Phase
	DifficultyMin float64
	DifficultyMax float64
}

// Browse applies f to the catalog.
func (l *Library) Browse(f Filter) []domain.WorkoutTemplate {
	out := make([]domain.WorkoutTemplate, 0, len(l.templates))
	for _, t := range l.templates {
		if f.Zone != "" && t.PrimaryZone != f.Zone {
			continue
		}
		if f.Type != "" && t.Type != f.Type {
			continue
		}
		if f.MinDuration > 0 && t.Duration < f.MinDuration {
			continue
		}
		if f.MaxDuration > 0 && t.Duration > f.MaxDuration {
			continue
		}
		if f.Phase != "" && !t.SuitableFor(f.Phase) {
			continue
		}
		if f.DifficultyMin > 0 && t.DifficultyScore < f.DifficultyMin {
			continue
		}
		if f.DifficultyMax > 0 && t.DifficultyScore > f.DifficultyMax {
			continue
		}
		out = append(out, t)
	}
	return out
}

// EstimateTSS computes Training Stress Score for a steady effort:
// duration_hours * IF^2 * 100.
func EstimateTSS(durationSeconds int, intensityFactor float64) float64 {
	hours := float64(durationSeconds) / 3600
	return math.Round(hours*intensityFactor*intensityFactor*100*10) / 10
}
