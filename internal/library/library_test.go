package library

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cyclecoach/internal/domain"
)

func TestFindFiltersByZoneLevelAndPhase(t *testing.T) {
	lib := New(Catalog())

	matches := lib.Find(domain.ZoneSweetSpot, 3.0, domain.PhaseBase, nil)
	require.NotEmpty(t, matches)
	for _, m := range matches {
		assert.Equal(t, domain.ZoneSweetSpot, m.PrimaryZone)
		assert.True(t, m.SuitableForBase)
		assert.LessOrEqual(t, m.MinProgressionLevel, 3.0)
		assert.GreaterOrEqual(t, m.MaxProgressionLevel, 3.0)
	}

	// SS 4x10 is build-only, it must not appear in base matches.
	for _, m := range matches {
		assert.NotEqual(t, "SS 4x10", m.ShortName)
	}
}

func TestFindRespectsDurationRange(t *testing.T) {
	lib := New(Catalog())

	matches := lib.Find(domain.ZoneEndurance, 4.0, domain.PhaseBase, &DurationRange{Min: 7000, Max: 8000})
	require.Len(t, matches, 1)
	assert.Equal(t, "Long Endurance Ride", matches[0].Name)
}

func TestFindNoMatchOutsideLevelRange(t *testing.T) {
	lib := New(Catalog())

	// Endurance templates top out at max level 8.0.
	matches := lib.Find(domain.ZoneEndurance, 9.5, domain.PhaseBase, nil)
	assert.Empty(t, matches)
}

func TestSelectClosestTSS(t *testing.T) {
	lib := New(Catalog())

	got, ok := lib.Select(domain.ZoneSweetSpot, 3.0, domain.PhaseBuild, 74.0)
	require.True(t, ok)
	assert.Equal(t, "Sweet Spot 3x12", got.Name)
}

func TestSelectTieBreaksOnDifficultyThenName(t *testing.T) {
	lib := New(Catalog())

	// At level 3.0 in base phase, Tempo 2x20 (TSS 65, diff 4.5) and
	// Tempo 3x15 (TSS 70, diff 5.0) are both candidates. Target 67.5 is
	// equidistant; the lower difficulty score wins.
	got, ok := lib.Select(domain.ZoneTempo, 3.0, domain.PhaseBase, 67.5)
	require.True(t, ok)
	assert.Equal(t, "Tempo Intervals 2x20", got.Name)
}

func TestSelectDeterministic(t *testing.T) {
	lib := New(Catalog())

	first, ok := lib.Select(domain.ZoneThreshold, 4.0, domain.PhaseBuild, 85.0)
	require.True(t, ok)
	for i := 0; i < 10; i++ {
		again, ok := lib.Select(domain.ZoneThreshold, 4.0, domain.PhaseBuild, 85.0)
		require.True(t, ok)
		assert.Equal(t, first.Name, again.Name)
	}
}

func TestSelectNoCandidates(t *testing.T) {
	lib := New(Catalog())

	// Anaerobic work is specialty-only.
	_, ok := lib.Select(domain.ZoneAnaerobic, 3.0, domain.PhaseBase, 70.0)
	assert.False(t, ok)
}

func TestTestWorkoutByProtocol(t *testing.T) {
	lib := New(Catalog())

	cases := map[domain.FTPTestType]string{
		domain.TestRamp:     "Ramp Test",
		domain.Test8Minute:  "8-Minute FTP Test",
		domain.Test20Minute: "20-Minute FTP Test",
	}
	for tt, want := range cases {
		got, ok := lib.TestWorkout(tt)
		require.True(t, ok, "test type %s", tt)
		assert.Equal(t, want, got.Name)
		assert.Equal(t, domain.TypeTest, got.Type)
	}
}

func TestBrowseFilters(t *testing.T) {
	lib := New(Catalog())

	all := lib.Browse(Filter{})
	assert.Len(t, all, len(Catalog()))

	tests := lib.Browse(Filter{Type: domain.TypeTest})
	assert.Len(t, tests, 3)

	short := lib.Browse(Filter{MaxDuration: 1800})
	require.Len(t, short, 1)
	assert.Equal(t, "Easy Recovery Spin", short[0].Name)

	hardSpecialty := lib.Browse(Filter{Phase: domain.PhaseSpecialty, DifficultyMin: 9.0})
	for _, w := range hardSpecialty {
		assert.True(t, w.SuitableForSpecialty)
		assert.GreaterOrEqual(t, w.DifficultyScore, 9.0)
	}
}

func TestEstimateTSS(t *testing.T) {
	// One hour at IF 1.0 is 100 TSS by definition.
	assert.InDelta(t, 100.0, EstimateTSS(3600, 1.0), 0.001)
	// 90 minutes at IF 0.65 rounds to 63.4.
	assert.InDelta(t, 63.4, EstimateTSS(5400, 0.65), 0.001)
}

func TestCatalogIntegrity(t *testing.T) {
	lib := New(Catalog())

	seen := map[string]bool{}
	for _, w := range lib.All() {
		require.NotEmpty(t, w.Name)
		require.NotEmpty(t, w.ShortName)
		assert.False(t, seen[w.ShortName], "duplicate short name %s", w.ShortName)
		seen[w.ShortName] = true

		assert.Greater(t, w.Duration, 0)
		assert.Greater(t, w.EstimatedTSS, 0.0)
		assert.GreaterOrEqual(t, w.MaxProgressionLevel, w.MinProgressionLevel)
		assert.NotEmpty(t, w.Intervals)
		assert.True(t, w.SuitableForBase || w.SuitableForBuild || w.SuitableForSpecialty,
			"%s suits no phase", w.Name)
	}
}
