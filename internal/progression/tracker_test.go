package progression

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"cyclecoach/internal/domain"
)

var now = time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)

func freshLevels() *domain.ProgressionLevels {
	return domain.NewProgressionLevels(primitive.NewObjectID())
}

func TestApplyRaisesOnStrongCompletion(t *testing.T) {
	levels := freshLevels()

	changed := Apply(levels, Outcome{Zone: domain.ZoneThreshold, CompletionPercentage: 95, RPE: 6}, now)
	require.True(t, changed)
	assert.InDelta(t, 3.1, levels.Threshold, 1e-9)

	require.Len(t, levels.History, 1)
	h := levels.History[0]
	assert.Equal(t, domain.ZoneThreshold, h.Zone)
	assert.InDelta(t, 3.0, h.OldLevel, 1e-9)
	assert.InDelta(t, 3.1, h.NewLevel, 1e-9)
	assert.Equal(t, now, h.ChangedAt)
}

func TestApplyLowersOnPoorCompletion(t *testing.T) {
	levels := freshLevels()

	changed := Apply(levels, Outcome{Zone: domain.ZoneVO2Max, CompletionPercentage: 40, RPE: 9}, now)
	require.True(t, changed)
	assert.InDelta(t, 2.9, levels.VO2Max, 1e-9)
}

func TestApplyLowersOnSkip(t *testing.T) {
	levels := freshLevels()

	changed := Apply(levels, Outcome{Zone: domain.ZoneSweetSpot, Skipped: true}, now)
	require.True(t, changed)
	assert.InDelta(t, 2.9, levels.SweetSpot, 1e-9)
	require.Len(t, levels.History, 1)
	assert.Equal(t, "workout skipped", levels.History[0].Reason)
}

func TestApplyNoChangeInMiddleBand(t *testing.T) {
	levels := freshLevels()

	// 75% completion at high RPE: neither strong enough to raise nor
	// poor enough to lower.
	changed := Apply(levels, Outcome{Zone: domain.ZoneTempo, CompletionPercentage: 75, RPE: 8}, now)
	assert.False(t, changed)
	assert.InDelta(t, 3.0, levels.Tempo, 1e-9)
	assert.Empty(t, levels.History)
}

func TestApplyHighRPEBlocksIncrease(t *testing.T) {
	levels := freshLevels()

	changed := Apply(levels, Outcome{Zone: domain.ZoneThreshold, CompletionPercentage: 100, RPE: 9}, now)
	assert.False(t, changed)
	assert.InDelta(t, 3.0, levels.Threshold, 1e-9)
}

func TestApplyClampsAtBounds(t *testing.T) {
	levels := freshLevels()
	levels.SetLevel(domain.ZoneRecovery, domain.MinProgressionLevel)

	changed := Apply(levels, Outcome{Zone: domain.ZoneRecovery, Skipped: true}, now)
	assert.False(t, changed, "clamped change must not record history")
	assert.InDelta(t, domain.MinProgressionLevel, levels.Recovery, 1e-9)
	assert.Empty(t, levels.History)

	levels.SetLevel(domain.ZoneAnaerobic, domain.MaxProgressionLevel)
	changed = Apply(levels, Outcome{Zone: domain.ZoneAnaerobic, CompletionPercentage: 100, RPE: 5}, now)
	assert.False(t, changed)
	assert.InDelta(t, domain.MaxProgressionLevel, levels.Anaerobic, 1e-9)
}

func TestApplyAccumulates(t *testing.T) {
	levels := freshLevels()

	for i := 0; i < 5; i++ {
		Apply(levels, Outcome{Zone: domain.ZoneEndurance, CompletionPercentage: 100, RPE: 4}, now.Add(time.Duration(i)*time.Hour))
	}
	assert.InDelta(t, 3.5, levels.Endurance, 1e-9)
	assert.Len(t, levels.History, 5)
}
