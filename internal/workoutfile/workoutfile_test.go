package workoutfile

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cyclecoach/internal/domain"
	"cyclecoach/internal/library"
)

const sampleMRC = `[COURSE HEADER]
VERSION = 2
UNITS = ENGLISH
DESCRIPTION = Test Workout
FILE NAME = test.mrc
[END COURSE HEADER]
[COURSE DATA]
58	5.00
71	10.00
[END COURSE DATA]`

const sampleERG = `[COURSE HEADER]
VERSION = 2
FTP=280
[END COURSE HEADER]
[COURSE DATA]
162	5.00
200	10.00
[END COURSE DATA]`

const sampleZWO = `<workout_file>
    <author>Test</author>
    <name>Classic Threshold</name>
    <description>2x8 at threshold</description>
    <sportType>bike</sportType>
    <tags>
        <tag name="Threshold"/>
    </tags>
    <workout>
        <Warmup Duration="300" PowerLow="0.50" PowerHigh="0.75"/>
        <SteadyState Duration="600" Power="0.90"/>
        <IntervalsT Repeat="2" OnDuration="480" OffDuration="180" OnPower="1.00" OffPower="0.50"/>
        <Cooldown Duration="300" PowerLow="0.50" PowerHigh="0.70"/>
    </workout>
</workout_file>`

func TestParseMRC(t *testing.T) {
	w, err := ParseMRC(sampleMRC)
	require.NoError(t, err)

	require.Len(t, w.Intervals, 2)
	assert.Equal(t, 300, w.Intervals[0].Duration)
	assert.InDelta(t, 0.58, w.Intervals[0].Power, 1e-9)
	assert.Equal(t, 600, w.Intervals[1].Duration)
	assert.InDelta(t, 0.71, w.Intervals[1].Power, 1e-9)

	assert.Equal(t, 900, w.Duration)
	assert.Equal(t, domain.ZoneEndurance, w.PrimaryZone)
	assert.Contains(t, w.Tags, "mrc")
}

func TestParseMRCNoData(t *testing.T) {
	_, err := ParseMRC("[COURSE HEADER]\n[END COURSE HEADER]")
	assert.ErrorIs(t, err, ErrNoData)
}

func TestParseERGUsesFileFTP(t *testing.T) {
	w, err := ParseERG(sampleERG, 0)
	require.NoError(t, err)

	require.Len(t, w.Intervals, 2)
	assert.InDelta(t, 0.58, w.Intervals[0].Power, 1e-9) // 162W / 280W
	assert.InDelta(t, 0.71, w.Intervals[1].Power, 1e-9) // 200W / 280W
	assert.Contains(t, w.Description, "280W")
}

func TestParseERGPrefersRiderFTP(t *testing.T) {
	w, err := ParseERG(sampleERG, 200)
	require.NoError(t, err)
	assert.InDelta(t, 0.81, w.Intervals[0].Power, 1e-9) // 162W / 200W
}

func TestParseERGRequiresSomeFTP(t *testing.T) {
	noHeader := strings.ReplaceAll(sampleERG, "FTP=280\n", "")
	_, err := ParseERG(noHeader, 0)
	assert.ErrorIs(t, err, ErrFTPRequired)
}

func TestParseZWOUnrollsIntervals(t *testing.T) {
	w, err := ParseZWO(sampleZWO)
	require.NoError(t, err)

	assert.Equal(t, "Classic Threshold", w.Name)
	// warmup + steady + 2x(work+recovery) + cooldown
	require.Len(t, w.Intervals, 7)
	assert.Equal(t, domain.IntervalWarmup, w.Intervals[0].Kind)
	assert.Equal(t, domain.IntervalWork, w.Intervals[2].Kind)
	assert.Equal(t, domain.IntervalRecovery, w.Intervals[3].Kind)
	assert.Equal(t, domain.IntervalCooldown, w.Intervals[6].Kind)

	assert.Equal(t, 300+600+2*(480+180)+300, w.Duration)
	assert.Contains(t, w.Tags, "threshold")
}

func TestParseZWORejectsBadXML(t *testing.T) {
	_, err := ParseZWO("<workout_file><workout>")
	assert.Error(t, err)
}

func TestZoneForIntensityThresholds(t *testing.T) {
	cases := []struct {
		avg  float64
		want domain.Zone
	}{
		{0.50, domain.ZoneRecovery},
		{0.60, domain.ZoneEndurance},
		{0.80, domain.ZoneTempo},
		{0.90, domain.ZoneSweetSpot},
		{1.00, domain.ZoneThreshold},
		{1.10, domain.ZoneVO2Max},
		{1.30, domain.ZoneAnaerobic},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ZoneForIntensity(tc.avg), "avg %.2f", tc.avg)
	}
}

func TestExportMRCRoundTrip(t *testing.T) {
	w := &domain.WorkoutTemplate{
		Name:      "Sweet Spot 3x10",
		ShortName: "SS 3x10",
		Intervals: []domain.Interval{
			{Kind: domain.IntervalWarmup, Duration: 600, PowerLow: 0.5, PowerHigh: 0.7},
			{Kind: domain.IntervalWork, Duration: 600, Power: 0.90, Repeats: 3},
			{Kind: domain.IntervalRecovery, Duration: 300, Power: 0.5, Repeats: 3},
			{Kind: domain.IntervalCooldown, Duration: 600, PowerLow: 0.7, PowerHigh: 0.5},
		},
	}

	out := ExportMRC(w)
	assert.Contains(t, out, "[COURSE HEADER]")
	assert.Contains(t, out, "FILE NAME = SS_3x10.mrc")

	parsed, err := ParseMRC(out)
	require.NoError(t, err)
	// Repeats are expanded on export: 1 + 3 + 3 + 1 segments.
	assert.Len(t, parsed.Intervals, 8)
	assert.Equal(t, 600+3*600+3*300+600, parsed.Duration)
}

func TestExportCatalogTemplateCarriesFlatWarmupPower(t *testing.T) {
	lib := library.New(library.Catalog())
	tpl, ok := lib.ByShortName("SS 3x10")
	require.True(t, ok)

	// Catalog warmups and cooldowns are flat segments with only Power set.
	out := ExportMRC(tpl)
	assert.Contains(t, out, "55.0\t15.00") // 900s warmup at 55% FTP
	assert.Contains(t, out, "55.0\t10.00") // 600s cooldown
	assert.NotContains(t, out, "\n0.0\t")

	erg := ExportERG(tpl, 200)
	assert.Contains(t, erg, "110\t15.00") // 0.55 * 200W
	assert.NotContains(t, erg, "\n0\t")

	zwo, err := ExportZWO(tpl)
	require.NoError(t, err)
	assert.Contains(t, zwo, `PowerLow="0.55" PowerHigh="0.55"`)

	parsed, err := ParseMRC(out)
	require.NoError(t, err)
	assert.InDelta(t, 0.73, parsed.IntensityFactor, 0.01)
}

func TestExportZWOCooldownKeepsPowerOrder(t *testing.T) {
	w := &domain.WorkoutTemplate{
		Name: "Ramp Down",
		Intervals: []domain.Interval{
			{Kind: domain.IntervalCooldown, Duration: 600, PowerLow: 0.7, PowerHigh: 0.5},
		},
	}

	out, err := ExportZWO(w)
	require.NoError(t, err)

	parsed, err := ParseZWO(out)
	require.NoError(t, err)
	require.Len(t, parsed.Intervals, 1)
	assert.InDelta(t, 0.7, parsed.Intervals[0].PowerLow, 1e-9)
	assert.InDelta(t, 0.5, parsed.Intervals[0].PowerHigh, 1e-9)
}

func TestExportERGUsesWatts(t *testing.T) {
	w := &domain.WorkoutTemplate{
		Name:      "Steady Hour",
		Intervals: []domain.Interval{{Kind: domain.IntervalSteady, Duration: 3600, Power: 0.75}},
	}

	out := ExportERG(w, 200)
	assert.Contains(t, out, "FTP = 200")
	assert.Contains(t, out, "150\t60.00")
}

func TestExportZWORoundTrip(t *testing.T) {
	w := &domain.WorkoutTemplate{
		Name:        "Over-Unders",
		Description: "6x6 alternating",
		Tags:        []string{"threshold"},
		Intervals: []domain.Interval{
			{Kind: domain.IntervalWarmup, Duration: 600, PowerLow: 0.5, PowerHigh: 0.75},
			{Kind: domain.IntervalWork, Duration: 360, Power: 1.0, Repeats: 2},
			{Kind: domain.IntervalCooldown, Duration: 600, PowerLow: 0.7, PowerHigh: 0.5},
		},
	}

	out, err := ExportZWO(w)
	require.NoError(t, err)
	assert.Contains(t, out, "<Warmup")
	assert.Contains(t, out, "<SteadyState")

	parsed, err := ParseZWO(out)
	require.NoError(t, err)
	assert.Equal(t, "Over-Unders", parsed.Name)
	assert.Equal(t, 600+2*360+600, parsed.Duration)
}

func TestImportDispatch(t *testing.T) {
	_, err := Import("x", Format("fit"), 0)
	assert.ErrorIs(t, err, ErrUnknownFormat)

	w, err := Import(sampleMRC, FormatMRC, 0)
	require.NoError(t, err)
	assert.Equal(t, 900, w.Duration)
}

func TestExportJSONRoundTrip(t *testing.T) {
	w := &domain.WorkoutTemplate{
		Name:      "Recovery Ride",
		Intervals: []domain.Interval{{Kind: domain.IntervalSteady, Duration: 3600, Power: 0.5}},
	}
	out, err := Export(w, FormatJSON, 0)
	require.NoError(t, err)

	back, err := Import(out, FormatJSON, 0)
	require.NoError(t, err)
	assert.Equal(t, w.Name, back.Name)
	require.Len(t, back.Intervals, 1)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(".ZWO")
	require.NoError(t, err)
	assert.Equal(t, FormatZWO, f)

	_, err = ParseFormat("gpx")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}
