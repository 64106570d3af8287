// Package workoutfile imports and exports structured workouts in the file
// formats trainer software speaks: MRC and ERG (course files), ZWO (Zwift
// XML), and plain JSON. Parsing and rendering are pure string transforms.
package workoutfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"cyclecoach/internal/domain"
	"cyclecoach/internal/library"
)

// Format identifies a workout file format.
type Format string

const (
	FormatMRC  Format = "mrc"
	FormatERG  Format = "erg"
	FormatZWO  Format = "zwo"
	FormatJSON Format = "json"
)

var (
	ErrUnknownFormat = errors.New("workoutfile: unknown format")
	ErrNoData        = errors.New("workoutfile: no valid workout data found")
	ErrFTPRequired   = errors.New("workoutfile: rider FTP required for ERG files")
)

// ParseFormat normalizes a format string, with or without a leading dot.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "mrc":
		return FormatMRC, nil
	case "erg":
		return FormatERG, nil
	case "zwo":
		return FormatZWO, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// ContentType returns the MIME type used when storing an exported file.
func (f Format) ContentType() string {
	switch f {
	case FormatZWO:
		return "application/xml"
	case FormatJSON:
		return "application/json"
	}
	return "text/plain"
}

// Import parses file content into a template-shaped workout. userFTP is
// required for ERG files (absolute watts) unless the file carries its own
// FTP header.
func Import(content string, format Format, userFTP int) (*domain.WorkoutTemplate, error) {
	switch format {
	case FormatMRC:
		return ParseMRC(content)
	case FormatERG:
		return ParseERG(content, userFTP)
	case FormatZWO:
		return ParseZWO(content)
	case FormatJSON:
		var t domain.WorkoutTemplate
		if err := json.Unmarshal([]byte(content), &t); err != nil {
			return nil, fmt.Errorf("workoutfile: invalid JSON workout: %w", err)
		}
		return &t, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// Export renders a workout in the given format. userFTP is required for ERG.
func Export(t *domain.WorkoutTemplate, format Format, userFTP int) (string, error) {
	switch format {
	case FormatMRC:
		return ExportMRC(t), nil
	case FormatERG:
		if userFTP <= 0 {
			return "", ErrFTPRequired
		}
		return ExportERG(t, userFTP), nil
	case FormatZWO:
		return ExportZWO(t)
	case FormatJSON:
		out, err := json.MarshalIndent(t, "", "  ")
		if err != nil {
			return "", err
		}
		return string(out), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// ParseMRC reads an MRC course file. Power values are percent of FTP,
// durations are minutes.
//
//	[COURSE DATA]
//	58 5.0
//	71 10.0
//	[END COURSE DATA]
func ParseMRC(content string) (*domain.WorkoutTemplate, error) {
	intervals, err := parseCourseData(content, func(power float64) float64 {
		return power / 100.0
	})
	if err != nil {
		return nil, err
	}
	t := fromIntervals(intervals)
	t.Name = "Imported MRC Workout"
	t.Description = "Workout imported from MRC file"
	t.Tags = []string{"imported", "mrc"}
	return t, nil
}

// ParseERG reads an ERG course file. Power values are absolute watts,
// converted to fractions of FTP using the file's FTP= header or the rider's.
func ParseERG(content string, userFTP int) (*domain.WorkoutTemplate, error) {
	fileFTP := userFTP
	for _, line := range strings.Split(content, "\n") {
		if idx := strings.Index(line, "FTP="); idx >= 0 {
			if v, err := strconv.Atoi(strings.TrimSpace(line[idx+4:])); err == nil {
				fileFTP = v
			}
		}
	}
	if userFTP <= 0 {
		userFTP = fileFTP
	}
	if userFTP <= 0 {
		return nil, ErrFTPRequired
	}

	intervals, err := parseCourseData(content, func(watts float64) float64 {
		return round2(watts / float64(userFTP))
	})
	if err != nil {
		return nil, err
	}
	t := fromIntervals(intervals)
	t.Name = "Imported ERG Workout"
	t.Description = fmt.Sprintf("Workout imported from ERG file (FTP: %dW)", fileFTP)
	t.Tags = []string{"imported", "erg"}
	return t, nil
}

// parseCourseData extracts the [COURSE DATA] block shared by MRC and ERG.
// Each data line is "power duration_minutes"; toFraction converts the power
// column into a fraction of FTP. Unparseable lines are skipped.
func parseCourseData(content string, toFraction func(float64) float64) ([]domain.Interval, error) {
	var intervals []domain.Interval
	inData := false

	for _, line := range strings.Split(strings.TrimSpace(content), "\n") {
		line = strings.TrimSpace(line)
		if strings.Contains(line, "[COURSE DATA]") {
			inData = true
			continue
		}
		if strings.Contains(line, "[END COURSE DATA]") {
			break
		}
		if !inData || line == "" {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		power, err1 := strconv.ParseFloat(fields[0], 64)
		minutes, err2 := strconv.ParseFloat(fields[1], 64)
		if err1 != nil || err2 != nil {
			continue
		}
		intervals = append(intervals, domain.Interval{
			Kind:     domain.IntervalSteady,
			Duration: int(minutes * 60),
			Power:    toFraction(power),
		})
	}

	if len(intervals) == 0 {
		return nil, ErrNoData
	}
	return intervals, nil
}

// fromIntervals fills in the derived fields shared by every import path.
func fromIntervals(intervals []domain.Interval) *domain.WorkoutTemplate {
	duration, avg := weightedPower(intervals)
	tss := library.EstimateTSS(duration, avg)
	return &domain.WorkoutTemplate{
		PrimaryZone:     ZoneForIntensity(avg),
		Type:            domain.TypeIntervals,
		Duration:        duration,
		EstimatedTSS:    tss,
		IntensityFactor: round2(avg),
		Intervals:       intervals,
	}
}

// weightedPower returns the total expanded duration and the duration-weighted
// average power fraction across all segments.
func weightedPower(intervals []domain.Interval) (int, float64) {
	var total int
	var sum float64
	for _, iv := range intervals {
		reps := iv.Repeats
		if reps < 1 {
			reps = 1
		}
		d := iv.Duration * reps
		total += d
		sum += effectivePower(iv) * float64(d)
	}
	if total == 0 {
		return 0, 0
	}
	return total, sum / float64(total)
}

// effectivePower collapses a segment to one power fraction for load math.
// Warmups and cooldowns come in two shapes: ramps carrying PowerLow/PowerHigh
// and flat segments carrying only Power (the catalog's form).
func effectivePower(iv domain.Interval) float64 {
	switch iv.Kind {
	case domain.IntervalWarmup, domain.IntervalCooldown, domain.IntervalRamp:
		if iv.PowerLow == 0 && iv.PowerHigh == 0 {
			return iv.Power
		}
		return (iv.PowerLow + iv.PowerHigh) / 2
	case domain.IntervalFree:
		if iv.Power > 0 {
			return iv.Power
		}
		return 0.65
	}
	return iv.Power
}

// ZoneForIntensity maps an average power fraction onto a training zone.
func ZoneForIntensity(avg float64) domain.Zone {
	switch {
	case avg < 0.55:
		return domain.ZoneRecovery
	case avg < 0.75:
		return domain.ZoneEndurance
	case avg < 0.87:
		return domain.ZoneTempo
	case avg < 0.95:
		return domain.ZoneSweetSpot
	case avg < 1.05:
		return domain.ZoneThreshold
	case avg < 1.20:
		return domain.ZoneVO2Max
	}
	return domain.ZoneAnaerobic
}

// ExportMRC renders the workout as an MRC course file (percent of FTP).
func ExportMRC(t *domain.WorkoutTemplate) string {
	var b strings.Builder
	writeCourseHeader(&b, t, "mrc", 0)
	b.WriteString("[COURSE DATA]\n")
	forEachSegment(t.Intervals, func(iv domain.Interval) {
		fmt.Fprintf(&b, "%.1f\t%.2f\n", effectivePower(iv)*100, float64(iv.Duration)/60)
	})
	b.WriteString("[END COURSE DATA]")
	return b.String()
}

// ExportERG renders the workout as an ERG course file (absolute watts).
func ExportERG(t *domain.WorkoutTemplate, userFTP int) string {
	var b strings.Builder
	writeCourseHeader(&b, t, "erg", userFTP)
	b.WriteString("[COURSE DATA]\n")
	forEachSegment(t.Intervals, func(iv domain.Interval) {
		fmt.Fprintf(&b, "%d\t%.2f\n", int(effectivePower(iv)*float64(userFTP)), float64(iv.Duration)/60)
	})
	b.WriteString("[END COURSE DATA]")
	return b.String()
}

func writeCourseHeader(b *strings.Builder, t *domain.WorkoutTemplate, ext string, ftp int) {
	name := t.Name
	if name == "" {
		name = "Workout"
	}
	file := t.ShortName
	if file == "" {
		file = "workout"
	}
	b.WriteString("[COURSE HEADER]\n")
	b.WriteString("VERSION = 2\n")
	b.WriteString("UNITS = ENGLISH\n")
	fmt.Fprintf(b, "DESCRIPTION = %s\n", name)
	fmt.Fprintf(b, "FILE NAME = %s.%s\n", strings.ReplaceAll(file, " ", "_"), ext)
	if ftp > 0 {
		fmt.Fprintf(b, "FTP = %d\n", ftp)
	}
	b.WriteString("[END COURSE HEADER]\n")
}

// forEachSegment expands Repeats so file formats that have no repeat
// construct still carry the full session.
func forEachSegment(intervals []domain.Interval, fn func(domain.Interval)) {
	for _, iv := range intervals {
		reps := iv.Repeats
		if reps < 1 {
			reps = 1
		}
		for i := 0; i < reps; i++ {
			fn(iv)
		}
	}
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
