package workoutfile

import (
	"encoding/xml"
	"fmt"
	"strings"

	"cyclecoach/internal/domain"
)

// ZWO is Zwift's XML workout format. Segment order matters, so the workout
// body is decoded as a single ordered element list.

type zwoFile struct {
	XMLName     xml.Name   `xml:"workout_file"`
	Author      string     `xml:"author,omitempty"`
	Name        string     `xml:"name,omitempty"`
	Description string     `xml:"description,omitempty"`
	SportType   string     `xml:"sportType,omitempty"`
	Tags        zwoTags    `xml:"tags"`
	Workout     zwoWorkout `xml:"workout"`
}

type zwoTags struct {
	Tags []zwoTag `xml:"tag"`
}

type zwoTag struct {
	Name string `xml:"name,attr"`
}

type zwoWorkout struct {
	Segments []zwoSegment `xml:",any"`
}

type zwoSegment struct {
	XMLName     xml.Name
	Duration    int     `xml:"Duration,attr,omitempty"`
	Power       float64 `xml:"Power,attr,omitempty"`
	PowerLow    float64 `xml:"PowerLow,attr,omitempty"`
	PowerHigh   float64 `xml:"PowerHigh,attr,omitempty"`
	Repeat      int     `xml:"Repeat,attr,omitempty"`
	OnDuration  int     `xml:"OnDuration,attr,omitempty"`
	OffDuration int     `xml:"OffDuration,attr,omitempty"`
	OnPower     float64 `xml:"OnPower,attr,omitempty"`
	OffPower    float64 `xml:"OffPower,attr,omitempty"`
}

// ParseZWO reads a Zwift workout file. IntervalsT blocks are unrolled into
// alternating work/recovery segments.
func ParseZWO(content string) (*domain.WorkoutTemplate, error) {
	var file zwoFile
	if err := xml.Unmarshal([]byte(content), &file); err != nil {
		return nil, fmt.Errorf("workoutfile: invalid ZWO XML: %w", err)
	}

	var intervals []domain.Interval
	for _, seg := range file.Workout.Segments {
		switch seg.XMLName.Local {
		case "Warmup":
			intervals = append(intervals, domain.Interval{
				Kind:      domain.IntervalWarmup,
				Duration:  seg.Duration,
				PowerLow:  defaultPower(seg.PowerLow, 0.5),
				PowerHigh: defaultPower(seg.PowerHigh, 0.7),
			})
		case "Cooldown":
			intervals = append(intervals, domain.Interval{
				Kind:      domain.IntervalCooldown,
				Duration:  seg.Duration,
				PowerLow:  defaultPower(seg.PowerLow, 0.5),
				PowerHigh: defaultPower(seg.PowerHigh, 0.7),
			})
		case "SteadyState":
			intervals = append(intervals, domain.Interval{
				Kind:     domain.IntervalSteady,
				Duration: seg.Duration,
				Power:    defaultPower(seg.Power, 0.7),
			})
		case "IntervalsT":
			repeat := seg.Repeat
			if repeat < 1 {
				repeat = 1
			}
			for i := 0; i < repeat; i++ {
				intervals = append(intervals,
					domain.Interval{
						Kind:     domain.IntervalWork,
						Duration: seg.OnDuration,
						Power:    defaultPower(seg.OnPower, 1.0),
					},
					domain.Interval{
						Kind:     domain.IntervalRecovery,
						Duration: seg.OffDuration,
						Power:    defaultPower(seg.OffPower, 0.5),
					},
				)
			}
		case "Ramp":
			intervals = append(intervals, domain.Interval{
				Kind:      domain.IntervalRamp,
				Duration:  seg.Duration,
				PowerLow:  defaultPower(seg.PowerLow, 0.5),
				PowerHigh: defaultPower(seg.PowerHigh, 1.0),
			})
		case "FreeRide":
			intervals = append(intervals, domain.Interval{
				Kind:     domain.IntervalFree,
				Duration: seg.Duration,
			})
		}
	}

	if len(intervals) == 0 {
		return nil, ErrNoData
	}

	t := fromIntervals(intervals)
	t.Name = file.Name
	if t.Name == "" {
		t.Name = "Imported ZWO Workout"
	}
	t.Description = file.Description
	if t.Description == "" {
		t.Description = "Workout imported from ZWO file"
	}
	t.Tags = []string{"imported", "zwo"}
	for _, tag := range file.Tags.Tags {
		if name := strings.ToLower(tag.Name); name != "" {
			t.Tags = append(t.Tags, name)
		}
	}
	return t, nil
}

// ExportZWO renders the workout as a Zwift workout file.
func ExportZWO(t *domain.WorkoutTemplate) (string, error) {
	file := zwoFile{
		Author:      "CycleCoach",
		Name:        t.Name,
		Description: t.Description,
		SportType:   "bike",
	}
	for _, tag := range t.Tags {
		file.Tags.Tags = append(file.Tags.Tags, zwoTag{Name: strings.Title(tag)})
	}

	for _, iv := range t.Intervals {
		var seg zwoSegment
		switch iv.Kind {
		case domain.IntervalWarmup:
			low, high := rampBounds(iv)
			seg = zwoSegment{
				XMLName:   xml.Name{Local: "Warmup"},
				Duration:  iv.Duration,
				PowerLow:  low,
				PowerHigh: high,
			}
		case domain.IntervalCooldown:
			low, high := rampBounds(iv)
			seg = zwoSegment{
				XMLName:   xml.Name{Local: "Cooldown"},
				Duration:  iv.Duration,
				PowerLow:  low,
				PowerHigh: high,
			}
		case domain.IntervalRamp:
			low, high := rampBounds(iv)
			seg = zwoSegment{
				XMLName:   xml.Name{Local: "Ramp"},
				Duration:  iv.Duration,
				PowerLow:  low,
				PowerHigh: high,
			}
		case domain.IntervalFree:
			seg = zwoSegment{
				XMLName:  xml.Name{Local: "FreeRide"},
				Duration: iv.Duration,
			}
		default:
			seg = zwoSegment{
				XMLName:  xml.Name{Local: "SteadyState"},
				Duration: iv.Duration,
				Power:    iv.Power,
			}
		}

		reps := iv.Repeats
		if reps < 1 {
			reps = 1
		}
		for i := 0; i < reps; i++ {
			file.Workout.Segments = append(file.Workout.Segments, seg)
		}
	}

	out, err := xml.MarshalIndent(file, "", "    ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func defaultPower(v, fallback float64) float64 {
	if v > 0 {
		return v
	}
	return fallback
}

// rampBounds picks the low/high pair for ramp-shaped elements. Flat
// warmups and cooldowns from the catalog carry only Power; those render as
// a level ramp. PowerLow/PowerHigh pass through in stored order on both
// import and export.
func rampBounds(iv domain.Interval) (low, high float64) {
	if iv.PowerLow == 0 && iv.PowerHigh == 0 {
		return iv.Power, iv.Power
	}
	return iv.PowerLow, iv.PowerHigh
}
