package domain

// Zone is a power-intensity band expressed relative to FTP.
type Zone string

const (
	ZoneRecovery  Zone = "recovery"
	ZoneEndurance Zone = "endurance"
	ZoneTempo     Zone = "tempo"
	ZoneSweetSpot Zone = "sweet_spot"
	ZoneThreshold Zone = "threshold"
	ZoneVO2Max    Zone = "vo2max"
	ZoneAnaerobic Zone = "anaerobic"
)

// Zones lists all training zones in intensity order.
var Zones = []Zone{
	ZoneRecovery, ZoneEndurance, ZoneTempo, ZoneSweetSpot,
	ZoneThreshold, ZoneVO2Max, ZoneAnaerobic,
}

// WorkoutType classifies a template's overall structure.
type WorkoutType string

const (
	TypeSteadyState WorkoutType = "steady_state"
	TypeIntervals   WorkoutType = "intervals"
	TypeMixed       WorkoutType = "mixed"
	TypeTest        WorkoutType = "test"
)

// IntervalKind tags one segment of a workout's interval structure.
type IntervalKind string

const (
	IntervalSteady   IntervalKind = "steady"
	IntervalWarmup   IntervalKind = "warmup"
	IntervalCooldown IntervalKind = "cooldown"
	IntervalWork     IntervalKind = "work"
	IntervalRecovery IntervalKind = "recovery"
	IntervalRamp     IntervalKind = "ramp"
	IntervalFree     IntervalKind = "free"
)

// Interval is one segment of a workout. Power values are fractions of FTP.
// Repeats of 0 or 1 both mean the segment runs once. Ramp segments use
// PowerLow/PowerHigh plus StepDuration/Steps; everything else uses Power.
type Interval struct {
	Kind         IntervalKind `bson:"kind" json:"kind"`
	Duration     int          `bson:"duration" json:"duration"` // seconds
	Power        float64      `bson:"power,omitempty" json:"power,omitempty"`
	PowerLow     float64      `bson:"powerLow,omitempty" json:"powerLow,omitempty"`
	PowerHigh    float64      `bson:"powerHigh,omitempty" json:"powerHigh,omitempty"`
	Repeats      int          `bson:"repeats,omitempty" json:"repeats,omitempty"`
	StepDuration int          `bson:"stepDuration,omitempty" json:"stepDuration,omitempty"`
	Steps        int          `bson:"steps,omitempty" json:"steps,omitempty"`
}

// WorkoutTemplate is a reusable workout archetype from the static catalog.
// Templates are read-only at runtime; scheduling copies fields into
// PlannedWorkout rows and never mutates the catalog.
type WorkoutTemplate struct {
	Name        string `json:"name"`
	ShortName   string `json:"shortName"`
	Description string `json:"description"`

	PrimaryZone   Zone        `json:"primaryZone"`
	SecondaryZone Zone        `json:"secondaryZone,omitempty"`
	Type          WorkoutType `json:"workoutType"`

	MinProgressionLevel float64 `json:"minProgressionLevel"`
	MaxProgressionLevel float64 `json:"maxProgressionLevel"`
	DifficultyScore     float64 `json:"difficultyScore"`

	Duration     int `json:"duration"`     // total seconds
	WorkDuration int `json:"workDuration"` // seconds at working intensity

	EstimatedTSS    float64 `json:"estimatedTss"`
	IntensityFactor float64 `json:"intensityFactor"`

	Intervals []Interval `json:"intervals"`

	SuitableForBase      bool `json:"suitableForBase"`
	SuitableForBuild     bool `json:"suitableForBuild"`
	SuitableForSpecialty bool `json:"suitableForSpecialty"`

	Tags []string `json:"tags,omitempty"`
}

// SuitableFor reports whether the template is flagged for the given phase.
func (t *WorkoutTemplate) SuitableFor(phase Phase) bool {
	switch phase {
	case PhaseBase:
		return t.SuitableForBase
	case PhaseBuild:
		return t.SuitableForBuild
	case PhaseSpecialty:
		return t.SuitableForSpecialty
	}
	return false
}
