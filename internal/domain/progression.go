package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Progression level bounds. Levels never leave this range.
const (
	MinProgressionLevel = 1.0
	MaxProgressionLevel = 10.0

	// DefaultProgressionLevel is the starting level for every zone.
	DefaultProgressionLevel = 3.0
)

// ProgressionChange is one audit entry recorded whenever a zone level moves.
type ProgressionChange struct {
	Zone      Zone      `bson:"zone" json:"zone"`
	OldLevel  float64   `bson:"oldLevel" json:"oldLevel"`
	NewLevel  float64   `bson:"newLevel" json:"newLevel"`
	Reason    string    `bson:"reason" json:"reason"`
	ChangedAt time.Time `bson:"changedAt" json:"changedAt"`
}

// ProgressionLevels holds an athlete's per-zone skill scalars (1.0-10.0),
// used to pick appropriately hard templates. One document per athlete.
type ProgressionLevels struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID primitive.ObjectID `bson:"userId" json:"userId"`

	Recovery  float64 `bson:"recoveryLevel" json:"recoveryLevel"`
	Endurance float64 `bson:"enduranceLevel" json:"enduranceLevel"`
	Tempo     float64 `bson:"tempoLevel" json:"tempoLevel"`
	SweetSpot float64 `bson:"sweetSpotLevel" json:"sweetSpotLevel"`
	Threshold float64 `bson:"thresholdLevel" json:"thresholdLevel"`
	VO2Max    float64 `bson:"vo2maxLevel" json:"vo2maxLevel"`
	Anaerobic float64 `bson:"anaerobicLevel" json:"anaerobicLevel"`

	History []ProgressionChange `bson:"history,omitempty" json:"history,omitempty"`

	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// NewProgressionLevels returns a fresh document with every zone at the default level.
func NewProgressionLevels(userID primitive.ObjectID) *ProgressionLevels {
	return &ProgressionLevels{
		UserID:    userID,
		Recovery:  DefaultProgressionLevel,
		Endurance: DefaultProgressionLevel,
		Tempo:     DefaultProgressionLevel,
		SweetSpot: DefaultProgressionLevel,
		Threshold: DefaultProgressionLevel,
		VO2Max:    DefaultProgressionLevel,
		Anaerobic: DefaultProgressionLevel,
	}
}

// Level returns the scalar for a zone.
func (p *ProgressionLevels) Level(zone Zone) float64 {
	switch zone {
	case ZoneRecovery:
		return p.Recovery
	case ZoneEndurance:
		return p.Endurance
	case ZoneTempo:
		return p.Tempo
	case ZoneSweetSpot:
		return p.SweetSpot
	case ZoneThreshold:
		return p.Threshold
	case ZoneVO2Max:
		return p.VO2Max
	case ZoneAnaerobic:
		return p.Anaerobic
	}
	return DefaultProgressionLevel
}

// SetLevel writes the scalar for a zone, clamped to [MinProgressionLevel, MaxProgressionLevel].
func (p *ProgressionLevels) SetLevel(zone Zone, level float64) {
	if level < MinProgressionLevel {
		level = MinProgressionLevel
	}
	if level > MaxProgressionLevel {
		level = MaxProgressionLevel
	}
	switch zone {
	case ZoneRecovery:
		p.Recovery = level
	case ZoneEndurance:
		p.Endurance = level
	case ZoneTempo:
		p.Tempo = level
	case ZoneSweetSpot:
		p.SweetSpot = level
	case ZoneThreshold:
		p.Threshold = level
	case ZoneVO2Max:
		p.VO2Max = level
	case ZoneAnaerobic:
		p.Anaerobic = level
	}
}

// Snapshot returns all zone levels keyed by zone.
func (p *ProgressionLevels) Snapshot() map[Zone]float64 {
	out := make(map[Zone]float64, len(Zones))
	for _, z := range Zones {
		out[z] = p.Level(z)
	}
	return out
}
