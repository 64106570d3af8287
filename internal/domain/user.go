package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TrainingExperience buckets an athlete's background; used to pick FTP test protocols.
type TrainingExperience string

const (
	ExperienceBeginner     TrainingExperience = "beginner"
	ExperienceIntermediate TrainingExperience = "intermediate"
	ExperienceAdvanced     TrainingExperience = "advanced"
)

// FTPTestType identifies an FTP assessment protocol.
type FTPTestType string

const (
	TestRamp     FTPTestType = "ramp"
	Test8Minute  FTPTestType = "8_minute"
	Test20Minute FTPTestType = "20_minute"
)

// User represents an athlete account.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`    // Should be unique
	PasswordHash string             `bson:"passwordHash" json:"-"` // Never expose this via JSON

	// Athlete profile consumed by the planner.
	CurrentFTP        int                `bson:"currentFtp,omitempty" json:"currentFtp,omitempty"` // watts
	Weight            float64            `bson:"weight,omitempty" json:"weight,omitempty"`         // kg
	Experience        TrainingExperience `bson:"experience,omitempty" json:"experience,omitempty"`
	PreferredTestType FTPTestType        `bson:"preferredTestType,omitempty" json:"preferredTestType,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// TestTypeFor picks the FTP test protocol for this athlete: ramp for
// beginners, 8-minute for intermediates, otherwise the stated preference
// (default 20-minute).
func (u *User) TestTypeFor() FTPTestType {
	switch u.Experience {
	case ExperienceBeginner:
		return TestRamp
	case ExperienceIntermediate:
		return Test8Minute
	}
	if u.PreferredTestType != "" {
		return u.PreferredTestType
	}
	return Test20Minute
}
