package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FTPTest records one scheduled or completed FTP assessment.
type FTPTest struct {
	ID     primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID primitive.ObjectID  `bson:"userId" json:"userId"`
	PlanID *primitive.ObjectID `bson:"planId,omitempty" json:"planId,omitempty"`

	TestType      FTPTestType `bson:"testType" json:"testType"`
	ScheduledDate time.Time   `bson:"scheduledDate" json:"scheduledDate"`
	CompletedDate *time.Time  `bson:"completedDate,omitempty" json:"completedDate,omitempty"`

	MeasuredPower    int     `bson:"measuredPower,omitempty" json:"measuredPower,omitempty"`
	CalculatedFTP    int     `bson:"calculatedFtp,omitempty" json:"calculatedFtp,omitempty"`
	PreviousFTP      int     `bson:"previousFtp,omitempty" json:"previousFtp,omitempty"`
	FTPChange        int     `bson:"ftpChange,omitempty" json:"ftpChange,omitempty"`
	FTPChangePercent float64 `bson:"ftpChangePercent,omitempty" json:"ftpChangePercent,omitempty"`

	TrainingPhase Phase  `bson:"trainingPhase,omitempty" json:"trainingPhase,omitempty"`
	Notes         string `bson:"notes,omitempty" json:"notes,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// RiderFeedback is one daily readiness check-in. Readiness metrics use a
// 1-5 scale (5 best).
type RiderFeedback struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID primitive.ObjectID `bson:"userId" json:"userId"`

	FeedbackDate time.Time `bson:"feedbackDate" json:"feedbackDate"`

	OverallFeeling int `bson:"overallFeeling" json:"overallFeeling"`
	SleepQuality   int `bson:"sleepQuality" json:"sleepQuality"`
	MuscleSoreness int `bson:"muscleSoreness" json:"muscleSoreness"`
	Motivation     int `bson:"motivation" json:"motivation"`

	StressLevel string `bson:"stressLevel,omitempty" json:"stressLevel,omitempty"`

	Illness            bool   `bson:"illness" json:"illness"`
	IllnessDescription string `bson:"illnessDescription,omitempty" json:"illnessDescription,omitempty"`
	Injury             bool   `bson:"injury" json:"injury"`
	InjuryDescription  string `bson:"injuryDescription,omitempty" json:"injuryDescription,omitempty"`

	WorkStress    string `bson:"workStress,omitempty" json:"workStress,omitempty"`
	Travel        bool   `bson:"travel" json:"travel"`
	TimeAvailable string `bson:"timeAvailable,omitempty" json:"timeAvailable,omitempty"`

	Notes string `bson:"notes,omitempty" json:"notes,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
