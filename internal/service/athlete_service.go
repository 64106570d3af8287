package service

import (
	"context"
	"errors"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"cyclecoach/internal/domain"
	"cyclecoach/internal/repository"
)

var (
	ErrTestNotFound         = errors.New("ftp test not found")
	ErrTestAlreadyCompleted = errors.New("ftp test already completed")
	ErrInvalidPower         = errors.New("measured power must be positive")
	ErrInvalidReadiness     = errors.New("readiness scores must be between 1 and 5")
)

// ftpFactor converts a protocol's measured power into estimated FTP.
var ftpFactor = map[domain.FTPTestType]float64{
	domain.TestRamp:     0.75,
	domain.Test8Minute:  0.90,
	domain.Test20Minute: 0.95,
}

// ProfileUpdate carries the mutable athlete profile fields. Nil pointers
// leave the existing value untouched.
type ProfileUpdate struct {
	Name              *string
	CurrentFTP        *int
	Weight            *float64
	Experience        *domain.TrainingExperience
	PreferredTestType *domain.FTPTestType
}

// AthleteService covers the athlete's profile, FTP testing, and daily
// readiness feedback.
type AthleteService interface {
	GetProfile(ctx context.Context, userID primitive.ObjectID) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID primitive.ObjectID, update ProfileUpdate) (*domain.User, error)

	ScheduleFTPTest(ctx context.Context, userID primitive.ObjectID, planID *primitive.ObjectID, date time.Time, phase domain.Phase) (*domain.FTPTest, error)
	CompleteFTPTest(ctx context.Context, userID, testID primitive.ObjectID, measuredPower int, notes string) (*domain.FTPTest, error)
	ListFTPTests(ctx context.Context, userID primitive.ObjectID) ([]domain.FTPTest, error)

	RecordFeedback(ctx context.Context, userID primitive.ObjectID, feedback *domain.RiderFeedback) (*domain.RiderFeedback, error)
	RecentFeedback(ctx context.Context, userID primitive.ObjectID, days int) ([]domain.RiderFeedback, error)
}

type athleteService struct {
	users    repository.UserRepository
	tests    repository.FTPTestRepository
	feedback repository.FeedbackRepository
	plans    repository.TrainingPlanRepository
	now      func() time.Time
}

// NewAthleteService wires the athlete service against its repositories.
func NewAthleteService(
	users repository.UserRepository,
	tests repository.FTPTestRepository,
	feedback repository.FeedbackRepository,
	plans repository.TrainingPlanRepository,
) AthleteService {
	return &athleteService{
		users:    users,
		tests:    tests,
		feedback: feedback,
		plans:    plans,
		now:      time.Now,
	}
}

// GetProfile returns the athlete's account without the password hash.
func (s *athleteService) GetProfile(ctx context.Context, userID primitive.ObjectID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

// UpdateProfile applies the provided fields and persists the user.
func (s *athleteService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, update ProfileUpdate) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.CurrentFTP != nil {
		user.CurrentFTP = *update.CurrentFTP
	}
	if update.Weight != nil {
		user.Weight = *update.Weight
	}
	if update.Experience != nil {
		user.Experience = *update.Experience
	}
	if update.PreferredTestType != nil {
		user.PreferredTestType = *update.PreferredTestType
	}
	user.UpdatedAt = s.now()

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

// ScheduleFTPTest creates a pending test using the protocol matched to the
// athlete's experience.
func (s *athleteService) ScheduleFTPTest(ctx context.Context, userID primitive.ObjectID, planID *primitive.ObjectID, date time.Time, phase domain.Phase) (*domain.FTPTest, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	test := &domain.FTPTest{
		UserID:        userID,
		PlanID:        planID,
		TestType:      user.TestTypeFor(),
		ScheduledDate: date,
		TrainingPhase: phase,
		CreatedAt:     s.now(),
	}
	id, err := s.tests.Create(ctx, test)
	if err != nil {
		return nil, err
	}
	test.ID = id
	return test, nil
}

// CompleteFTPTest records the measured power, derives the new FTP from the
// test protocol, updates the athlete's current FTP, and bumps the active
// plan's test schedule.
func (s *athleteService) CompleteFTPTest(ctx context.Context, userID, testID primitive.ObjectID, measuredPower int, notes string) (*domain.FTPTest, error) {
	if measuredPower <= 0 {
		return nil, ErrInvalidPower
	}

	test, err := s.tests.GetByID(ctx, testID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTestNotFound
		}
		return nil, err
	}
	if test.UserID != userID {
		return nil, ErrNotPlanOwner
	}
	if test.CompletedDate != nil {
		return nil, ErrTestAlreadyCompleted
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	factor, ok := ftpFactor[test.TestType]
	if !ok {
		factor = ftpFactor[domain.Test20Minute]
	}
	newFTP := int(math.Round(float64(measuredPower) * factor))

	now := s.now()
	test.CompletedDate = &now
	test.MeasuredPower = measuredPower
	test.CalculatedFTP = newFTP
	test.PreviousFTP = user.CurrentFTP
	test.FTPChange = newFTP - user.CurrentFTP
	if user.CurrentFTP > 0 {
		test.FTPChangePercent = math.Round(float64(test.FTPChange)/float64(user.CurrentFTP)*100*10) / 10
	}
	test.Notes = notes

	if err := s.tests.Update(ctx, test); err != nil {
		return nil, err
	}

	user.CurrentFTP = newFTP
	user.UpdatedAt = now
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	// Keep the active plan's test cadence in sync with the completed test.
	if plan, err := s.plans.GetActiveByUserID(ctx, userID); err == nil {
		next := now.AddDate(0, 0, 28)
		plan.LastFTPTest = &now
		plan.NextFTPTest = &next
		plan.UpdatedAt = now
		if err := s.plans.Update(ctx, plan); err != nil {
			return nil, err
		}
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	return test, nil
}

// ListFTPTests returns the athlete's test history, newest first.
func (s *athleteService) ListFTPTests(ctx context.Context, userID primitive.ObjectID) ([]domain.FTPTest, error) {
	return s.tests.GetByUserID(ctx, userID)
}

// RecordFeedback validates and stores one daily check-in.
func (s *athleteService) RecordFeedback(ctx context.Context, userID primitive.ObjectID, feedback *domain.RiderFeedback) (*domain.RiderFeedback, error) {
	for _, score := range []int{feedback.OverallFeeling, feedback.SleepQuality, feedback.MuscleSoreness, feedback.Motivation} {
		if score < 1 || score > 5 {
			return nil, ErrInvalidReadiness
		}
	}

	feedback.UserID = userID
	if feedback.FeedbackDate.IsZero() {
		feedback.FeedbackDate = s.now()
	}
	feedback.CreatedAt = s.now()

	id, err := s.feedback.Create(ctx, feedback)
	if err != nil {
		return nil, err
	}
	feedback.ID = id
	return feedback, nil
}

// RecentFeedback returns check-ins from the last N days, newest first.
func (s *athleteService) RecentFeedback(ctx context.Context, userID primitive.ObjectID, days int) ([]domain.RiderFeedback, error) {
	if days <= 0 {
		days = 7
	}
	since := s.now().AddDate(0, 0, -days)
	return s.feedback.GetByUserID(ctx, userID, since)
}
