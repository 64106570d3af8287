package service

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"cyclecoach/internal/domain"
	"cyclecoach/internal/repository"
)

// In-memory repositories shared by the service tests.

type memUsers struct {
	users map[primitive.ObjectID]*domain.User
}

func (m *memUsers) Create(_ context.Context, u *domain.User) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	u.ID = id
	cp := *u
	m.users[id] = &cp
	return id, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memUsers) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) Update(_ context.Context, u *domain.User) error {
	if _, ok := m.users[u.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

type memPlans struct {
	plans map[primitive.ObjectID]*domain.TrainingPlan
}

func (m *memPlans) Create(_ context.Context, p *domain.TrainingPlan) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	p.ID = id
	cp := *p
	m.plans[id] = &cp
	return id, nil
}

func (m *memPlans) GetByID(_ context.Context, id primitive.ObjectID) (*domain.TrainingPlan, error) {
	p, ok := m.plans[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memPlans) GetByUserID(_ context.Context, userID primitive.ObjectID) ([]domain.TrainingPlan, error) {
	var out []domain.TrainingPlan
	for _, p := range m.plans {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memPlans) GetActiveByUserID(_ context.Context, userID primitive.ObjectID) (*domain.TrainingPlan, error) {
	for _, p := range m.plans {
		if p.UserID == userID && p.Status == domain.PlanActive {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memPlans) ListActive(_ context.Context) ([]domain.TrainingPlan, error) {
	var out []domain.TrainingPlan
	for _, p := range m.plans {
		if p.Status == domain.PlanActive {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memPlans) Update(_ context.Context, p *domain.TrainingPlan) error {
	if _, ok := m.plans[p.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *p
	m.plans[p.ID] = &cp
	return nil
}

func (m *memPlans) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := m.plans[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.plans, id)
	return nil
}

type memWorkouts struct {
	workouts map[primitive.ObjectID]*domain.PlannedWorkout
}

func (m *memWorkouts) Create(_ context.Context, w *domain.PlannedWorkout) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	w.ID = id
	cp := *w
	m.workouts[id] = &cp
	return id, nil
}

func (m *memWorkouts) CreateMany(ctx context.Context, ws []*domain.PlannedWorkout) ([]primitive.ObjectID, error) {
	var ids []primitive.ObjectID
	for _, w := range ws {
		id, _ := m.Create(ctx, w)
		ids = append(ids, id)
	}
	return ids, nil
}

func (m *memWorkouts) GetByID(_ context.Context, id primitive.ObjectID) (*domain.PlannedWorkout, error) {
	w, ok := m.workouts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *w
	return &cp, nil
}

func (m *memWorkouts) GetByPlanID(_ context.Context, planID primitive.ObjectID, f repository.WorkoutFilter) ([]domain.PlannedWorkout, error) {
	var out []domain.PlannedWorkout
	for _, w := range m.workouts {
		if w.PlanID != planID {
			continue
		}
		if f.WeekNumber != nil && w.WeekNumber != *f.WeekNumber {
			continue
		}
		if f.Status != "" && w.Status != f.Status {
			continue
		}
		out = append(out, *w)
	}
	return out, nil
}

func (m *memWorkouts) GetByPlanAndDate(_ context.Context, planID primitive.ObjectID, date time.Time) (*domain.PlannedWorkout, error) {
	for _, w := range m.workouts {
		if w.PlanID == planID && w.ScheduledDate.Equal(date) {
			cp := *w
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memWorkouts) Update(_ context.Context, w *domain.PlannedWorkout) error {
	if _, ok := m.workouts[w.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *w
	m.workouts[w.ID] = &cp
	return nil
}

func (m *memWorkouts) CountByPlanID(_ context.Context, planID primitive.ObjectID) (int64, int64, error) {
	var total, completed int64
	for _, w := range m.workouts {
		if w.PlanID != planID {
			continue
		}
		total++
		if w.Status == domain.WorkoutCompleted {
			completed++
		}
	}
	return total, completed, nil
}

func (m *memWorkouts) DeleteByPlanID(_ context.Context, planID primitive.ObjectID) error {
	for id, w := range m.workouts {
		if w.PlanID == planID {
			delete(m.workouts, id)
		}
	}
	return nil
}

type memAudits struct {
	rows []domain.PlanAdjustment
}

func (m *memAudits) Create(_ context.Context, a *domain.PlanAdjustment) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	a.ID = id
	m.rows = append(m.rows, *a)
	return id, nil
}

func (m *memAudits) GetByPlanID(_ context.Context, planID primitive.ObjectID, limit int64) ([]domain.PlanAdjustment, error) {
	var out []domain.PlanAdjustment
	for i := len(m.rows) - 1; i >= 0 && int64(len(out)) < limit; i-- {
		if m.rows[i].PlanID == planID {
			out = append(out, m.rows[i])
		}
	}
	return out, nil
}

func (m *memAudits) DeleteByPlanID(_ context.Context, planID primitive.ObjectID) error {
	kept := m.rows[:0]
	for _, r := range m.rows {
		if r.PlanID != planID {
			kept = append(kept, r)
		}
	}
	m.rows = kept
	return nil
}

type memLevels struct {
	levels map[primitive.ObjectID]*domain.ProgressionLevels
}

func (m *memLevels) GetByUserID(_ context.Context, userID primitive.ObjectID) (*domain.ProgressionLevels, error) {
	l, ok := m.levels[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (m *memLevels) Upsert(_ context.Context, l *domain.ProgressionLevels) error {
	cp := *l
	m.levels[l.UserID] = &cp
	return nil
}

type memTests struct {
	tests map[primitive.ObjectID]*domain.FTPTest
}

func (m *memTests) Create(_ context.Context, t *domain.FTPTest) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	t.ID = id
	cp := *t
	m.tests[id] = &cp
	return id, nil
}

func (m *memTests) GetByID(_ context.Context, id primitive.ObjectID) (*domain.FTPTest, error) {
	t, ok := m.tests[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *memTests) GetByUserID(_ context.Context, userID primitive.ObjectID) ([]domain.FTPTest, error) {
	var out []domain.FTPTest
	for _, t := range m.tests {
		if t.UserID == userID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (m *memTests) Update(_ context.Context, t *domain.FTPTest) error {
	if _, ok := m.tests[t.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *t
	m.tests[t.ID] = &cp
	return nil
}

type memFeedback struct {
	rows []domain.RiderFeedback
}

func (m *memFeedback) Create(_ context.Context, f *domain.RiderFeedback) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	f.ID = id
	m.rows = append(m.rows, *f)
	return id, nil
}

func (m *memFeedback) GetByUserID(_ context.Context, userID primitive.ObjectID, since time.Time) ([]domain.RiderFeedback, error) {
	var out []domain.RiderFeedback
	for _, r := range m.rows {
		if r.UserID == userID && !r.FeedbackDate.Before(since) {
			out = append(out, r)
		}
	}
	return out, nil
}
