package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"cyclecoach/internal/domain"
	"cyclecoach/internal/repository"
)

const plannedWorkoutCollectionName = "planned_workouts"

// mongoPlannedWorkoutRepository implements repository.PlannedWorkoutRepository
type mongoPlannedWorkoutRepository struct {
	collection *mongo.Collection
}

// NewMongoPlannedWorkoutRepository creates a new PlannedWorkout repository.
func NewMongoPlannedWorkoutRepository(db *mongo.Database) repository.PlannedWorkoutRepository {
	return &mongoPlannedWorkoutRepository{
		collection: db.Collection(plannedWorkoutCollectionName),
	}
}

// Create inserts a single scheduled workout.
func (r *mongoPlannedWorkoutRepository) Create(ctx context.Context, workout *domain.PlannedWorkout) (primitive.ObjectID, error) {
	if workout.PlanID == primitive.NilObjectID || workout.UserID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("workout requires planId and userId")
	}
	workout.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	if workout.CreatedAt.IsZero() {
		workout.CreatedAt = now
	}
	workout.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, workout)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted workout ID")
	}
	return insertedID, nil
}

// CreateMany inserts a plan's full workout batch in one round trip.
func (r *mongoPlannedWorkoutRepository) CreateMany(ctx context.Context, workouts []*domain.PlannedWorkout) ([]primitive.ObjectID, error) {
	if len(workouts) == 0 {
		return nil, nil
	}

	now := time.Now().UTC()
	docs := make([]interface{}, 0, len(workouts))
	ids := make([]primitive.ObjectID, 0, len(workouts))
	for _, w := range workouts {
		w.ID = primitive.NewObjectID()
		if w.CreatedAt.IsZero() {
			w.CreatedAt = now
		}
		w.UpdatedAt = now
		docs = append(docs, w)
		ids = append(ids, w.ID)
	}

	if _, err := r.collection.InsertMany(ctx, docs); err != nil {
		return nil, err
	}
	return ids, nil
}

// GetByID retrieves a single workout by its ID.
func (r *mongoPlannedWorkoutRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.PlannedWorkout, error) {
	var workout domain.PlannedWorkout
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&workout)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &workout, nil
}

// GetByPlanID lists a plan's workouts, optionally narrowed by week, date
// range, or status, ordered by scheduled date.
func (r *mongoPlannedWorkoutRepository) GetByPlanID(ctx context.Context, planID primitive.ObjectID, filter repository.WorkoutFilter) ([]domain.PlannedWorkout, error) {
	query := bson.M{"planId": planID}
	if filter.WeekNumber != nil {
		query["weekNumber"] = *filter.WeekNumber
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.StartDate != nil || filter.EndDate != nil {
		dateRange := bson.M{}
		if filter.StartDate != nil {
			dateRange["$gte"] = *filter.StartDate
		}
		if filter.EndDate != nil {
			dateRange["$lte"] = *filter.EndDate
		}
		query["scheduledDate"] = dateRange
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "scheduledDate", Value: 1}})
	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var workouts []domain.PlannedWorkout
	if err = cursor.All(ctx, &workouts); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return workouts, nil
}

// GetByPlanAndDate finds the workout scheduled on a calendar day.
func (r *mongoPlannedWorkoutRepository) GetByPlanAndDate(ctx context.Context, planID primitive.ObjectID, date time.Time) (*domain.PlannedWorkout, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	var workout domain.PlannedWorkout
	filter := bson.M{
		"planId":        planID,
		"scheduledDate": bson.M{"$gte": dayStart, "$lt": dayEnd},
	}
	err := r.collection.FindOne(ctx, filter).Decode(&workout)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &workout, nil
}

// Update persists the mutable workout fields.
func (r *mongoPlannedWorkoutRepository) Update(ctx context.Context, workout *domain.PlannedWorkout) error {
	if workout.ID == primitive.NilObjectID {
		return errors.New("workout ID is required for update")
	}

	update := bson.M{
		"$set": bson.M{
			"scheduledDate":        workout.ScheduledDate,
			"name":                 workout.Name,
			"description":          workout.Description,
			"plannedDuration":      workout.PlannedDuration,
			"plannedTss":           workout.PlannedTSS,
			"status":               workout.Status,
			"actualDuration":       workout.ActualDuration,
			"actualTss":            workout.ActualTSS,
			"actualAvgPower":       workout.ActualAvgPower,
			"completionPercentage": workout.CompletionPercentage,
			"rpe":                  workout.RPE,
			"notes":                workout.Notes,
			"completedAt":          workout.CompletedAt,
			"updatedAt":            time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": workout.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// CountByPlanID returns total and completed workout counts for completion
// percentage recomputation.
func (r *mongoPlannedWorkoutRepository) CountByPlanID(ctx context.Context, planID primitive.ObjectID) (int64, int64, error) {
	total, err := r.collection.CountDocuments(ctx, bson.M{"planId": planID})
	if err != nil {
		return 0, 0, err
	}
	completed, err := r.collection.CountDocuments(ctx, bson.M{
		"planId": planID,
		"status": domain.WorkoutCompleted,
	})
	if err != nil {
		return 0, 0, err
	}
	return total, completed, nil
}

// DeleteByPlanID removes all workouts belonging to a plan.
func (r *mongoPlannedWorkoutRepository) DeleteByPlanID(ctx context.Context, planID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"planId": planID})
	return err
}

// EnsurePlannedWorkoutIndexes creates necessary indexes. Call during startup.
func EnsurePlannedWorkoutIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "planId", Value: 1}, {Key: "scheduledDate", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "planId", Value: 1}, {Key: "weekNumber", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "scheduledDate", Value: 1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
