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

const adjustmentCollectionName = "plan_adjustments"

// mongoAdjustmentRepository implements repository.AdjustmentRepository.
// The collection is append-only: no update path exists on purpose.
type mongoAdjustmentRepository struct {
	collection *mongo.Collection
}

// NewMongoAdjustmentRepository creates a new PlanAdjustment repository.
func NewMongoAdjustmentRepository(db *mongo.Database) repository.AdjustmentRepository {
	return &mongoAdjustmentRepository{
		collection: db.Collection(adjustmentCollectionName),
	}
}

// Create appends one audit row.
func (r *mongoAdjustmentRepository) Create(ctx context.Context, adjustment *domain.PlanAdjustment) (primitive.ObjectID, error) {
	if adjustment.PlanID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("adjustment requires planId")
	}
	adjustment.ID = primitive.NewObjectID()
	if adjustment.CreatedAt.IsZero() {
		adjustment.CreatedAt = time.Now().UTC()
	}

	result, err := r.collection.InsertOne(ctx, adjustment)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted adjustment ID")
	}
	return insertedID, nil
}

// GetByPlanID returns a plan's most recent adjustments, newest first.
func (r *mongoAdjustmentRepository) GetByPlanID(ctx context.Context, planID primitive.ObjectID, limit int64) ([]domain.PlanAdjustment, error) {
	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, bson.M{"planId": planID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var adjustments []domain.PlanAdjustment
	if err = cursor.All(ctx, &adjustments); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return adjustments, nil
}

// DeleteByPlanID cascades the audit trail when its parent plan is deleted.
func (r *mongoAdjustmentRepository) DeleteByPlanID(ctx context.Context, planID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"planId": planID})
	return err
}

// EnsureAdjustmentIndexes creates necessary indexes. Call during startup.
func EnsureAdjustmentIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "planId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
