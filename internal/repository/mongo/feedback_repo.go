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

const feedbackCollectionName = "rider_feedback"

// mongoFeedbackRepository implements repository.FeedbackRepository
type mongoFeedbackRepository struct {
	collection *mongo.Collection
}

// NewMongoFeedbackRepository creates a new RiderFeedback repository.
func NewMongoFeedbackRepository(db *mongo.Database) repository.FeedbackRepository {
	return &mongoFeedbackRepository{
		collection: db.Collection(feedbackCollectionName),
	}
}

// Create inserts one daily check-in.
func (r *mongoFeedbackRepository) Create(ctx context.Context, feedback *domain.RiderFeedback) (primitive.ObjectID, error) {
	if feedback.UserID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("feedback requires userId")
	}
	feedback.ID = primitive.NewObjectID()
	if feedback.CreatedAt.IsZero() {
		feedback.CreatedAt = time.Now().UTC()
	}

	result, err := r.collection.InsertOne(ctx, feedback)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted feedback ID")
	}
	return insertedID, nil
}

// GetByUserID lists a user's check-ins since the given date, newest first.
func (r *mongoFeedbackRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID, since time.Time) ([]domain.RiderFeedback, error) {
	filter := bson.M{
		"userId":       userID,
		"feedbackDate": bson.M{"$gte": since},
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "feedbackDate", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var feedback []domain.RiderFeedback
	if err = cursor.All(ctx, &feedback); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return feedback, nil
}

// EnsureFeedbackIndexes creates necessary indexes. Call during startup.
func EnsureFeedbackIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "feedbackDate", Value: -1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
