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

const progressionCollectionName = "progression_levels"

// mongoProgressionRepository implements repository.ProgressionRepository.
// One document per athlete.
type mongoProgressionRepository struct {
	collection *mongo.Collection
}

// NewMongoProgressionRepository creates a new ProgressionLevels repository.
func NewMongoProgressionRepository(db *mongo.Database) repository.ProgressionRepository {
	return &mongoProgressionRepository{
		collection: db.Collection(progressionCollectionName),
	}
}

// GetByUserID returns the athlete's progression document.
func (r *mongoProgressionRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.ProgressionLevels, error) {
	var levels domain.ProgressionLevels
	err := r.collection.FindOne(ctx, bson.M{"userId": userID}).Decode(&levels)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &levels, nil
}

// Upsert writes the full progression document, creating it on first access.
func (r *mongoProgressionRepository) Upsert(ctx context.Context, levels *domain.ProgressionLevels) error {
	if levels.UserID == primitive.NilObjectID {
		return errors.New("progression levels require userId")
	}
	levels.UpdatedAt = time.Now().UTC()

	update := bson.M{
		"$set": bson.M{
			"recoveryLevel":  levels.Recovery,
			"enduranceLevel": levels.Endurance,
			"tempoLevel":     levels.Tempo,
			"sweetSpotLevel": levels.SweetSpot,
			"thresholdLevel": levels.Threshold,
			"vo2maxLevel":    levels.VO2Max,
			"anaerobicLevel": levels.Anaerobic,
			"history":        levels.History,
			"updatedAt":      levels.UpdatedAt,
		},
	}
	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, bson.M{"userId": levels.UserID}, update, opts)
	return err
}

// EnsureProgressionIndexes creates necessary indexes. Call during startup.
func EnsureProgressionIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
