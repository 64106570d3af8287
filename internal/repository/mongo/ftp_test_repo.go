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

const ftpTestCollectionName = "ftp_tests"

// mongoFTPTestRepository implements repository.FTPTestRepository
type mongoFTPTestRepository struct {
	collection *mongo.Collection
}

// NewMongoFTPTestRepository creates a new FTPTest repository.
func NewMongoFTPTestRepository(db *mongo.Database) repository.FTPTestRepository {
	return &mongoFTPTestRepository{
		collection: db.Collection(ftpTestCollectionName),
	}
}

// Create inserts a new FTP test record.
func (r *mongoFTPTestRepository) Create(ctx context.Context, test *domain.FTPTest) (primitive.ObjectID, error) {
	if test.UserID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("ftp test requires userId")
	}
	test.ID = primitive.NewObjectID()
	if test.CreatedAt.IsZero() {
		test.CreatedAt = time.Now().UTC()
	}

	result, err := r.collection.InsertOne(ctx, test)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted test ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single test record.
func (r *mongoFTPTestRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.FTPTest, error) {
	var test domain.FTPTest
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&test)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &test, nil
}

// GetByUserID lists a user's test records, newest first.
func (r *mongoFTPTestRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.FTPTest, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "scheduledDate", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tests []domain.FTPTest
	if err = cursor.All(ctx, &tests); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return tests, nil
}

// Update persists a completed test's results.
func (r *mongoFTPTestRepository) Update(ctx context.Context, test *domain.FTPTest) error {
	if test.ID == primitive.NilObjectID {
		return errors.New("ftp test ID is required for update")
	}

	update := bson.M{
		"$set": bson.M{
			"completedDate":    test.CompletedDate,
			"measuredPower":    test.MeasuredPower,
			"calculatedFtp":    test.CalculatedFTP,
			"previousFtp":      test.PreviousFTP,
			"ftpChange":        test.FTPChange,
			"ftpChangePercent": test.FTPChangePercent,
			"notes":            test.Notes,
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": test.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureFTPTestIndexes creates necessary indexes. Call during startup.
func EnsureFTPTestIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "scheduledDate", Value: -1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
