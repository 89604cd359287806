// File: database/repository/trainer/trainer.go
package trainerRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"fitbook/database"
	"fitbook/models"
)

// Repository manages trainer records.
type Repository interface {
	Create(ctx context.Context, trainer *models.Trainer) error
	GetByID(ctx context.Context, id string) (*models.Trainer, error)
	List(ctx context.Context) ([]models.Trainer, error)
	EnsureIndexes(ctx context.Context) error
}

type mongoTrainerRepo struct {
	coll *mongo.Collection
}

// NewMongoTrainerRepo constructs a Repository over the trainers collection.
func NewMongoTrainerRepo() Repository {
	return &mongoTrainerRepo{coll: database.Collection("trainers")}
}

func (r *mongoTrainerRepo) Create(ctx context.Context, trainer *models.Trainer) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, trainer); err != nil {
		return fmt.Errorf("failed to insert trainer: %w", err)
	}
	return nil
}

func (r *mongoTrainerRepo) GetByID(ctx context.Context, id string) (*models.Trainer, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var trainer models.Trainer
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&trainer); err != nil {
		return nil, err
	}
	return &trainer, nil
}

func (r *mongoTrainerRepo) List(ctx context.Context) ([]models.Trainer, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list trainers: %w", err)
	}
	defer cursor.Close(ctx)

	var trainers []models.Trainer
	if err := cursor.All(ctx, &trainers); err != nil {
		return nil, fmt.Errorf("error decoding trainers: %w", err)
	}
	return trainers, nil
}

func (r *mongoTrainerRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_email"),
		},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create trainer indexes: %w", err)
	}
	return nil
}
