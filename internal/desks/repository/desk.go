package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	deskerrors "deskly/internal/desks/errors"
	"deskly/pkg/config"
	"deskly/pkg/model"
)

const (
	CollectionName = "Desks"
)

type DeskRepository interface {
	Create(ctx context.Context, desk *model.Desk) error
	FindByID(ctx context.Context, id string) (*model.Desk, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Desk, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, id string, desk *model.Desk) (*mongo.UpdateResult, error)
	Delete(ctx context.Context, id string) error
}

type mongoDeskRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoDeskRepository(cfg *config.Config) DeskRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoDeskRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoDeskRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoDeskRepository) Create(ctx context.Context, desk *model.Desk) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	desk.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, desk)
	if err != nil {
		return fmt.Errorf("failed to create desk: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		desk.ID = oid.Hex()
	}
	return nil
}

func (r *mongoDeskRepository) FindByID(ctx context.Context, id string) (*model.Desk, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", deskerrors.ErrInvalidID, id)
	}

	var desk model.Desk
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&desk)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, deskerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find desk: %w", err)
	}

	return &desk, nil
}

func (r *mongoDeskRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Desk, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find desks: %w", err)
	}
	defer cursor.Close(ctx)

	var desks []*model.Desk
	if err = cursor.All(ctx, &desks); err != nil {
		return nil, fmt.Errorf("failed to decode desks: %w", err)
	}

	return desks, nil
}

func (r *mongoDeskRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count desks: %w", err)
	}
	return count, nil
}

func (r *mongoDeskRepository) Update(ctx context.Context, id string, desk *model.Desk) (*mongo.UpdateResult, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", deskerrors.ErrInvalidID, id)
	}

	update := bson.M{
		"$set": bson.M{
			"name":        desk.Name,
			"description": desk.Description,
			"location":    desk.Location,
			"bookable":    desk.Bookable,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update desk: %w", err)
	}

	if result.MatchedCount == 0 {
		return nil, deskerrors.ErrNotFound
	}

	return result, nil
}

func (r *mongoDeskRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", deskerrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete desk: %w", err)
	}

	if result.DeletedCount == 0 {
		return deskerrors.ErrNotFound
	}

	return nil
}
