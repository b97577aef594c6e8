package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"parkade/infras/otel"
	"parkade/internal/domains/listing/model"
	"parkade/internal/domains/listing/model/dto"
	"parkade/shared/constant"
	gDto "parkade/shared/dto"
	"parkade/shared/failure"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Listing interface {
	Insert(ctx context.Context, listing model.Listing) error
	GetAll(ctx context.Context, params gDto.QueryParams, filter dto.ListingFilter) ([]model.Listing, error)
	Count(ctx context.Context, filter dto.ListingFilter) (int, error)
	GetByID(ctx context.Context, id string) (model.Listing, error)
	GetBySpotID(ctx context.Context, spotID uint64) (model.Listing, error)
	Update(ctx context.Context, id string, fields bson.M) error
	Delete(ctx context.Context, id string) error
	AppendReview(ctx context.Context, id string, review model.Review, rating float64) error
}

type repositoryImpl struct {
	collection *mongo.Collection
	otel       otel.Otel
}

func New(db *mongo.Database, ot otel.Otel) Listing {
	return &repositoryImpl{
		collection: db.Collection(model.CollectionName),
		otel:       ot,
	}
}

func (r *repositoryImpl) Insert(ctx context.Context, listing model.Listing) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".Insert")
	defer scope.End()
	defer scope.TraceIfError(err)

	if _, err = r.collection.InsertOne(ctx, listing); err != nil {
		log.Error().Err(err).Str("id", listing.ID).Msg("failed to insert listing")

		return fmt.Errorf("failed to insert listing: %w", err)
	}

	return nil
}

func (r *repositoryImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter dto.ListingFilter) (listings []model.Listing, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	query := filter.ToBSON()
	scope.SetAttribute(constant.OtelQueryAttributeKey, fmt.Sprintf("%v", query))

	opts := options.Find()
	if params.Limit > 0 {
		opts.SetLimit(int64(params.Limit))
		opts.SetSkip(int64((params.Page - 1) * params.Limit))
	}

	sortBy := model.FieldCreatedAt
	if params.SortBy != "" {
		sortBy = params.SortBy
	}

	direction := -1
	if params.SortDir == gDto.SortDirAsc {
		direction = 1
	}
	opts.SetSort(bson.D{{Key: sortBy, Value: direction}})

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		log.Error().Err(err).Msg("failed to query listings")

		return nil, fmt.Errorf("failed to query listings: %w", err)
	}
	defer cursor.Close(ctx)

	listings = []model.Listing{}
	for cursor.Next(ctx) {
		var listing model.Listing
		if err = cursor.Decode(&listing); err != nil {
			log.Error().Err(err).Msg("failed to decode listing")

			return nil, fmt.Errorf("failed to decode listing: %w", err)
		}

		listings = append(listings, listing)
	}

	if err = cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate listings: %w", err)
	}

	return listings, nil
}

func (r *repositoryImpl) Count(ctx context.Context, filter dto.ListingFilter) (total int, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	count, err := r.collection.CountDocuments(ctx, filter.ToBSON())
	if err != nil {
		log.Error().Err(err).Msg("failed to count listings")

		return 0, fmt.Errorf("failed to count listings: %w", err)
	}

	return int(count), nil
}

func (r *repositoryImpl) GetByID(ctx context.Context, id string) (listing model.Listing, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".GetByID")
	defer scope.End()
	defer scope.TraceIfError(err)

	err = r.collection.FindOne(ctx, bson.M{model.FieldID: id}).Decode(&listing)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return listing, failure.NotFound(model.EntityName) //nolint:wrapcheck
		}

		log.Error().Err(err).Str("id", id).Msg("failed to get listing")

		return listing, fmt.Errorf("failed to get listing: %w", err)
	}

	return listing, nil
}

func (r *repositoryImpl) GetBySpotID(ctx context.Context, spotID uint64) (listing model.Listing, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".GetBySpotID")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(constant.OtelSpotAttributeKey, spotID)

	err = r.collection.FindOne(ctx, bson.M{model.FieldSpotID: spotID}).Decode(&listing)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return listing, failure.NotFound(model.EntityName) //nolint:wrapcheck
		}

		log.Error().Err(err).Uint64("spotId", spotID).Msg("failed to get listing by spot id")

		return listing, fmt.Errorf("failed to get listing by spot id: %w", err)
	}

	return listing, nil
}

func (r *repositoryImpl) Update(ctx context.Context, id string, fields bson.M) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	result, err := r.collection.UpdateOne(ctx, bson.M{model.FieldID: id}, bson.M{"$set": fields})
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to update listing")

		return fmt.Errorf("failed to update listing: %w", err)
	}

	if result.MatchedCount == 0 {
		return failure.NotFound(model.EntityName) //nolint:wrapcheck
	}

	return nil
}

func (r *repositoryImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	result, err := r.collection.DeleteOne(ctx, bson.M{model.FieldID: id})
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to delete listing")

		return fmt.Errorf("failed to delete listing: %w", err)
	}

	if result.DeletedCount == 0 {
		return failure.NotFound(model.EntityName) //nolint:wrapcheck
	}

	return nil
}

func (r *repositoryImpl) AppendReview(ctx context.Context, id string, review model.Review, rating float64) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".AppendReview")
	defer scope.End()
	defer scope.TraceIfError(err)

	update := bson.M{
		"$push": bson.M{model.FieldReviews: review},
		"$set":  bson.M{model.FieldRating: rating},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{model.FieldID: id}, update)
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to append review")

		return fmt.Errorf("failed to append review: %w", err)
	}

	if result.MatchedCount == 0 {
		return failure.NotFound(model.EntityName) //nolint:wrapcheck
	}

	return nil
}
