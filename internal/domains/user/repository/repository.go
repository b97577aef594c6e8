package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"parkade/infras/otel"
	"parkade/internal/domains/user/model"
	"parkade/shared/constant"
	"parkade/shared/failure"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type User interface {
	Upsert(ctx context.Context, user model.User) error
	GetByWallet(ctx context.Context, wallet string) (model.User, error)
}

type repositoryImpl struct {
	collection *mongo.Collection
	otel       otel.Otel
}

func New(db *mongo.Database, ot otel.Otel) User {
	return &repositoryImpl{
		collection: db.Collection(model.CollectionName),
		otel:       ot,
	}
}

// Upsert creates or updates the profile keyed by wallet address. CreatedAt
// is only written on first insert.
func (r *repositoryImpl) Upsert(ctx context.Context, user model.User) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".Upsert")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := bson.M{model.FieldWalletAddress: user.WalletAddress}
	update := bson.M{
		"$set": bson.M{
			model.FieldUsername:   user.Username,
			model.FieldEmail:      user.Email,
			model.FieldRole:       user.Role,
			model.FieldModifiedAt: user.ModifiedAt,
		},
		"$setOnInsert": bson.M{
			model.FieldWalletAddress: user.WalletAddress,
			model.FieldCreatedAt:     user.CreatedAt,
		},
	}

	if _, err = r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
		log.Error().Err(err).Str("wallet", user.WalletAddress).Msg("failed to upsert user")

		return fmt.Errorf("failed to upsert user: %w", err)
	}

	return nil
}

func (r *repositoryImpl) GetByWallet(ctx context.Context, wallet string) (user model.User, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".GetByWallet")
	defer scope.End()
	defer scope.TraceIfError(err)

	err = r.collection.FindOne(ctx, bson.M{model.FieldWalletAddress: wallet}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return user, failure.NotFound(model.EntityName) //nolint:wrapcheck
		}

		log.Error().Err(err).Str("wallet", wallet).Msg("failed to get user")

		return user, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}
