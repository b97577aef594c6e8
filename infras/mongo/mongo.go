package mongo

import (
	"context"
	"parkade/config"
	"time"

	"github.com/rs/zerolog/log"
	mongoDriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

func New(config *config.Config) *mongoDriver.Database {
	timeout := time.Duration(config.Metadata.Mongo.TimeoutSeconds) * time.Second

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	client, err := mongoDriver.Connect(ctx, options.Client().ApplyURI(config.Metadata.Mongo.URI))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping MongoDB")
	}

	log.Info().
		Str("database", config.Metadata.Mongo.Database).
		Msg("Connected to MongoDB")

	return client.Database(config.Metadata.Mongo.Database)
}
