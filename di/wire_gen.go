// Code generated by Wire. DO NOT EDIT.

//go:generate go run -mod=mod github.com/google/wire/cmd/wire
//go:build !wireinject
// +build !wireinject

package di

import (
	"github.com/google/wire"
	"parkade/config"
	"parkade/infras/jwt"
	"parkade/infras/kafka"
	"parkade/infras/mongo"
	"parkade/infras/otel"
	"parkade/infras/redis"
	"parkade/internal/domains/auth/service"
	repository3 "parkade/internal/domains/booking/repository"
	service4 "parkade/internal/domains/booking/service"
	repository2 "parkade/internal/domains/listing/repository"
	service3 "parkade/internal/domains/listing/service"
	service2 "parkade/internal/domains/spot/service"
	"parkade/internal/domains/user/repository"
	service5 "parkade/internal/domains/user/service"
	"parkade/internal/handlers/auth"
	"parkade/internal/handlers/booking"
	"parkade/internal/handlers/listing"
	"parkade/internal/handlers/marketplace"
	"parkade/internal/handlers/user"
	"parkade/internal/ledger"
	"parkade/shared/cache"
	"parkade/transport/http"
	"parkade/transport/http/middleware"
	"parkade/transport/http/router"
)

// Injectors from wire.go:

func InitializeService() *http.HTTP {
	configConfig := config.Get()
	database := mongo.New(configConfig)
	otelOtel := otel.New(configConfig)
	repositoryUser := repository.New(database, otelOtel)
	jwtJWT := jwt.New(configConfig)
	serviceAuth := service.New(repositoryUser, configConfig, otelOtel, jwtJWT)
	handler := auth.New(serviceAuth, otelOtel)
	ledgerLedger := ledger.New(configConfig)
	repositoryListing := repository2.New(database, otelOtel)
	client := redis.New(configConfig)
	redisCache := cache.NewRedisCache(client, otelOtel)
	spot := service2.New(ledgerLedger, repositoryListing, configConfig, redisCache, otelOtel)
	marketplaceHandler := marketplace.New(spot, otelOtel)
	pending := repository3.NewPending(redisCache, otelOtel)
	serviceListing := service3.New(repositoryListing, configConfig, redisCache, otelOtel)
	kafkaClient := kafka.New(configConfig)
	serviceBooking := service4.New(ledgerLedger, pending, serviceListing, kafkaClient, configConfig, otelOtel)
	bookingHandler := booking.New(serviceBooking, otelOtel)
	listingHandler := listing.New(serviceListing, otelOtel)
	serviceUser := service5.New(repositoryUser, configConfig, otelOtel)
	userHandler := user.New(serviceUser, otelOtel)
	domainHandlers := router.DomainHandlers{
		Auth:        handler,
		Marketplace: marketplaceHandler,
		Booking:     bookingHandler,
		Listing:     listingHandler,
		User:        userHandler,
	}
	middlewareAuth := middleware.NewAuthMiddleware(jwtJWT, otelOtel, configConfig)
	routerRouter := router.New(domainHandlers, middlewareAuth)
	appMiddleware := middleware.NewAppMiddleware(otelOtel, configConfig, redisCache)
	httpHTTP := http.New(configConfig, routerRouter, appMiddleware)
	return httpHTTP
}

// wire.go:

var configurations = wire.NewSet(config.Get)

var infrastructures = wire.NewSet(otel.New, redis.New, mongo.New, kafka.New, jwt.New, ledger.New)

var middlewares = wire.NewSet(middleware.NewAppMiddleware, middleware.NewAuthMiddleware)

var sharedHelpers = wire.NewSet(cache.NewRedisCache)

var listingDomain = wire.NewSet(repository2.New, service3.New)

var spotDomain = wire.NewSet(service2.New)

var bookingDomain = wire.NewSet(repository3.NewPending, service4.New)

var userDomain = wire.NewSet(repository.New, service5.New)

var authDomain = wire.NewSet(service.New)

var domains = wire.NewSet(
	listingDomain,
	spotDomain,
	bookingDomain,
	userDomain,
	authDomain,
)

var routing = wire.NewSet(wire.Struct(new(router.DomainHandlers), "*"), auth.New, marketplace.New, booking.New, listing.New, user.New, router.New)
