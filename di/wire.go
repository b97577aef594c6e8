//go:build wireinject
// +build wireinject

package di

import (
	"parkade/config"
	"parkade/infras/jwt"
	"parkade/infras/kafka"
	"parkade/infras/mongo"
	"parkade/infras/otel"
	"parkade/infras/redis"
	"parkade/internal/ledger"
	"parkade/shared/cache"
	"parkade/transport/http"
	"parkade/transport/http/middleware"
	"parkade/transport/http/router"

	"github.com/google/wire"

	authService "parkade/internal/domains/auth/service"
	bookingRepository "parkade/internal/domains/booking/repository"
	bookingService "parkade/internal/domains/booking/service"
	listingRepository "parkade/internal/domains/listing/repository"
	listingService "parkade/internal/domains/listing/service"
	spotService "parkade/internal/domains/spot/service"
	userRepository "parkade/internal/domains/user/repository"
	userService "parkade/internal/domains/user/service"

	authHandler "parkade/internal/handlers/auth"
	bookingHandler "parkade/internal/handlers/booking"
	listingHandler "parkade/internal/handlers/listing"
	marketplaceHandler "parkade/internal/handlers/marketplace"
	userHandler "parkade/internal/handlers/user"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	otel.New,
	redis.New,
	mongo.New,
	kafka.New,
	jwt.New,
	ledger.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var listingDomain = wire.NewSet(
	listingRepository.New,
	listingService.New,
)

var spotDomain = wire.NewSet(
	spotService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.NewPending,
	bookingService.New,
)

var userDomain = wire.NewSet(
	userRepository.New,
	userService.New,
)

var authDomain = wire.NewSet(
	authService.New,
)

var domains = wire.NewSet(
	listingDomain,
	spotDomain,
	bookingDomain,
	userDomain,
	authDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	marketplaceHandler.New,
	bookingHandler.New,
	listingHandler.New,
	userHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
