package middleware

import (
	"context"
	"errors"
	"net/http"
	"parkade/config"
	"parkade/infras/jwt"
	"parkade/infras/otel"
	"parkade/shared/constant"
	"parkade/shared/failure"
	"parkade/transport/http/response"

	"github.com/rs/zerolog/log"
)

// Auth attaches wallet sessions to requests.
type Auth interface {
	Required(http.Handler) http.Handler
	Optional(http.Handler) http.Handler
}

type authImpl struct {
	jwtService jwt.JWT
	otel       otel.Otel
	cfg        *config.Config
}

func NewAuthMiddleware(jwtService jwt.JWT, ot otel.Otel, cfg *config.Config) Auth {
	return &authImpl{
		jwtService: jwtService,
		otel:       ot,
		cfg:        cfg,
	}
}

// Required rejects requests without a valid wallet session.
func (m *authImpl) Required(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx := request.Context()
		_, scope := m.otel.NewScope(ctx, constant.OtelHandlerScopeName, "auth.middleware")
		defer scope.End()

		authHeader := request.Header.Get(constant.RequestHeaderAuthorization)
		if authHeader == "" {
			err := failure.Unauthorized("Missing authorization header")
			scope.TraceError(err)

			response.WithError(writer, err)

			return
		}

		claims, err := m.validate(authHeader)
		if err != nil {
			scope.TraceError(err)

			response.WithError(writer, err)

			return
		}

		next.ServeHTTP(writer, request.WithContext(withSession(ctx, claims)))
	})
}

// Optional attaches the wallet when a valid session is presented and lets
// anonymous requests through untouched.
func (m *authImpl) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx := request.Context()

		authHeader := request.Header.Get(constant.RequestHeaderAuthorization)
		if authHeader == "" {
			next.ServeHTTP(writer, request)

			return
		}

		claims, err := m.validate(authHeader)
		if err != nil {
			log.Debug().Err(err).Msg("ignoring invalid session on optional-auth route")
			next.ServeHTTP(writer, request)

			return
		}

		next.ServeHTTP(writer, request.WithContext(withSession(ctx, claims)))
	})
}

func (m *authImpl) validate(authHeader string) (*jwt.Claims, error) {
	tokenString, err := jwt.ExtractTokenFromHeader(authHeader)
	if err != nil {
		return nil, failure.Unauthorized("Invalid authorization header format") //nolint:wrapcheck
	}

	claims, err := m.jwtService.ValidateToken(tokenString, jwt.AccessToken)
	if err != nil {
		var message string

		switch {
		case errors.Is(err, jwt.ErrExpiredToken):
			message = "Token has expired"
		case errors.Is(err, jwt.ErrInvalidToken):
			message = "Invalid token"
		case errors.Is(err, jwt.ErrInvalidClaim):
			message = "Invalid token claims"
		default:
			message = "Token validation failed"
		}

		return nil, failure.Unauthorized(message) //nolint:wrapcheck
	}

	if claims.WalletAddress == "" {
		log.Error().Msg("JWT claims: wallet address is empty")

		return nil, failure.Unauthorized("Invalid token claims") //nolint:wrapcheck
	}

	return claims, nil
}

func withSession(ctx context.Context, claims *jwt.Claims) context.Context {
	ctx = context.WithValue(ctx, constant.ContextKeyWallet, claims.WalletAddress)
	ctx = context.WithValue(ctx, constant.ContextKeyTokenID, claims.TokenID)

	return ctx
}
