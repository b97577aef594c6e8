package service

import (
	"context"
	"net/http"
	"parkade/config"
	"parkade/infras/jwt"
	"parkade/infras/otel"
	"parkade/internal/domains/auth/model/dto"
	userRepo "parkade/internal/domains/user/repository"
	"parkade/shared/constant"
	"parkade/shared/ethaddr"
	"parkade/shared/failure"

	"github.com/rs/zerolog/log"
)

type Auth interface {
	CreateSession(ctx context.Context, req dto.CreateSessionRequest) (dto.SessionResponse, error)
	RefreshSession(ctx context.Context, req dto.RefreshSessionRequest) (dto.SessionResponse, error)
}

type serviceImpl struct {
	userRepo   userRepo.User
	cfg        *config.Config
	otel       otel.Otel
	jwtService jwt.JWT
}

func New(userRepo userRepo.User, cfg *config.Config, ot otel.Otel, jwtService jwt.JWT) Auth {
	return &serviceImpl{
		userRepo:   userRepo,
		cfg:        cfg,
		otel:       ot,
		jwtService: jwtService,
	}
}

// CreateSession issues a token pair for a wallet address. A profile is not
// required: an unknown wallet gets a session with the default role and can
// create its profile afterwards.
func (s *serviceImpl) CreateSession(ctx context.Context, req dto.CreateSessionRequest) (res dto.SessionResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateSession")
	defer scope.End()
	defer scope.TraceIfError(err)

	wallet := ethaddr.Normalize(req.WalletAddress)

	role := constant.RoleBoth
	user, err := s.userRepo.GetByWallet(ctx, wallet)
	switch {
	case err == nil:
		role = user.Role
	case failure.GetCode(err) == http.StatusNotFound:
		// No profile yet.
	default:
		return res, err
	}

	pair, err := s.jwtService.GenerateTokenPair(wallet, role)
	if err != nil {
		log.Error().Err(err).Str("wallet", wallet).Msg("failed to generate session tokens")

		return res, failure.InternalError(err) //nolint:wrapcheck
	}

	return dto.SessionResponse{
		WalletAddress: wallet,
		Role:          role,
		AccessToken:   pair.AccessToken,
		RefreshToken:  pair.RefreshToken,
		ExpiresIn:     pair.ExpiresIn,
	}, nil
}

func (s *serviceImpl) RefreshSession(ctx context.Context, req dto.RefreshSessionRequest) (res dto.SessionResponse, err error) {
	_, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".RefreshSession")
	defer scope.End()
	defer scope.TraceIfError(err)

	pair, err := s.jwtService.RefreshTokens(req.RefreshToken)
	if err != nil {
		return res, failure.Unauthorized("invalid refresh token") //nolint:wrapcheck
	}

	claims, err := s.jwtService.ValidateToken(pair.AccessToken, jwt.AccessToken)
	if err != nil {
		return res, failure.Unauthorized("invalid refresh token") //nolint:wrapcheck
	}

	return dto.SessionResponse{
		WalletAddress: claims.WalletAddress,
		Role:          claims.Role,
		AccessToken:   pair.AccessToken,
		RefreshToken:  pair.RefreshToken,
		ExpiresIn:     pair.ExpiresIn,
	}, nil
}
