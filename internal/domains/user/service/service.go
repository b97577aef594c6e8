package service

import (
	"context"
	"parkade/config"
	"parkade/infras/otel"
	"parkade/internal/domains/user/model/dto"
	"parkade/internal/domains/user/repository"
	"parkade/shared/constant"
	"parkade/shared/ethaddr"
	"parkade/shared/failure"
)

type User interface {
	Upsert(ctx context.Context, req dto.UpsertUserRequest) (dto.UserResponse, error)
	GetByWallet(ctx context.Context, wallet string) (dto.UserResponse, error)
	Me(ctx context.Context) (dto.UserResponse, error)
}

type serviceImpl struct {
	repo repository.User
	cfg  *config.Config
	otel otel.Otel
}

func New(repo repository.User, cfg *config.Config, ot otel.Otel) User {
	return &serviceImpl{
		repo: repo,
		cfg:  cfg,
		otel: ot,
	}
}

func (s *serviceImpl) Upsert(ctx context.Context, req dto.UpsertUserRequest) (res dto.UserResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpsertUser")
	defer scope.End()
	defer scope.TraceIfError(err)

	wallet, _ := ctx.Value(constant.ContextKeyWallet).(string)
	if wallet == "" {
		return res, failure.Unauthorized("missing wallet session") //nolint:wrapcheck
	}

	user := req.ToModel(wallet)
	if err = s.repo.Upsert(ctx, user); err != nil {
		return res, err
	}

	res.FromModel(user)

	return res, nil
}

func (s *serviceImpl) GetByWallet(ctx context.Context, wallet string) (res dto.UserResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetUserByWallet")
	defer scope.End()
	defer scope.TraceIfError(err)

	if !ethaddr.IsValid(wallet) {
		return res, failure.BadRequestFromString("invalid wallet address") //nolint:wrapcheck
	}

	user, err := s.repo.GetByWallet(ctx, ethaddr.Normalize(wallet))
	if err != nil {
		return res, err
	}

	res.FromModel(user)

	return res, nil
}

// Me resolves the profile of the authenticated caller.
func (s *serviceImpl) Me(ctx context.Context) (res dto.UserResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Me")
	defer scope.End()
	defer scope.TraceIfError(err)

	wallet, _ := ctx.Value(constant.ContextKeyWallet).(string)
	if wallet == "" {
		return res, failure.Unauthorized("missing wallet session") //nolint:wrapcheck
	}

	user, err := s.repo.GetByWallet(ctx, ethaddr.Normalize(wallet))
	if err != nil {
		return res, err
	}

	res.FromModel(user)

	return res, nil
}
