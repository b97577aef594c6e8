package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"parkade/config"
	"parkade/infras/jwt"
	"parkade/infras/otel/mocks"
	"parkade/internal/domains/auth/model/dto"
	"parkade/internal/domains/auth/service"
	userMocks "parkade/internal/domains/user/mocks"
	userModel "parkade/internal/domains/user/model"
	"parkade/shared/constant"
	"parkade/shared/failure"
)

const sessionWallet = "0xab5801a7d398351b8be11c439e05c5b3259aec9b"

func newService(t *testing.T) (service.Auth, *userMocks.MockUser, jwt.JWT) {
	t.Helper()

	ctrl := gomock.NewController(t)
	mockRepo := userMocks.NewMockUser(ctrl)

	cfg := &config.Config{}
	cfg.JWT.AccessSecret = "access-secret"
	cfg.JWT.RefreshSecret = "refresh-secret"
	cfg.JWT.AccessExpireMin = 15
	cfg.JWT.RefreshExpireMin = 60

	jwtService := jwt.New(cfg)

	return service.New(mockRepo, cfg, mocks.NewOtel(), jwtService), mockRepo, jwtService
}

func TestAuthService_CreateSession(t *testing.T) {
	svc, mockRepo, jwtService := newService(t)

	mockRepo.EXPECT().
		GetByWallet(gomock.Any(), sessionWallet).
		Return(userModel.User{WalletAddress: sessionWallet, Role: constant.RoleHost}, nil)

	// Mixed-case address is normalized before everything else.
	res, err := svc.CreateSession(context.Background(), dto.CreateSessionRequest{
		WalletAddress: "0xAb5801a7D398351b8bE11C439e05C5B3259aeC9B",
	})

	require.NoError(t, err)
	assert.Equal(t, sessionWallet, res.WalletAddress)
	assert.Equal(t, constant.RoleHost, res.Role)
	assert.NotEmpty(t, res.AccessToken)
	assert.NotEmpty(t, res.RefreshToken)

	// The issued token must carry the lowercase wallet as its identity.
	claims, err := jwtService.ValidateToken(res.AccessToken, jwt.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, sessionWallet, claims.WalletAddress)
	assert.Equal(t, constant.RoleHost, claims.Role)
}

func TestAuthService_CreateSession_UnknownWallet(t *testing.T) {
	svc, mockRepo, _ := newService(t)

	mockRepo.EXPECT().
		GetByWallet(gomock.Any(), sessionWallet).
		Return(userModel.User{}, failure.NotFound(userModel.EntityName))

	res, err := svc.CreateSession(context.Background(), dto.CreateSessionRequest{
		WalletAddress: sessionWallet,
	})

	require.NoError(t, err)
	assert.Equal(t, constant.RoleBoth, res.Role)
	assert.NotEmpty(t, res.AccessToken)
}

func TestAuthService_CreateSession_StoreError(t *testing.T) {
	svc, mockRepo, _ := newService(t)

	mockRepo.EXPECT().
		GetByWallet(gomock.Any(), sessionWallet).
		Return(userModel.User{}, errors.New("store unavailable"))

	_, err := svc.CreateSession(context.Background(), dto.CreateSessionRequest{
		WalletAddress: sessionWallet,
	})

	require.Error(t, err)
}

func TestAuthService_RefreshSession(t *testing.T) {
	svc, mockRepo, _ := newService(t)

	mockRepo.EXPECT().
		GetByWallet(gomock.Any(), sessionWallet).
		Return(userModel.User{WalletAddress: sessionWallet, Role: constant.RoleDriver}, nil)

	created, err := svc.CreateSession(context.Background(), dto.CreateSessionRequest{
		WalletAddress: sessionWallet,
	})
	require.NoError(t, err)

	refreshed, err := svc.RefreshSession(context.Background(), dto.RefreshSessionRequest{
		RefreshToken: created.RefreshToken,
	})

	require.NoError(t, err)
	assert.Equal(t, sessionWallet, refreshed.WalletAddress)
	assert.Equal(t, constant.RoleDriver, refreshed.Role)
	assert.NotEmpty(t, refreshed.AccessToken)
}

func TestAuthService_RefreshSession_InvalidToken(t *testing.T) {
	svc, _, _ := newService(t)

	_, err := svc.RefreshSession(context.Background(), dto.RefreshSessionRequest{
		RefreshToken: "not-a-token",
	})

	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, failure.GetCode(err))
}
