package service_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"parkade/config"
	"parkade/infras/otel/mocks"
	userMocks "parkade/internal/domains/user/mocks"
	"parkade/internal/domains/user/model"
	"parkade/internal/domains/user/model/dto"
	"parkade/internal/domains/user/service"
	"parkade/shared/constant"
	"parkade/shared/failure"
)

const userWallet = "0xab5801a7d398351b8be11c439e05c5b3259aec9b"

func newService(t *testing.T) (service.User, *userMocks.MockUser) {
	t.Helper()

	ctrl := gomock.NewController(t)
	mockRepo := userMocks.NewMockUser(ctrl)

	return service.New(mockRepo, &config.Config{}, mocks.NewOtel()), mockRepo
}

func walletCtx(wallet string) context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyWallet, wallet)
}

func TestUserService_Upsert(t *testing.T) {
	svc, mockRepo := newService(t)

	var upserted model.User
	mockRepo.EXPECT().
		Upsert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, user model.User) error {
			upserted = user
			return nil
		})

	// Mixed-case session wallet must be stored lowercase.
	res, err := svc.Upsert(walletCtx("0xAb5801a7D398351b8bE11C439e05C5B3259aeC9B"), dto.UpsertUserRequest{
		Username: "parker",
		Role:     constant.RoleHost,
	})

	require.NoError(t, err)
	assert.Equal(t, userWallet, upserted.WalletAddress)
	assert.Equal(t, constant.RoleHost, upserted.Role)
	assert.Equal(t, userWallet, res.WalletAddress)
	assert.Equal(t, "parker", res.Username)
}

func TestUserService_Upsert_MissingWallet(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Upsert(context.Background(), dto.UpsertUserRequest{
		Username: "parker",
		Role:     constant.RoleDriver,
	})

	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, failure.GetCode(err))
}

func TestUserService_GetByWallet(t *testing.T) {
	svc, mockRepo := newService(t)

	mockRepo.EXPECT().
		GetByWallet(gomock.Any(), userWallet).
		Return(model.User{WalletAddress: userWallet, Username: "parker", Role: constant.RoleBoth}, nil)

	// Lookup normalizes the address before hitting the store.
	res, err := svc.GetByWallet(context.Background(), "0xAb5801a7D398351b8bE11C439e05C5B3259aeC9B")

	require.NoError(t, err)
	assert.Equal(t, "parker", res.Username)
	assert.Equal(t, constant.RoleBoth, res.Role)
}

func TestUserService_GetByWallet_InvalidAddress(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.GetByWallet(context.Background(), "not-an-address")

	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
}

func TestUserService_Me(t *testing.T) {
	svc, mockRepo := newService(t)

	mockRepo.EXPECT().
		GetByWallet(gomock.Any(), userWallet).
		Return(model.User{WalletAddress: userWallet, Username: "parker", Role: constant.RoleDriver}, nil)

	res, err := svc.Me(walletCtx(userWallet))

	require.NoError(t, err)
	assert.Equal(t, userWallet, res.WalletAddress)

	_, err = svc.Me(context.Background())
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, failure.GetCode(err))
}
