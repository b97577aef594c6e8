package service_test

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/mock/gomock"

	"parkade/config"
	"parkade/infras/otel/mocks"
	listingMocks "parkade/internal/domains/listing/mocks"
	"parkade/internal/domains/listing/model"
	"parkade/internal/domains/listing/model/dto"
	"parkade/internal/domains/listing/service"
	"parkade/internal/ledger"
	cacheMocks "parkade/shared/cache/mocks"
	"parkade/shared/constant"
	"parkade/shared/failure"
)

const (
	hostWallet   = "0xab5801a7d398351b8be11c439e05c5b3259aec9b"
	driverWallet = "0x0000000000000000000000000000000000000002"
)

func newService(t *testing.T) (service.Listing, *listingMocks.MockListing, *cacheMocks.MockRedisCache) {
	t.Helper()

	ctrl := gomock.NewController(t)

	mockRepo := listingMocks.NewMockListing(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	// Cache traffic is incidental to these tests and partly asynchronous.
	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).AnyTimes()
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return service.New(mockRepo, cfg, mockCache, mockOtel), mockRepo, mockCache
}

func walletCtx(wallet string) context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyWallet, wallet)
}

func TestListingService_Create(t *testing.T) {
	svc, mockRepo, _ := newService(t)

	var inserted model.Listing
	mockRepo.EXPECT().
		Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, listing model.Listing) error {
			inserted = listing
			return nil
		})

	spotID := uint64(7)
	req := dto.CreateListingRequest{
		SpotID:    &spotID,
		Location:  "Level 2, Bay 14",
		PriceWei:  "1000000000000000",
		Amenities: []string{"covered", "ev-charging"},
	}

	// Mixed-case caller address must be stored lowercase.
	res, err := svc.Create(walletCtx("0xAb5801a7D398351b8bE11C439e05C5B3259aeC9B"), req)

	require.NoError(t, err)
	assert.Equal(t, hostWallet, inserted.HostAddress)
	assert.Equal(t, hostWallet, res.HostAddress)
	assert.NotEmpty(t, inserted.ID)
	assert.Equal(t, &spotID, inserted.SpotID)
	assert.False(t, inserted.IsBooked)
}

func TestListingService_Update(t *testing.T) {
	listing := model.Listing{
		ID:          "listing-1",
		HostAddress: hostWallet,
		Location:    "old",
		IsBooked:    true,
	}

	tests := []struct {
		name      string
		caller    string
		setupMock func(repo *listingMocks.MockListing)
		wantErr   error
	}{
		{
			name:   "host edits metadata",
			caller: hostWallet,
			setupMock: func(repo *listingMocks.MockListing) {
				repo.EXPECT().GetByID(gomock.Any(), "listing-1").Return(listing, nil)
				repo.EXPECT().
					Update(gomock.Any(), "listing-1", gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, fields bson.M) error {
						assert.Equal(t, "new location", fields[model.FieldLocation])

						// Booking state is ledger-owned and must not be
						// touched by a metadata edit.
						assert.NotContains(t, fields, model.FieldIsBooked)
						assert.NotContains(t, fields, model.FieldDriverAddress)
						assert.NotContains(t, fields, model.FieldBookingEndTime)
						return nil
					})
			},
		},
		{
			name:   "non-host rejected",
			caller: driverWallet,
			setupMock: func(repo *listingMocks.MockListing) {
				repo.EXPECT().GetByID(gomock.Any(), "listing-1").Return(listing, nil)
			},
			wantErr: failure.Forbidden("only the listing host may modify it"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockRepo, _ := newService(t)
			tt.setupMock(mockRepo)

			err := svc.Update(walletCtx(tt.caller), "listing-1", dto.UpdateListingRequest{Location: "new location"})

			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestListingService_AddReview(t *testing.T) {
	tests := []struct {
		name       string
		existing   []model.Review
		newRating  int
		wantRating float64
	}{
		{
			name:       "first review",
			existing:   nil,
			newRating:  4,
			wantRating: 4,
		},
		{
			name: "mean over all reviews",
			existing: []model.Review{
				{User: driverWallet, Rating: 5},
				{User: driverWallet, Rating: 2},
			},
			newRating:  2,
			wantRating: 3,
		},
		{
			name: "fractional mean",
			existing: []model.Review{
				{User: driverWallet, Rating: 5},
			},
			newRating:  4,
			wantRating: 4.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockRepo, _ := newService(t)

			listing := model.Listing{
				ID:          "listing-1",
				HostAddress: hostWallet,
				Reviews:     tt.existing,
			}

			mockRepo.EXPECT().GetBySpotID(gomock.Any(), uint64(3)).Return(listing, nil)
			mockRepo.EXPECT().
				AppendReview(gomock.Any(), "listing-1", gomock.Any(), tt.wantRating).
				Return(nil)

			res, err := svc.AddReview(walletCtx(driverWallet), 3, dto.AddReviewRequest{Rating: tt.newRating, Comment: "ok"})

			require.NoError(t, err)
			assert.Equal(t, tt.wantRating, res.Rating)
			assert.Len(t, res.Reviews, len(tt.existing)+1)
		})
	}
}

func TestListingService_Hide(t *testing.T) {
	svc, mockRepo, _ := newService(t)

	listing := model.Listing{ID: "listing-1", HostAddress: hostWallet}

	mockRepo.EXPECT().GetBySpotID(gomock.Any(), uint64(5)).Return(listing, nil)
	mockRepo.EXPECT().
		Update(gomock.Any(), "listing-1", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, fields bson.M) error {
			assert.Equal(t, true, fields[model.FieldHidden])
			return nil
		})

	err := svc.Hide(walletCtx(hostWallet), 5, true)
	assert.NoError(t, err)
}

func TestListingService_Delete_NonOwner(t *testing.T) {
	svc, mockRepo, _ := newService(t)

	mockRepo.EXPECT().
		GetByID(gomock.Any(), "listing-1").
		Return(model.Listing{ID: "listing-1", HostAddress: hostWallet}, nil)

	err := svc.Delete(walletCtx(driverWallet), "listing-1")
	assert.Error(t, err)
}

func TestListingService_SyncFromLedger(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(repo *listingMocks.MockListing)
		spot      ledger.Spot
		wantErr   bool
	}{
		{
			name: "mirrors booking fields",
			spot: ledger.Spot{
				ID:             4,
				Price:          big.NewInt(1000),
				IsBooked:       true,
				Driver:         common.HexToAddress(driverWallet),
				BookingEndTime: 12345,
			},
			setupMock: func(repo *listingMocks.MockListing) {
				repo.EXPECT().
					GetBySpotID(gomock.Any(), uint64(4)).
					Return(model.Listing{ID: "listing-1", HostAddress: hostWallet}, nil)
				repo.EXPECT().
					Update(gomock.Any(), "listing-1", gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, fields bson.M) error {
						assert.Equal(t, true, fields[model.FieldIsBooked])
						assert.Equal(t, driverWallet, fields[model.FieldDriverAddress])
						assert.Equal(t, uint64(12345), fields[model.FieldBookingEndTime])
						assert.Equal(t, "1000", fields[model.FieldPriceWei])
						return nil
					})
			},
		},
		{
			name: "ledger spot without metadata is a no-op",
			spot: ledger.Spot{ID: 9, Price: big.NewInt(1000)},
			setupMock: func(repo *listingMocks.MockListing) {
				repo.EXPECT().
					GetBySpotID(gomock.Any(), uint64(9)).
					Return(model.Listing{}, failure.NotFound(model.EntityName))
			},
		},
		{
			name: "store error propagates",
			spot: ledger.Spot{ID: 9, Price: big.NewInt(1000)},
			setupMock: func(repo *listingMocks.MockListing) {
				repo.EXPECT().
					GetBySpotID(gomock.Any(), uint64(9)).
					Return(model.Listing{}, errors.New("connection reset"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockRepo, _ := newService(t)
			tt.setupMock(mockRepo)

			err := svc.SyncFromLedger(context.Background(), tt.spot)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
