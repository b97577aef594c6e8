package service_test

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"parkade/config"
	"parkade/infras/otel/mocks"
	listingMocks "parkade/internal/domains/listing/mocks"
	listingModel "parkade/internal/domains/listing/model"
	"parkade/internal/domains/spot/model/dto"
	"parkade/internal/domains/spot/service"
	"parkade/internal/ledger"
	ledgerMocks "parkade/internal/ledger/mocks"
	cacheMocks "parkade/shared/cache/mocks"
)

var (
	hostAddr   = common.HexToAddress("0xAb5801a7D398351b8bE11C439e05C5B3259aeC9B")
	driverAddr = common.HexToAddress("0x0000000000000000000000000000000000000002")
	otherAddr  = common.HexToAddress("0x0000000000000000000000000000000000000003")
)

const fixedNow = uint64(1_700_000_000)

func spotIDPtr(id uint64) *uint64 { return &id }

func newReconciler(t *testing.T, l ledger.Ledger, listings []listingModel.Listing) service.Spot {
	t.Helper()

	ctrl := gomock.NewController(t)

	mockRepo := listingMocks.NewMockListing(ctrl)
	mockRepo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(listings, nil).
		AnyTimes()

	return service.NewWithClock(l, mockRepo, &config.Config{}, missCache(ctrl), mocks.NewOtel(), func() uint64 { return fixedNow })
}

// missCache is a cache that never hits; view assembly is what is under test.
func missCache(ctrl *gomock.Controller) *cacheMocks.MockRedisCache {
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).AnyTimes()
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return mockCache
}

func seededLedger(t *testing.T) *ledger.MemoryLedger {
	t.Helper()

	l := ledger.NewMemoryWithClock(7200, func() uint64 { return fixedNow })
	ctx := context.Background()

	// spot 0: available, hosted by hostAddr
	_, err := l.ListSpot(ctx, hostAddr, "Bay 1", big.NewInt(1000))
	require.NoError(t, err)

	// spot 1: booked, hosted by otherAddr
	_, err = l.ListSpot(ctx, otherAddr, "Bay 2", big.NewInt(2000))
	require.NoError(t, err)
	_, err = l.BookSpot(ctx, driverAddr, 1, big.NewInt(2000))
	require.NoError(t, err)

	// spot 2: available, hosted by otherAddr
	_, err = l.ListSpot(ctx, otherAddr, "Bay 3", big.NewInt(3000))
	require.NoError(t, err)

	return l
}

func TestMarketplaceView_Buckets(t *testing.T) {
	svc := newReconciler(t, seededLedger(t), nil)

	// Caller casing must not affect ownership detection.
	res, err := svc.MarketplaceView(context.Background(), "0xAB5801A7D398351B8BE11C439E05C5B3259AEC9B")
	require.NoError(t, err)

	assert.True(t, res.LedgerConnected)

	require.Len(t, res.Owned, 1)
	assert.Equal(t, "ledger:0", res.Owned[0].ID)
	assert.Equal(t, "1000", res.Owned[0].PriceWei)

	// Spot 1 is booked; the caller's own unbooked spot stays bookable, so it
	// shows under available as well as owned.
	require.Len(t, res.Available, 2)
	assert.Equal(t, "ledger:0", res.Available[0].ID)
	assert.Equal(t, "ledger:2", res.Available[1].ID)
	assert.Equal(t, "listed", res.Available[1].State)
}

func TestMarketplaceView_AnonymousCaller(t *testing.T) {
	svc := newReconciler(t, seededLedger(t), nil)

	res, err := svc.MarketplaceView(context.Background(), "")
	require.NoError(t, err)

	assert.Empty(t, res.Owned)
	assert.Len(t, res.Available, 2)
}

func TestMarketplaceView_MergesMetadata(t *testing.T) {
	listings := []listingModel.Listing{
		{
			ID:          "meta-1",
			SpotID:      spotIDPtr(0),
			HostAddress: "0x9999999999999999999999999999999999999999", // stale, ledger wins
			Location:    "stale location",
			PriceWei:    "5",
			Description: "Covered bay near the elevator",
			Amenities:   []string{"covered"},
			Rating:      4.5,
		},
	}

	svc := newReconciler(t, seededLedger(t), listings)

	res, err := svc.MarketplaceView(context.Background(), hostAddr.Hex())
	require.NoError(t, err)

	require.Len(t, res.Owned, 1)
	merged := res.Owned[0]

	// Exactly one view for spot 0, with ledger fields over metadata fields.
	assert.Equal(t, "ledger:0", merged.ID)
	assert.Equal(t, "Bay 1", merged.Location)
	assert.Equal(t, "1000", merged.PriceWei)

	// Descriptive fields come from the metadata store.
	assert.Equal(t, "Covered bay near the elevator", merged.Description)
	assert.Equal(t, []string{"covered"}, merged.Amenities)
	assert.Equal(t, 4.5, merged.Rating)

	for _, view := range res.Available {
		assert.NotEqual(t, "metadata:meta-1", view.ID, "merged listing must not reappear as metadata-only")
	}
}

func TestMarketplaceView_MetadataOnlyListings(t *testing.T) {
	listings := []listingModel.Listing{
		{
			ID:          "meta-orphan",
			HostAddress: "0x0000000000000000000000000000000000000009",
			Location:    "Driveway on Oak St",
			PriceWei:    "not-a-number",
		},
	}

	svc := newReconciler(t, seededLedger(t), listings)

	res, err := svc.MarketplaceView(context.Background(), "")
	require.NoError(t, err)

	var orphan *dto.SpotView
	for i := range res.Available {
		if res.Available[i].ID == "metadata:meta-orphan" {
			orphan = &res.Available[i]
		}
	}

	require.NotNil(t, orphan, "metadata-only listing must appear")
	assert.Equal(t, dto.OriginMetadata, orphan.Origin)
	assert.Equal(t, "0", orphan.PriceWei, "corrupt stored price falls back to zero")
}

func TestMarketplaceView_HiddenListings(t *testing.T) {
	hiddenHost := "0x0000000000000000000000000000000000000009"
	listings := []listingModel.Listing{
		{
			ID:          "meta-hidden",
			HostAddress: hiddenHost,
			Location:    "Hidden driveway",
			PriceWei:    "1000",
			Hidden:      true,
		},
	}

	svc := newReconciler(t, nil, listings)

	// Hidden from the open marketplace.
	res, err := svc.MarketplaceView(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, res.Available)

	// Still visible to its host.
	res, err = svc.MarketplaceView(context.Background(), hiddenHost)
	require.NoError(t, err)
	require.Len(t, res.Owned, 1)
	assert.True(t, res.Owned[0].Hidden)
}

func TestMarketplaceView_SkipsFailedPointReads(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLedger := ledgerMocks.NewMockLedger(ctrl)

	mockLedger.EXPECT().NextSpotID(gomock.Any()).Return(uint64(3), nil)
	mockLedger.EXPECT().GetSpot(gomock.Any(), uint64(0)).Return(ledger.Spot{
		ID:    0,
		Host:  hostAddr,
		Price: big.NewInt(1000),
	}, nil)
	mockLedger.EXPECT().GetSpot(gomock.Any(), uint64(1)).Return(ledger.Spot{}, errors.New("rpc timeout"))
	mockLedger.EXPECT().GetSpot(gomock.Any(), uint64(2)).Return(ledger.Spot{
		ID:    2,
		Host:  otherAddr,
		Price: big.NewInt(3000),
	}, nil)

	svc := newReconciler(t, mockLedger, nil)

	res, err := svc.MarketplaceView(context.Background(), "")
	require.NoError(t, err)

	// Spot 1 failed and was skipped; the two healthy spots still made it.
	assert.True(t, res.LedgerConnected)
	require.Len(t, res.Available, 2)
	assert.Equal(t, "ledger:0", res.Available[0].ID)
	assert.Equal(t, "ledger:2", res.Available[1].ID)
}

func TestMarketplaceView_SkippedSpotKeepsMetadataRecord(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockLedger := ledgerMocks.NewMockLedger(ctrl)

	mockLedger.EXPECT().NextSpotID(gomock.Any()).Return(uint64(1), nil)
	mockLedger.EXPECT().GetSpot(gomock.Any(), uint64(0)).Return(ledger.Spot{}, errors.New("rpc timeout"))

	listings := []listingModel.Listing{
		{
			ID:          "meta-1",
			SpotID:      spotIDPtr(0),
			HostAddress: "0x0000000000000000000000000000000000000009",
			Location:    "Bay 1",
			PriceWei:    "1000",
		},
	}

	svc := newReconciler(t, mockLedger, listings)

	res, err := svc.MarketplaceView(context.Background(), "")
	require.NoError(t, err)

	// The ledger read failed, so the metadata record stands in.
	require.Len(t, res.Available, 1)
	assert.Equal(t, "metadata:meta-1", res.Available[0].ID)
}

func TestMarketplaceView_DegradesToMetadataOnly(t *testing.T) {
	listings := []listingModel.Listing{
		{
			ID:          "meta-1",
			HostAddress: "0x0000000000000000000000000000000000000009",
			Location:    "Driveway",
			PriceWei:    "1000",
		},
	}

	tests := []struct {
		name   string
		ledger func(t *testing.T) ledger.Ledger
	}{
		{
			name: "no ledger configured",
			ledger: func(t *testing.T) ledger.Ledger {
				return nil
			},
		},
		{
			name: "ledger unreachable",
			ledger: func(t *testing.T) ledger.Ledger {
				ctrl := gomock.NewController(t)
				mockLedger := ledgerMocks.NewMockLedger(ctrl)
				mockLedger.EXPECT().NextSpotID(gomock.Any()).Return(uint64(0), errors.New("connection refused"))

				return mockLedger
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newReconciler(t, tt.ledger(t), listings)

			res, err := svc.MarketplaceView(context.Background(), "")
			require.NoError(t, err)

			assert.False(t, res.LedgerConnected)
			require.Len(t, res.Available, 1)
			assert.Equal(t, "metadata:meta-1", res.Available[0].ID)
		})
	}
}

func TestMarketplaceView_Idempotent(t *testing.T) {
	listings := []listingModel.Listing{
		{
			ID:          "meta-1",
			SpotID:      spotIDPtr(0),
			HostAddress: "0x9999999999999999999999999999999999999999",
			PriceWei:    "5",
			Description: "desc",
		},
		{
			ID:          "meta-orphan",
			HostAddress: "0x0000000000000000000000000000000000000009",
			PriceWei:    "1000",
		},
	}

	svc := newReconciler(t, seededLedger(t), listings)

	first, err := svc.MarketplaceView(context.Background(), hostAddr.Hex())
	require.NoError(t, err)

	second, err := svc.MarketplaceView(context.Background(), hostAddr.Hex())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestGet_MergedSpot(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockRepo := listingMocks.NewMockListing(ctrl)
	mockRepo.EXPECT().
		GetBySpotID(gomock.Any(), uint64(0)).
		Return(listingModel.Listing{ID: "meta-1", Description: "desc", HostAddress: "0x9"}, nil)

	l := seededLedger(t)
	svc := service.NewWithClock(l, mockRepo, &config.Config{}, missCache(ctrl), mocks.NewOtel(), func() uint64 { return fixedNow })

	view, err := svc.Get(context.Background(), 0)
	require.NoError(t, err)

	assert.Equal(t, "ledger:0", view.ID)
	assert.Equal(t, "Bay 1", view.Location)
	assert.Equal(t, "desc", view.Description)
}

func TestGet_FallsBackToMetadata(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockLedger := ledgerMocks.NewMockLedger(ctrl)
	mockLedger.EXPECT().GetSpot(gomock.Any(), uint64(4)).Return(ledger.Spot{}, errors.New("rpc timeout"))

	mockRepo := listingMocks.NewMockListing(ctrl)
	mockRepo.EXPECT().
		GetBySpotID(gomock.Any(), uint64(4)).
		Return(listingModel.Listing{ID: "meta-4", SpotID: spotIDPtr(4), PriceWei: "1000"}, nil)

	svc := service.NewWithClock(mockLedger, mockRepo, &config.Config{}, missCache(ctrl), mocks.NewOtel(), func() uint64 { return fixedNow })

	view, err := svc.Get(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, "metadata:meta-4", view.ID)
}

func TestGet_BookedStateFromLedgerTime(t *testing.T) {
	l := ledger.NewMemoryWithClock(7200, func() uint64 { return fixedNow })
	ctx := context.Background()

	_, err := l.ListSpot(ctx, hostAddr, "Bay 1", big.NewInt(1000))
	require.NoError(t, err)
	_, err = l.BookSpot(ctx, driverAddr, 0, big.NewInt(1000))
	require.NoError(t, err)

	ctrl := gomock.NewController(t)
	mockRepo := listingMocks.NewMockListing(ctrl)
	mockRepo.EXPECT().GetBySpotID(gomock.Any(), gomock.Any()).Return(listingModel.Listing{}, errors.New("not found")).AnyTimes()

	tests := []struct {
		name     string
		now      uint64
		expected string
	}{
		{
			name:     "before expiry",
			now:      fixedNow + 7199,
			expected: "booked",
		},
		{
			name:     "at expiry",
			now:      fixedNow + 7200,
			expected: "claimable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := service.NewWithClock(l, mockRepo, &config.Config{}, missCache(ctrl), mocks.NewOtel(), func() uint64 { return tt.now })

			view, err := svc.Get(context.Background(), 0)
			require.NoError(t, err)

			assert.True(t, view.IsBooked)
			assert.Equal(t, tt.expected, view.State)
		})
	}
}
