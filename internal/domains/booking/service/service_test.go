package service_test

import (
	"context"
	"errors"
	"math/big"
	"net/http"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/mock/gomock"

	"parkade/config"
	kafkaMocks "parkade/infras/kafka/mocks"
	"parkade/infras/otel/mocks"
	bookingMocks "parkade/internal/domains/booking/mocks"
	"parkade/internal/domains/booking/model/dto"
	"parkade/internal/domains/booking/service"
	listingMocks "parkade/internal/domains/listing/mocks"
	listingModel "parkade/internal/domains/listing/model"
	listingService "parkade/internal/domains/listing/service"
	"parkade/internal/ledger"
	ledgerMocks "parkade/internal/ledger/mocks"
	cacheMocks "parkade/shared/cache/mocks"
	"parkade/shared/constant"
	"parkade/shared/failure"
)

const (
	hostWallet   = "0xab5801a7d398351b8be11c439e05c5b3259aec9b"
	driverWallet = "0x0000000000000000000000000000000000000002"

	rentalPeriod = uint64(7200)
)

type bookingFixture struct {
	svc         service.Booking
	pending     *bookingMocks.MockPending
	listingRepo *listingMocks.MockListing
	events      *kafkaMocks.MockClient
}

func newBooking(t *testing.T, led ledger.Ledger, kafkaEnable bool) bookingFixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	pending := bookingMocks.NewMockPending(ctrl)
	listingRepo := listingMocks.NewMockListing(ctrl)
	events := kafkaMocks.NewMockClient(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.Kafka.Enable = kafkaEnable

	// Cache traffic is incidental here and partly asynchronous.
	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss")).AnyTimes()
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	listings := listingService.New(listingRepo, cfg, mockCache, mockOtel)

	return bookingFixture{
		svc:         service.New(led, pending, listings, events, cfg, mockOtel),
		pending:     pending,
		listingRepo: listingRepo,
		events:      events,
	}
}

func walletCtx(wallet string) context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyWallet, wallet)
}

// expectFreshKey wires the pending store for a key with no prior attempt.
func expectFreshKey(f bookingFixture, key string) *[]dto.TransactionRecord {
	saved := &[]dto.TransactionRecord{}

	f.pending.EXPECT().Get(gomock.Any(), key).Return(dto.TransactionRecord{}, false, nil)
	f.pending.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, record dto.TransactionRecord) error {
			*saved = append(*saved, record)
			return nil
		}).
		AnyTimes()

	return saved
}

func TestBookingService_List_Confirms(t *testing.T) {
	led := ledger.NewMemory(rentalPeriod)
	f := newBooking(t, led, false)
	saved := expectFreshKey(f, "list-1")

	var created listingModel.Listing
	f.listingRepo.EXPECT().
		Insert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, listing listingModel.Listing) error {
			created = listing
			return nil
		})

	record, err := f.svc.List(walletCtx(hostWallet), dto.ListSpotRequest{
		IdempotencyKey: "list-1",
		Location:       "Level 2, Bay 14",
		PriceWei:       "1000000000000000",
	})

	require.NoError(t, err)
	assert.Equal(t, dto.TxStatusConfirmed, record.Status)
	assert.Equal(t, dto.TxOperationList, record.Operation)
	assert.Equal(t, hostWallet, record.Wallet)
	assert.NotEmpty(t, record.TxHash)

	// The metadata document is created with the assigned spot id.
	require.NotNil(t, created.SpotID)
	assert.Equal(t, uint64(0), *created.SpotID)
	assert.Equal(t, hostWallet, created.HostAddress)

	require.Len(t, *saved, 2)
	assert.Equal(t, dto.TxStatusPending, (*saved)[0].Status)
	assert.Equal(t, dto.TxStatusConfirmed, (*saved)[1].Status)

	spot, err := led.GetSpot(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, "1000000000000000", spot.Price.String())
}

func TestBookingService_Book_SyncsMetadataAndPublishes(t *testing.T) {
	led := ledger.NewMemory(rentalPeriod)
	_, err := led.ListSpot(context.Background(), common.HexToAddress(hostWallet), "Bay 14", big.NewInt(1000))
	require.NoError(t, err)

	f := newBooking(t, led, true)
	expectFreshKey(f, "book-1")

	spotID := uint64(0)
	f.listingRepo.EXPECT().
		GetBySpotID(gomock.Any(), spotID).
		Return(listingModel.Listing{ID: "meta-1", SpotID: &spotID, HostAddress: hostWallet}, nil)

	var synced bson.M
	f.listingRepo.EXPECT().
		Update(gomock.Any(), "meta-1", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, fields bson.M) error {
			synced = fields
			return nil
		})

	f.events.EXPECT().
		SendMessages(gomock.Any(), constant.KafkaTopicSpotBooked, gomock.Any()).
		Return(nil)

	record, err := f.svc.Book(walletCtx(driverWallet), spotID, dto.BookSpotRequest{
		IdempotencyKey: "book-1",
		PaymentWei:     "1000",
	})

	require.NoError(t, err)
	assert.Equal(t, dto.TxStatusConfirmed, record.Status)
	require.NotNil(t, record.SpotID)
	assert.Equal(t, spotID, *record.SpotID)

	assert.Equal(t, true, synced[listingModel.FieldIsBooked])
	assert.Equal(t, driverWallet, synced[listingModel.FieldDriverAddress])
}

func TestBookingService_IdempotentReplayDoesNotResubmit(t *testing.T) {
	ctrl := gomock.NewController(t)
	led := ledgerMocks.NewMockLedger(ctrl) // any ledger call fails the test

	f := newBooking(t, led, false)

	stored := dto.TransactionRecord{
		Key:       "book-1",
		Wallet:    driverWallet,
		Operation: dto.TxOperationBook,
		Status:    dto.TxStatusPending,
		TxHash:    "0xabc",
	}
	f.pending.EXPECT().Get(gomock.Any(), "book-1").Return(stored, true, nil)

	record, err := f.svc.Book(walletCtx(driverWallet), 0, dto.BookSpotRequest{
		IdempotencyKey: "book-1",
		PaymentWei:     "1000",
	})

	require.NoError(t, err)
	assert.Equal(t, stored, record)
}

func TestBookingService_FailedAttemptIsRetried(t *testing.T) {
	led := ledger.NewMemory(rentalPeriod)
	f := newBooking(t, led, false)

	f.pending.EXPECT().
		Get(gomock.Any(), "list-1").
		Return(dto.TransactionRecord{Key: "list-1", Status: dto.TxStatusFailed}, true, nil)
	f.pending.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.listingRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(nil)

	record, err := f.svc.List(walletCtx(hostWallet), dto.ListSpotRequest{
		IdempotencyKey: "list-1",
		Location:       "Bay 14",
		PriceWei:       "1000",
	})

	require.NoError(t, err)
	assert.Equal(t, dto.TxStatusConfirmed, record.Status)
}

func TestBookingService_LedgerRejections(t *testing.T) {
	host := common.HexToAddress(hostWallet)
	driver := common.HexToAddress(driverWallet)

	tests := []struct {
		name     string
		run      func(t *testing.T, f bookingFixture)
		wantCode int
	}{
		{
			name: "booking an already booked spot conflicts",
			run: func(t *testing.T, f bookingFixture) {
				_, err := f.svc.Book(walletCtx("0x0000000000000000000000000000000000000003"), 0, dto.BookSpotRequest{
					IdempotencyKey: "book-2",
					PaymentWei:     "1000",
				})
				require.Error(t, err)
				assert.Equal(t, http.StatusConflict, failure.GetCode(err))
			},
		},
		{
			name: "underpaying requires payment",
			run: func(t *testing.T, f bookingFixture) {
				_, err := f.svc.Book(walletCtx(driverWallet), 1, dto.BookSpotRequest{
					IdempotencyKey: "book-3",
					PaymentWei:     "999",
				})
				require.Error(t, err)
				assert.Equal(t, http.StatusPaymentRequired, failure.GetCode(err))
			},
		},
		{
			name: "claiming before the booking ends conflicts",
			run: func(t *testing.T, f bookingFixture) {
				_, err := f.svc.Claim(walletCtx(hostWallet), 0, dto.ClaimRequest{IdempotencyKey: "claim-1"})
				require.Error(t, err)
				assert.Equal(t, http.StatusConflict, failure.GetCode(err))
			},
		},
		{
			name: "claiming someone else's spot is forbidden",
			run: func(t *testing.T, f bookingFixture) {
				_, err := f.svc.Claim(walletCtx(driverWallet), 0, dto.ClaimRequest{IdempotencyKey: "claim-2"})
				require.Error(t, err)
				assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
			},
		},
		{
			name: "unknown spot is not found",
			run: func(t *testing.T, f bookingFixture) {
				_, err := f.svc.Book(walletCtx(driverWallet), 99, dto.BookSpotRequest{
					IdempotencyKey: "book-4",
					PaymentWei:     "1000",
				})
				require.Error(t, err)
				assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
			},
		},
		{
			name: "non-numeric price is a bad request",
			run: func(t *testing.T, f bookingFixture) {
				_, err := f.svc.List(walletCtx(hostWallet), dto.ListSpotRequest{
					IdempotencyKey: "list-2",
					Location:       "Bay 15",
					PriceWei:       "not-a-number",
				})
				require.Error(t, err)
				assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			led := ledger.NewMemory(rentalPeriod)
			_, err := led.ListSpot(context.Background(), host, "Bay 14", big.NewInt(1000))
			require.NoError(t, err)
			_, err = led.BookSpot(context.Background(), driver, 0, big.NewInt(1000))
			require.NoError(t, err)

			// spot 1 stays unbooked so underpayment is what gets rejected.
			_, err = led.ListSpot(context.Background(), host, "Bay 16", big.NewInt(1000))
			require.NoError(t, err)

			f := newBooking(t, led, false)
			f.pending.EXPECT().Get(gomock.Any(), gomock.Any()).Return(dto.TransactionRecord{}, false, nil).AnyTimes()
			f.pending.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

			tt.run(t, f)
		})
	}
}

func TestBookingService_MissingWalletIsUnauthorized(t *testing.T) {
	f := newBooking(t, ledger.NewMemory(rentalPeriod), false)

	_, err := f.svc.List(context.Background(), dto.ListSpotRequest{
		IdempotencyKey: "list-1",
		Location:       "Bay 14",
		PriceWei:       "1000",
	})

	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, failure.GetCode(err))
}

func TestBookingService_Quote(t *testing.T) {
	led := ledger.NewMemory(rentalPeriod)
	_, err := led.ListSpot(context.Background(), common.HexToAddress(hostWallet), "Bay 14", big.NewInt(1000))
	require.NoError(t, err)

	f := newBooking(t, led, false)

	res, err := f.svc.Quote(context.Background(), 0, dto.QuoteRequest{
		DurationUnits: 2,
		AddOns:        []string{"covered"},
	})

	require.NoError(t, err)
	assert.Equal(t, "1000", res.BasePriceWei)
	assert.Equal(t, "2200", res.TotalWei)

	_, err = f.svc.Quote(context.Background(), 99, dto.QuoteRequest{DurationUnits: 1})
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}

func TestBookingService_AbandonedWaitStaysPending(t *testing.T) {
	ctrl := gomock.NewController(t)

	led := ledgerMocks.NewMockLedger(ctrl)
	tx := ledgerMocks.NewMockTx(ctrl)

	f := newBooking(t, led, false)

	txHash := common.HexToHash("0xdead")
	spot := ledger.Spot{
		ID:       0,
		Host:     common.HexToAddress(hostWallet),
		Location: "Bay 14",
		Price:    big.NewInt(1000),
	}

	led.EXPECT().
		BookSpot(gomock.Any(), common.HexToAddress(driverWallet), uint64(0), big.NewInt(1000)).
		Return(tx, nil)
	tx.EXPECT().Hash().Return(txHash).AnyTimes()

	// First wait is abandoned with the request; the detached retry confirms.
	tx.EXPECT().Wait(gomock.Any()).Return(context.Canceled)
	tx.EXPECT().Wait(gomock.Any()).Return(nil)
	led.EXPECT().GetSpot(gomock.Any(), uint64(0)).Return(spot, nil).AnyTimes()
	f.listingRepo.EXPECT().GetBySpotID(gomock.Any(), uint64(0)).Return(listingModel.Listing{}, failure.NotFound("listing")).AnyTimes()

	resolved := make(chan dto.TransactionRecord, 2)

	f.pending.EXPECT().Get(gomock.Any(), "book-1").Return(dto.TransactionRecord{}, false, nil)
	f.pending.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, record dto.TransactionRecord) error {
			resolved <- record
			return nil
		}).
		AnyTimes()

	record, err := f.svc.Book(walletCtx(driverWallet), 0, dto.BookSpotRequest{
		IdempotencyKey: "book-1",
		PaymentWei:     "1000",
	})

	// Walking away is not a failure: the submission stands and may confirm.
	require.NoError(t, err)
	assert.Equal(t, dto.TxStatusPending, record.Status)
	assert.Equal(t, txHash.Hex(), record.TxHash)
	assert.NotEmpty(t, record.Message)

	// The detached wait must still resolve the stored record.
	deadline := time.After(2 * time.Second)
	for {
		select {
		case saved := <-resolved:
			if saved.Status == dto.TxStatusConfirmed {
				return
			}
		case <-deadline:
			t.Fatal("transaction record was never resolved to confirmed")
		}
	}
}

func TestBookingService_FailedWaitMarksRecordFailed(t *testing.T) {
	ctrl := gomock.NewController(t)

	led := ledgerMocks.NewMockLedger(ctrl)
	tx := ledgerMocks.NewMockTx(ctrl)

	f := newBooking(t, led, false)

	led.EXPECT().
		ClaimPayment(gomock.Any(), common.HexToAddress(hostWallet), uint64(0)).
		Return(tx, nil)
	tx.EXPECT().Hash().Return(common.HexToHash("0xbeef")).AnyTimes()
	tx.EXPECT().Wait(gomock.Any()).Return(errors.New("transaction reverted"))

	var statuses []string
	f.pending.EXPECT().Get(gomock.Any(), "claim-1").Return(dto.TransactionRecord{}, false, nil)
	f.pending.EXPECT().
		Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, record dto.TransactionRecord) error {
			statuses = append(statuses, record.Status)
			return nil
		}).
		Times(2)

	record, err := f.svc.Claim(walletCtx(hostWallet), 0, dto.ClaimRequest{IdempotencyKey: "claim-1"})

	require.Error(t, err)
	assert.Equal(t, dto.TxStatusFailed, record.Status)
	assert.Contains(t, record.Message, "reverted")
	assert.Equal(t, []string{dto.TxStatusPending, dto.TxStatusFailed}, statuses)
}

func TestBookingService_GetTransaction(t *testing.T) {
	f := newBooking(t, ledger.NewMemory(rentalPeriod), false)

	stored := dto.TransactionRecord{Key: "list-1", Status: dto.TxStatusConfirmed}
	f.pending.EXPECT().Get(gomock.Any(), "list-1").Return(stored, true, nil)
	f.pending.EXPECT().Get(gomock.Any(), "missing").Return(dto.TransactionRecord{}, false, nil)

	record, err := f.svc.GetTransaction(context.Background(), "list-1")
	require.NoError(t, err)
	assert.Equal(t, stored, record)

	_, err = f.svc.GetTransaction(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}
