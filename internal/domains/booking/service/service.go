package service

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"parkade/config"
	"parkade/infras/kafka"
	"parkade/infras/otel"
	"parkade/internal/domains/booking/model/dto"
	"parkade/internal/domains/booking/repository"
	listingDto "parkade/internal/domains/listing/model/dto"
	listingService "parkade/internal/domains/listing/service"
	"parkade/internal/ledger"
	"parkade/shared/constant"
	"parkade/shared/ethaddr"
	"parkade/shared/failure"
	"parkade/shared/timezone"
	"time"

	"github.com/rs/zerolog/log"
)

// Booking drives the money-moving spot lifecycle: listing, booking, and
// claiming through the ledger. Every state-changing call is idempotent per
// client-supplied key and is never treated as durable before confirmation.
type Booking interface {
	List(ctx context.Context, req dto.ListSpotRequest) (dto.TransactionRecord, error)
	Book(ctx context.Context, spotID uint64, req dto.BookSpotRequest) (dto.TransactionRecord, error)
	Claim(ctx context.Context, spotID uint64, req dto.ClaimRequest) (dto.TransactionRecord, error)
	Quote(ctx context.Context, spotID uint64, req dto.QuoteRequest) (dto.QuoteResponse, error)
	GetTransaction(ctx context.Context, key string) (dto.TransactionRecord, error)
}

type serviceImpl struct {
	ledger   ledger.Ledger
	pending  repository.Pending
	listings listingService.Listing
	events   kafka.Client
	cfg      *config.Config
	otel     otel.Otel
}

func New(l ledger.Ledger, pending repository.Pending, listings listingService.Listing, events kafka.Client, cfg *config.Config, ot otel.Otel) Booking {
	return &serviceImpl{
		ledger:   l,
		pending:  pending,
		listings: listings,
		events:   events,
		cfg:      cfg,
		otel:     ot,
	}
}

func (s *serviceImpl) List(ctx context.Context, req dto.ListSpotRequest) (res dto.TransactionRecord, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".List")
	defer scope.End()
	defer scope.TraceIfError(err)

	wallet, err := s.callerWallet(ctx)
	if err != nil {
		return res, err
	}

	price, ok := new(big.Int).SetString(req.PriceWei, 10)
	if !ok {
		return res, failure.BadRequestFromString("price_wei must be a decimal integer") //nolint:wrapcheck
	}

	// The id the ledger will assign. Read before submission; a concurrent
	// lister can skew it, in which case reconciliation against the ledger
	// corrects the metadata link.
	spotID, err := s.ledger.NextSpotID(ctx)
	if err != nil {
		return res, mapLedgerError(err)
	}

	send := func(ctx context.Context) (ledger.Tx, error) {
		return s.ledger.ListSpot(ctx, ethaddr.Parse(wallet), req.Location, price)
	}

	return s.submit(ctx, req.IdempotencyKey, wallet, dto.TxOperationList, &spotID, send, func(ctx context.Context) {
		s.createListing(ctx, spotID, req)
	})
}

// createListing writes the metadata document for a freshly listed spot.
// Best-effort: the spot exists on the ledger regardless, and the marketplace
// view surfaces ledger-only spots without metadata.
func (s *serviceImpl) createListing(ctx context.Context, spotID uint64, req dto.ListSpotRequest) {
	_, err := s.listings.Create(ctx, listingDto.CreateListingRequest{
		SpotID:      &spotID,
		Location:    req.Location,
		PriceWei:    req.PriceWei,
		Description: req.Description,
		Amenities:   req.Amenities,
		Images:      req.Images,
	})
	if err != nil {
		log.Error().Err(err).Uint64("spotId", spotID).Msg("failed to create listing metadata for listed spot")
	}
}

func (s *serviceImpl) Book(ctx context.Context, spotID uint64, req dto.BookSpotRequest) (res dto.TransactionRecord, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Book")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(constant.OtelSpotAttributeKey, spotID)

	wallet, err := s.callerWallet(ctx)
	if err != nil {
		return res, err
	}

	payment, ok := new(big.Int).SetString(req.PaymentWei, 10)
	if !ok {
		return res, failure.BadRequestFromString("payment_wei must be a decimal integer") //nolint:wrapcheck
	}

	return s.submit(ctx, req.IdempotencyKey, wallet, dto.TxOperationBook, &spotID, func(ctx context.Context) (ledger.Tx, error) {
		return s.ledger.BookSpot(ctx, ethaddr.Parse(wallet), spotID, payment)
	}, nil)
}

func (s *serviceImpl) Claim(ctx context.Context, spotID uint64, req dto.ClaimRequest) (res dto.TransactionRecord, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Claim")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(constant.OtelSpotAttributeKey, spotID)

	wallet, err := s.callerWallet(ctx)
	if err != nil {
		return res, err
	}

	return s.submit(ctx, req.IdempotencyKey, wallet, dto.TxOperationClaim, &spotID, func(ctx context.Context) (ledger.Tx, error) {
		return s.ledger.ClaimPayment(ctx, ethaddr.Parse(wallet), spotID)
	}, nil)
}

func (s *serviceImpl) Quote(ctx context.Context, spotID uint64, req dto.QuoteRequest) (res dto.QuoteResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Quote")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(constant.OtelSpotAttributeKey, spotID)

	spot, err := s.ledger.GetSpot(ctx, spotID)
	if err != nil {
		return res, mapLedgerError(err)
	}

	total, err := Quote(spot.Price, req.DurationUnits, req.AddOns)
	if err != nil {
		return res, err
	}

	return dto.QuoteResponse{
		SpotID:        spotID,
		BasePriceWei:  spot.Price.String(),
		DurationUnits: req.DurationUnits,
		AddOns:        req.AddOns,
		TotalWei:      total.String(),
	}, nil
}

func (s *serviceImpl) GetTransaction(ctx context.Context, key string) (res dto.TransactionRecord, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetTransaction")
	defer scope.End()
	defer scope.TraceIfError(err)

	record, found, err := s.pending.Get(ctx, key)
	if err != nil {
		return res, err
	}

	if !found {
		return res, failure.NotFound("transaction") //nolint:wrapcheck
	}

	return record, nil
}

// submit runs one idempotent ledger transaction. A key whose prior attempt is
// pending or confirmed short-circuits to the stored record: payments are
// never resubmitted without a final status on the previous attempt.
func (s *serviceImpl) submit(ctx context.Context, key, wallet, operation string, spotID *uint64, send func(ctx context.Context) (ledger.Tx, error), onConfirm func(ctx context.Context)) (dto.TransactionRecord, error) {
	record, found, err := s.pending.Get(ctx, key)
	if err != nil {
		return record, err
	}

	if found && record.Status != dto.TxStatusFailed {
		log.Info().Str("key", key).Str("status", record.Status).Msg("idempotent replay of ledger transaction")

		return record, nil
	}

	tx, err := send(ctx)
	if err != nil {
		return record, mapLedgerError(err)
	}

	record = dto.TransactionRecord{
		Key:       key,
		Wallet:    wallet,
		Operation: operation,
		SpotID:    spotID,
		TxHash:    tx.Hash().Hex(),
		Status:    dto.TxStatusPending,
		CreatedAt: timezone.Now(),
		UpdatedAt: timezone.Now(),
	}

	if err = s.pending.Save(ctx, record); err != nil {
		return record, err
	}

	waitCtx := ctx
	if s.cfg.Ledger.ConfirmTimeoutSeconds > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, time.Duration(s.cfg.Ledger.ConfirmTimeoutSeconds)*time.Second)
		defer cancel()
	}

	if err = tx.Wait(waitCtx); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			// The caller walked away, not the ledger. The transaction may
			// still land, so keep resolving it off-request and report the
			// abandonment neutrally.
			go s.resolve(context.WithoutCancel(ctx), record, tx, onConfirm)

			record.Message = "confirmation abandoned by caller; the transaction may still confirm"

			return record, nil
		}

		record.Status = dto.TxStatusFailed
		record.Message = err.Error()
		record.UpdatedAt = timezone.Now()

		if saveErr := s.pending.Save(ctx, record); saveErr != nil {
			log.Error().Err(saveErr).Str("key", key).Msg("failed to persist failed transaction record")
		}

		return record, fmt.Errorf("ledger transaction was not confirmed: %w", err)
	}

	record.Status = dto.TxStatusConfirmed
	record.UpdatedAt = timezone.Now()

	if err = s.pending.Save(ctx, record); err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to persist confirmed transaction record")
	}

	s.afterConfirm(ctx, record, onConfirm)

	return record, nil
}

// resolve finishes the confirmation wait for an abandoned request.
func (s *serviceImpl) resolve(ctx context.Context, record dto.TransactionRecord, tx ledger.Tx, onConfirm func(ctx context.Context)) {
	err := tx.Wait(ctx)

	record.UpdatedAt = timezone.Now()
	if err != nil {
		record.Status = dto.TxStatusFailed
		record.Message = err.Error()
	} else {
		record.Status = dto.TxStatusConfirmed
		record.Message = ""
	}

	if saveErr := s.pending.Save(ctx, record); saveErr != nil {
		log.Error().Err(saveErr).Str("key", record.Key).Msg("failed to persist resolved transaction record")
	}

	if err == nil {
		s.afterConfirm(ctx, record, onConfirm)
	}
}

// afterConfirm mirrors the confirmed ledger state into the metadata store and
// publishes the lifecycle event. Both are best-effort: the ledger already
// committed and reconciliation converges on it either way.
func (s *serviceImpl) afterConfirm(ctx context.Context, record dto.TransactionRecord, onConfirm func(ctx context.Context)) {
	c := context.WithoutCancel(ctx)

	if onConfirm != nil {
		onConfirm(c)
	} else if record.SpotID != nil {
		spot, err := s.ledger.GetSpot(c, *record.SpotID)
		if err != nil {
			log.Error().Err(err).Uint64("spotId", *record.SpotID).Msg("failed to re-read spot after confirmation")
		} else if err := s.listings.SyncFromLedger(c, spot); err != nil {
			log.Error().Err(err).Uint64("spotId", *record.SpotID).Msg("failed to sync listing after confirmation")
		}
	}

	if !s.cfg.Kafka.Enable {
		return
	}

	topic := eventTopic(record.Operation)
	if topic == "" {
		return
	}

	event := dto.SpotEvent{
		SpotID:    record.SpotID,
		Wallet:    record.Wallet,
		Operation: record.Operation,
		TxHash:    record.TxHash,
		Timestamp: timezone.Now(),
	}

	if err := s.events.SendMessages(c, topic, kafka.Message{Key: record.TxHash, Value: event}); err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("failed to publish spot event")
	}
}

func (s *serviceImpl) callerWallet(ctx context.Context) (string, error) {
	wallet, _ := ctx.Value(constant.ContextKeyWallet).(string)
	if wallet == "" {
		return "", failure.Unauthorized("missing wallet session") //nolint:wrapcheck
	}

	return ethaddr.Normalize(wallet), nil
}

func eventTopic(operation string) string {
	switch operation {
	case dto.TxOperationList:
		return constant.KafkaTopicSpotListed
	case dto.TxOperationBook:
		return constant.KafkaTopicSpotBooked
	case dto.TxOperationClaim:
		return constant.KafkaTopicPaymentClaimed
	default:
		return ""
	}
}

// mapLedgerError translates ledger rejections into the HTTP failure taxonomy.
// Rejections are specific and actionable; they are never retried here.
func mapLedgerError(err error) error {
	switch {
	case errors.Is(err, ledger.ErrUnknownSpot):
		return failure.NotFound("spot") //nolint:wrapcheck
	case errors.Is(err, ledger.ErrInvalidPrice):
		return failure.BadRequest(err) //nolint:wrapcheck
	case errors.Is(err, ledger.ErrAlreadyBooked):
		return failure.Conflict(err.Error()) //nolint:wrapcheck
	case errors.Is(err, ledger.ErrInsufficientPayment):
		return failure.PaymentRequired(err.Error()) //nolint:wrapcheck
	case errors.Is(err, ledger.ErrBookingNotEnded):
		return failure.Conflict(err.Error()) //nolint:wrapcheck
	case errors.Is(err, ledger.ErrNotHost):
		return failure.Forbidden(err.Error()) //nolint:wrapcheck
	case errors.Is(err, ledger.ErrNothingToClaim):
		return failure.Conflict(err.Error()) //nolint:wrapcheck
	default:
		return fmt.Errorf("ledger operation failed: %w", err)
	}
}
