package repository

//go:generate go run go.uber.org/mock/mockgen -source=./pending.go -destination=../mocks/pending_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"parkade/infras/otel"
	"parkade/internal/domains/booking/model/dto"
	"parkade/shared"
	"parkade/shared/cache"
	"parkade/shared/constant"
)

const (
	pendingKeyPrefix = "tx"

	// Records outlive any realistic confirmation wait so a client can still
	// resolve the outcome of a transaction it abandoned.
	pendingTTLSeconds = 7 * 24 * 3600
)

// Pending stores one transaction record per idempotency key. The record is
// written before ledger submission and updated on resolution, so a repeated
// request can observe an in-flight attempt instead of double-paying.
type Pending interface {
	Get(ctx context.Context, key string) (dto.TransactionRecord, bool, error)
	Save(ctx context.Context, record dto.TransactionRecord) error
}

type pendingImpl struct {
	cache cache.RedisCache
	otel  otel.Otel
}

func NewPending(redisCache cache.RedisCache, ot otel.Otel) Pending {
	return &pendingImpl{
		cache: redisCache,
		otel:  ot,
	}
}

func (p *pendingImpl) Get(ctx context.Context, key string) (record dto.TransactionRecord, found bool, err error) {
	ctx, scope := p.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".PendingGet")
	defer scope.End()
	defer scope.TraceIfError(err)

	err = p.cache.Get(ctx, shared.BuildCacheKey(pendingKeyPrefix, key), &record)
	if err != nil {
		if errors.Is(err, cache.Nil) {
			return record, false, nil
		}

		return record, false, fmt.Errorf("failed to load transaction record: %w", err)
	}

	return record, true, nil
}

func (p *pendingImpl) Save(ctx context.Context, record dto.TransactionRecord) (err error) {
	ctx, scope := p.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".PendingSave")
	defer scope.End()
	defer scope.TraceIfError(err)

	err = p.cache.Save(ctx, shared.BuildCacheKey(pendingKeyPrefix, record.Key), record, pendingTTLSeconds)
	if err != nil {
		return fmt.Errorf("failed to save transaction record: %w", err)
	}

	return nil
}
