// Package service implements the spot reconciler: it merges the authoritative
// ledger and the metadata store into one marketplace view. The two stores are
// only eventually consistent, so the merge tolerates records present in one
// and missing from the other, and ledger fields always win on conflict.
package service

import (
	"context"
	"parkade/config"
	"parkade/infras/otel"
	listingModel "parkade/internal/domains/listing/model"
	listingDto "parkade/internal/domains/listing/model/dto"
	listingRepo "parkade/internal/domains/listing/repository"
	"parkade/internal/domains/spot/model/dto"
	"parkade/internal/ledger"
	"parkade/shared"
	"parkade/shared/cache"
	"parkade/shared/constant"
	gDto "parkade/shared/dto"
	"parkade/shared/ethaddr"
	"time"

	"github.com/rs/zerolog/log"
)

type Spot interface {
	// MarketplaceView builds the reconciled marketplace for a caller. The
	// caller address may be empty, in which case the owned bucket is empty.
	MarketplaceView(ctx context.Context, caller string) (dto.MarketplaceResponse, error)

	// Get returns the merged view of a single ledger spot.
	Get(ctx context.Context, spotID uint64) (dto.SpotView, error)
}

type serviceImpl struct {
	ledger ledger.Ledger
	repo   listingRepo.Listing
	cfg    *config.Config
	cache  cache.RedisCache
	otel   otel.Otel
	now    func() uint64
}

// New wires the reconciler. A nil ledger is valid and puts the service in
// metadata-only mode.
func New(l ledger.Ledger, repo listingRepo.Listing, cfg *config.Config, redisCache cache.RedisCache, ot otel.Otel) Spot {
	return &serviceImpl{
		ledger: l,
		repo:   repo,
		cfg:    cfg,
		cache:  redisCache,
		otel:   ot,
		now: func() uint64 {
			return uint64(time.Now().Unix())
		},
	}
}

// NewWithClock is New with an injected time source.
func NewWithClock(l ledger.Ledger, repo listingRepo.Listing, cfg *config.Config, redisCache cache.RedisCache, ot otel.Otel, now func() uint64) Spot {
	svc := New(l, repo, cfg, redisCache, ot).(*serviceImpl)
	svc.now = now

	return svc
}

func (s *serviceImpl) MarketplaceView(ctx context.Context, caller string) (res dto.MarketplaceResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".MarketplaceView")
	defer scope.End()
	defer scope.TraceIfError(err)

	caller = ethaddr.Normalize(caller)
	now := s.now()

	cacheKey := shared.BuildCacheKey(constant.CacheKeyMarketplaceView, callerCachePart(caller))

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for marketplace view")

		return res, nil
	}

	listings, err := s.allListings(ctx)
	if err != nil {
		return res, err
	}

	listingBySpotID := map[uint64]listingModel.Listing{}
	for _, listing := range listings {
		if listing.SpotID != nil {
			listingBySpotID[*listing.SpotID] = listing
		}
	}

	res.Available = []dto.SpotView{}
	res.Owned = []dto.SpotView{}

	// Ledger spots whose point read succeeded; metadata records pointing at
	// these ids are merged rather than appended.
	collected := map[uint64]bool{}

	if s.ledger != nil {
		next, err := s.ledger.NextSpotID(ctx)
		if err != nil {
			// Total ledger unavailability degrades to metadata-only results
			// instead of failing the whole view.
			log.Error().Err(err).Msg("ledger unreachable, serving metadata-only marketplace")
		} else {
			res.LedgerConnected = true

			for id := uint64(0); id < next; id++ {
				spot, err := s.ledger.GetSpot(ctx, id)
				if err != nil {
					// One bad point read must not abort the enumeration.
					log.Error().Err(err).Uint64("spotId", id).Msg("failed to fetch ledger spot, skipping")

					continue
				}

				collected[id] = true

				var view dto.SpotView
				view.FromLedger(spot, now)

				if listing, ok := listingBySpotID[id]; ok {
					view.EnrichFromListing(listing)
				}

				s.bucket(&res, view, caller)
			}
		}
	}

	// Metadata listings not matching a collected ledger spot surface as
	// metadata-only entries.
	for _, listing := range listings {
		if listing.SpotID != nil && collected[*listing.SpotID] {
			continue
		}

		var view dto.SpotView
		view.FromListing(listing, now)

		s.bucket(&res, view, caller)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save marketplace view to cache")
		}
	}()

	return res, nil
}

// callerCachePart keys the cached view per caller; anonymous callers share
// one entry because their owned bucket is always empty.
func callerCachePart(caller string) string {
	if caller == "" {
		return "anonymous"
	}

	return caller
}

func (s *serviceImpl) Get(ctx context.Context, spotID uint64) (res dto.SpotView, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(constant.OtelSpotAttributeKey, spotID)

	now := s.now()

	if s.ledger != nil {
		spot, err := s.ledger.GetSpot(ctx, spotID)
		if err == nil {
			res.FromLedger(spot, now)

			if listing, lerr := s.repo.GetBySpotID(ctx, spotID); lerr == nil {
				res.EnrichFromListing(listing)
			}

			return res, nil
		}

		log.Error().Err(err).Uint64("spotId", spotID).Msg("failed to fetch ledger spot, falling back to metadata")
	}

	listing, err := s.repo.GetBySpotID(ctx, spotID)
	if err != nil {
		return res, err
	}

	res.FromListing(listing, now)

	return res, nil
}

// bucket classifies a merged view. Ownership and availability are independent
// so a host's own unbooked spot appears in both buckets.
func (s *serviceImpl) bucket(res *dto.MarketplaceResponse, view dto.SpotView, caller string) {
	if caller != "" && ethaddr.Equal(view.Host, caller) {
		res.Owned = append(res.Owned, view)
	}

	if !view.IsBooked && !view.Hidden {
		res.Available = append(res.Available, view)
	}
}

func (s *serviceImpl) allListings(ctx context.Context) ([]listingModel.Listing, error) {
	// Hidden listings stay in the set so hosts still see them under owned;
	// bucket() keeps them out of available.
	listings, err := s.repo.GetAll(ctx, gDto.QueryParams{}, listingDto.ListingFilter{IncludeHidden: true})
	if err != nil {
		log.Error().Err(err).Msg("failed to load metadata listings")

		return nil, err
	}

	return listings, nil
}
