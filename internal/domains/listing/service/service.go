package service

import (
	"context"
	"fmt"
	"net/http"
	"parkade/config"
	"parkade/infras/otel"
	"parkade/internal/domains/listing/model"
	"parkade/internal/domains/listing/model/dto"
	"parkade/internal/domains/listing/repository"
	"parkade/internal/ledger"
	"parkade/shared"
	"parkade/shared/cache"
	"parkade/shared/constant"
	gDto "parkade/shared/dto"
	"parkade/shared/ethaddr"
	"parkade/shared/failure"
	"parkade/shared/timezone"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
)

const (
	cacheGetAllListing = "listings:getAll"
	cacheCountListing  = "listings:count"
	cacheGetListing    = "listings:get"
)

type Listing interface {
	Create(ctx context.Context, req dto.CreateListingRequest) (dto.ListingResponse, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter dto.ListingFilter) (dto.GetListingsResponse, error)
	Get(ctx context.Context, id string) (dto.ListingResponse, error)
	GetBySpotID(ctx context.Context, spotID uint64) (dto.ListingResponse, error)
	Update(ctx context.Context, id string, req dto.UpdateListingRequest) error
	Delete(ctx context.Context, id string) error
	Hide(ctx context.Context, spotID uint64, hidden bool) error
	AddReview(ctx context.Context, spotID uint64, req dto.AddReviewRequest) (dto.ListingResponse, error)
	SyncFromLedger(ctx context.Context, spot ledger.Spot) error
}

type serviceImpl struct {
	repo  repository.Listing
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Listing, cfg *config.Config, redisCache cache.RedisCache, ot otel.Otel) Listing {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: redisCache,
		otel:  ot,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateListingRequest) (res dto.ListingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	host, _ := ctx.Value(constant.ContextKeyWallet).(string)
	if host == "" {
		return res, failure.Unauthorized("missing wallet session") //nolint:wrapcheck
	}

	listing := req.ToModel(host)
	if err = s.repo.Insert(ctx, listing); err != nil {
		log.Error().Err(err).Msg("failed to create listing")

		return res, fmt.Errorf("failed to create listing: %w", err)
	}

	s.invalidateListCaches(ctx)

	res.FromModel(listing)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter dto.ListingFilter) (res dto.GetListingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllListing, params, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for listings")

		return res, nil
	}

	total, err := s.count(ctx, params, filter)
	if err != nil {
		return res, err
	}

	listings, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get listings")

		return res, fmt.Errorf("failed to get listings: %w", err)
	}

	res.FromModels(listings, total, params.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save listings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) count(ctx context.Context, params gDto.QueryParams, filter dto.ListingFilter) (total int, err error) {
	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountListing, params, filter)

	err = s.cache.Get(ctx, cacheKey, &total)
	if err == nil {
		return total, nil
	}

	total, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count listings")

		return 0, fmt.Errorf("failed to count listings: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, total, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save listing count to cache")
		}
	}()

	return total, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.ListingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetListing, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for listing")

		return res, nil
	}

	listing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(listing)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save listing to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) GetBySpotID(ctx context.Context, spotID uint64) (res dto.ListingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetBySpotID")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(constant.OtelSpotAttributeKey, spotID)

	listing, err := s.repo.GetBySpotID(ctx, spotID)
	if err != nil {
		return res, err
	}

	res.FromModel(listing)

	return res, nil
}

// Update edits host-owned metadata. The request type cannot express the
// booking mirror fields, so a listing's booking state can never be changed
// through this path.
func (s *serviceImpl) Update(ctx context.Context, id string, req dto.UpdateListingRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	listing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err = s.requireOwner(ctx, listing); err != nil {
		return err
	}

	if err = s.repo.Update(ctx, id, req.ToUpdateFields()); err != nil {
		return err
	}

	s.invalidateListingCaches(ctx, id)

	return nil
}

// Delete removes the metadata document only. A ledger-backed spot keeps its
// ledger record and any active booking; only the descriptive fields go away.
func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	listing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err = s.requireOwner(ctx, listing); err != nil {
		return err
	}

	if err = s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidateListingCaches(ctx, id)

	return nil
}

// Hide soft-delists a ledger-backed spot. The ledger has no delisting
// primitive, so hiding only drops the listing from marketplace results.
func (s *serviceImpl) Hide(ctx context.Context, spotID uint64, hidden bool) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Hide")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(constant.OtelSpotAttributeKey, spotID)

	listing, err := s.repo.GetBySpotID(ctx, spotID)
	if err != nil {
		return err
	}

	if err = s.requireOwner(ctx, listing); err != nil {
		return err
	}

	fields := bson.M{
		model.FieldHidden:     hidden,
		model.FieldModifiedAt: timezone.Now(),
	}

	if err = s.repo.Update(ctx, listing.ID, fields); err != nil {
		return err
	}

	s.invalidateListingCaches(ctx, listing.ID)

	return nil
}

func (s *serviceImpl) AddReview(ctx context.Context, spotID uint64, req dto.AddReviewRequest) (res dto.ListingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".AddReview")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(constant.OtelSpotAttributeKey, spotID)

	listing, err := s.repo.GetBySpotID(ctx, spotID)
	if err != nil {
		return res, err
	}

	user, _ := ctx.Value(constant.ContextKeyWallet).(string)
	if user == "" {
		return res, failure.Unauthorized("missing wallet session") //nolint:wrapcheck
	}

	review := req.ToModel(user)

	reviews := append(listing.Reviews, review)
	rating := averageRating(reviews)

	if err = s.repo.AppendReview(ctx, listing.ID, review, rating); err != nil {
		return res, err
	}

	s.invalidateListingCaches(ctx, listing.ID)

	listing.Reviews = reviews
	listing.Rating = rating
	res.FromModel(listing)

	return res, nil
}

// SyncFromLedger writes the ledger-sourced booking fields into the metadata
// document after a confirmed transaction, so metadata-only reads converge on
// ledger truth.
func (s *serviceImpl) SyncFromLedger(ctx context.Context, spot ledger.Spot) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SyncFromLedger")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(constant.OtelSpotAttributeKey, spot.ID)

	listing, err := s.repo.GetBySpotID(ctx, spot.ID)
	if err != nil {
		// Not every ledger spot carries metadata; nothing to sync then.
		if failure.GetCode(err) == http.StatusNotFound {
			return nil
		}

		return err
	}

	driver := ""
	if !ethaddr.IsZero(spot.Driver) {
		driver = ethaddr.NormalizeAddress(spot.Driver)
	}

	fields := bson.M{
		model.FieldIsBooked:       spot.IsBooked,
		model.FieldDriverAddress:  driver,
		model.FieldBookingEndTime: spot.BookingEndTime,
		model.FieldPriceWei:       spot.Price.String(),
		model.FieldModifiedAt:     timezone.Now(),
	}

	if err = s.repo.Update(ctx, listing.ID, fields); err != nil {
		return err
	}

	s.invalidateListingCaches(ctx, listing.ID)

	return nil
}

func (s *serviceImpl) requireOwner(ctx context.Context, listing model.Listing) error {
	wallet, _ := ctx.Value(constant.ContextKeyWallet).(string)

	if !ethaddr.Equal(wallet, listing.HostAddress) {
		return failure.Forbidden("only the listing host may modify it") //nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) invalidateListingCaches(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(cacheGetListing, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete listing cache")
		}

		shared.InvalidateCaches(c, s.cache, cacheGetAllListing)
		shared.InvalidateCaches(c, s.cache, cacheCountListing)
		shared.InvalidateCaches(c, s.cache, constant.CacheKeyMarketplaceView)
	}()
}

func (s *serviceImpl) invalidateListCaches(ctx context.Context) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllListing)
		shared.InvalidateCaches(c, s.cache, cacheCountListing)
		shared.InvalidateCaches(c, s.cache, constant.CacheKeyMarketplaceView)
	}()
}

func averageRating(reviews []model.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}

	sum := 0
	for _, review := range reviews {
		sum += review.Rating
	}

	return float64(sum) / float64(len(reviews))
}
