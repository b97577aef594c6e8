package listing

import (
	"net/http"
	"strconv"

	"parkade/infras/otel"
	"parkade/internal/domains/listing/model"
	"parkade/internal/domains/listing/model/dto"
	"parkade/internal/domains/listing/service"
	"parkade/shared/constant"
	gDto "parkade/shared/dto"
	"parkade/shared/ethaddr"
	"parkade/shared/failure"
	"parkade/shared/validator"
	"parkade/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Listing
	otel    otel.Otel
}

func New(service service.Listing, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(r chi.Router) {
	r.Route("/listings", func(r chi.Router) {
		r.Post("/", handler.CreateListing)
		r.Get("/", handler.GetListings)
		r.Get("/{id}", handler.GetListingByID)
		r.Patch("/{id}", handler.UpdateListing)
		r.Delete("/{id}", handler.DeleteListing)
		r.Get("/spot/{spotId}", handler.GetListingBySpotID)
		r.Post("/spot/{spotId}/reviews", handler.AddReview)
		r.Post("/spot/{spotId}/hide", handler.HideListing)
	})
}

// CreateListing creates a listing metadata document.
// @Summary Create a listing
// @Description Create the off-chain metadata for a spot owned by the caller.
// @Tags Listing
// @Accept json
// @Produce json
// @Param request body dto.CreateListingRequest true "Create Listing Request"
// @Success 201 {object} response.Data[dto.ListingResponse] "Listing created"
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Router /v1/listings [post]
// @Security BearerAuth
func (handler *Handler) CreateListing(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateListing")
	defer scope.End()

	req := dto.CreateListingRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create listing")

		response.WithError(w, err)

		return
	}

	wallet, _ := ctx.Value(constant.ContextKeyWallet).(string)
	scope.AddEvent("Listing created by " + wallet)

	response.WithJSON(w, http.StatusCreated, res)
}

// GetListings retrieves listings with optional filtering and pagination.
// @Summary Get all listings
// @Description Retrieve listing metadata documents with optional filtering and pagination.
// @Tags Listing
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param host_address query string false "Filter by host wallet address"
// @Param is_booked query bool false "Filter by booked state"
// @Success 200 {object} response.Data[dto.GetListingsResponse] "List of listings"
// @Failure 400 {object} response.Error
// @Router /v1/listings [get]
func (handler *Handler) GetListings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetListings")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filter := dto.ListingFilter{}

	if host := r.URL.Query().Get(model.FieldHostAddress); host != "" {
		filter.HostAddress = ethaddr.Normalize(host)
	}

	if booked := r.URL.Query().Get(model.FieldIsBooked); booked != "" {
		value := booked == "true"
		filter.IsBooked = &value
	}

	listings, err := handler.service.GetAll(ctx, queryParams, filter)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get listings")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Listings retrieved")

	response.WithJSON(w, http.StatusOK, listings)
}

// GetListingByID retrieves a listing by its document id.
// @Summary Get a listing by ID
// @Description Retrieve one listing metadata document.
// @Tags Listing
// @Accept json
// @Produce json
// @Param id path string true "Listing ID"
// @Success 200 {object} response.Data[dto.ListingResponse] "Listing details"
// @Failure 404 {object} response.Error
// @Router /v1/listings/{id} [get]
func (handler *Handler) GetListingByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetListingByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	listing, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get listing by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Listing retrieved")

	response.WithJSON(w, http.StatusOK, listing)
}

// UpdateListing updates host-editable listing metadata.
// @Summary Update a listing by ID
// @Description Update descriptive listing metadata. Booking state cannot be edited here.
// @Tags Listing
// @Accept json
// @Produce json
// @Param id path string true "Listing ID"
// @Param request body dto.UpdateListingRequest true "Update Listing Request"
// @Success 200 {object} response.Message "Listing updated successfully"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/listings/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateListing(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateListing")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateListingRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, id, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update listing")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Listing updated")

	response.WithMessage(w, http.StatusOK, "Listing updated successfully")
}

// DeleteListing deletes a listing metadata document.
// @Summary Delete a listing by ID
// @Description Delete the metadata document. The ledger spot itself is permanent.
// @Tags Listing
// @Accept json
// @Produce json
// @Param id path string true "Listing ID"
// @Success 200 {object} response.Message "Listing deleted successfully"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/listings/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteListing(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteListing")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete listing")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Listing deleted")

	response.WithMessage(w, http.StatusOK, "Listing deleted successfully")
}

// GetListingBySpotID retrieves the listing linked to a ledger spot.
// @Summary Get a listing by spot ID
// @Description Retrieve the listing metadata document linked to a ledger spot.
// @Tags Listing
// @Accept json
// @Produce json
// @Param spotId path int true "Ledger spot ID"
// @Success 200 {object} response.Data[dto.ListingResponse] "Listing details"
// @Failure 404 {object} response.Error
// @Router /v1/listings/spot/{spotId} [get]
func (handler *Handler) GetListingBySpotID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetListingBySpotID")
	defer scope.End()

	spotID, err := parseSpotID(r)
	if err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	listing, err := handler.service.GetBySpotID(ctx, spotID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get listing by spot ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Listing retrieved")

	response.WithJSON(w, http.StatusOK, listing)
}

// AddReview appends a review to the listing for a spot.
// @Summary Review a spot
// @Description Append a review to the listing and recompute the mean rating.
// @Tags Listing
// @Accept json
// @Produce json
// @Param spotId path int true "Ledger spot ID"
// @Param request body dto.AddReviewRequest true "Add Review Request"
// @Success 200 {object} response.Data[dto.ListingResponse] "Listing with the new review"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/listings/spot/{spotId}/reviews [post]
// @Security BearerAuth
func (handler *Handler) AddReview(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".AddReview")
	defer scope.End()

	spotID, err := parseSpotID(r)
	if err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	req := dto.AddReviewRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.AddReview(ctx, spotID, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to add review")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Review added")

	response.WithJSON(w, http.StatusOK, res)
}

// HideListing soft-delists a spot from the marketplace.
// @Summary Hide a listing
// @Description Hide the listing from the available bucket. The ledger spot stays listed; hiding is metadata only.
// @Tags Listing
// @Accept json
// @Produce json
// @Param spotId path int true "Ledger spot ID"
// @Success 200 {object} response.Message "Listing hidden successfully"
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/listings/spot/{spotId}/hide [post]
// @Security BearerAuth
func (handler *Handler) HideListing(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".HideListing")
	defer scope.End()

	spotID, err := parseSpotID(r)
	if err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	if err := handler.service.Hide(ctx, spotID, true); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to hide listing")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Listing hidden")

	response.WithMessage(w, http.StatusOK, "Listing hidden successfully")
}

func parseSpotID(r *http.Request) (uint64, error) {
	spotID, err := strconv.ParseUint(chi.URLParam(r, constant.RequestParamSpotID), 10, 64)
	if err != nil {
		return 0, failure.BadRequestFromString("spot id must be a non-negative integer") //nolint:wrapcheck
	}

	return spotID, nil
}
