package booking

import (
	"net/http"
	"strconv"

	"parkade/infras/otel"
	"parkade/internal/domains/booking/model/dto"
	"parkade/internal/domains/booking/service"
	"parkade/shared/constant"
	"parkade/shared/failure"
	"parkade/shared/validator"
	"parkade/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Booking
	otel    otel.Otel
}

func New(service service.Booking, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(r chi.Router) {
	r.Route("/spots", func(r chi.Router) {
		r.Post("/", handler.ListSpot)
		r.Post("/{spotId}/book", handler.BookSpot)
		r.Post("/{spotId}/claim", handler.ClaimPayment)
		r.Post("/{spotId}/quote", handler.QuoteSpot)
	})
	r.Route("/transactions", func(r chi.Router) {
		r.Get("/{key}", handler.GetTransaction)
	})
}

// ListSpot lists a new spot on the ledger.
// @Summary List a parking spot
// @Description Submit a listing transaction to the ledger and create the listing metadata on confirmation.
// @Tags Booking
// @Accept json
// @Produce json
// @Param request body dto.ListSpotRequest true "List Spot Request"
// @Success 201 {object} response.Data[dto.TransactionRecord] "Transaction record"
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Router /v1/spots [post]
// @Security BearerAuth
func (handler *Handler) ListSpot(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ListSpot")
	defer scope.End()

	req := dto.ListSpotRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	record, err := handler.service.List(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to list spot")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Spot listing transaction " + record.Status)

	response.WithJSON(w, http.StatusCreated, record)
}

// BookSpot books a spot, escrowing the payment.
// @Summary Book a parking spot
// @Description Submit a booking transaction; the payment is escrowed until the host claims it.
// @Tags Booking
// @Accept json
// @Produce json
// @Param spotId path int true "Ledger spot ID"
// @Param request body dto.BookSpotRequest true "Book Spot Request"
// @Success 200 {object} response.Data[dto.TransactionRecord] "Transaction record"
// @Failure 400 {object} response.Error
// @Failure 402 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/spots/{spotId}/book [post]
// @Security BearerAuth
func (handler *Handler) BookSpot(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".BookSpot")
	defer scope.End()

	spotID, err := parseSpotID(r)
	if err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	req := dto.BookSpotRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	record, err := handler.service.Book(ctx, spotID, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to book spot")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Spot booking transaction " + record.Status)

	response.WithJSON(w, http.StatusOK, record)
}

// ClaimPayment releases the escrowed payment to the host.
// @Summary Claim an escrowed payment
// @Description Submit a claim transaction for a booking whose rental period has ended.
// @Tags Booking
// @Accept json
// @Produce json
// @Param spotId path int true "Ledger spot ID"
// @Param request body dto.ClaimRequest true "Claim Request"
// @Success 200 {object} response.Data[dto.TransactionRecord] "Transaction record"
// @Failure 403 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/spots/{spotId}/claim [post]
// @Security BearerAuth
func (handler *Handler) ClaimPayment(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ClaimPayment")
	defer scope.End()

	spotID, err := parseSpotID(r)
	if err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	req := dto.ClaimRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	record, err := handler.service.Claim(ctx, spotID, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to claim payment")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Payment claim transaction " + record.Status)

	response.WithJSON(w, http.StatusOK, record)
}

// QuoteSpot prices a rental without touching the ledger state.
// @Summary Quote a rental
// @Description Price a rental of the spot for a duration with optional add-ons.
// @Tags Booking
// @Accept json
// @Produce json
// @Param spotId path int true "Ledger spot ID"
// @Param request body dto.QuoteRequest true "Quote Request"
// @Success 200 {object} response.Data[dto.QuoteResponse] "Quote"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/spots/{spotId}/quote [post]
func (handler *Handler) QuoteSpot(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".QuoteSpot")
	defer scope.End()

	spotID, err := parseSpotID(r)
	if err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	req := dto.QuoteRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	quote, err := handler.service.Quote(ctx, spotID, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to quote spot")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Spot quoted")

	response.WithJSON(w, http.StatusOK, quote)
}

// GetTransaction returns the record for an idempotency key.
// @Summary Get a transaction record
// @Description Look up the status of a submitted ledger transaction by idempotency key.
// @Tags Booking
// @Accept json
// @Produce json
// @Param key path string true "Idempotency key"
// @Success 200 {object} response.Data[dto.TransactionRecord] "Transaction record"
// @Failure 404 {object} response.Error
// @Router /v1/transactions/{key} [get]
func (handler *Handler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTransaction")
	defer scope.End()

	key := chi.URLParam(r, constant.RequestParamKey)

	record, err := handler.service.GetTransaction(ctx, key)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get transaction record")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Transaction record retrieved")

	response.WithJSON(w, http.StatusOK, record)
}

func parseSpotID(r *http.Request) (uint64, error) {
	spotID, err := strconv.ParseUint(chi.URLParam(r, constant.RequestParamSpotID), 10, 64)
	if err != nil {
		return 0, failure.BadRequestFromString("spot id must be a non-negative integer") //nolint:wrapcheck
	}

	return spotID, nil
}
