package marketplace

import (
	"net/http"
	"strconv"

	"parkade/infras/otel"
	"parkade/internal/domains/spot/service"
	"parkade/shared/constant"
	"parkade/shared/failure"
	"parkade/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Spot
	otel    otel.Otel
}

func New(service service.Spot, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(r chi.Router) {
	r.Route("/marketplace", func(r chi.Router) {
		r.Get("/", handler.GetMarketplace)
		r.Get("/{spotId}", handler.GetSpot)
	})
}

// GetMarketplace returns the reconciled marketplace view.
// @Summary Get the marketplace view
// @Description Merge ledger spots with listing metadata into available and owned buckets.
// @Tags Marketplace
// @Accept json
// @Produce json
// @Success 200 {object} response.Data[dto.MarketplaceResponse] "Marketplace view"
// @Failure 500 {object} response.Error
// @Router /v1/marketplace [get]
func (handler *Handler) GetMarketplace(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMarketplace")
	defer scope.End()

	// Anonymous callers get an empty owned bucket.
	caller, _ := ctx.Value(constant.ContextKeyWallet).(string)

	view, err := handler.service.MarketplaceView(ctx, caller)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to build marketplace view")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Marketplace view built")

	response.WithJSON(w, http.StatusOK, view)
}

// GetSpot returns one merged spot.
// @Summary Get a spot by ledger id
// @Description Return the ledger state of a spot enriched with its listing metadata.
// @Tags Marketplace
// @Accept json
// @Produce json
// @Param spotId path int true "Ledger spot ID"
// @Success 200 {object} response.Data[dto.SpotView] "Spot details"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/marketplace/{spotId} [get]
func (handler *Handler) GetSpot(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetSpot")
	defer scope.End()

	spotID, err := strconv.ParseUint(chi.URLParam(r, constant.RequestParamSpotID), 10, 64)
	if err != nil {
		scope.TraceError(err)

		response.WithError(w, failure.BadRequestFromString("spot id must be a non-negative integer"))

		return
	}

	spot, err := handler.service.Get(ctx, spotID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get spot")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Spot retrieved")

	response.WithJSON(w, http.StatusOK, spot)
}
