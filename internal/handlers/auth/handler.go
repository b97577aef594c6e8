package auth

import (
	"net/http"
	"parkade/infras/otel"
	"parkade/internal/domains/auth/model/dto"
	"parkade/internal/domains/auth/service"
	"parkade/shared/constant"
	"parkade/shared/validator"
	"parkade/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Auth
	otel    otel.Otel
}

func New(service service.Auth, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/session", handler.CreateSession)
		r.Post("/refresh", handler.RefreshSession)
	})
}

// CreateSession issues a wallet session.
// @Summary Create a wallet session
// @Description Issue an access and refresh token pair for a wallet address.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.CreateSessionRequest true "Create Session Request"
// @Success 201 {object} response.Data[dto.SessionResponse] "Session created"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/auth/session [post]
func (handler *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateSession")
	defer scope.End()

	req := dto.CreateSessionRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.CreateSession(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create session")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Session created for wallet " + res.WalletAddress)

	response.WithJSON(w, http.StatusCreated, res)
}

// RefreshSession rotates a session token pair.
// @Summary Refresh a wallet session
// @Description Exchange a refresh token for a new token pair.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshSessionRequest true "Refresh Session Request"
// @Success 200 {object} response.Data[dto.SessionResponse] "Session refreshed"
// @Failure 401 {object} response.Error
// @Router /v1/auth/refresh [post]
func (handler *Handler) RefreshSession(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RefreshSession")
	defer scope.End()

	req := dto.RefreshSessionRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.RefreshSession(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to refresh session")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Session refreshed")

	response.WithJSON(w, http.StatusOK, res)
}
