package user

import (
	"net/http"
	"parkade/infras/otel"
	"parkade/internal/domains/user/model/dto"
	"parkade/internal/domains/user/service"
	"parkade/shared/constant"
	"parkade/shared/validator"
	"parkade/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.User
	otel    otel.Otel
}

func New(service service.User, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.Post("/", handler.UpsertUser)
		r.Get("/me", handler.GetMe)
		r.Get("/{wallet}", handler.GetUserByWallet)
	})
}

// UpsertUser creates or updates the caller's profile.
// @Summary Create or update a profile
// @Description Create or update the profile keyed by the caller's wallet address.
// @Tags User
// @Accept json
// @Produce json
// @Param request body dto.UpsertUserRequest true "Upsert User Request"
// @Success 200 {object} response.Data[dto.UserResponse] "Profile saved"
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Router /v1/users [post]
// @Security BearerAuth
func (handler *Handler) UpsertUser(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpsertUser")
	defer scope.End()

	req := dto.UpsertUserRequest{}

	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Upsert(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to upsert user")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Profile saved for wallet " + res.WalletAddress)

	response.WithJSON(w, http.StatusOK, res)
}

// GetMe returns the caller's profile.
// @Summary Get my profile
// @Description Return the profile of the authenticated wallet.
// @Tags User
// @Accept json
// @Produce json
// @Success 200 {object} response.Data[dto.UserResponse] "Profile"
// @Failure 401 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/users/me [get]
// @Security BearerAuth
func (handler *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMe")
	defer scope.End()

	res, err := handler.service.Me(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get profile")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Profile retrieved")

	response.WithJSON(w, http.StatusOK, res)
}

// GetUserByWallet returns a profile by wallet address.
// @Summary Get a profile by wallet
// @Description Return the profile for a wallet address.
// @Tags User
// @Accept json
// @Produce json
// @Param wallet path string true "Wallet address"
// @Success 200 {object} response.Data[dto.UserResponse] "Profile"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/users/{wallet} [get]
func (handler *Handler) GetUserByWallet(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetUserByWallet")
	defer scope.End()

	wallet := chi.URLParam(r, constant.RequestParamWallet)

	res, err := handler.service.GetByWallet(ctx, wallet)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get user by wallet")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Profile retrieved")

	response.WithJSON(w, http.StatusOK, res)
}
