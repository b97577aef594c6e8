package dto

type CreateSessionRequest struct {
	WalletAddress string `json:"wallet_address" validate:"required,ethaddr"`
}

type SessionResponse struct {
	WalletAddress string `json:"wallet_address"`
	Role          string `json:"role"`
	AccessToken   string `json:"access_token"`
	RefreshToken  string `json:"refresh_token"`
	ExpiresIn     int64  `json:"expires_in"`
}

type RefreshSessionRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}
