package dto

import (
	"parkade/internal/domains/user/model"
	"parkade/shared/ethaddr"
	"parkade/shared/timezone"
)

type UpsertUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=32"`
	Email    string `json:"email" validate:"omitempty,email"`
	Role     string `json:"role" validate:"required,oneof=driver host both"`
}

func (u *UpsertUserRequest) ToModel(wallet string) model.User {
	now := timezone.Now()

	return model.User{
		WalletAddress: ethaddr.Normalize(wallet),
		Username:      u.Username,
		Email:         u.Email,
		Role:          u.Role,
		CreatedAt:     now,
		ModifiedAt:    now,
	}
}

type UserResponse struct {
	WalletAddress string `json:"wallet_address"`
	Username      string `json:"username"`
	Email         string `json:"email,omitempty"`
	Role          string `json:"role"`
}

func (u *UserResponse) FromModel(user model.User) {
	u.WalletAddress = user.WalletAddress
	u.Username = user.Username
	u.Email = user.Email
	u.Role = user.Role
}
