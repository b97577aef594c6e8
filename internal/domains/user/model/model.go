package model

import "time"

const (
	CollectionName = "users"
	EntityName     = "user"
)

// Mongo field names used in filters and partial updates.
const (
	FieldWalletAddress = "wallet_address"
	FieldUsername      = "username"
	FieldEmail         = "email"
	FieldRole          = "role"
	FieldCreatedAt     = "created_at"
	FieldModifiedAt    = "modified_at"
)

// User is a wallet-keyed profile. The wallet address is the identity; the
// rest is display metadata.
type User struct {
	WalletAddress string    `bson:"wallet_address" json:"wallet_address"`
	Username      string    `bson:"username" json:"username"`
	Email         string    `bson:"email,omitempty" json:"email,omitempty"`
	Role          string    `bson:"role" json:"role"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
	ModifiedAt    time.Time `bson:"modified_at" json:"modified_at"`
}
