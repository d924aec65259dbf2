package types

import (
	"time"

	"github.com/Apurer/go-gin-namegen-server/internal/domains/accounts/domain"
	entdomain "github.com/Apurer/go-gin-namegen-server/internal/domains/entitlements/domain"
)

// Profile is an account as seen by its owner: tier and remaining credits included.
type Profile struct {
	Account *domain.Account
	Tier    entdomain.Tier
	Credits int
	// PremiumUntil is nil when the account is free or premium is open-ended.
	PremiumUntil *time.Time
}

// LoginResult carries the issued bearer token.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Profile   *Profile
}
