package mapper

import (
	"time"

	"github.com/Apurer/go-gin-namegen-server/internal/domains/accounts/application/types"
)

// Credentials is the transport payload for register and login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Account is the transport view of the caller's own account.
type Account struct {
	ID           int64      `json:"id"`
	Email        string     `json:"email"`
	Role         string     `json:"role"`
	Tier         string     `json:"tier"`
	Credits      int        `json:"credits"`
	PremiumUntil *time.Time `json:"premiumUntil,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// Session is returned by login.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Account   Account   `json:"account"`
}

// FromProfile converts a profile into its transport representation.
func FromProfile(profile *types.Profile) Account {
	if profile == nil || profile.Account == nil {
		return Account{}
	}
	return Account{
		ID:           profile.Account.ID,
		Email:        profile.Account.Email,
		Role:         string(profile.Account.Role),
		Tier:         string(profile.Tier),
		Credits:      profile.Credits,
		PremiumUntil: profile.PremiumUntil,
		CreatedAt:    profile.Account.CreatedAt,
	}
}

func FromLogin(result *types.LoginResult) Session {
	if result == nil {
		return Session{}
	}
	return Session{Token: result.Token, ExpiresAt: result.ExpiresAt, Account: FromProfile(result.Profile)}
}
