package domain

import (
	"strconv"
	"strings"
)

// Tier is the billing tier of an authenticated account.
type Tier string

const (
	TierFree    Tier = "free"
	TierPremium Tier = "premium"
)

// Role controls access to administrative operations.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Identity is who is asking for a generation: a guest or an authenticated account.
type Identity struct {
	guestToken string
	accountID  int64
	tier       Tier
	role       Role
	anonymous  bool
}

// Guest builds an identity for an unauthenticated caller. The token may be blank.
func Guest(token string) Identity {
	return Identity{guestToken: strings.TrimSpace(token), anonymous: true}
}

// Account builds an identity for an authenticated caller.
func Account(id int64, tier Tier, role Role) Identity {
	if tier != TierPremium {
		tier = TierFree
	}
	if role != RoleAdmin {
		role = RoleUser
	}
	return Identity{accountID: id, tier: tier, role: role}
}

func (i Identity) IsGuest() bool { return i.anonymous }
func (i Identity) GuestToken() string { return i.guestToken }
func (i Identity) AccountID() int64 { return i.accountID }
func (i Identity) Tier() Tier { return i.tier }
func (i Identity) Role() Role { return i.role }

// IsAdmin reports whether the identity may use admin endpoints.
func (i Identity) IsAdmin() bool { return !i.anonymous && i.role == RoleAdmin }

// Key is a stable string for per-caller bookkeeping such as cooldowns.
func (i Identity) Key() string {
	if i.anonymous {
		return "guest:" + i.guestToken
	}
	return "account:" + strconv.FormatInt(i.accountID, 10)
}
