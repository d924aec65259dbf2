package namegenserver

import "time"

// Setting is one runtime-tunable value. ID is zero for keys still at their default.
type Setting struct {
	ID        int64      `json:"id"`
	Key       string     `json:"key"`
	Value     int        `json:"value"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// SettingUpdate is the body of POST /api/admin/settings. Value may be a number or a numeric string.
type SettingUpdate struct {
	Key   string `json:"key" binding:"required"`
	Value any    `json:"value"`
}

type Statistics struct {
	TotalUsers       int64 `json:"totalUsers"`
	TotalGenerations int64 `json:"totalGenerations"`
	ActiveUsers      int64 `json:"activeUsers"`
}

type ActivityLog struct {
	ID        int64             `json:"id"`
	UserID    *int64            `json:"userId"`
	Action    string            `json:"action"`
	Metadata  map[string]string `json:"metadata"`
	CreatedAt time.Time         `json:"createdAt"`
}

// PremiumActivation is the body of POST /api/admin/accounts/{id}/premium. Zero days never expires.
type PremiumActivation struct {
	Days int `json:"days"`
}
