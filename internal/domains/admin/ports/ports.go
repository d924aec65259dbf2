package ports

import (
	"context"
	"time"

	activitydomain "github.com/Apurer/go-gin-namegen-server/internal/domains/activity/domain"
	"github.com/Apurer/go-gin-namegen-server/internal/domains/admin/application/types"
	settingsdomain "github.com/Apurer/go-gin-namegen-server/internal/domains/settings/domain"
)

// Counter reports a table size, e.g. accounts or stored generations.
type Counter interface {
	Count(ctx context.Context) (int64, error)
}

// ActivityReader is the activity service surface admin needs.
type ActivityReader interface {
	List(ctx context.Context, limit int) ([]*activitydomain.Entry, error)
	ActiveAccounts(ctx context.Context, window time.Duration) (int64, error)
}

// SettingsManager is the settings service surface admin needs.
type SettingsManager interface {
	List(ctx context.Context) ([]settingsdomain.Setting, error)
	Update(ctx context.Context, actorID int64, key string, value any) (settingsdomain.Setting, error)
}

// Service exposes the admin dashboard use cases.
type Service interface {
	Statistics(ctx context.Context) (types.Statistics, error)
	Settings(ctx context.Context) ([]settingsdomain.Setting, error)
	UpdateSetting(ctx context.Context, actorID int64, key string, value any) (settingsdomain.Setting, error)
	Activity(ctx context.Context, limit int) ([]*activitydomain.Entry, error)
}
