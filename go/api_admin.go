package namegenserver

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	accounthttpmapper "github.com/Apurer/go-gin-namegen-server/internal/domains/accounts/adapters/http/mapper"
	accountports "github.com/Apurer/go-gin-namegen-server/internal/domains/accounts/ports"
	activitydomain "github.com/Apurer/go-gin-namegen-server/internal/domains/activity/domain"
	adminports "github.com/Apurer/go-gin-namegen-server/internal/domains/admin/ports"
	settingsdomain "github.com/Apurer/go-gin-namegen-server/internal/domains/settings/domain"
	apierrors "github.com/Apurer/go-gin-namegen-server/internal/shared/errors"
)

// AdminAPI serves the admin dashboard endpoints.
type AdminAPI struct {
	service  adminports.Service
	accounts accountports.Service
}

// NewAdminAPI wires dependencies.
func NewAdminAPI(service adminports.Service, accounts accountports.Service) AdminAPI {
	return AdminAPI{service: service, accounts: accounts}
}

// Get /api/admin/settings
// List system settings
func (api *AdminAPI) GetSettings(c *gin.Context) {
	settings, err := api.service.Settings(c.Request.Context())
	if err != nil {
		respondAPIError(c, err)
		return
	}
	out := make([]Setting, 0, len(settings))
	for _, s := range settings {
		out = append(out, toSetting(s))
	}
	c.JSON(http.StatusOK, out)
}

// Post /api/admin/settings
// Update one system setting
func (api *AdminAPI) UpdateSetting(c *gin.Context) {
	var payload SettingUpdate
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	saved, err := api.service.UpdateSetting(c.Request.Context(), identityFrom(c).AccountID(), payload.Key, payload.Value)
	if err != nil {
		respondAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSetting(saved))
}

// Get /api/admin/statistics
// Users, generations, and active users over the last 30 days
func (api *AdminAPI) GetStatistics(c *gin.Context) {
	stats, err := api.service.Statistics(c.Request.Context())
	if err != nil {
		respondAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, Statistics{
		TotalUsers:       stats.TotalUsers,
		TotalGenerations: stats.TotalGenerations,
		ActiveUsers:      stats.ActiveUsers,
	})
}

// Get /api/admin/activity
// Activity log, newest first
func (api *AdminAPI) ListActivity(c *gin.Context) {
	limit := 0
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondProblem(c, apierrors.ErrValidation.WithDetail("limit must be a non-negative integer").WithCode("VALIDATION_ERROR", "request is invalid"))
			return
		}
		limit = n
	}
	entries, err := api.service.Activity(c.Request.Context(), limit)
	if err != nil {
		respondAPIError(c, err)
		return
	}
	out := make([]ActivityLog, 0, len(entries))
	for _, e := range entries {
		out = append(out, toActivityLog(e))
	}
	c.JSON(http.StatusOK, out)
}

// Post /api/admin/accounts/{id}/premium
// Grant premium to an account
func (api *AdminAPI) ActivatePremium(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, errors.New("account id must be a positive integer"))
		return
	}
	var payload PremiumActivation
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&payload); err != nil {
			respondError(c, http.StatusBadRequest, err)
			return
		}
	}
	if payload.Days < 0 {
		respondProblem(c, apierrors.ErrValidation.WithDetail("days must not be negative").WithCode("VALIDATION_ERROR", "request is invalid"))
		return
	}
	profile, err := api.accounts.ActivatePremium(c.Request.Context(), id, time.Duration(payload.Days)*24*time.Hour)
	if err != nil {
		respondAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, accounthttpmapper.FromProfile(profile))
}

func toSetting(s settingsdomain.Setting) Setting {
	out := Setting{ID: s.ID, Key: string(s.Key), Value: s.Value}
	if !s.UpdatedAt.IsZero() {
		updated := s.UpdatedAt
		out.UpdatedAt = &updated
	}
	return out
}

func toActivityLog(e *activitydomain.Entry) ActivityLog {
	return ActivityLog{ID: e.ID, UserID: e.AccountID, Action: e.Action, Metadata: e.Metadata, CreatedAt: e.CreatedAt}
}
