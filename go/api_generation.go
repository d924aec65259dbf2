package namegenserver

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	generationhttpmapper "github.com/Apurer/go-gin-namegen-server/internal/domains/generation/adapters/http/mapper"
	generationports "github.com/Apurer/go-gin-namegen-server/internal/domains/generation/ports"
	apierrors "github.com/Apurer/go-gin-namegen-server/internal/shared/errors"
)

var errInvalidGuestCount = errors.New("x-guest-generations must be a non-negative integer")

// GenerationAPI serves brand-name generation, history, and the category catalog.
type GenerationAPI struct {
	service generationports.Service
}

// NewGenerationAPI wires dependencies.
func NewGenerationAPI(service generationports.Service) GenerationAPI {
	return GenerationAPI{service: service}
}

// Post /api/generate-names
// Generate brand names for keywords and a category
func (api *GenerationAPI) GenerateNames(c *gin.Context) {
	var payload generationhttpmapper.GenerateRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	identity := identityFrom(c)
	priorCount := 0
	// Without a token the gate answers GUEST_TOKEN_MISSING whatever the count header says.
	if identity.IsGuest() && identity.GuestToken() != "" {
		count, err := parseGuestCount(c.GetHeader(HeaderGuestGenerations))
		if err != nil {
			respondProblem(c, apierrors.ErrValidation.WithDetail(err.Error()).WithCode("INVALID_GUEST_COUNT", "invalid guest generation count"))
			return
		}
		priorCount = count
	}
	result, err := api.service.Generate(c.Request.Context(), identity, priorCount, generationhttpmapper.ToGenerateInput(payload))
	if err != nil {
		respondAPIError(c, err)
		return
	}
	if result.IsGuest {
		c.Header(HeaderGuestGenerations, strconv.Itoa(result.GuestCount))
	}
	c.JSON(http.StatusOK, generationhttpmapper.FromResult(result))
}

// Get /api/brand-names
// List stored generations, newest first
func (api *GenerationAPI) ListBrandNames(c *gin.Context) {
	limit := 0
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondProblem(c, apierrors.ErrValidation.WithDetail("limit must be a non-negative integer").WithCode("VALIDATION_ERROR", "request is invalid"))
			return
		}
		limit = n
	}
	records, err := api.service.History(c.Request.Context(), limit)
	if err != nil {
		respondAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, generationhttpmapper.FromRecords(records))
}

// Get /api/categories
// Search the category catalog
func (api *GenerationAPI) ListCategories(c *gin.Context) {
	language := c.Query("language")
	categories, err := api.service.Categories(c.Request.Context(), c.Query("q"), language)
	if err != nil {
		respondAPIError(c, err)
		return
	}
	c.JSON(http.StatusOK, generationhttpmapper.FromCategories(categories, language))
}

// parseGuestCount treats a missing header as zero.
func parseGuestCount(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errInvalidGuestCount
	}
	return n, nil
}
