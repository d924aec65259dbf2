package namegenserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	return NewRouterWithGinEngine(gin.New(), handleFunctions)
}

// NewRouterWithGinEngine adds the routes to an existing gin engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	router.Use(gin.Recovery(), RequestID())
	if handleFunctions.Middleware.logger != nil {
		router.Use(handleFunctions.Middleware.AccessLog())
	}
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		switch route.Method {
		case http.MethodGet:
			router.GET(route.Pattern, route.HandlerFunc)
		case http.MethodPost:
			router.POST(route.Pattern, route.HandlerFunc)
		case http.MethodPut:
			router.PUT(route.Pattern, route.HandlerFunc)
		case http.MethodPatch:
			router.PATCH(route.Pattern, route.HandlerFunc)
		case http.MethodDelete:
			router.DELETE(route.Pattern, route.HandlerFunc)
		}
	}
	return router
}

// DefaultHandleFunc answers routes whose handler was not wired.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

// ApiHandleFunctions bundles every handler group the router serves.
type ApiHandleFunctions struct {
	GenerationAPI GenerationAPI
	AuthAPI       AuthAPI
	AdminAPI      AdminAPI
	Middleware    Middleware
	// Metrics serves the Prometheus exposition; nil disables /metrics.
	Metrics http.Handler
}

func getRoutes(h ApiHandleFunctions) []Route {
	identity := h.Middleware.Identity()
	account := h.Middleware.RequireAccount()
	admin := h.Middleware.RequireAdmin()

	routes := []Route{
		{"Healthz", http.MethodGet, "/healthz", Healthz},
		{
			"GenerateNames", http.MethodPost, "/api/generate-names",
			chain(identity, h.GenerationAPI.GenerateNames),
		},
		{"ListBrandNames", http.MethodGet, "/api/brand-names", h.GenerationAPI.ListBrandNames},
		{"ListCategories", http.MethodGet, "/api/categories", h.GenerationAPI.ListCategories},
		{"Register", http.MethodPost, "/api/auth/register", h.AuthAPI.Register},
		{"Login", http.MethodPost, "/api/auth/login", h.AuthAPI.Login},
		{"Logout", http.MethodPost, "/api/auth/logout", h.AuthAPI.Logout},
		{"Me", http.MethodGet, "/api/auth/me", chain(identity, account, h.AuthAPI.Me)},
		{"GetSettings", http.MethodGet, "/api/admin/settings", chain(identity, admin, h.AdminAPI.GetSettings)},
		{"UpdateSetting", http.MethodPost, "/api/admin/settings", chain(identity, admin, h.AdminAPI.UpdateSetting)},
		{"GetStatistics", http.MethodGet, "/api/admin/statistics", chain(identity, admin, h.AdminAPI.GetStatistics)},
		{"ListActivity", http.MethodGet, "/api/admin/activity", chain(identity, admin, h.AdminAPI.ListActivity)},
		{
			"ActivatePremium", http.MethodPost, "/api/admin/accounts/:id/premium",
			chain(identity, admin, h.AdminAPI.ActivatePremium),
		},
	}
	if h.Metrics != nil {
		routes = append(routes, Route{"Metrics", http.MethodGet, "/metrics", gin.WrapH(h.Metrics)})
	}
	return routes
}

// chain runs the handlers in order, stopping once one aborts.
func chain(handlers ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, handler := range handlers {
			handler(c)
			if c.IsAborted() {
				return
			}
		}
	}
}

// Get /healthz
// Liveness probe
func Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
