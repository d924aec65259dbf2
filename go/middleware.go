package namegenserver

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	entdomain "github.com/Apurer/go-gin-namegen-server/internal/domains/entitlements/domain"
	apierrors "github.com/Apurer/go-gin-namegen-server/internal/shared/errors"
)

const (
	HeaderRequestID        = "X-Request-ID"
	HeaderGuestToken       = "x-guest-token"
	HeaderGuestGenerations = "x-guest-generations"

	contextKeyIdentity  = "namegen.identity"
	contextKeyToken     = "namegen.token"
	contextKeyRequestID = "namegen.requestId"
)

// IdentityResolver maps a bearer token to an account identity.
type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (entdomain.Identity, error)
}

// Middleware resolves callers and guards account and admin routes.
type Middleware struct {
	resolver IdentityResolver
	logger   *slog.Logger
}

func NewMiddleware(resolver IdentityResolver, logger *slog.Logger) Middleware {
	return Middleware{resolver: resolver, logger: logger}
}

// RequestID propagates or mints a request id.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(HeaderRequestID))
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(contextKeyRequestID, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// AccessLog writes one structured line per request.
func (m Middleware) AccessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		m.logger.LogAttrs(c.Request.Context(), slog.LevelInfo, "http request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.FullPath()),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", time.Since(start)),
			slog.String("requestId", c.GetString(contextKeyRequestID)),
		)
	}
}

// Identity resolves the caller. A bearer token must be valid; without one the caller is a guest
// identified by the x-guest-token header, which may be blank.
func (m Middleware) Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" || m.resolver == nil {
			c.Set(contextKeyIdentity, entdomain.Guest(c.GetHeader(HeaderGuestToken)))
			return
		}
		identity, err := m.resolver.Resolve(c.Request.Context(), token)
		if err != nil {
			respondAPIError(c, err)
			c.Abort()
			return
		}
		c.Set(contextKeyToken, token)
		c.Set(contextKeyIdentity, identity)
	}
}

// RequireAccount rejects guests.
func (m Middleware) RequireAccount() gin.HandlerFunc {
	return func(c *gin.Context) {
		if identityFrom(c).IsGuest() {
			respondProblem(c, apierrors.ErrUnauthorized.WithCode("UNAUTHENTICATED", "sign in required"))
			c.Abort()
		}
	}
}

// RequireAdmin rejects guests and non-admin accounts.
func (m Middleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := identityFrom(c)
		if identity.IsGuest() {
			respondProblem(c, apierrors.ErrUnauthorized.WithCode("UNAUTHENTICATED", "sign in required"))
			c.Abort()
			return
		}
		if !identity.IsAdmin() {
			respondProblem(c, apierrors.ErrForbidden.WithCode("ADMIN_REQUIRED", "admin access required"))
			c.Abort()
		}
	}
}

func identityFrom(c *gin.Context) entdomain.Identity {
	if value, ok := c.Get(contextKeyIdentity); ok {
		if identity, ok := value.(entdomain.Identity); ok {
			return identity
		}
	}
	return entdomain.Guest("")
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

