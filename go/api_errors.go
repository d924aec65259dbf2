package namegenserver

import (
	"errors"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"

	accountsapp "github.com/Apurer/go-gin-namegen-server/internal/domains/accounts/application"
	accountsports "github.com/Apurer/go-gin-namegen-server/internal/domains/accounts/ports"
	activityapp "github.com/Apurer/go-gin-namegen-server/internal/domains/activity/application"
	entdomain "github.com/Apurer/go-gin-namegen-server/internal/domains/entitlements/domain"
	generationapp "github.com/Apurer/go-gin-namegen-server/internal/domains/generation/application"
	settingsapp "github.com/Apurer/go-gin-namegen-server/internal/domains/settings/application"
	apierrors "github.com/Apurer/go-gin-namegen-server/internal/shared/errors"
)

var responder = apierrors.NewResponder(
	apierrors.WithRequestIDHeader(HeaderRequestID),
	apierrors.WithMappers(
		mapEntitlementError,
		mapValidationError,
		mapGenerationError,
		mapAccountError,
	),
)

// respondProblem maps a ProblemDetail through the shared responder.
func respondProblem(c *gin.Context, problem apierrors.ProblemDetail) {
	responder.Respond(c, problem)
}

// respondError keeps transport-level failures such as malformed JSON on RFC 7807 responses.
func respondError(c *gin.Context, status int, err error) {
	if err == nil {
		return
	}
	var problem apierrors.ProblemDetail
	switch status {
	case http.StatusBadRequest:
		problem = apierrors.ErrBadRequest.WithDetail(err.Error()).WithCode("BAD_REQUEST", "request could not be parsed")
	case http.StatusNotFound:
		problem = apierrors.ErrNotFound.WithDetail(err.Error())
	case http.StatusUnauthorized:
		problem = apierrors.ErrUnauthorized.WithDetail(err.Error())
	case http.StatusForbidden:
		problem = apierrors.ErrForbidden.WithDetail(err.Error())
	default:
		problem = apierrors.ErrInternal.WithCode("INTERNAL_ERROR", "internal server error")
	}
	respondProblem(c, problem)
}

// respondAPIError maps application errors to problems.
func respondAPIError(c *gin.Context, err error) {
	responder.RespondError(c, err)
}

func mapEntitlementError(err error) (apierrors.ProblemDetail, bool) {
	var denied *entdomain.DeniedError
	if !errors.As(err, &denied) {
		return apierrors.ProblemDetail{}, false
	}
	code := string(denied.Reason)
	switch denied.Reason {
	case entdomain.ReasonGuestTokenMissing:
		return apierrors.ErrUnauthorized.WithCode(code, "guest token is required"), true
	case entdomain.ReasonGuestLimitReached:
		return apierrors.ErrForbidden.WithCode(code, "guest generation limit reached, sign up to continue"), true
	case entdomain.ReasonUpgradeRequired:
		return apierrors.ErrForbidden.WithCode(code, "no generations left, upgrade to premium"), true
	case entdomain.ReasonCooldownActive:
		seconds := int(math.Ceil(denied.RetryAfter.Seconds()))
		return apierrors.ErrTooManyRequests.
			WithCode(code, "please wait before generating again").
			WithExtension(apierrors.ExtensionRetryAfter, seconds), true
	default:
		return apierrors.ErrForbidden.WithCode(code, "generation not permitted"), true
	}
}

func mapValidationError(err error) (apierrors.ProblemDetail, bool) {
	if errors.Is(err, generationapp.ErrInvalidInput) ||
		errors.Is(err, accountsapp.ErrInvalidInput) ||
		errors.Is(err, settingsapp.ErrInvalidInput) ||
		errors.Is(err, activityapp.ErrInvalidInput) {
		return apierrors.ErrValidation.WithDetail(err.Error()).WithCode("VALIDATION_ERROR", "request is invalid"), true
	}
	return apierrors.ProblemDetail{}, false
}

// mapGenerationError never exposes upstream or storage text to clients.
func mapGenerationError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, generationapp.ErrGenerationFailed):
		return apierrors.ErrGenerationFailed.WithCode("GENERATION_FAILED", "failed to generate brand names"), true
	case errors.Is(err, generationapp.ErrPersistence):
		return apierrors.ErrInternal.WithCode("INTERNAL_ERROR", "internal server error"), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapAccountError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, accountsapp.ErrAuthentication):
		return apierrors.ErrUnauthorized.WithCode("INVALID_CREDENTIALS", "invalid email or password"), true
	case errors.Is(err, accountsapp.ErrUnauthenticated):
		return apierrors.ErrUnauthorized.WithCode("UNAUTHENTICATED", "session is missing or expired"), true
	case errors.Is(err, accountsapp.ErrConflict):
		return apierrors.ErrConflict.WithCode("EMAIL_TAKEN", "an account with this email already exists"), true
	case errors.Is(err, accountsports.ErrNotFound):
		return apierrors.ErrNotFound.WithCode("ACCOUNT_NOT_FOUND", "account not found"), true
	}
	return apierrors.ProblemDetail{}, false
}
