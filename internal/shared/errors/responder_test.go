package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errCooling = errors.New("cooling down")

func serve(t *testing.T, r *Responder, err error) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/x", func(c *gin.Context) {
		c.Header("X-Request-ID", "req-1")
		r.RespondError(c, err)
	})
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	return rec
}

func TestRespondError_MapperSetsRetryAfterAndRequestID(t *testing.T) {
	r := NewResponder(
		WithRequestIDHeader("X-Request-ID"),
		WithMappers(func(err error) (ProblemDetail, bool) {
			if !errors.Is(err, errCooling) {
				return ProblemDetail{}, false
			}
			return ErrTooManyRequests.WithCode("COOLDOWN_ACTIVE", "wait").WithExtension(ExtensionRetryAfter, 30), true
		}),
	)

	rec := serve(t, r, errCooling)

	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "30", rec.Header().Get("Retry-After"))
	assert.Equal(t, ContentTypeProblemJSON, rec.Header().Get("Content-Type"))
	var problem ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, "COOLDOWN_ACTIVE", problem.Code)
	assert.Equal(t, "/x", problem.Instance)
	assert.Equal(t, "req-1", problem.Extensions["requestId"])
}

func TestRespondError_UnknownErrorStaysGeneric(t *testing.T) {
	rec := serve(t, NewResponder(), errors.New("pq: relation \"accounts\" does not exist"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, rec.Header().Get("Retry-After"))
	assert.NotContains(t, rec.Body.String(), "relation")
	var problem ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, "INTERNAL_ERROR", problem.Code)
	assert.Nil(t, problem.Extensions)
}

func TestRespondError_ProblemPassesThroughWithBaseURI(t *testing.T) {
	rec := serve(t, NewResponder(WithBaseURI("https://namegen.example")), ErrNotFound.WithDetail("missing"))

	require.Equal(t, http.StatusNotFound, rec.Code)
	var problem ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, "https://namegen.example"+TypeNotFound, problem.Type)
}
