package errors

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ContentTypeProblemJSON is the media type for Problem Details responses.
const ContentTypeProblemJSON = "application/problem+json"

// ExtensionRetryAfter carries the wait in whole seconds; the responder mirrors it into Retry-After.
const ExtensionRetryAfter = "retryAfterSeconds"

// ErrorMapper maps a domain or application error to a problem when it recognises it.
type ErrorMapper func(err error) (ProblemDetail, bool)

// Responder writes Problem Details, trying each domain mapper before falling back to a generic 500.
type Responder struct {
	baseURI         string
	requestIDHeader string
	mappers         []ErrorMapper
}

// ResponderOption customises a Responder.
type ResponderOption func(*Responder)

// WithBaseURI prefixes relative problem type URIs.
func WithBaseURI(uri string) ResponderOption {
	return func(r *Responder) { r.baseURI = uri }
}

// WithRequestIDHeader copies the named response header into every problem as requestId.
func WithRequestIDHeader(header string) ResponderOption {
	return func(r *Responder) { r.requestIDHeader = header }
}

// WithMappers appends error mappers; earlier mappers win.
func WithMappers(mappers ...ErrorMapper) ResponderOption {
	return func(r *Responder) { r.mappers = append(r.mappers, mappers...) }
}

func NewResponder(opts ...ResponderOption) *Responder {
	r := &Responder{}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Respond sends a ProblemDetail with the problem+json content type.
func (r *Responder) Respond(c *gin.Context, problem ProblemDetail) {
	if r.baseURI != "" && len(problem.Type) > 0 && problem.Type[0] == '/' {
		problem.Type = r.baseURI + problem.Type
	}
	if problem.Instance == "" {
		problem.Instance = c.Request.URL.Path
	}
	if r.requestIDHeader != "" {
		if id := c.Writer.Header().Get(r.requestIDHeader); id != "" {
			problem = problem.WithExtension("requestId", id)
		}
	}
	if seconds, ok := problem.Extensions[ExtensionRetryAfter].(int); ok && seconds > 0 {
		c.Header("Retry-After", strconv.Itoa(seconds))
	}
	c.Header("Content-Type", ContentTypeProblemJSON)
	c.JSON(problem.Status, problem)
}

// RespondError maps err through the registered mappers. Unknown errors are attached to the
// gin context for the access log and answered with a generic 500, since they may carry
// driver or vendor text.
func (r *Responder) RespondError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	for _, mapper := range r.mappers {
		if problem, ok := mapper(err); ok {
			r.Respond(c, problem)
			return
		}
	}
	var problem ProblemDetail
	if errors.As(err, &problem) {
		r.Respond(c, problem)
		return
	}
	_ = c.Error(err)
	r.Respond(c, ErrInternal.WithCode("INTERNAL_ERROR", "internal server error"))
}
