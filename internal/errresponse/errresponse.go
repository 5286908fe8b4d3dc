package errresponse

import (
	"errors"
	"net/http"
	"strings"

	"github.com/SergeyParamoshkin/santeplanete/internal/middleware"
	"github.com/SergeyParamoshkin/santeplanete/internal/model"
	"github.com/SergeyParamoshkin/santeplanete/internal/respond"
	"github.com/go-chi/render"
)

// ErrResponse renderer type for handling all sorts of errors.
type ErrResponse struct {
	Err            error `json:"-"` // low-level runtime error
	HTTPStatusCode int   `json:"-"` // http response status code

	StatusText string   `json:"status"`           // user-level status message
	ErrorText  string   `json:"error,omitempty"`  // application-level error message
	Fields     []string `json:"fields,omitempty"` // offending request fields, if any
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	respond.SetCORS(w.Header())
	if e.HTTPStatusCode == http.StatusMethodNotAllowed {
		w.Header().Set("Allow", strings.Join(respond.AllowedMethods, ", "))
	}
	render.Status(r, e.HTTPStatusCode)

	return nil
}

func ErrInvalidRequest(err error) render.Renderer {
	resp := &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
	}

	var vErr *model.ValidationError
	if errors.As(err, &vErr) {
		resp.Fields = vErr.Fields
	}

	return resp
}

func ErrConflict(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		StatusText:     "Conflict.",
		ErrorText:      err.Error(),
	}
}

func ErrUnauthorized(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusUnauthorized,
		StatusText:     "Unauthorized.",
		ErrorText:      err.Error(),
	}
}

// ErrInternal hides err from the client; it is logged by Write.
func ErrInternal(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusInternalServerError,
		StatusText:     "Internal server error.",
		ErrorText:      "server error while processing the article",
	}
}

func ErrRender(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusUnprocessableEntity,
		StatusText:     "Error rendering response.",
		ErrorText:      err.Error(),
	}
}

var ErrNotFound = &ErrResponse{
	HTTPStatusCode: http.StatusNotFound,
	StatusText:     "Resource not found.",
	ErrorText:      "resource not found",
}

var ErrMethodNotAllowed = &ErrResponse{
	HTTPStatusCode: http.StatusMethodNotAllowed,
	StatusText:     "Method not allowed.",
	ErrorText:      "method not allowed",
}

// FromError maps an error from the article layer onto its response.
func FromError(err error) render.Renderer {
	var (
		vErr *model.ValidationError
		aErr *model.AuthError
		cErr *model.ConflictError
		pErr *model.BodyParseError
	)

	switch {
	case errors.As(err, &aErr):
		return ErrUnauthorized(err)
	case errors.As(err, &pErr), errors.As(err, &vErr):
		return ErrInvalidRequest(err)
	case errors.As(err, &cErr):
		return ErrConflict(err)
	case errors.Is(err, model.ErrNotFound):
		return &ErrResponse{
			Err:            err,
			HTTPStatusCode: http.StatusNotFound,
			StatusText:     "Resource not found.",
			ErrorText:      err.Error(),
		}
	default:
		return ErrInternal(err)
	}
}

// Write renders err and logs it when it is a server-side failure.
func Write(w http.ResponseWriter, r *http.Request, op string, err error) {
	resp := FromError(err)

	if e, ok := resp.(*ErrResponse); ok && e.HTTPStatusCode >= http.StatusInternalServerError {
		middleware.LoggerFromContext(r.Context()).Errorw("article request failed",
			"op", op,
			"error", err,
		)
	}

	if rErr := render.Render(w, r, resp); rErr != nil {
		middleware.LoggerFromContext(r.Context()).Errorw("render error response", "error", rErr)
	}
}

// NotFound answers requests outside the API.
func NotFound(w http.ResponseWriter, r *http.Request) {
	if err := render.Render(w, r, ErrNotFound); err != nil {
		middleware.LoggerFromContext(r.Context()).Errorw(err.Error())
	}
}

// MethodNotAllowed answers methods the API does not support, listing the
// supported ones in Allow.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	if err := render.Render(w, r, ErrMethodNotAllowed); err != nil {
		middleware.LoggerFromContext(r.Context()).Errorw(err.Error())
	}
}
