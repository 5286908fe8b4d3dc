// Package bodyreader turns a request body into a decoded JSON value in one
// step: the whole stream is buffered first, then decoded, so callers see
// either the complete payload or a *model.BodyParseError.
package bodyreader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/SergeyParamoshkin/santeplanete/internal/model"
	"github.com/go-chi/render"
)

// MaxBodyBytes bounds how much of a request body is buffered.
const MaxBodyBytes = 1 << 20

var errTooLarge = fmt.Errorf("body exceeds %d bytes", MaxBodyBytes)

type parsedCtxKey struct{}

// WithParsed stores a body that an upstream middleware already decoded.
// Read uses it instead of the request stream.
func WithParsed(ctx context.Context, body interface{}) context.Context {
	return context.WithValue(ctx, parsedCtxKey{}, body)
}

// readFailure carries a buffering error from Buffer to Read.
type readFailure struct {
	err error
}

// Buffer consumes the whole request body before the handler runs and hands
// it to Read through the context. Buffering failures are reported by Read.
func Buffer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var parsed interface{}

		payload, err := buffer(r.Body)
		if err != nil {
			parsed = readFailure{err: err}
		} else {
			parsed = payload
		}
		r.Body = http.NoBody

		next.ServeHTTP(w, r.WithContext(WithParsed(r.Context(), parsed)))
	})
}

// Read decodes the request body into v. An empty body leaves v untouched,
// the equivalent of an empty JSON object.
func Read(r *http.Request, v interface{}) error {
	if parsed := r.Context().Value(parsedCtxKey{}); parsed != nil {
		return fromParsed(parsed, v)
	}

	payload, err := buffer(r.Body)
	if err != nil {
		return &model.BodyParseError{Err: err}
	}

	if len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}

	if err := render.DecodeJSON(bytes.NewReader(payload), v); err != nil {
		return &model.BodyParseError{Err: err}
	}

	return nil
}

// buffer consumes body to the end.
func buffer(body io.ReadCloser) ([]byte, error) {
	if body == nil || body == http.NoBody {
		return nil, nil
	}
	defer body.Close()

	payload, err := io.ReadAll(io.LimitReader(body, MaxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(payload) > MaxBodyBytes {
		return nil, errTooLarge
	}

	return payload, nil
}

func fromParsed(parsed interface{}, v interface{}) error {
	if f, ok := parsed.(readFailure); ok {
		return &model.BodyParseError{Err: f.err}
	}

	if raw, ok := parsed.([]byte); ok {
		if len(bytes.TrimSpace(raw)) == 0 {
			return nil
		}
		if err := json.Unmarshal(raw, v); err != nil {
			return &model.BodyParseError{Err: err}
		}

		return nil
	}

	raw, err := json.Marshal(parsed)
	if err != nil {
		return &model.BodyParseError{Err: err}
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return &model.BodyParseError{Err: err}
	}

	return nil
}
