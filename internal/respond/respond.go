// Package respond writes the JSON responses of the articles API together
// with its fixed cross-origin headers.
package respond

import (
	"net/http"
	"strings"

	"github.com/go-chi/render"
)

// AllowedMethods is the full set of methods the articles API answers.
var AllowedMethods = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodDelete,
	http.MethodOptions,
}

// Header names clients may send cross-origin.
var AllowedHeaders = []string{"Content-Type", "X-Admin-Password"}

// SetCORS applies the cross-origin header set.
func SetCORS(h http.Header) {
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Headers", strings.Join(AllowedHeaders, ", "))
	h.Set("Access-Control-Allow-Methods", strings.Join(AllowedMethods, ", "))
}

// CORS sets the cross-origin headers on every response and answers
// preflight requests with 204 and an empty body.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		SetCORS(w.Header())

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// JSON writes payload as the response body with the given status. It must
// be called at most once per response.
func JSON(w http.ResponseWriter, r *http.Request, status int, payload interface{}) {
	SetCORS(w.Header())
	render.Status(r, status)
	render.JSON(w, r, payload)
}

// Success is the body of a successful delete.
type Success struct {
	Success bool `json:"success"`
}
