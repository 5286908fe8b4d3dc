package article

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/SergeyParamoshkin/santeplanete/internal/errresponse"
	"github.com/SergeyParamoshkin/santeplanete/internal/model"
)

// Listing bounds.
const (
	DefaultLimit = 50
	MaxLimit     = 100
)

type ctxKey int

const ctxKeyListFilter ctxKey = iota

// Paginate reads the listing query parameters (limit, offset, category,
// published, q) and hands the resulting filter down the chain. Bad values
// stop the request with a 400. A request naming an id is a single-article
// read and passes through untouched.
func Paginate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.TrimSpace(r.URL.Query().Get("id")) != "" {
			next.ServeHTTP(w, r)
			return
		}

		f, err := parseListFilter(r)
		if err != nil {
			errresponse.Write(w, r, "article.list", err)
			return
		}

		ctx := context.WithValue(r.Context(), ctxKeyListFilter, f)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func listFilterFrom(ctx context.Context) model.ListFilter {
	if f, ok := ctx.Value(ctxKeyListFilter).(model.ListFilter); ok {
		return f
	}

	return model.ListFilter{Limit: DefaultLimit}
}

func parseListFilter(r *http.Request) (model.ListFilter, error) {
	q := r.URL.Query()
	f := model.ListFilter{
		Limit:    DefaultLimit,
		Category: strings.TrimSpace(q.Get("category")),
		Query:    strings.TrimSpace(q.Get("q")),
	}

	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > MaxLimit {
			return f, &model.ValidationError{
				Fields:  []string{"limit"},
				Message: "limit must be an integer between 1 and " + strconv.Itoa(MaxLimit),
			}
		}
		f.Limit = n
	}

	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return f, &model.ValidationError{Fields: []string{"offset"}, Message: "offset must be a non-negative integer"}
		}
		f.Offset = n
	}

	if v := q.Get("published"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return f, &model.ValidationError{Fields: []string{"published"}, Message: "published must be true or false"}
		}
		f.Published = &b
	}

	return f, nil
}
