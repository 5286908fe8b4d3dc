package article

import (
	"net/http"

	"github.com/SergeyParamoshkin/santeplanete/internal/bodyreader"
	"github.com/SergeyParamoshkin/santeplanete/internal/errresponse"
	"github.com/SergeyParamoshkin/santeplanete/internal/respond"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// Prefix is where the article resource is mounted.
const Prefix = "/api/articles"

// Routes returns the article resource router, to be mounted at Prefix.
// Collection writes (PUT, DELETE) take the identifier from the id query
// parameter or the body.
func (a *API) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(respond.CORS)
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.NotFound(errresponse.NotFound)
	r.MethodNotAllowed(errresponse.MethodNotAllowed)

	r.With(Paginate).Get("/", a.ListArticles) // GET /api/articles
	r.Get("/{articleID}", a.GetArticle)       // GET /api/articles/123 or /api/articles/some-slug

	r.Group(func(r chi.Router) {
		r.Use(bodyreader.Buffer)

		r.Post("/", a.CreateArticle)              // POST /api/articles
		r.Put("/", a.UpdateArticle)               // PUT /api/articles?id=123
		r.Delete("/", a.DeleteArticle)            // DELETE /api/articles?id=123
		r.Put("/{articleID}", a.UpdateArticle)    // PUT /api/articles/123
		r.Delete("/{articleID}", a.DeleteArticle) // DELETE /api/articles/123
	})

	return r
}
