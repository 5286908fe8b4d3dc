package article

import (
	"net/http"
	"strings"

	"github.com/SergeyParamoshkin/santeplanete/internal/admin"
	"github.com/SergeyParamoshkin/santeplanete/internal/articlerequest"
	"github.com/SergeyParamoshkin/santeplanete/internal/articleresponse"
	"github.com/SergeyParamoshkin/santeplanete/internal/bodyreader"
	"github.com/SergeyParamoshkin/santeplanete/internal/errresponse"
	"github.com/SergeyParamoshkin/santeplanete/internal/middleware"
	"github.com/SergeyParamoshkin/santeplanete/internal/model"
	"github.com/SergeyParamoshkin/santeplanete/internal/respond"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// API serves the article resource.
type API struct {
	store *Store
	gate  *admin.Gate
}

func NewAPI(store *Store, gate *admin.Gate) *API {
	return &API{store: store, gate: gate}
}

// ListArticles returns the articles newest first, or a single article when
// the id query parameter is set.
func (a *API) ListArticles(w http.ResponseWriter, r *http.Request) {
	if ident := strings.TrimSpace(r.URL.Query().Get("id")); ident != "" {
		a.renderOne(w, r, ident)
		return
	}

	articles, err := a.store.List(r.Context(), listFilterFrom(r.Context()))
	if err != nil {
		errresponse.Write(w, r, "article.list", err)
		return
	}

	if err := render.RenderList(w, r, articleresponse.NewArticleListResponse(articles)); err != nil {
		a.renderFailed(w, r, err)
	}
}

// GetArticle returns the article named by the path, by id or by slug.
func (a *API) GetArticle(w http.ResponseWriter, r *http.Request) {
	a.renderOne(w, r, chi.URLParam(r, "articleID"))
}

// CreateArticle persists the posted Article and returns it back to the
// client as an acknowledgement.
func (a *API) CreateArticle(w http.ResponseWriter, r *http.Request) {
	data, err := a.readWrite(r)
	if err != nil {
		errresponse.Write(w, r, "article.create", err)
		return
	}

	if err := data.Bind(r); err != nil {
		errresponse.Write(w, r, "article.create", err)
		return
	}

	article, err := a.store.Create(r.Context(), data.Fields())
	if err != nil {
		errresponse.Write(w, r, "article.create", err)
		return
	}

	middleware.LoggerFromContext(r.Context()).Infow("article created", "id", article.ID, "slug", article.Slug)

	render.Status(r, http.StatusCreated)
	if err := render.Render(w, r, articleresponse.NewArticleResponse(article)); err != nil {
		a.renderFailed(w, r, err)
	}
}

// UpdateArticle replaces title, slug and content of an existing Article and
// merges the optional fields that were sent.
func (a *API) UpdateArticle(w http.ResponseWriter, r *http.Request) {
	data, err := a.readWrite(r)
	if err != nil {
		errresponse.Write(w, r, "article.update", err)
		return
	}

	ident := identifier(r, data)
	if ident == "" {
		errresponse.Write(w, r, "article.update", errMissingIdentifier)
		return
	}

	if err := data.Bind(r); err != nil {
		errresponse.Write(w, r, "article.update", err)
		return
	}

	id, err := a.resolveID(r, ident)
	if err != nil {
		errresponse.Write(w, r, "article.update", err)
		return
	}

	article, err := a.store.Update(r.Context(), id, data.Fields())
	if err != nil {
		errresponse.Write(w, r, "article.update", err)
		return
	}

	if err := render.Render(w, r, articleresponse.NewArticleResponse(article)); err != nil {
		a.renderFailed(w, r, err)
	}
}

// DeleteArticle removes an existing Article from our persistent store.
func (a *API) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	data, err := a.readWrite(r)
	if err != nil {
		errresponse.Write(w, r, "article.delete", err)
		return
	}

	ident := identifier(r, data)
	if ident == "" {
		errresponse.Write(w, r, "article.delete", errMissingIdentifier)
		return
	}

	id, err := a.resolveID(r, ident)
	if err != nil {
		errresponse.Write(w, r, "article.delete", err)
		return
	}

	if err := a.store.Delete(r.Context(), id); err != nil {
		errresponse.Write(w, r, "article.delete", err)
		return
	}

	middleware.LoggerFromContext(r.Context()).Infow("article deleted", "id", id)

	respond.JSON(w, r, http.StatusOK, respond.Success{Success: true})
}

// readWrite decodes a write body and checks the admin credential. A header
// credential is checked before the body is touched, and an unreadable body
// without a valid credential is reported as 401.
func (a *API) readWrite(r *http.Request) (*articlerequest.ArticleRequest, error) {
	if r.Header.Get(admin.HeaderPassword) != "" {
		if err := a.gate.Authorize(r, ""); err != nil {
			return nil, err
		}
	}

	data := &articlerequest.ArticleRequest{}
	if err := bodyreader.Read(r, data); err != nil {
		if authErr := a.gate.Authorize(r, ""); authErr != nil {
			return nil, authErr
		}

		return nil, err
	}

	if err := a.gate.Authorize(r, data.Password); err != nil {
		return nil, err
	}

	return data, nil
}

var errMissingIdentifier = &model.ValidationError{
	Fields:  []string{"id"},
	Message: "article identifier is required",
}

// identifier resolves which article a write targets: the path segment
// first, then the id query parameter, then the id field of the body.
func identifier(r *http.Request, data *articlerequest.ArticleRequest) string {
	if ident := strings.TrimSpace(chi.URLParam(r, "articleID")); ident != "" {
		return ident
	}
	if ident := strings.TrimSpace(r.URL.Query().Get("id")); ident != "" {
		return ident
	}

	return data.BodyID()
}

// resolveID turns an identifier into a row id, looking slugs up first.
func (a *API) resolveID(r *http.Request, ident string) (int64, error) {
	if id, ok := parseID(ident); ok {
		return id, nil
	}

	article, err := a.store.GetBySlug(r.Context(), ident)
	if err != nil {
		return 0, err
	}

	return article.ID, nil
}

func (a *API) renderOne(w http.ResponseWriter, r *http.Request, ident string) {
	article, err := a.store.Resolve(r.Context(), ident)
	if err != nil {
		errresponse.Write(w, r, "article.get", err)
		return
	}

	if err := render.Render(w, r, articleresponse.NewArticleResponse(article)); err != nil {
		a.renderFailed(w, r, err)
	}
}

func (a *API) renderFailed(w http.ResponseWriter, r *http.Request, err error) {
	if rErr := render.Render(w, r, errresponse.ErrRender(err)); rErr != nil {
		middleware.LoggerFromContext(r.Context()).Errorw(rErr.Error())
	}
}
