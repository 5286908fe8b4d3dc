package articleresponse

import (
	"net/http"

	"github.com/SergeyParamoshkin/santeplanete/internal/model"
	"github.com/SergeyParamoshkin/santeplanete/internal/respond"
	"github.com/go-chi/render"
)

// ArticleResponse is the response payload for the Article data model. It
// serializes exactly the Article fields.
type ArticleResponse struct {
	*model.Article
}

func NewArticleListResponse(articles []model.Article) []render.Renderer {
	list := []render.Renderer{}
	for i := range articles {
		list = append(list, NewArticleResponse(&articles[i]))
	}

	return list
}

func NewArticleResponse(article *model.Article) *ArticleResponse {
	return &ArticleResponse{Article: article}
}

func (rd *ArticleResponse) Render(w http.ResponseWriter, r *http.Request) error {
	respond.SetCORS(w.Header())

	return nil
}
