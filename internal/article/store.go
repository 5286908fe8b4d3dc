package article

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/SergeyParamoshkin/santeplanete/internal/model"
	"github.com/SergeyParamoshkin/santeplanete/internal/storage"
)

// Accessor executes parameterized statements. *storage.DB implements it.
type Accessor interface {
	Select(ctx context.Context, op string, dest interface{}, query string, args ...interface{}) error
	Get(ctx context.Context, op string, dest interface{}, query string, args ...interface{}) error
	Exec(ctx context.Context, op string, query string, args ...interface{}) (int64, error)
}

const articleColumns = "id, title, slug, summary, category, content, image_url, published, created_at, updated_at"

// Store is the articles table.
type Store struct {
	db Accessor
}

func NewStore(db Accessor) *Store {
	return &Store{db: db}
}

// List returns articles newest first; ties on created_at fall back to the
// higher id, i.e. the later insert.
func (s *Store) List(ctx context.Context, f model.ListFilter) ([]model.Article, error) {
	var (
		where []string
		args  []interface{}
	)

	arg := func(v interface{}) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if f.Category != "" {
		where = append(where, "category = "+arg(f.Category))
	}
	if f.Published != nil {
		where = append(where, "published = "+arg(*f.Published))
	}
	if f.Query != "" {
		p := arg("%" + escapeLike(f.Query) + "%")
		where = append(where, fmt.Sprintf("(title ILIKE %[1]s OR summary ILIKE %[1]s OR content ILIKE %[1]s)", p))
	}

	var sb strings.Builder
	sb.WriteString("SELECT " + articleColumns + " FROM articles")
	if len(where) > 0 {
		sb.WriteString(" WHERE " + strings.Join(where, " AND "))
	}
	sb.WriteString(" ORDER BY created_at DESC, id DESC")
	sb.WriteString(" LIMIT " + arg(f.Limit) + " OFFSET " + arg(f.Offset))

	articles := []model.Article{}
	if err := s.db.Select(ctx, "article.list", &articles, sb.String(), args...); err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}

	return articles, nil
}

// Get returns the article with the given id.
func (s *Store) Get(ctx context.Context, id int64) (*model.Article, error) {
	a := &model.Article{}
	query := "SELECT " + articleColumns + " FROM articles WHERE id = $1"

	if err := s.db.Get(ctx, "article.get", a, query, id); err != nil {
		return nil, notFound(err, "get article")
	}

	return a, nil
}

// GetBySlug returns the article with the given slug.
func (s *Store) GetBySlug(ctx context.Context, slug string) (*model.Article, error) {
	a := &model.Article{}
	query := "SELECT " + articleColumns + " FROM articles WHERE slug = $1"

	if err := s.db.Get(ctx, "article.get_by_slug", a, query, slug); err != nil {
		return nil, notFound(err, "get article by slug")
	}

	return a, nil
}

// Create inserts a new article. A taken slug yields *model.ConflictError.
func (s *Store) Create(ctx context.Context, f model.ArticleFields) (*model.Article, error) {
	query := `
		INSERT INTO articles (title, slug, summary, category, content, image_url, published)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + articleColumns

	a := &model.Article{}
	err := s.db.Get(ctx, "article.create", a, query,
		f.Title, f.Slug, deref(f.Summary), deref(f.Category), f.Content, deref(f.ImageURL), f.Published != nil && *f.Published,
	)
	if err != nil {
		if storage.IsUniqueViolation(err) {
			return nil, &model.ConflictError{Field: "slug", Value: f.Slug}
		}
		return nil, fmt.Errorf("create article: %w", err)
	}

	return a, nil
}

// Update replaces title, slug and content of the article and keeps the
// stored value of every optional field left nil in f.
func (s *Store) Update(ctx context.Context, id int64, f model.ArticleFields) (*model.Article, error) {
	query := `
		UPDATE articles SET
			title = $2,
			slug = $3,
			content = $4,
			summary = COALESCE($5, summary),
			category = COALESCE($6, category),
			image_url = COALESCE($7, image_url),
			published = COALESCE($8, published),
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + articleColumns

	a := &model.Article{}
	err := s.db.Get(ctx, "article.update", a, query,
		id, f.Title, f.Slug, f.Content, f.Summary, f.Category, f.ImageURL, f.Published,
	)
	if err != nil {
		if storage.IsUniqueViolation(err) {
			return nil, &model.ConflictError{Field: "slug", Value: f.Slug}
		}
		return nil, notFound(err, "update article")
	}

	return a, nil
}

// Delete removes the article permanently.
func (s *Store) Delete(ctx context.Context, id int64) error {
	n, err := s.db.Exec(ctx, "article.delete", "DELETE FROM articles WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	if n == 0 {
		return model.ErrNotFound
	}

	return nil
}

// Resolve finds an article by identifier: all digits means id, anything
// else a slug.
func (s *Store) Resolve(ctx context.Context, ident string) (*model.Article, error) {
	if id, ok := parseID(ident); ok {
		return s.Get(ctx, id)
	}

	return s.GetBySlug(ctx, ident)
}

func parseID(ident string) (int64, bool) {
	id, err := strconv.ParseInt(ident, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}

	return id, true
}

func notFound(err error, msg string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return model.ErrNotFound
	}

	return fmt.Errorf("%s: %w", msg, err)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
