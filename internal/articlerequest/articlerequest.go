package articlerequest

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"regexp"
	"strings"

	"github.com/SergeyParamoshkin/santeplanete/internal/model"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

var validate = newValidator()

// newValidator reports fields under their JSON names and knows the slug
// and notblank tags.
func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}

		return name
	})

	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}

	return v
}

// ArticleRequest is the request payload for creating or updating an
// Article. Pointers distinguish absent fields from empty ones.
type ArticleRequest struct {
	ID        json.RawMessage `json:"id,omitempty"`
	Title     *string         `json:"title" validate:"required,notblank"`
	Slug      *string         `json:"slug" validate:"required,notblank,slug"`
	Summary   *string         `json:"summary"`
	Category  *string         `json:"category"`
	Content   *string         `json:"content" validate:"required,notblank"`
	ImageURL  *string         `json:"imageUrl" validate:"omitempty,http_url"`
	Published *bool           `json:"published"`

	// Password is the admin credential when it is not sent as a header.
	Password string `json:"password"`
}

// Bind validates the decoded payload: title, slug and content are required
// and non-blank, slug must be URL-safe, imageUrl must be an absolute http(s)
// URL when set. Surrounding whitespace is trimmed from every text field
// except content.
func (a *ArticleRequest) Bind(r *http.Request) error {
	trim(a.Title)
	trim(a.Slug)
	trim(a.Summary)
	trim(a.Category)
	trim(a.ImageURL)

	err := validate.Struct(a)
	if err == nil {
		return nil
	}

	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return &model.ValidationError{Message: err.Error()}
	}

	return validationError(vErrs)
}

var tagMessages = map[string]string{
	"slug":     "slug must contain only lowercase letters, digits and single hyphens",
	"http_url": "imageUrl must be an absolute http or https URL",
}

// validationError lists every failing field. Missing fields win the
// message; format failures alone get their own.
func validationError(vErrs validator.ValidationErrors) *model.ValidationError {
	out := &model.ValidationError{}

	var formats []string
	missing := false
	for _, fe := range vErrs {
		out.Fields = append(out.Fields, fe.Field())

		if msg, ok := tagMessages[fe.Tag()]; ok {
			formats = append(formats, msg)
		} else {
			missing = true
		}
	}

	if !missing {
		out.Message = strings.Join(formats, "; ")
	}

	return out
}

// Fields returns the writable article fields. Call after Bind.
func (a *ArticleRequest) Fields() model.ArticleFields {
	return model.ArticleFields{
		Title:     *a.Title,
		Slug:      *a.Slug,
		Content:   *a.Content,
		Summary:   a.Summary,
		Category:  a.Category,
		ImageURL:  a.ImageURL,
		Published: a.Published,
	}
}

// BodyID returns the id field of the body as text, accepting both JSON
// numbers and strings. It is empty when the field is absent or null.
func (a *ArticleRequest) BodyID() string {
	raw := bytes.TrimSpace(a.ID)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}

	return ""
}

func trim(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}
