package articlerequest

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/SergeyParamoshkin/santeplanete/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, body string) *ArticleRequest {
	t.Helper()

	req := &ArticleRequest{}
	require.NoError(t, json.Unmarshal([]byte(body), req))

	return req
}

func TestBind(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantFields []string
	}{
		{name: "valid", body: `{"title":"A","slug":"a","content":"x"}`},
		{name: "valid with optionals", body: `{"title":"A","slug":"sante-planete-2","content":"x","summary":"s","imageUrl":"https://img.example/a.png"}`},
		{name: "missing all", body: `{}`, wantFields: []string{"title", "slug", "content"}},
		{name: "blank title", body: `{"title":"  ","slug":"a","content":"x"}`, wantFields: []string{"title"}},
		{name: "missing content", body: `{"title":"A","slug":"a"}`, wantFields: []string{"content"}},
		{name: "bad slug", body: `{"title":"A","slug":"Hello World","content":"x"}`, wantFields: []string{"slug"}},
		{name: "bad image url", body: `{"title":"A","slug":"a","content":"x","imageUrl":"/relative.png"}`, wantFields: []string{"imageUrl"}},
		{name: "non-http image url", body: `{"title":"A","slug":"a","content":"x","imageUrl":"ftp://img.example/a.png"}`, wantFields: []string{"imageUrl"}},
		{name: "empty image url", body: `{"title":"A","slug":"a","content":"x","imageUrl":""}`},
		{name: "whitespace content", body: `{"title":"A","slug":"a","content":" \n "}`, wantFields: []string{"content"}},
		{name: "missing title and bad slug", body: `{"slug":"Bad_Slug","content":"x"}`, wantFields: []string{"title", "slug"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := decode(t, tc.body).Bind(nil)
			if tc.wantFields == nil {
				assert.NoError(t, err)
				return
			}

			var vErr *model.ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, tc.wantFields, vErr.Fields)
		})
	}
}

func TestBind_Messages(t *testing.T) {
	var vErr *model.ValidationError

	err := decode(t, `{"title":"A","slug":"Hello World","content":"x"}`).Bind(nil)
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "slug must contain only lowercase letters, digits and single hyphens", vErr.Error())

	err = decode(t, `{"title":"A","slug":"a","content":"x","imageUrl":"nope"}`).Bind(nil)
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "imageUrl must be an absolute http or https URL", vErr.Error())

	err = decode(t, `{"slug":"Hello World","content":"x"}`).Bind(nil)
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "missing required fields: title, slug", vErr.Error())
}

func TestFields(t *testing.T) {
	req := decode(t, `{"title":" A ","slug":"a","content":"x","category":"nutrition"}`)
	require.NoError(t, req.Bind(nil))

	f := req.Fields()
	assert.Equal(t, "A", f.Title)
	assert.Equal(t, "a", f.Slug)
	assert.Nil(t, f.Summary)
	require.NotNil(t, f.Category)
	assert.Equal(t, "nutrition", *f.Category)
}

func TestBodyID(t *testing.T) {
	assert.Equal(t, "12", decode(t, `{"id":12}`).BodyID())
	assert.Equal(t, "12", decode(t, `{"id":"12"}`).BodyID())
	assert.Equal(t, "", decode(t, `{"id":null}`).BodyID())
	assert.Equal(t, "", decode(t, `{}`).BodyID())
}
