package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBackend(t *testing.T, handler http.HandlerFunc) *Backend {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewBackend(New(srv.URL+"/", "JSESSIONID", 2*time.Second))
}

func TestForwardsSessionCookie(t *testing.T) {
	var seen string
	b := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("JSESSIONID"); err == nil {
			seen = c.Value
		}
		w.Write([]byte(`[]`))
	})

	_, err := b.Neighborhoods.List(WithSessionCookie(context.Background(), "abc"))
	require.NoError(t, err)
	assert.Equal(t, "abc", seen)

	seen = ""
	_, err = b.Neighborhoods.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "", seen)
}

func TestResourceCRUD(t *testing.T) {
	var lastMethod, lastPath string
	var lastBody map[string]any

	b := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		lastMethod, lastPath = r.Method, r.URL.Path
		lastBody = nil
		if r.Body != nil {
			json.NewDecoder(r.Body).Decode(&lastBody)
		}

		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/tipos-imoveis":
			w.Write([]byte(`[{"id":1,"nome":"Casa","descricao":"Térrea"},{"id":2,"nome":"Apartamento"}]`))
		case r.Method == http.MethodGet:
			w.Write([]byte(`{"id":2,"nome":"Apartamento"}`))
		case r.Method == http.MethodPost:
			w.WriteHeader(http.StatusCreated)
		case r.Method == http.MethodPut:
			w.Write([]byte(`{"id":2,"nome":"Apto"}`))
		case r.Method == http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		}
	})
	ctx := context.Background()

	types, err := b.PropertyTypes.List(ctx)
	require.NoError(t, err)
	require.Len(t, types, 2)
	assert.Equal(t, "Térrea", types[0].Description)

	got, err := b.PropertyTypes.Get(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Apartamento", got.Name)
	assert.Equal(t, "/tipos-imoveis/2", lastPath)

	// 201 with no body is fine
	_, err = b.PropertyTypes.Create(ctx, PropertyType{Name: "Sala"})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, lastMethod)
	assert.Equal(t, "Sala", lastBody["nome"])

	updated, err := b.PropertyTypes.Update(ctx, 2, PropertyType{Name: "Apto"})
	require.NoError(t, err)
	assert.Equal(t, "Apto", updated.Name)
	assert.Equal(t, http.MethodPut, lastMethod)

	require.NoError(t, b.PropertyTypes.Delete(ctx, 2))
	assert.Equal(t, http.MethodDelete, lastMethod)
	assert.Equal(t, "/tipos-imoveis/2", lastPath)
}

func TestStatusErrors(t *testing.T) {
	b := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message":"Bairro possui imóveis vinculados"}`))
	})

	err := b.Neighborhoods.Delete(context.Background(), 3)
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusConflict))
	assert.Contains(t, err.Error(), "Bairro possui imóveis vinculados")
	assert.False(t, IsStatus(err, http.StatusNotFound))
}

func TestMalformedResponse(t *testing.T) {
	b := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>oops</html>`))
	})

	_, err := b.Users.List(context.Background())
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestPropertyQueries(t *testing.T) {
	var paths []string
	b := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.Write([]byte(`[{"id":1,"titulo":"Casa","usuario":{"id":4,"nome":"Ana"}},{"id":2,"titulo":"Loft","id_usuario":5}]`))
	})
	ctx := context.Background()

	mine, err := b.Properties.Mine(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), mine[0].OwnerID())
	assert.Equal(t, int64(5), mine[1].OwnerID())

	_, _ = b.Properties.ByNeighborhood(ctx, 7)
	_, _ = b.Properties.ByType(ctx, 8)
	_, _ = b.Properties.ByUser(ctx, 9)

	assert.Equal(t, []string{"/imoveis/meus", "/imoveis/bairro/7", "/imoveis/tipo/8", "/imoveis/usuario/9"}, paths)
}

func TestPropertyForWriteSendsOwnerAsUsuarioID(t *testing.T) {
	var read Property
	require.NoError(t, json.Unmarshal([]byte(`{"id":2,"titulo":"Loft","id_usuario":5,"usuario":{"id":5}}`), &read))

	out := read.ForWrite()
	out.UserID = read.OwnerID()

	raw, err := json.Marshal(out)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, float64(5), body["usuarioId"])
	assert.NotContains(t, body, "id_usuario")
	assert.NotContains(t, body, "usuario")
}

func TestPhotos(t *testing.T) {
	b := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			assert.Equal(t, "/fotos-imoveis/imoveis/3", r.URL.Path)
			w.Write([]byte(`[{"id":1,"ordem":2},{"id":2,"ordem":0},{"id":3,"ordem":1}]`))

		case http.MethodPost:
			require.NoError(t, r.ParseMultipartForm(1<<20))

			file, header, err := r.FormFile("arquivo")
			require.NoError(t, err)
			content, _ := io.ReadAll(file)
			assert.Equal(t, "front.jpg", header.Filename)
			assert.Equal(t, "jpeg-bytes", string(content))

			var meta Photo
			require.NoError(t, json.Unmarshal([]byte(r.FormValue("dados")), &meta))
			assert.Equal(t, int64(3), meta.PropertyID)

			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id":9,"imovelId":3,"nome_arquivo":"abc.jpg"}`))
		}
	})
	ctx := context.Background()

	photos, err := b.Photos.ForProperty(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3, 1}, []int64{photos[0].ID, photos[1].ID, photos[2].ID})

	created, err := b.Photos.Upload(ctx, "front.jpg", strings.NewReader("jpeg-bytes"), Photo{PropertyID: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(9), created.ID)
}

func TestFilter(t *testing.T) {
	items := []Neighborhood{{Name: "Centro"}, {Name: "Jardim Paulista"}, {Name: "Jardim América"}}
	got := Filter(items, func(n Neighborhood) bool { return strings.HasPrefix(n.Name, "Jardim") })
	require.Len(t, got, 2)
	assert.Equal(t, "Jardim Paulista", got[0].Name)
}
