package catalog_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentora-app/mentora/internal/authz"
	"github.com/mentora-app/mentora/internal/catalog"
	"github.com/mentora-app/mentora/internal/shared"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubAccess struct {
	granted map[int64]bool
}

func (s *stubAccess) HasAccess(ctx context.Context, userID, contentID int64) (bool, error) {
	return s.granted[contentID], nil
}

func newCatalogRouter(repo catalog.Repository, access catalog.AccessChecker) chi.Router {
	svc := catalog.NewService(repo, nil)
	handler := catalog.NewHandler(testLogger(), svc, access)
	r := chi.NewRouter()
	r.Route("/api/content", handler.MountRoutes)
	return r
}

func asUser(req *http.Request, id string) *http.Request {
	sess := &shared.Session{}
	sess.SetUser(id, "USER")
	return req.WithContext(shared.ContextWithSession(req.Context(), sess))
}

func TestListEndpointEnvelope(t *testing.T) {
	repo := &stubRepo{items: []catalog.Content{paidVideo()}, total: 1}
	router := newCatalogRouter(repo, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/content/?type=VIDEO&sortBy=popular&page=1", nil)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	require.Equal(t, http.StatusOK, res.Code)

	var payload catalog.ListResponse
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &payload))
	assert.True(t, payload.Success)
	require.Len(t, payload.Data, 1)
	assert.Empty(t, payload.Data[0].MediaURL)
	assert.Equal(t, 1, payload.Pagination.Total)
}

func TestListEndpointSoftFailureStays200(t *testing.T) {
	repo := &stubRepo{listErr: assert.AnError}
	router := newCatalogRouter(repo, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/content/", nil)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	require.Equal(t, http.StatusOK, res.Code, "catalog failures are soft, never 5xx")

	var payload catalog.ListResponse
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &payload))
	assert.False(t, payload.Success)
	assert.NotEmpty(t, payload.Error)
	assert.NotNil(t, payload.Data)
}

func TestGetEndpointLocksForAnonymous(t *testing.T) {
	published := paidVideo()
	repo := &stubRepo{bySlug: map[string]*catalog.Content{"aljabar-linier": &published}}
	router := newCatalogRouter(repo, &stubAccess{})

	req := httptest.NewRequest(http.MethodGet, "/api/content/aljabar-linier", nil)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	assert.NotContains(t, res.Body.String(), "cdn.test/video.mp4")
}

func TestGetEndpointUnlocksForOwner(t *testing.T) {
	published := paidVideo()
	repo := &stubRepo{bySlug: map[string]*catalog.Content{"aljabar-linier": &published}}
	router := newCatalogRouter(repo, &stubAccess{granted: map[int64]bool{10: true}})

	req := asUser(httptest.NewRequest(http.MethodGet, "/api/content/aljabar-linier", nil), "7")
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), "cdn.test/video.mp4")
}

func TestGetEndpointStaysLockedForNonOwner(t *testing.T) {
	published := paidVideo()
	repo := &stubRepo{bySlug: map[string]*catalog.Content{"aljabar-linier": &published}}
	router := newCatalogRouter(repo, &stubAccess{})

	req := asUser(httptest.NewRequest(http.MethodGet, "/api/content/aljabar-linier", nil), "7")
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	assert.NotContains(t, res.Body.String(), "cdn.test/video.mp4")
}

func TestGetEndpointUnknownSlug(t *testing.T) {
	repo := &stubRepo{}
	router := newCatalogRouter(repo, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/content/tidak-ada", nil)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	assert.Equal(t, http.StatusNotFound, res.Code)
}

func newAdminRouter(repo catalog.Repository, role authz.Role) chi.Router {
	svc := catalog.NewService(repo, nil)
	mw := authz.Middleware{Resolve: func(*http.Request) authz.Principal {
		if role == "" {
			return authz.Principal{}
		}
		return authz.Principal{ID: "1", Role: role}
	}}
	handler := catalog.NewAdminHandler(testLogger(), svc, mw)
	r := chi.NewRouter()
	r.Route("/api/admin/content", handler.MountRoutes)
	return r
}

func TestAdminCreateRequiresManageContent(t *testing.T) {
	body := `{"slug":"fisika-dasar","title":"Fisika Dasar","type":"VIDEO","difficulty":"BEGINNER"}`

	router := newAdminRouter(&stubRepo{}, authz.RoleUser)
	req := httptest.NewRequest(http.MethodPost, "/api/admin/content/", strings.NewReader(body))
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	assert.Equal(t, http.StatusForbidden, res.Code, "USER must not manage content")

	router = newAdminRouter(&stubRepo{}, "")
	req = httptest.NewRequest(http.MethodPost, "/api/admin/content/", strings.NewReader(body))
	res = httptest.NewRecorder()
	router.ServeHTTP(res, req)
	assert.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestAdminCreateContent(t *testing.T) {
	repo := &stubRepo{createdID: 42}
	router := newAdminRouter(repo, authz.RoleAdmin)

	body := `{"slug":"fisika-dasar","title":"Fisika Dasar","type":"VIDEO","difficulty":"BEGINNER","priceCents":10000}`
	req := httptest.NewRequest(http.MethodPost, "/api/admin/content/", strings.NewReader(body))
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	require.Equal(t, http.StatusCreated, res.Code, res.Body.String())
	assert.Contains(t, res.Body.String(), `"id":42`)
}

func TestAdminCreateValidation(t *testing.T) {
	router := newAdminRouter(&stubRepo{}, authz.RoleAdmin)

	cases := []string{
		`{"slug":"x","title":"Judul","type":"AUDIO","difficulty":"BEGINNER"}`,
		`{"slug":"x","title":"Judul","type":"VIDEO","difficulty":"IMPOSSIBLE"}`,
		`{"title":"Judul","type":"VIDEO","difficulty":"BEGINNER"}`,
		`{"slug":"x","title":"Judul","type":"VIDEO","difficulty":"BEGINNER","mediaUrl":"not a url"}`,
	}
	for _, body := range cases {
		req := httptest.NewRequest(http.MethodPost, "/api/admin/content/", strings.NewReader(body))
		res := httptest.NewRecorder()
		router.ServeHTTP(res, req)
		assert.Equal(t, http.StatusBadRequest, res.Code, "body %s", body)
	}
}

func TestAdminCreateDuplicateSlug(t *testing.T) {
	repo := &stubRepo{createErr: catalog.ErrSlugTaken}
	router := newAdminRouter(repo, authz.RoleAdmin)

	body := `{"slug":"fisika-dasar","title":"Fisika Dasar","type":"VIDEO","difficulty":"BEGINNER"}`
	req := httptest.NewRequest(http.MethodPost, "/api/admin/content/", strings.NewReader(body))
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	assert.Equal(t, http.StatusConflict, res.Code)
}

func TestAdminPublishUntitledContent(t *testing.T) {
	draft := paidVideo()
	draft.Title = ""
	repo := &stubRepo{byID: map[int64]*catalog.Content{10: &draft}}
	router := newAdminRouter(repo, authz.RoleAdmin)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/content/10/publish", nil)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	assert.Equal(t, http.StatusUnprocessableEntity, res.Code)
}

func TestAdminUpdatePartialFields(t *testing.T) {
	repo := &stubRepo{}
	router := newAdminRouter(repo, authz.RoleAdmin)

	req := httptest.NewRequest(http.MethodPatch, "/api/admin/content/10", strings.NewReader(`{"title":"Judul Baru"}`))
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	require.Equal(t, http.StatusOK, res.Code, res.Body.String())
	assert.Equal(t, int64(10), repo.updatedID)
	require.NotNil(t, repo.updatedFields.Title)
	assert.Equal(t, "Judul Baru", *repo.updatedFields.Title)
	assert.Nil(t, repo.updatedFields.PriceCents, "unsent fields must stay untouched")
}
