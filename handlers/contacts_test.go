package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phonebook/models"
	"phonebook/store"
)

func newContactRouter(t *testing.T, userID string) (*gin.Engine, store.ContactStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	contacts, err := store.NewFileContactStore(filepath.Join(t.TempDir(), "contacts.json"))
	require.NoError(t, err)

	h := NewContactHandler(contacts, testLog)
	r := gin.New()
	g := r.Group("/api/contacts", withUser(userID))
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.PATCH("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
	g.PATCH("/:id/favorite", h.SetFavorite)
	return r, contacts
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateContact(t *testing.T) {
	r, _ := newContactRouter(t, "user-1")

	w := doJSON(r, http.MethodPost, "/api/contacts", `{"name":"Bo","email":"bo@x.com","phone":"123"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var ct models.Contact
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ct))
	assert.NotEmpty(t, ct.ID)
	assert.Equal(t, "Bo", ct.Name)
	assert.Equal(t, "user-1", ct.OwnerID) // owner bound to the requester
	assert.False(t, ct.Favorite)
}

func TestCreateContact_Validation(t *testing.T) {
	r, _ := newContactRouter(t, "user-1")

	w := doJSON(r, http.MethodPost, "/api/contacts", `{"email":"bo@x.com"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "missing required field name")

	assert.Equal(t, http.StatusBadRequest, doJSON(r, http.MethodPost, "/api/contacts", `garbage`).Code)
}

func TestGetContact_OwnershipHidden(t *testing.T) {
	r, contacts := newContactRouter(t, "user-b")

	// user-a's contact must look nonexistent to user-b, never forbidden.
	foreign, err := contacts.Create("user-a", store.ContactInput{Name: "Secret"})
	require.NoError(t, err)

	w := doJSON(r, http.MethodGet, "/api/contacts/"+foreign.ID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Not found")
}

func TestListContacts_Pagination(t *testing.T) {
	r, contacts := newContactRouter(t, "user-1")

	for i := 0; i < 5; i++ {
		_, err := contacts.Create("user-1", store.ContactInput{Name: fmt.Sprintf("c%d", i)})
		require.NoError(t, err)
	}

	w := doJSON(r, http.MethodGet, "/api/contacts?page=1&limit=2", "")
	require.Equal(t, http.StatusOK, w.Code)

	var page models.ContactPage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Len(t, page.Docs, 2)
	assert.Equal(t, 5, page.TotalDocs)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 1, page.Page)
	assert.True(t, page.HasNextPage)

	// malformed paging params fall back to defaults
	w = doJSON(r, http.MethodGet, "/api/contacts?page=-3&limit=abc", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 20, page.Limit)
}

func TestListContacts_FavoriteFilter(t *testing.T) {
	r, contacts := newContactRouter(t, "user-1")

	fav, err := contacts.Create("user-1", store.ContactInput{Name: "fav"})
	require.NoError(t, err)
	_, err = contacts.Create("user-1", store.ContactInput{Name: "plain"})
	require.NoError(t, err)
	_, err = contacts.SetFavorite("user-1", fav.ID, true)
	require.NoError(t, err)

	w := doJSON(r, http.MethodGet, "/api/contacts?favorite=true", "")
	require.Equal(t, http.StatusOK, w.Code)

	var page models.ContactPage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Len(t, page.Docs, 1)
	assert.Equal(t, "fav", page.Docs[0].Name)

	assert.Equal(t, http.StatusBadRequest, doJSON(r, http.MethodGet, "/api/contacts?favorite=maybe", "").Code)
}

func TestUpdateContact(t *testing.T) {
	r, contacts := newContactRouter(t, "user-1")

	ct, err := contacts.Create("user-1", store.ContactInput{Name: "Bo", Phone: "123"})
	require.NoError(t, err)

	w := doJSON(r, http.MethodPatch, "/api/contacts/"+ct.ID, `{"phone":"456"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var updated models.Contact
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "456", updated.Phone)
	assert.Equal(t, "Bo", updated.Name)

	assert.Equal(t, http.StatusBadRequest, doJSON(r, http.MethodPatch, "/api/contacts/"+ct.ID, `{}`).Code)
	assert.Equal(t, http.StatusBadRequest, doJSON(r, http.MethodPatch, "/api/contacts/"+ct.ID, `{"name":""}`).Code)
	assert.Equal(t, http.StatusBadRequest, doJSON(r, http.MethodPatch, "/api/contacts/"+ct.ID, `{"favorite":"yes"}`).Code)
	assert.Equal(t, http.StatusNotFound, doJSON(r, http.MethodPut, "/api/contacts/missing-id", `{"name":"X"}`).Code)
}

func TestDeleteContact(t *testing.T) {
	r, contacts := newContactRouter(t, "user-1")

	ct, err := contacts.Create("user-1", store.ContactInput{Name: "Bo"})
	require.NoError(t, err)

	w := doJSON(r, http.MethodDelete, "/api/contacts/"+ct.ID, "")
	require.Equal(t, http.StatusOK, w.Code)

	var removed models.Contact
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &removed))
	assert.Equal(t, ct.ID, removed.ID)

	assert.Equal(t, http.StatusNotFound, doJSON(r, http.MethodDelete, "/api/contacts/"+ct.ID, "").Code)
}

func TestSetFavorite_Idempotent(t *testing.T) {
	r, contacts := newContactRouter(t, "user-1")

	ct, err := contacts.Create("user-1", store.ContactInput{Name: "Bo"})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		w := doJSON(r, http.MethodPatch, "/api/contacts/"+ct.ID+"/favorite", `{"favorite":true}`)
		require.Equal(t, http.StatusOK, w.Code)

		var updated models.Contact
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
		assert.True(t, updated.Favorite)
	}

	assert.Equal(t, http.StatusBadRequest, doJSON(r, http.MethodPatch, "/api/contacts/"+ct.ID+"/favorite", `{}`).Code)
}
