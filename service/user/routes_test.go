package user_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teachly/teachly-server/service/user"
)

// A nil database proves the rejection happens before any directory access.
func newTestRouter() *mux.Router {
	router := mux.NewRouter()
	user.NewHandler(nil).RegisterRoutes(router)
	return router
}

func doJSON(t *testing.T, router *mux.Router, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func TestCreateUserMissingStudentFields(t *testing.T) {
	router := newTestRouter()

	cases := []map[string]interface{}{
		{"email": "ana@x.com", "cellphone": "1"},
		{"name": "Ana", "cellphone": "1"},
		{"name": "Ana", "email": "ana@x.com"},
	}
	for _, body := range cases {
		rec := doJSON(t, router, http.MethodPost, "/users", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Missing body parameter", errorBody(t, rec))
	}
}

func TestCreateUserMissingTeacherFields(t *testing.T) {
	router := newTestRouter()

	base := func() map[string]interface{} {
		return map[string]interface{}{
			"name":                "Ana",
			"email":               "ana@x.com",
			"cellphone":           "1",
			"teacher":             true,
			"courses":             []string{"math"},
			"available_hours":     map[string][]int{"monday": {10}},
			"available_locations": []string{"Library"},
		}
	}

	for _, field := range []string{"courses", "available_hours", "available_locations"} {
		body := base()
		delete(body, field)

		rec := doJSON(t, router, http.MethodPost, "/users", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "missing %s", field)
		assert.Equal(t, "Missing body parameter", errorBody(t, rec), "missing %s", field)
	}
}

func TestCreateUserRejectsBadHours(t *testing.T) {
	router := newTestRouter()

	for _, hours := range []map[string][]int{
		{"monday": {24}},
		{"monday": {-1}},
		{"funday": {10}},
	} {
		body := map[string]interface{}{
			"name":                "Ana",
			"email":               "ana@x.com",
			"cellphone":           "1",
			"teacher":             true,
			"courses":             []string{"math"},
			"available_hours":     hours,
			"available_locations": []string{"Library"},
		}

		rec := doJSON(t, router, http.MethodPost, "/users", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, errorBody(t, rec), "available hours")
	}
}

func TestCreateUserInvalidJSON(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewReader([]byte("not json")))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request body", errorBody(t, rec))
}

func TestGetUserByQueryMissingParams(t *testing.T) {
	router := newTestRouter()

	rec := doJSON(t, router, http.MethodGet, "/users", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Missing _id on request", errorBody(t, rec))
}

func TestGetUserByQueryInvalidID(t *testing.T) {
	router := newTestRouter()

	rec := doJSON(t, router, http.MethodGet, "/users?_id=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Wrong user id", errorBody(t, rec))
}

func TestGetUsersByCourseMissingName(t *testing.T) {
	router := newTestRouter()

	rec := doJSON(t, router, http.MethodGet, "/courses", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Missing courses name on request", errorBody(t, rec))
}

func TestGetTeacherInvalidID(t *testing.T) {
	router := newTestRouter()

	rec := doJSON(t, router, http.MethodGet, "/teachers/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Wrong teacher id", errorBody(t, rec))
}
