package mockstore

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twiced-technology-gmbh/dayplan/internal/task"
)

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCollectionLifecycle(t *testing.T) {
	s := New()
	h := s.Handler()

	rec := do(t, h, http.MethodPost, "/createTodo", `{"title":"Gym","dueDateTimestamp":1770454800000}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created task.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, task.ID("1"), created.ID)

	rec = do(t, h, http.MethodPost, "/createTodo", `{"title":"Read","dueDateTimestamp":1770454800000}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, h, http.MethodGet, "/createTodo", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var all []task.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &all))
	require.Len(t, all, 2)
	assert.Equal(t, task.ID("2"), all[1].ID)

	rec = do(t, h, http.MethodPut, "/createTodo/1", `{"id":"99","title":"Gym at 7","dueDateTimestamp":1770454800000}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var updated task.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, task.ID("1"), updated.ID)
	assert.Equal(t, "Gym at 7", updated.Title)

	rec = do(t, h, http.MethodDelete, "/createTodo/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, s.Len())

	rec = do(t, h, http.MethodGet, "/createTodo/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNotFoundAndBadInput(t *testing.T) {
	h := New().Handler()

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodDelete, "/createTodo/42", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodPut, "/createTodo/42", `{"title":"x"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/createTodo", `{"title":`).Code)
}

func TestSeedAssignsSequentialIDs(t *testing.T) {
	s := New()
	s.Seed(&task.Task{Title: "a"}, &task.Task{Title: "b"})

	rec := do(t, s.Handler(), http.MethodGet, "/createTodo", "")
	var all []task.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &all))
	require.Len(t, all, 2)
	assert.Equal(t, task.ID("1"), all[0].ID)
	assert.Equal(t, task.ID("2"), all[1].ID)
}

func TestCORSPreflight(t *testing.T) {
	h := New().Handler()
	req := httptest.NewRequest(http.MethodOptions, "/createTodo", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
