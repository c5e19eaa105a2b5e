package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/repository"
	"github.com/alexanderramin/gantt/internal/service"
	"github.com/alexanderramin/gantt/internal/testutil"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func newTestServer(t *testing.T) (*Server, *repository.MemoryTaskRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	d := testutil.Date
	repo := repository.NewMemoryTaskRepo(testutil.Forest(
		testutil.NewTestTask("Launch", testutil.WithID("p"), testutil.WithType(domain.TaskTypeProject),
			testutil.WithDates(d(2025, 1, 6), d(2025, 1, 24))),
		testutil.NewTestTask("Design", testutil.WithID("a"), testutil.WithParent("p"),
			testutil.WithDates(d(2025, 1, 6), d(2025, 1, 10)), testutil.WithProgress(40)),
		testutil.NewTestTask("Build", testutil.WithID("b"), testutil.WithParent("p"),
			testutil.WithDates(d(2025, 1, 13), d(2025, 1, 24))),
		testutil.NewTestTask("Go live", testutil.WithID("m"), testutil.WithType(domain.TaskTypeMilestone),
			testutil.WithDates(d(2025, 1, 27), d(2025, 1, 27))),
	))
	srv := NewServer(Deps{
		Layout:  service.NewLayoutService(repo),
		Tasks:   service.NewTaskService(repo),
		EndYear: 2025,
	})
	return srv, repo
}

func do(t *testing.T, srv *Server, method, target string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func TestHandleLayout(t *testing.T) {
	srv, _ := newTestServer(t)

	w, env := do(t, srv, http.MethodGet, "/api/layout?expanded=p&sort=name&dir=desc&today=2025-01-01", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, env.Success)

	var layout layoutDTO
	require.NoError(t, json.Unmarshal(env.Data, &layout))

	ids := make([]string, len(layout.Rows))
	for i, r := range layout.Rows {
		ids[i] = r.ID
	}
	// Roots keep collection order; siblings under p sort by name descending.
	assert.Equal(t, []string{"p", "a", "b", "m"}, ids)

	assert.Equal(t, "2024-12-23", layout.Weeks[0].Start)
	assert.Equal(t, "23 Dec", layout.Weeks[0].Label)
	assert.Equal(t, float64(len(layout.Weeks))*150, layout.GridWidth)

	design := layout.Rows[1]
	assert.Equal(t, 20, design.Indent)
	assert.Equal(t, "Design", design.Cells["name"])
	assert.Equal(t, "2025-01-06", design.Cells["startDate"])
	assert.Equal(t, "5", design.Cells["duration"])
	assert.Nil(t, design.Marker)

	live := layout.Rows[3]
	require.NotNil(t, live.Marker)
	assert.Equal(t, 16.0, live.Marker.Width)
	assert.Empty(t, layout.Warnings)
}

func TestHandleLayout_BadParams(t *testing.T) {
	srv, _ := newTestServer(t)
	for _, target := range []string{
		"/api/layout?sort=name&dir=sideways",
		"/api/layout?endYear=soon",
		"/api/layout?weekWidth=wide",
		"/api/layout?today=tomorrow",
	} {
		w, env := do(t, srv, http.MethodGet, target, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
		assert.False(t, env.Success)
		assert.NotEmpty(t, env.Error)
	}
}

func TestHandleLayout_RejectsOutOfRangeYears(t *testing.T) {
	srv, _ := newTestServer(t)
	for _, target := range []string{
		"/api/layout?endYear=12025&today=2025-01-01",
		"/api/layout?endYear=999999",
		"/api/layout?today=0001-01-01",
	} {
		w, env := do(t, srv, http.MethodGet, target, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
		assert.False(t, env.Success)
		assert.Contains(t, env.Error, "invalid layout request", target)
	}

	w, _ := do(t, srv, http.MethodGet, "/api/layout?endYear=2030&today=2025-01-01", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandleLayout_ServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := NewServer(Deps{Layout: failingLayout{}})
	w, env := do(t, srv, http.MethodGet, "/api/layout", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "layout unavailable", env.Error)
}

type failingLayout struct{}

func (failingLayout) Compute(context.Context, service.LayoutRequest) (*service.Layout, error) {
	return nil, errors.New("layout unavailable")
}

func TestHandleTasks_CRUD(t *testing.T) {
	srv, repo := newTestServer(t)

	w, env := do(t, srv, http.MethodPost, "/api/tasks", map[string]any{
		"name": "Test", "startDate": "2025-01-20", "endDate": "2025-01-22", "parent": "p",
	})
	require.Equal(t, http.StatusCreated, w.Code, env.Error)
	var created map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &created))
	id := created["id"].(string)
	assert.Equal(t, "p", created["parent"])
	assert.Equal(t, "task", created["type"])

	w, env = do(t, srv, http.MethodPut, "/api/tasks/"+id, map[string]any{
		"name": "Test v2", "startDate": "2025-01-20", "endDate": "2025-01-23", "progress": 75, "type": "milestone",
	})
	require.Equal(t, http.StatusOK, w.Code, env.Error)
	got, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Test v2", got.Name)
	assert.Equal(t, 75, got.Progress)
	assert.True(t, got.IsMilestone())

	w, env = do(t, srv, http.MethodGet, "/api/tasks/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, env = do(t, srv, http.MethodDelete, "/api/tasks/p", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var removed struct{ Removed []string }
	require.NoError(t, json.Unmarshal(env.Data, &removed))
	assert.ElementsMatch(t, []string{"p", "a", "b", id}, removed.Removed)

	w, env = do(t, srv, http.MethodGet, "/api/tasks", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "m", list[0]["id"])
}

func TestHandleTasks_Errors(t *testing.T) {
	srv, _ := newTestServer(t)
	tests := []struct {
		name   string
		method string
		target string
		body   any
		status int
	}{
		{"missing task", http.MethodGet, "/api/tasks/nope", nil, http.StatusNotFound},
		{"update missing task", http.MethodPut, "/api/tasks/nope", map[string]any{"name": "x", "startDate": "2025-01-01", "endDate": "2025-01-02"}, http.StatusNotFound},
		{"delete missing task", http.MethodDelete, "/api/tasks/nope", nil, http.StatusNotFound},
		{"no name", http.MethodPost, "/api/tasks", map[string]any{"startDate": "2025-01-01", "endDate": "2025-01-02"}, http.StatusBadRequest},
		{"bad date", http.MethodPost, "/api/tasks", map[string]any{"name": "x", "startDate": "01/02/2025"}, http.StatusBadRequest},
		{"bad type", http.MethodPost, "/api/tasks", map[string]any{"name": "x", "type": "epic"}, http.StatusBadRequest},
		{"unknown parent", http.MethodPost, "/api/tasks", map[string]any{"name": "x", "startDate": "2025-01-01", "endDate": "2025-01-02", "parent": "ghost"}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := do(t, srv, tt.method, tt.target, tt.body)
			assert.Equal(t, tt.status, w.Code)
			assert.False(t, env.Success)
		})
	}
}

func TestHandleExpanded(t *testing.T) {
	srv, _ := newTestServer(t)

	var out struct{ Expanded []string }

	w, env := do(t, srv, http.MethodPost, "/api/expanded/toggle", map[string]any{"expanded": []string{"p"}, "id": "x"})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &out))
	assert.Equal(t, []string{"p", "x"}, out.Expanded)

	_, env = do(t, srv, http.MethodPost, "/api/expanded/toggle", map[string]any{"expanded": []string{"p", "x"}, "id": "p"})
	require.NoError(t, json.Unmarshal(env.Data, &out))
	assert.Equal(t, []string{"x"}, out.Expanded)

	w, _ = do(t, srv, http.MethodPost, "/api/expanded/toggle", map[string]any{"expanded": []string{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	_, env = do(t, srv, http.MethodPost, "/api/expanded/expand-all", nil)
	require.NoError(t, json.Unmarshal(env.Data, &out))
	assert.Equal(t, []string{"p"}, out.Expanded, "only branches are expanded")

	_, env = do(t, srv, http.MethodPost, "/api/expanded/collapse-all", nil)
	assert.JSONEq(t, `{"expanded":[]}`, string(env.Data))
}

func TestHandleColumnsAndHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	_, env := do(t, srv, http.MethodGet, "/api/columns", nil)
	var cols []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &cols))
	require.Len(t, cols, 3)
	assert.Equal(t, "name", cols[0]["key"])
	assert.Equal(t, true, cols[0]["fixed"])

	w, env := do(t, srv, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
}
