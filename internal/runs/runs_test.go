package runs

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"Airside/internal/auth"
	"Airside/internal/repo"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRuns struct {
	runs []repo.Run
}

func (m *memRuns) SaveRun(_ context.Context, run repo.Run) error {
	m.runs = append(m.runs, run)
	return nil
}

func (m *memRuns) GetRun(_ context.Context, id uuid.UUID, userID int) (repo.Run, error) {
	for _, r := range m.runs {
		if r.ID == id && r.UserID == userID {
			return r, nil
		}
	}
	return repo.Run{}, repo.ErrNotFound
}

func (m *memRuns) ListRuns(_ context.Context, userID int, limit int) ([]repo.Run, error) {
	var out []repo.Run
	for _, r := range m.runs {
		if r.UserID == userID && len(out) < limit {
			out = append(out, r)
		}
	}
	return out, nil
}

func setup(t *testing.T) (*mux.Router, uuid.UUID) {
	t.Helper()
	id := uuid.New()
	report := `{"id": "` + id.String() + `", "template": "90.1-2010", "model": "Small Office", "zones_adjusted": 1,
		"air_loops": [{"air_loop": "VAV_1", "multizone": true, "sizing": {"v_ou": 0.1595, "e_v_adj": 0.6, "v_ot_adj": 0.2658}}],
		"findings": {"warnings": [{"kind": "lookup_miss", "object": "Chiller 1", "message": "search returned no results"}], "info": []}}`
	store := &memRuns{runs: []repo.Run{{
		ID: id, UserID: 1, Template: "90.1-2010", ModelName: "Small Office",
		Report: json.RawMessage(report), CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}}}
	h := &RunsHandler{Repo: store}

	router := mux.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			uid := 1
			if r.Header.Get("X-Test-User") == "2" {
				uid = 2
			}
			next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), uid, "ann")))
		})
	})
	router.HandleFunc("/runs", h.ListRuns).Methods("GET")
	router.HandleFunc("/runs/{id}", h.GetRun).Methods("GET")
	router.HandleFunc("/runs/{id}/pdf", h.GetRunPDF).Methods("GET")
	return router, id
}

func get(router http.Handler, path, user string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestGetRun(t *testing.T) {
	router, id := setup(t)

	rec := get(router, "/runs/"+id.String(), "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"zones_adjusted": 1`)

	assert.Equal(t, http.StatusNotFound, get(router, "/runs/"+id.String(), "2").Code)
	assert.Equal(t, http.StatusNotFound, get(router, "/runs/"+uuid.NewString(), "").Code)
	assert.Equal(t, http.StatusBadRequest, get(router, "/runs/not-a-uuid", "").Code)
}

func TestGetRunPDF(t *testing.T) {
	router, id := setup(t)
	rec := get(router, "/runs/"+id.String()+"/pdf", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))
}

func TestListRuns(t *testing.T) {
	router, id := setup(t)
	rec := get(router, "/runs", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var out []runSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, id, out[0].ID)
	assert.Equal(t, "2026-01-02T03:04:05Z", out[0].CreatedAt)

	assert.Equal(t, http.StatusBadRequest, get(router, "/runs?limit=x", "").Code)
}
