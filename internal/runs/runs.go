package runs

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"Airside/internal/auth"
	"Airside/internal/calc/report"
	"Airside/internal/compliance"
	"Airside/internal/repo"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type RunsHandler struct {
	Repo repo.RunRepository
}

// load fetches the run named in the path for the signed-in user and writes
// the error response itself when it cannot.
func (h *RunsHandler) load(w http.ResponseWriter, r *http.Request) (repo.Run, bool) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return repo.Run{}, false
	}
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid run id", http.StatusBadRequest)
		return repo.Run{}, false
	}
	run, err := h.Repo.GetRun(r.Context(), id, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			http.Error(w, "Run not found", http.StatusNotFound)
		} else {
			http.Error(w, "DB error", http.StatusInternalServerError)
		}
		return repo.Run{}, false
	}
	return run, true
}

func (h *RunsHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	run, ok := h.load(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(run.Report)
}

func (h *RunsHandler) GetRunPDF(w http.ResponseWriter, r *http.Request) {
	run, ok := h.load(w, r)
	if !ok {
		return
	}
	var rep compliance.Report
	if err := json.Unmarshal(run.Report, &rep); err != nil {
		http.Error(w, "Stored report is unreadable", http.StatusInternalServerError)
		return
	}
	report.Write(w, report.Input{
		Project: run.ModelName,
		Author:  auth.UserLogin(r.Context()),
		Run:     &rep,
	})
}

type runSummary struct {
	ID        uuid.UUID `json:"id"`
	Template  string    `json:"template"`
	ModelName string    `json:"model_name"`
	CreatedAt string    `json:"created_at"`
}

// ListRuns returns the user's latest runs without their reports.
func (h *RunsHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	limit := 50
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}
	list, err := h.Repo.ListRuns(r.Context(), userID, limit)
	if err != nil {
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	out := make([]runSummary, 0, len(list))
	for _, run := range list {
		out = append(out, runSummary{
			ID:        run.ID,
			Template:  run.Template,
			ModelName: run.ModelName,
			CreatedAt: run.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		})
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}
