package compliance

import (
	"encoding/json"
	"errors"
	"net/http"

	"Airside/internal/auth"
	"Airside/internal/model"
	"Airside/internal/repo"

	"github.com/sirupsen/logrus"
)

const MaxModelSize = 10 << 20 // 10MB

type Handler struct {
	Engine *Engine
	// Runs stores the reports of authenticated users; nil disables storage.
	Runs   repo.RunRepository
	Log    logrus.FieldLogger
}

type ApplyResponse struct {
	Report *Report      `json:"report"`
	Model  *model.Model `json:"model"`
}

// Apply runs compliance on the model in the request body, YAML or JSON, for
// the template given in the query string. The response carries the report
// and the updated model.
func (h *Handler) Apply(w http.ResponseWriter, r *http.Request) {
	template := r.URL.Query().Get("template")
	if template == "" {
		http.Error(w, "template query parameter required", http.StatusBadRequest)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, MaxModelSize)
	m, err := model.Decode(r.Body)
	if err != nil {
		http.Error(w, "Invalid model: "+err.Error(), http.StatusBadRequest)
		return
	}

	rep, err := h.Engine.Run(r.Context(), m, template)
	if err != nil {
		if errors.Is(err, ErrUnknownTemplate) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.Log.WithError(err).Warn("compliance run aborted")
		http.Error(w, "Run aborted", http.StatusServiceUnavailable)
		return
	}

	if userID, ok := auth.UserID(r.Context()); ok && h.Runs != nil {
		raw, err := json.Marshal(rep)
		if err != nil {
			http.Error(w, "Encoding error", http.StatusInternalServerError)
			return
		}
		err = h.Runs.SaveRun(r.Context(), repo.Run{
			ID:        rep.ID,
			UserID:    userID,
			Template:  rep.Template,
			ModelName: rep.Model,
			Report:    raw,
		})
		if err != nil {
			h.Log.WithError(err).WithField("run_id", rep.ID).Error("saving run failed")
			http.Error(w, "DB error", http.StatusInternalServerError)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ApplyResponse{Report: rep, Model: m})
}
