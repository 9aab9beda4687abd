package importer

import (
	"encoding/json"
	"net/http"

	"Airside/internal/repo"

	"github.com/sirupsen/logrus"
)

const MaxUploadSize = 10 << 20 // 10MB

type Handler struct {
	// Repo receives committed tables; nil allows preview only.
	Repo repo.StandardsRepository
	Log  logrus.FieldLogger
}

// Standards previews an uploaded workbook. With ?commit=true each table in
// it replaces the stored table of the same name.
func (h *Handler) Standards(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "File required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	tables, err := Parse(file)
	if err != nil {
		http.Error(w, "Invalid workbook: "+err.Error(), http.StatusBadRequest)
		return
	}
	res := Result{Tables: Summarize(tables)}

	if r.URL.Query().Get("commit") == "true" {
		if h.Repo == nil {
			http.Error(w, "Standards storage is not configured", http.StatusBadRequest)
			return
		}
		for _, t := range res.Tables {
			if err := h.Repo.ReplaceTable(r.Context(), t.Name, tables[t.Name]); err != nil {
				h.Log.WithError(err).WithField("table", t.Name).Error("standards import failed")
				http.Error(w, "DB error", http.StatusInternalServerError)
				return
			}
		}
		res.Committed = true
		h.Log.WithField("tables", len(res.Tables)).Info("standards tables imported")
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}
