package batch

import (
	"encoding/json"
	"net/http"

	"Airside/internal/compliance"
)

type Handler struct {
	Engine *compliance.Engine
}

func (h *Handler) Compare(w http.ResponseWriter, r *http.Request) {
	var input Input
	r.Body = http.MaxBytesReader(w, r.Body, compliance.MaxModelSize)
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, err := Compare(r.Context(), h.Engine, input)
	if err != nil {
		http.Error(w, "Calculation error: "+err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}
