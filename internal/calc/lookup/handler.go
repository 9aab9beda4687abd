package lookup

import (
	"encoding/json"
	"net/http"

	"Airside/internal/standards"

	"github.com/sirupsen/logrus"
)

type Handler struct {
	Store *standards.Store
	Log   *logrus.Logger
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, err := Lookup(h.Store, h.Log, input)
	if err != nil {
		http.Error(w, "Lookup error: "+err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}
