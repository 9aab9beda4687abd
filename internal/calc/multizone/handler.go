package multizone

import (
	"encoding/json"
	"errors"
	"net/http"
)

type Handler struct{}

type response struct {
	Result
	Degenerate bool   `json:"degenerate"`
	Error      string `json:"error,omitempty"`
}

// Calc sizes a system described directly in the request body. A degenerate
// system is not a request error: the partial result comes back with the
// degenerate flag set.
func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	var input SystemInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, err := Size(input)
	out := response{Result: res}
	if err != nil {
		if !errors.Is(err, ErrDegenerateSizing) {
			http.Error(w, "Calculation error: "+err.Error(), http.StatusBadRequest)
			return
		}
		out.Degenerate = true
		out.Error = err.Error()
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}
