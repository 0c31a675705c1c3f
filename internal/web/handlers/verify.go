// Package handlers implements the HTTP endpoints for the verification
// API.
package handlers

import (
	"encoding/json"
	"mime"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/gnaf-verify/internal/engine"
)

// VerifyHandler serves single and batch address verification.
type VerifyHandler struct {
	Engine *engine.Engine
}

// maxBatchSize bounds one batch request.
const maxBatchSize = 1000

// Verify handles POST /api/verify. The address arrives either as a JSON
// body or as form fields (addressLine1..addressLine4, suburb, state,
// postcode).
func (h *VerifyHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var addr engine.Address
	if isForm(r) {
		if err := r.ParseForm(); err != nil {
			writeError(w, http.StatusBadRequest, "invalid form body: "+err.Error())
			return
		}
		addr = addressFromForm(r)
	} else {
		if err := json.NewDecoder(r.Body).Decode(&addr); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
			return
		}
	}
	writeJSON(w, http.StatusOK, h.Engine.Verify(addr))
}

func isForm(r *http.Request) bool {
	ct, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return ct == "application/x-www-form-urlencoded" || ct == "multipart/form-data"
}

func addressFromForm(r *http.Request) engine.Address {
	addr := engine.Address{
		ID:       r.FormValue("id"),
		Suburb:   r.FormValue("suburb"),
		State:    r.FormValue("state"),
		Postcode: r.FormValue("postcode"),
	}
	for _, key := range []string{"addressLine1", "addressLine2", "addressLine3", "addressLine4"} {
		if v := r.FormValue(key); v != "" {
			addr.AddressLines = append(addr.AddressLines, v)
		}
	}
	return addr
}

// VerifyBatch handles POST /api/verify/batch with a JSON array of
// addresses and returns results in the same order.
func (h *VerifyHandler) VerifyBatch(w http.ResponseWriter, r *http.Request) {
	var addrs []engine.Address
	if err := json.NewDecoder(r.Body).Decode(&addrs); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if len(addrs) > maxBatchSize {
		writeError(w, http.StatusRequestEntityTooLarge, "batch too large")
		return
	}

	results := make([]*engine.Result, len(addrs))
	for i := range addrs {
		results[i] = h.Engine.Verify(addrs[i])
	}
	writeJSON(w, http.StatusOK, results)
}

// Health handles GET /healthz.
func (h *VerifyHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("response encode failed")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
