// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
)

// ReloadHandler handles administrative bundle reloads.
type ReloadHandler struct {
	deps Dependencies
}

// NewReloadHandler creates a new reload handler.
func NewReloadHandler(deps Dependencies) *ReloadHandler {
	return &ReloadHandler{deps: deps}
}

// HandleReload handles POST /v1/reload requests. It re-runs the bundle
// loader and reports which sport keys are indexed afterwards.
func (h *ReloadHandler) HandleReload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	keys, err := h.deps.Reload(r.Context())
	if err != nil {
		// A bundle the runtime does not understand is a configuration
		// error, not a transient one.
		writeError(w, http.StatusInternalServerError, "reload_failed", err)
		return
	}
	if keys == nil {
		keys = []string{}
	}
	writeJSON(w, http.StatusOK, reloadResponse{OK: true, SportsIndexed: keys})
}
