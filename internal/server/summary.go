package server

import "net/http"

// Summary returns the dashboard metrics for the authenticated user's board.
func (a *API) Summary(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "access denied")
		return
	}

	metrics, err := a.summary.Metrics(claims.UserID)
	if err != nil {
		a.logger.Error("failed to compute summary", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, metrics)
}

// Health reports service liveness.
func (a *API) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
