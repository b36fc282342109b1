package handlers

import "net/http"

type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Health reports that the server is up.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "OK", Message: "Server is running"})
}
