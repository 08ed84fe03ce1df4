package handler

import (
	"crimewatch/apiclient"
	"crimewatch/models"
	"crimewatch/service"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// respondWithJSON sends a JSON response
func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

// respondWithError sends an error response
func respondWithError(w http.ResponseWriter, statusCode int, errorType, message string) {
	response := models.ErrorResponse{
		Error:   errorType,
		Message: message,
		Code:    statusCode,
	}
	respondWithJSON(w, statusCode, response)
}

// respondWithServiceError maps an error from the service layer to a JSON error body.
// Reports API errors keep their upstream status; transport failures become 502.
func respondWithServiceError(w http.ResponseWriter, log *zap.SugaredLogger, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		respondWithError(w, http.StatusBadRequest, "Bad Request", verr.Error())
		return
	case errors.Is(err, service.ErrUnknownAction):
		respondWithError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	case errors.Is(err, service.ErrActionNotOffered):
		respondWithError(w, http.StatusConflict, "Conflict", err.Error())
		return
	}

	if apiErr, ok := apiclient.AsAPIError(err); ok {
		status := apiErr.StatusCode
		if apiErr.IsTransport() || status < 400 {
			status = http.StatusBadGateway
		}
		log.Warnw("reports API call failed", "status", apiErr.StatusCode, "trace_id", apiErr.TraceID(), "error", err)
		respondWithJSON(w, status, models.ErrorResponse{
			Error:   http.StatusText(status),
			Message: apiErr.Message,
			Code:    status,
			TraceID: apiErr.TraceID(),
		})
		return
	}

	log.Errorw("request failed", "error", err)
	respondWithError(w, http.StatusInternalServerError, "Internal Server Error", "unexpected error")
}

// getClientIP returns the originating client address, preferring proxy headers.
func getClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	return r.RemoteAddr
}

// decodeJSON reads a JSON body of at most 1MB into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondWithError(w, http.StatusBadRequest, "Bad Request", "Invalid JSON body")
		return false
	}
	return true
}
