package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/desertthunder/harmony/internal/services"
	"github.com/desertthunder/harmony/internal/shared"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	RetryAfter string `json:"retry_after,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, ErrorResponse{Error: message, Details: details})
}

// analysisFailure maps an analysis error onto its status code and response body.
func analysisFailure(err error) (int, ErrorResponse) {
	details := err.Error()
	if pe, ok := services.AsProviderError(err); ok {
		details = pe.Message
	}

	switch {
	case errors.Is(err, shared.ErrInvalidInput):
		return http.StatusBadRequest, ErrorResponse{Error: "Invalid playlist URL/ID"}
	case errors.Is(err, shared.ErrNoPlayableTracks):
		return http.StatusBadRequest, ErrorResponse{Error: "Playlist contains no playable tracks"}
	case errors.Is(err, shared.ErrNoAudioFeatures):
		return http.StatusBadRequest, ErrorResponse{Error: "No audio features available for playlist tracks"}
	case errors.Is(err, shared.ErrUpstreamAuth):
		return http.StatusUnauthorized, ErrorResponse{Error: "Spotify authentication error", Details: details}
	case errors.Is(err, shared.ErrUpstreamForbidden):
		return http.StatusForbidden, ErrorResponse{
			Error:   "Spotify forbidden – your account does not have permission for this playlist or its audio features.",
			Details: details,
		}
	case errors.Is(err, shared.ErrUpstreamNotFound):
		return http.StatusNotFound, ErrorResponse{
			Error:   "Playlist not found or inaccessible. Check the URL/ID and make sure the playlist is public or you have access.",
			Details: details,
		}
	case errors.Is(err, shared.ErrUpstreamRateLimited):
		retryAfter := "unknown"
		if pe, ok := services.AsProviderError(err); ok && pe.RetryAfter != "" {
			retryAfter = pe.RetryAfter
		}
		return http.StatusTooManyRequests, ErrorResponse{Error: "Rate limited by Spotify", Details: details, RetryAfter: retryAfter}
	case errors.Is(err, shared.ErrUpstream):
		return http.StatusBadGateway, ErrorResponse{Error: "Spotify API error", Details: details}
	default:
		return http.StatusInternalServerError, ErrorResponse{Error: "Internal server error", Details: details}
	}
}
