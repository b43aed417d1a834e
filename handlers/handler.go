package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Abhishekabysm/task-manager-app/apperrors"
	"github.com/Abhishekabysm/task-manager-app/logging"
	"github.com/Abhishekabysm/task-manager-app/middleware"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// statusForError maps a service error kind to an HTTP status.
func statusForError(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrAssigneeNotFound),
		errors.Is(err, apperrors.ErrLimitExceeded),
		errors.Is(err, apperrors.ErrEmailTaken):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		logging.Logger.Errorf("Event ID: REQUEST_FAILED, Description: %v", err)
		writeJSON(w, status, messageResponse{Message: "Server error"})
		return
	}
	writeJSON(w, status, messageResponse{Message: err.Error()})
}

func userID(r *http.Request) (primitive.ObjectID, bool) {
	return middleware.UserIDFromContext(r.Context())
}

// pathID reads a path variable as an ObjectID. A malformed id maps to
// NotFound, the same as an id that does not resolve.
func pathID(w http.ResponseWriter, r *http.Request, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)[name])
	if err != nil {
		writeJSON(w, http.StatusNotFound, messageResponse{Message: "Not found (invalid ID format)"})
		return primitive.NilObjectID, false
	}
	return id, true
}
