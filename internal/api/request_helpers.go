package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/tasktrack-api/internal/api/shared"
	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/platform/logger"
	"github.com/phrazzld/tasktrack-api/internal/service"
)

// requireActor extracts the authenticated user placed in the context by the
// authentication middleware. It writes a 401 response when there is none.
func requireActor(w http.ResponseWriter, r *http.Request) (*domain.User, bool) {
	actor, ok := shared.GetActor(r.Context())
	if !ok {
		logger.FromContext(r.Context()).Warn("actor not found in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthenticated.")
		return nil, false
	}
	return actor, true
}

// getPathID parses a positive integer path parameter.
func getPathID(r *http.Request, paramName string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, paramName), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// handleActorAndTaskID is a composite helper that extracts both the actor from
// the context and the task ID from the path. A malformed ID cannot name any
// task, so it is reported as not found. It writes an error response if either
// extraction fails.
func handleActorAndTaskID(w http.ResponseWriter, r *http.Request) (*domain.User, int64, bool) {
	actor, ok := requireActor(w, r)
	if !ok {
		return nil, 0, false
	}

	taskID, ok := getPathID(r, "id")
	if !ok {
		logger.FromContext(r.Context()).Debug("invalid task id",
			slog.String("value", chi.URLParam(r, "id")))
		HandleAPIError(w, r, service.ErrTaskNotFound, "")
		return nil, 0, false
	}

	return actor, taskID, true
}

// decodeBody decodes the JSON body into v, writing a 400 response on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := shared.DecodeJSON(r, v); err != nil {
		HandleAPIError(w, r, err, "Invalid request format")
		return false
	}
	return true
}
