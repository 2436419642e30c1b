package handler

import (
	"encoding/json"
	"net"
	"net/http"

	"codecrux/internal/api/middleware"
	"codecrux/internal/app/service"
	"codecrux/internal/common"

	"github.com/go-chi/chi/v5"
)

type ExecutionHandler struct {
	executionService *service.ExecutionService
}

func NewExecutionHandler(es *service.ExecutionService) *ExecutionHandler {
	return &ExecutionHandler{executionService: es}
}

func (h *ExecutionHandler) RegisterRoutes(r chi.Router) {
	// Optional auth: anonymous callers may execute but are never credited.
	r.With(middleware.OptionalAuthenticator).Post("/", h.execute)
}

func (h *ExecutionHandler) execute(w http.ResponseWriter, r *http.Request) {
	var req service.ExecuteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	var userID *string
	subject := anonymousSubject(r.RemoteAddr)
	if id, ok := middleware.GetUserIDFromContext(r.Context()); ok {
		userID = &id
		subject = id
	}

	verdict, err := h.executionService.Execute(r.Context(), userID, subject, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, verdict)
}

// anonymousSubject keys rate-limit state for unauthenticated callers by the
// client host alone. RemoteAddr carries an ephemeral port that changes per
// connection; keeping it would hand every reconnect a fresh cooldown slot.
func anonymousSubject(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}
